package health_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/llmguard/health"
	"github.com/jonwraymond/llmguard/resilience"
)

func ExampleNewBreakerChecker() {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
	})

	checker := health.NewBreakerChecker("anthropic", breaker)
	fmt.Println(checker.Check(context.Background()).Status)

	// Trip the breaker.
	for i := 0; i < 2; i++ {
		_ = breaker.Execute(context.Background(), func(ctx context.Context) error {
			return errors.New("backend failure")
		})
	}
	fmt.Println(checker.Check(context.Background()).Status)
	// Output:
	// healthy
	// unhealthy
}

func ExampleAggregator() {
	agg := health.NewAggregator()
	agg.Register("anthropic", health.NewCheckerFunc("anthropic", func(ctx context.Context) health.Result {
		return health.Healthy("ok")
	}))
	agg.Register("openai", health.NewCheckerFunc("openai", func(ctx context.Context) health.Result {
		return health.Degraded("probing after cooldown")
	}))

	results := agg.CheckAll(context.Background())
	fmt.Println(agg.OverallStatus(results))
	// Output:
	// degraded
}
