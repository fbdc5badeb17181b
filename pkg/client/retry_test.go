package client

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fastPolicy keeps backoffs short so retry tests stay quick.
func fastPolicy(attempts int) func(ErrorClass) RetryConfig {
	return func(ErrorClass) RetryConfig {
		return RetryConfig{
			MaxAttempts:       attempts,
			InitialBackoff:    10 * time.Millisecond,
			MaxBackoff:        40 * time.Millisecond,
			BackoffMultiplier: 2.0,
		}
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != time.Second {
		t.Errorf("InitialBackoff = %v, want 1s", cfg.InitialBackoff)
	}
	if cfg.MaxBackoff != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want 30s", cfg.MaxBackoff)
	}
	if cfg.BackoffMultiplier != 2.0 {
		t.Errorf("BackoffMultiplier = %v, want 2.0", cfg.BackoffMultiplier)
	}
}

func TestRetryConfigForErrorClass(t *testing.T) {
	tests := []struct {
		name           string
		errorClass     ErrorClass
		initialBackoff time.Duration
		maxBackoff     time.Duration
	}{
		{"server", ErrorClassServer, 1 * time.Second, 10 * time.Second},
		{"rate limit", ErrorClassRateLimit, 5 * time.Second, 60 * time.Second},
		{"network", ErrorClassNetwork, 2 * time.Second, 30 * time.Second},
		{"client falls back to default", ErrorClassClient, 1 * time.Second, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RetryConfigForErrorClass(tt.errorClass)
			if cfg.InitialBackoff != tt.initialBackoff {
				t.Errorf("InitialBackoff = %v, want %v", cfg.InitialBackoff, tt.initialBackoff)
			}
			if cfg.MaxBackoff != tt.maxBackoff {
				t.Errorf("MaxBackoff = %v, want %v", cfg.MaxBackoff, tt.maxBackoff)
			}
		})
	}
}

func TestRetryWithBackoff_Success(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), fastPolicy(3), func() (ErrorClass, error) {
		attempts++
		return "", nil
	})

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetryWithBackoff_SuccessAfterRetry(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), fastPolicy(3), func() (ErrorClass, error) {
		attempts++
		if attempts < 3 {
			return ErrorClassServer, errors.New("server error")
		}
		return "", nil
	})

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryWithBackoff_MaxAttemptsExhausted(t *testing.T) {
	attempts := 0
	cause := errors.New("server error")
	err := retryWithBackoff(context.Background(), fastPolicy(3), func() (ErrorClass, error) {
		attempts++
		return ErrorClassServer, cause
	})

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected the last error to stay wrapped, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryWithBackoff_SingleAttemptReturnsCause(t *testing.T) {
	attempts := 0
	cause := errors.New("server error")
	err := retryWithBackoff(context.Background(), fastPolicy(1), func() (ErrorClass, error) {
		attempts++
		return ErrorClassServer, cause
	})

	if err != cause {
		t.Errorf("err = %v, want the unwrapped cause", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetryWithBackoff_ClientErrorNoRetry(t *testing.T) {
	attempts := 0
	cause := errors.New("bad request")
	err := retryWithBackoff(context.Background(), fastPolicy(3), func() (ErrorClass, error) {
		attempts++
		return ErrorClassClient, cause
	})

	if err != cause {
		t.Errorf("err = %v, want %v", err, cause)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (client errors are not retried)", attempts)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := func(ErrorClass) RetryConfig {
		return RetryConfig{MaxAttempts: 3, InitialBackoff: time.Second, MaxBackoff: time.Second, BackoffMultiplier: 2}
	}

	attempts := 0
	start := time.Now()
	err := retryWithBackoff(ctx, policy, func() (ErrorClass, error) {
		attempts++
		cancel()
		return ErrorClassNetwork, errors.New("connection reset")
	})

	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Expected ErrContextCancelled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("cancellation should interrupt the backoff, took %v", elapsed)
	}
}

func TestRetryWithBackoff_ExponentialBackoff(t *testing.T) {
	var stamps []time.Time
	_ = retryWithBackoff(context.Background(), fastPolicy(3), func() (ErrorClass, error) {
		stamps = append(stamps, time.Now())
		return ErrorClassServer, errors.New("server error")
	})

	if len(stamps) != 3 {
		t.Fatalf("attempts = %d, want 3", len(stamps))
	}

	first := stamps[1].Sub(stamps[0])
	second := stamps[2].Sub(stamps[1])

	// 10ms ±20% then 20ms ±20%
	if first < 8*time.Millisecond {
		t.Errorf("first backoff = %v, want >= 8ms", first)
	}
	if second < 16*time.Millisecond {
		t.Errorf("second backoff = %v, want >= 16ms", second)
	}
}

func TestRetryWithBackoff_MaxBackoffCap(t *testing.T) {
	policy := func(ErrorClass) RetryConfig {
		return RetryConfig{MaxAttempts: 4, InitialBackoff: 20 * time.Millisecond, MaxBackoff: 20 * time.Millisecond, BackoffMultiplier: 10}
	}

	var stamps []time.Time
	_ = retryWithBackoff(context.Background(), policy, func() (ErrorClass, error) {
		stamps = append(stamps, time.Now())
		return ErrorClassServer, errors.New("server error")
	})

	if len(stamps) != 4 {
		t.Fatalf("attempts = %d, want 4", len(stamps))
	}
	last := stamps[3].Sub(stamps[2])
	// 20ms cap +20% jitter, generous upper bound for slow CI
	if last > 150*time.Millisecond {
		t.Errorf("capped backoff = %v, want close to 20ms", last)
	}
}
