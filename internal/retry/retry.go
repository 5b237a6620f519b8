// Package retry envuelve una llamada unica con reintentos de backoff exponencial acotado.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Policy describe cuantas veces y con que espera se reintenta una operacion.
type Policy struct {
	// MaxAttempts cuenta la llamada inicial. 1 (o menos) significa sin reintentos.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Multiplier por defecto 2.
	Multiplier float64
	// Retryable decide si un error es transitorio. Nil significa que nada se reintenta.
	Retryable func(error) bool
	Logger    *zap.Logger
	// Sleep permite reemplazar la espera en tests. Debe respetar ctx.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Wrap devuelve op protegida por la politica. El ultimo error se devuelve tal cual, sin envolver,
// para que el caller siga viendo la categoria original.
func Wrap[T any](p Policy, op func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		return Do(ctx, p, op)
	}
}

func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	if p.MaxAttempts <= 1 {
		return op(ctx)
	}

	schedule := p.schedule()
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		res T
		err error
	)
	for attempt := 1; ; attempt++ {
		res, err = op(ctx)
		if err == nil {
			return res, nil
		}
		if attempt >= p.MaxAttempts || p.Retryable == nil || !p.Retryable(err) {
			return res, err
		}

		delay := schedule.NextBackOff()
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
		logger.Warn("retrying llm call after transient failure",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			// contexto cancelado durante la espera: se devuelve el ultimo error real
			return res, err
		}
	}
}

func (p Policy) schedule() *backoff.ExponentialBackOff {
	multiplier := p.Multiplier
	if multiplier <= 1 {
		multiplier = 2
	}
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = backoff.DefaultMaxInterval
	}
	b := &backoff.ExponentialBackOff{
		InitialInterval:     base,
		RandomizationFactor: 0,
		Multiplier:          multiplier,
		MaxInterval:         maxDelay,
	}
	b.Reset()
	return b
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
