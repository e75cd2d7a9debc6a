package utils

import (
	"context"
	"time"
)

// Retry ejecuta una función con reintentos configurables.
// El pipeline de fulfillment NO lo usa: cada entrega se intenta una sola vez
// y la redelivery queda en manos del proveedor. Solo lo usan los adapters
// de publicación de eventos de integración.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		select {
		case <-time.After(delay):
			// espera antes del siguiente intento
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
