package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/davicafu/quickasset/internal/fulfillment/domain"
)

// RedisLedger implementa el ledger de idempotencia con SETNX + TTL.
// La clave vive lo que dura la ventana de reintentos del proveedor; pasado
// ese tiempo una redelivery es imposible y la entrada puede expirar.
type RedisLedger struct {
	client *redis.Client
	ttl    time.Duration
}

var _ domain.FulfillmentLedger = (*RedisLedger)(nil)

func NewRedisLedger(client *redis.Client, ttl time.Duration) *RedisLedger {
	return &RedisLedger{client: client, ttl: ttl}
}

func ledgerKey(eventID string) string {
	return fmt.Sprintf("fulfillment:event:%s", eventID)
}

func (l *RedisLedger) MarkIfNew(ctx context.Context, eventID string) (bool, error) {
	return l.client.SetNX(ctx, ledgerKey(eventID), 1, l.ttl).Result()
}
