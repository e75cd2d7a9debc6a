package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/davicafu/quickasset/internal/fulfillment/domain"
)

// SQLiteLedger es el ledger para despliegues locales sin Redis. La primary
// key de la tabla hace el trabajo: el segundo INSERT del mismo evento no
// afecta a ninguna fila.
type SQLiteLedger struct {
	db *sql.DB
}

var _ domain.FulfillmentLedger = (*SQLiteLedger)(nil)

func NewSQLiteLedger(db *sql.DB) *SQLiteLedger {
	return &SQLiteLedger{db: db}
}

// InitSQLite crea la tabla del ledger si no existe.
func InitSQLite(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS processed_events (
            event_id     TEXT PRIMARY KEY,
            processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return fmt.Errorf("failed to create ledger table: %w", err)
	}
	return nil
}

func (l *SQLiteLedger) MarkIfNew(ctx context.Context, eventID string) (bool, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO processed_events (event_id) VALUES (?)`, eventID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get RowsAffected: %w", err)
	}
	return rows > 0, nil
}
