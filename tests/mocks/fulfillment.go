// Package mocks contiene dobles de test hechos a mano para los puertos del
// pipeline. Los campos exportados (Links, Err, ...) se fijan en el setup del
// test, antes de compartir el mock; una vez en uso, todo acceso pasa por el
// mutex de cada doble.
package mocks

import (
	"context"
	"sync"

	"github.com/davicafu/quickasset/internal/fulfillment/domain"
)

// StaticVerifier devuelve siempre el mismo resultado; simula al proveedor
// sin tocar criptografía en los tests de aplicación.
type StaticVerifier struct {
	Event *domain.VerifiedEvent
	Err   error
}

func (v *StaticVerifier) Verify(rawBody []byte, signatureHeader string) (*domain.VerifiedEvent, error) {
	if v.Err != nil {
		return nil, v.Err
	}
	return v.Event, nil
}

// LinkLookup registra cada llamada al repositorio de payment links.
type LinkLookup struct {
	LinkID             string
	ConnectedAccountID string
}

// InMemoryLinkRepo simula PaymentLinkRepository. Las entradas se indexan por
// (cuenta, link): igual que en el proveedor real, un link de una cuenta
// conectada NO resuelve sin su scope.
type InMemoryLinkRepo struct {
	Links map[LinkLookup]domain.LinkMetadata
	Calls []LinkLookup
	Err   error // si se fija, toda búsqueda falla con este error
	mu    sync.Mutex
}

func NewInMemoryLinkRepo() *InMemoryLinkRepo {
	return &InMemoryLinkRepo{Links: make(map[LinkLookup]domain.LinkMetadata)}
}

func (r *InMemoryLinkRepo) Add(accountID, linkID string, meta domain.LinkMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Links[LinkLookup{LinkID: linkID, ConnectedAccountID: accountID}] = meta
}

func (r *InMemoryLinkRepo) GetMetadata(ctx context.Context, linkID, connectedAccountID string) (*domain.LinkMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := LinkLookup{LinkID: linkID, ConnectedAccountID: connectedAccountID}
	r.Calls = append(r.Calls, call)

	if r.Err != nil {
		return nil, r.Err
	}
	meta, ok := r.Links[call]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	return &meta, nil
}

// RecordingMailer captura los correos enviados.
type RecordingMailer struct {
	Sent []domain.EmailMessage
	Err  error
	mu   sync.Mutex
}

func (m *RecordingMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// MemoryLedger simula FulfillmentLedger.
type MemoryLedger struct {
	Seen map[string]bool
	Err  error
	mu   sync.Mutex
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{Seen: make(map[string]bool)}
}

func (l *MemoryLedger) MarkIfNew(ctx context.Context, eventID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return false, l.Err
	}
	if l.Seen[eventID] {
		return false, nil
	}
	l.Seen[eventID] = true
	return true, nil
}

// DummyPublisher captura los eventos de integración publicados.
type DummyPublisher struct {
	Published []interface{}
	mu        sync.Mutex
}

func (p *DummyPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published = append(p.Published, event)
	return nil
}
