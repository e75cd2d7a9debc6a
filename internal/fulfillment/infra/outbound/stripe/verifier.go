package stripe

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/davicafu/quickasset/internal/fulfillment/domain"
)

// Verifier implementa domain.SignatureVerifier con la verificación de firmas
// de stripe-go: HMAC-SHA256 sobre los bytes crudos más ventana de tolerancia
// del timestamp. El sobre se decodifica DESPUÉS de verificar, nunca antes.
type Verifier struct {
	secret    string
	tolerance time.Duration
}

// Verificación estática
var _ domain.SignatureVerifier = (*Verifier)(nil)

func NewVerifier(secret string, tolerance time.Duration) *Verifier {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &Verifier{secret: secret, tolerance: tolerance}
}

// envelope es el sobre del evento tal y como lo manda Stripe. El campo
// `account` identifica la cuenta conectada en cuyo nombre se emitió el evento.
type envelope struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Account string `json:"account"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

func (v *Verifier) Verify(rawBody []byte, signatureHeader string) (*domain.VerifiedEvent, error) {
	if err := webhook.ValidatePayloadWithTolerance(rawBody, signatureHeader, v.secret, v.tolerance); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	var env envelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
	}
	if env.ID == "" || env.Type == "" {
		return nil, fmt.Errorf("%w: missing event id or type", domain.ErrMalformedEvent)
	}

	return &domain.VerifiedEvent{
		ID:                 env.ID,
		Type:               env.Type,
		ConnectedAccountID: env.Account,
		Object:             env.Data.Object,
	}, nil
}
