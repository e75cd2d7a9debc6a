package stripe

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/davicafu/quickasset/internal/fulfillment/domain"
)

const testSecret = "whsec_test_secret"

// signPayload genera una cabecera Stripe-Signature válida para el payload.
func signPayload(t *testing.T, payload []byte, at time.Time) string {
	t.Helper()
	sig := webhook.ComputeSignature(at, payload, testSecret)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(sig))
}

func TestVerify_ValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","account":"acct_123","data":{"object":{"payment_link":"plink_1"}}}`)
	v := NewVerifier(testSecret, 5*time.Minute)

	evt, err := v.Verify(payload, signPayload(t, payload, time.Now()))
	assert.NoError(t, err)
	assert.Equal(t, "evt_1", evt.ID)
	assert.Equal(t, "checkout.session.completed", evt.Type)
	assert.Equal(t, "acct_123", evt.ConnectedAccountID)
	assert.JSONEq(t, `{"payment_link":"plink_1"}`, string(evt.Object))
}

func TestVerify_PlatformAccountEventHasNoScope(t *testing.T) {
	payload := []byte(`{"id":"evt_2","type":"checkout.session.completed","data":{"object":{}}}`)
	v := NewVerifier(testSecret, 5*time.Minute)

	evt, err := v.Verify(payload, signPayload(t, payload, time.Now()))
	assert.NoError(t, err)
	assert.Empty(t, evt.ConnectedAccountID)
}

func TestVerify_TamperedBody(t *testing.T) {
	payload := []byte(`{"id":"evt_3","type":"checkout.session.completed","data":{"object":{}}}`)
	header := signPayload(t, payload, time.Now())

	// El atacante altera el body después de firmar
	tampered := []byte(`{"id":"evt_3","type":"checkout.session.completed","data":{"object":{"payment_link":"plink_evil"}}}`)

	v := NewVerifier(testSecret, 5*time.Minute)
	_, err := v.Verify(tampered, header)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerify_MissingHeader(t *testing.T) {
	v := NewVerifier(testSecret, 5*time.Minute)
	_, err := v.Verify([]byte(`{}`), "")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerify_ExpiredTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_4","type":"checkout.session.completed","data":{"object":{}}}`)
	// Firmado fuera de la ventana de tolerancia
	header := signPayload(t, payload, time.Now().Add(-time.Hour))

	v := NewVerifier(testSecret, 5*time.Minute)
	_, err := v.Verify(payload, header)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerify_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_5","type":"checkout.session.completed","data":{"object":{}}}`)
	at := time.Now()
	sig := webhook.ComputeSignature(at, payload, "whsec_other")
	header := fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(sig))

	v := NewVerifier(testSecret, 5*time.Minute)
	_, err := v.Verify(payload, header)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestVerify_ValidSignatureButMalformedEnvelope(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`) // sin id
	v := NewVerifier(testSecret, 5*time.Minute)

	_, err := v.Verify(payload, signPayload(t, payload, time.Now()))
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}
