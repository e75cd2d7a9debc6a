package domain

import (
	"encoding/json"
	"fmt"
)

// VerifiedEvent es la decodificación confiable de un evento del proveedor.
// Solo lo construye un SignatureVerifier después de validar la firma sobre
// los bytes crudos de la request; nunca se crea a partir de input sin verificar.
type VerifiedEvent struct {
	ID   string
	Type string

	// ConnectedAccountID viene del campo `account` del sobre del evento
	// (no del payload anidado). Vacío cuando la venta ocurrió en la cuenta
	// de la plataforma en lugar de una cuenta conectada de un vendedor.
	ConnectedAccountID string

	// Object es el data.object opaco del evento, sin re-serializar.
	Object json.RawMessage
}

// checkoutSession es la variante cerrada del data.object de una venta
// completada. Cualquier otro tipo de evento nunca llega a decodificarse.
type checkoutSession struct {
	PaymentLink     string           `json:"payment_link"`
	CustomerDetails *customerDetails `json:"customer_details"`
}

type customerDetails struct {
	Email string `json:"email"`
}

// SaleIntent representa un evento clasificado como venta completada,
// listo para resolverse contra la cuenta correcta.
type SaleIntent struct {
	EventID            string
	ConnectedAccountID string
	PaymentLinkID      string
	BuyerEmail         string
}

// Classify decide si el evento verificado representa una venta completada.
// Devuelve (nil, false, nil) para tipos de evento que se ignoran a propósito:
// el proveedor no debe reintentar eventos sobre los que no actuamos.
// Un payload de venta con forma inválida falla rápido con ErrMalformedEvent.
func Classify(evt *VerifiedEvent) (*SaleIntent, bool, error) {
	if evt.Type != CheckoutSessionCompleted {
		return nil, false, nil
	}

	var session checkoutSession
	if err := json.Unmarshal(evt.Object, &session); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	intent := &SaleIntent{
		EventID:            evt.ID,
		ConnectedAccountID: evt.ConnectedAccountID,
		PaymentLinkID:      session.PaymentLink,
	}
	if session.CustomerDetails != nil {
		intent.BuyerEmail = session.CustomerDetails.Email
	}
	return intent, true, nil
}
