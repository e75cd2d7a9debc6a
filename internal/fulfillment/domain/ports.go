package domain

import (
	"context"
	"errors"
)

// ---------- Errores de dominio ----------
var (
	// ErrInvalidSignature: firma ausente, malformada, no coincidente o
	// expirada. Fatal para la request; nada del pipeline corre sin verificar.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrMalformedEvent: el payload verificado no tiene la forma esperada.
	ErrMalformedEvent = errors.New("malformed event payload")

	// ErrLinkNotFound: la búsqueda (con el scope correspondiente) no
	// encontró el payment link. Se trata como hueco de resolución, no error duro.
	ErrLinkNotFound = errors.New("payment link not found")
)

// ---------- Interfaces (Ports) ----------

// SignatureVerifier valida que el payload entrante salió realmente del
// proveedor de pagos. Trabaja sobre los bytes crudos de la request: verificar
// sobre un body re-serializado invalida la firma.
type SignatureVerifier interface {
	// Debe devolver un error que envuelva ErrInvalidSignature ante cualquier
	// problema de firma, y ErrMalformedEvent si el sobre no decodifica.
	Verify(rawBody []byte, signatureHeader string) (*VerifiedEvent, error)
}

// PaymentLinkRepository recupera la metadata que el vendedor adjuntó a un
// payment link. connectedAccountID NO puede omitirse cuando la venta ocurrió
// bajo una cuenta conectada: cada cuenta es un namespace aislado y el mismo
// ID de link no resuelve (o resuelve mal) sin el scope.
type PaymentLinkRepository interface {
	// Debe devolver ErrLinkNotFound si el link no existe en ese scope.
	GetMetadata(ctx context.Context, linkID, connectedAccountID string) (*LinkMetadata, error)
}

// EmailMessage es el correo transaccional de entrega.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// EmailSender envía el correo. Un solo intento por invocación.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// FulfillmentLedger protege contra la redelivery at-least-once del proveedor.
type FulfillmentLedger interface {
	// MarkIfNew registra el evento y devuelve true si es la primera vez que
	// se ve. false significa entrega duplicada: no volver a enviar el correo.
	MarkIfNew(ctx context.Context, eventID string) (bool, error)
}
