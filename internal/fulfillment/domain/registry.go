package domain

// Tipo de evento del proveedor que reconocemos como venta completada.
// Todos los demás tipos terminan en OutcomeIgnored.
const CheckoutSessionCompleted = "checkout.session.completed"

// Eventos de integración que publica el pipeline. Cada desenlace terminal
// tiene su propio tipo para que los consumidores puedan filtrar por topic
// sin inspeccionar el payload. Las entregas duplicadas no publican nada:
// el evento original ya salió en la primera entrega.
const (
	SaleFulfilled = "sale.fulfilled"
	SaleSkipped   = "sale.skipped"
	SaleFailed    = "sale.failed"
)

const FulfillmentTopic = "fulfillment"

// SaleFulfilledPayload es el payload de los eventos de integración.
type SaleFulfilledPayload struct {
	EventID            string `json:"event_id"`
	PaymentLinkID      string `json:"payment_link_id"`
	ConnectedAccountID string `json:"connected_account_id,omitempty"`
	Outcome            string `json:"outcome"`
	Reason             string `json:"reason,omitempty"`
}
