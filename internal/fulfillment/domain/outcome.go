package domain

// OutcomeStatus enumera los estados terminales del pipeline por evento:
// Received → Verified → Classified → Resolved → Dispatched.
// Ninguna etapa se reintenta internamente; la redelivery es cosa del proveedor.
type OutcomeStatus string

const (
	OutcomeSent              OutcomeStatus = "sent"
	OutcomeSkippedIncomplete OutcomeStatus = "skipped_incomplete"
	OutcomeFailed            OutcomeStatus = "failed"
	OutcomeIgnored           OutcomeStatus = "ignored"
	OutcomeNotApplicable     OutcomeStatus = "not_applicable"
	OutcomeDuplicate         OutcomeStatus = "duplicate"
)

// FulfillmentOutcome es el resultado de procesar un evento. El handler HTTP
// lo mapea a la respuesta: todos los estados acusan 200 al proveedor, incluso
// Failed, para no provocar tormentas de reintentos sobre fallos no reintentables.
type FulfillmentOutcome struct {
	Status OutcomeStatus
	Reason string // solo informativo, presente en Failed
}

func Failed(reason string) FulfillmentOutcome {
	return FulfillmentOutcome{Status: OutcomeFailed, Reason: reason}
}
