package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/quickasset/internal/fulfillment/domain"
	"github.com/davicafu/quickasset/internal/metrics"
	sharedEvents "github.com/davicafu/quickasset/shared/events"
	sharedBus "github.com/davicafu/quickasset/shared/platform/bus"
)

// FulfillmentService orquesta el pipeline por evento:
// verificar → clasificar → resolver → despachar.
// Cada invocación es independiente y sin estado compartido entre requests;
// el único estado cruzado es el ledger de idempotencia, que es concurrente
// por construcción.
type FulfillmentService struct {
	verifier domain.SignatureVerifier
	links    domain.PaymentLinkRepository
	mailer   domain.EmailSender
	ledger   domain.FulfillmentLedger
	events   sharedBus.EventPublisher // opcional
	log      *zap.Logger

	providerTimeout time.Duration
	emailTimeout    time.Duration
}

// NewFulfillmentService constructor. ledger y events pueden ser nil.
func NewFulfillmentService(
	verifier domain.SignatureVerifier,
	links domain.PaymentLinkRepository,
	mailer domain.EmailSender,
	ledger domain.FulfillmentLedger,
	events sharedBus.EventPublisher,
	providerTimeout, emailTimeout time.Duration,
	log *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		verifier:        verifier,
		links:           links,
		mailer:          mailer,
		ledger:          ledger,
		events:          events,
		providerTimeout: providerTimeout,
		emailTimeout:    emailTimeout,
		log:             log,
	}
}

// Process ejecuta el pipeline completo sobre los bytes crudos de la request.
// Devuelve error solo para eventos inválidos (firma o payload): el handler
// los mapea a 400. Cualquier otro desenlace, incluido un fallo de envío,
// devuelve un outcome con error nil para que el proveedor reciba 200 y deje
// de reintentar una entrega que nunca va a salir distinta.
func (s *FulfillmentService) Process(ctx context.Context, rawBody []byte, signatureHeader string) (domain.FulfillmentOutcome, error) {
	metrics.WebhookEventsTotal.Inc()

	// 1. Verificación sobre los bytes crudos. Sin esto, un evento forjado
	// dispararía un envío real.
	evt, err := s.verifier.Verify(rawBody, signatureHeader)
	if err != nil {
		metrics.WebhookEventsInvalidTotal.Inc()
		s.log.Warn("webhook rechazado", zap.Error(err))
		return domain.FulfillmentOutcome{}, err
	}

	// 2. Clasificación en variantes cerradas.
	intent, isSale, err := domain.Classify(evt)
	if err != nil {
		metrics.WebhookEventsInvalidTotal.Inc()
		s.log.Warn("payload de venta malformado", zap.String("event_id", evt.ID), zap.Error(err))
		return domain.FulfillmentOutcome{}, err
	}
	if !isSale {
		s.log.Debug("evento ignorado", zap.String("event_id", evt.ID), zap.String("type", evt.Type))
		return s.finish(ctx, nil, domain.FulfillmentOutcome{Status: domain.OutcomeIgnored})
	}

	// 3. Protección contra redelivery. El ledger falla abierto: si no está
	// disponible no bloquea la entrega del asset.
	if s.ledger != nil {
		fresh, err := s.ledger.MarkIfNew(ctx, intent.EventID)
		if err != nil {
			s.log.Warn("ledger no disponible, se continúa sin dedupe", zap.Error(err))
		} else if !fresh {
			s.log.Info("entrega duplicada, no se reenvía", zap.String("event_id", intent.EventID))
			return s.finish(ctx, intent, domain.FulfillmentOutcome{Status: domain.OutcomeDuplicate})
		}
	}

	// 4. Resolución de la venta.
	record, outcome, done := s.resolve(ctx, intent)
	if done {
		return s.finish(ctx, intent, outcome)
	}

	// 5. Despacho: como mucho un intento de envío.
	return s.finish(ctx, intent, s.dispatch(ctx, record))
}

// resolve combina el intent con la metadata del payment link. done=true
// significa que el pipeline termina aquí con el outcome devuelto.
func (s *FulfillmentService) resolve(ctx context.Context, intent *domain.SaleIntent) (*domain.SaleRecord, domain.FulfillmentOutcome, bool) {
	// Venta sin payment link: nada que cumplir.
	if intent.PaymentLinkID == "" {
		s.log.Info("venta sin payment link", zap.String("event_id", intent.EventID))
		return nil, domain.FulfillmentOutcome{Status: domain.OutcomeNotApplicable}, true
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	start := time.Now()
	// El scope de cuenta conectada es el quid de la corrección: sin él, el
	// mismo ID de link no resuelve en el namespace del vendedor.
	meta, err := s.links.GetMetadata(lookupCtx, intent.PaymentLinkID, intent.ConnectedAccountID)
	metrics.ProviderRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			s.log.Warn("payment link no encontrado en el scope",
				zap.String("payment_link", intent.PaymentLinkID),
				zap.String("account", intent.ConnectedAccountID),
			)
			return nil, domain.FulfillmentOutcome{Status: domain.OutcomeNotApplicable}, true
		}
		s.log.Error("error recuperando metadata del payment link", zap.Error(err))
		return nil, domain.Failed(err.Error()), true
	}

	return &domain.SaleRecord{
		PaymentLinkID:      intent.PaymentLinkID,
		ConnectedAccountID: intent.ConnectedAccountID,
		BuyerEmail:         intent.BuyerEmail,
		DownloadURL:        meta.DownloadURL,
		AssetTitle:         meta.AssetTitle,
	}, domain.FulfillmentOutcome{}, false
}

// dispatch envía el correo de entrega si la venta es cumplible.
func (s *FulfillmentService) dispatch(ctx context.Context, record *domain.SaleRecord) domain.FulfillmentOutcome {
	if !record.Fulfillable() {
		s.log.Info("venta sin email o sin descarga, no se envía nada",
			zap.String("payment_link", record.PaymentLinkID),
		)
		return domain.FulfillmentOutcome{Status: domain.OutcomeSkippedIncomplete}
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.emailTimeout)
	defer cancel()

	start := time.Now()
	err := s.mailer.Send(sendCtx, buildDeliveryEmail(record))
	metrics.EmailSendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.log.Error("fallo enviando el correo de entrega",
			zap.String("to", record.BuyerEmail),
			zap.Error(err),
		)
		return domain.Failed(err.Error())
	}

	s.log.Info("correo de entrega enviado",
		zap.String("to", record.BuyerEmail),
		zap.String("asset", record.AssetTitle),
	)
	return domain.FulfillmentOutcome{Status: domain.OutcomeSent}
}

// finish registra métricas y publica el evento de integración del desenlace.
func (s *FulfillmentService) finish(ctx context.Context, intent *domain.SaleIntent, outcome domain.FulfillmentOutcome) (domain.FulfillmentOutcome, error) {
	metrics.FulfillmentOutcomesTotal.WithLabelValues(string(outcome.Status)).Inc()

	// Las redeliveries duplicadas no publican: su primera entrega ya emitió
	// el evento de integración correspondiente.
	if s.events != nil && intent != nil && outcome.Status != domain.OutcomeDuplicate {
		var eventType string
		switch outcome.Status {
		case domain.OutcomeSent:
			eventType = domain.SaleFulfilled
		case domain.OutcomeFailed:
			eventType = domain.SaleFailed
		default:
			eventType = domain.SaleSkipped
		}
		ie, err := sharedEvents.NewIntegrationEvent(eventType, domain.SaleFulfilledPayload{
			EventID:            intent.EventID,
			PaymentLinkID:      intent.PaymentLinkID,
			ConnectedAccountID: intent.ConnectedAccountID,
			Outcome:            string(outcome.Status),
			Reason:             outcome.Reason,
		})
		if err == nil {
			err = s.events.Publish(ctx, ie)
		}
		if err != nil {
			// fire-and-forget: la publicación nunca condiciona el ack
			s.log.Warn("no se pudo publicar el evento de integración", zap.Error(err))
		}
	}

	return outcome, nil
}

// buildDeliveryEmail compone el correo transaccional con el enlace de descarga.
func buildDeliveryEmail(record *domain.SaleRecord) domain.EmailMessage {
	return domain.EmailMessage{
		To:      record.BuyerEmail,
		Subject: fmt.Sprintf("Download Your Asset: %s", record.AssetTitle),
		HTML: fmt.Sprintf(`
            <div style="font-family: sans-serif; color: #1e293b; max-width: 500px;">
                <h2 style="color: #0f172a;">Order Confirmed</h2>
                <p>Thank you for your purchase. Your asset is ready for download.</p>

                <p style="margin: 24px 0;">
                    <a href="%[1]s" style="background-color: #F97316; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold; display: inline-block;">
                        Download File
                    </a>
                </p>

                <p style="font-size: 12px; color: #64748b; margin-top: 32px; border-top: 1px solid #e2e8f0; padding-top: 12px;">
                    Link expires in 24 hours.<br>
                    Direct Link: <a href="%[1]s" style="color: #64748b;">%[1]s</a>
                </p>
            </div>`, record.DownloadURL),
	}
}
