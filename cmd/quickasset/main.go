package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	connectApp "github.com/davicafu/quickasset/internal/connect/application"
	connectHttp "github.com/davicafu/quickasset/internal/connect/infra/inbound/http"
	connectStripe "github.com/davicafu/quickasset/internal/connect/infra/outbound/stripe"
	config "github.com/davicafu/quickasset/internal/config"
	fulfillApp "github.com/davicafu/quickasset/internal/fulfillment/application"
	fulfillDomain "github.com/davicafu/quickasset/internal/fulfillment/domain"
	fulfillHttp "github.com/davicafu/quickasset/internal/fulfillment/infra/inbound/http"
	"github.com/davicafu/quickasset/internal/fulfillment/infra/outbound/email"
	"github.com/davicafu/quickasset/internal/fulfillment/infra/outbound/ledger"
	fulfillStripe "github.com/davicafu/quickasset/internal/fulfillment/infra/outbound/stripe"
	infraEvents "github.com/davicafu/quickasset/internal/infra/events"
	"github.com/davicafu/quickasset/internal/metrics"
	uploadApp "github.com/davicafu/quickasset/internal/upload/application"
	uploadHttp "github.com/davicafu/quickasset/internal/upload/infra/inbound/http"
	uploadBlob "github.com/davicafu/quickasset/internal/upload/infra/outbound/blob"
	"github.com/davicafu/quickasset/pkg/logger"
	sharedBus "github.com/davicafu/quickasset/shared/platform/bus"

	_ "modernc.org/sqlite"
)

// ---------------- Main ----------------
func main() {
	logger.Init()          // inicializa zap
	log := logger.Logger() // obtiene logger estructurado
	defer log.Sync()       // flush buffers al salir

	ctx := context.Background()
	cfg := config.LoadConfig()

	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		log.Fatal("STRIPE_SECRET_KEY y STRIPE_WEBHOOK_SECRET son obligatorios")
	}

	metrics.Register()

	// ------------ Ledger de idempotencia ------------
	// Redis si está disponible; si no, SQLite local; en última instancia,
	// un ledger en memoria (best-effort, no sobrevive reinicios).
	var ledgerInstance fulfillDomain.FulfillmentLedger
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err == nil {
		ledgerInstance = ledger.NewRedisLedger(rdb, cfg.LedgerTTL)
		log.Info("✅ Redis conectado, ledger de idempotencia habilitado")
	} else {
		log.Warn("⚠️ Redis no disponible, se intenta ledger SQLite", zap.Error(err))
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err == nil {
			err = ledger.InitSQLite(db)
		}
		if err == nil {
			defer db.Close()
			ledgerInstance = ledger.NewSQLiteLedger(db)
			log.Info("✅ Ledger SQLite inicializado", zap.String("path", cfg.SQLitePath))
		} else {
			log.Warn("⚠️ SQLite no disponible, ledger en memoria", zap.Error(err))
			memLedger := ledger.NewInMemoryLedger(cfg.LedgerTTL, time.Hour)
			defer memLedger.Stop()
			ledgerInstance = memLedger
		}
	}

	// ---------------- Events ----------------
	var eventPublisher sharedBus.EventPublisher

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		writer := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   fulfillDomain.FulfillmentTopic,
		})
		defer writer.Close()

		eventPublisher = infraEvents.NewKafkaPublisher(writer, log)
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		inMemoryBus := infraEvents.NewInMemoryEventBus(fulfillDomain.FulfillmentTopic)
		eventPublisher = inMemoryBus

		// Oyente de auditoría: deja rastro de cada desenlace del pipeline
		eventsChannel := inMemoryBus.Subscribe(64)
		go func() {
			for evt := range eventsChannel {
				log.Debug("evento de integración", zap.Any("event", evt))
			}
		}()
	}

	// --------------- Adapters ---------------
	verifier := fulfillStripe.NewVerifier(cfg.StripeWebhookSecret, cfg.SignatureTolerance)
	linkRepo := fulfillStripe.NewPaymentLinkRepo(nil, cfg.StripeSecretKey, log)

	mailer, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom, log)
	if err != nil {
		log.Fatal("failed to build email sender", zap.Error(err))
	}

	oauthClient := connectStripe.NewOAuthClient(nil, cfg.StripeSecretKey, log)
	blobClient := uploadBlob.NewClient(nil, cfg.BlobAPIURL, cfg.BlobToken, log)

	// --------------- Servicios ---------------
	fulfillmentService := fulfillApp.NewFulfillmentService(
		verifier, linkRepo, mailer, ledgerInstance, eventPublisher,
		cfg.ProviderTimeout, cfg.EmailTimeout, log,
	)
	connectService := connectApp.NewConnectService(oauthClient, log)
	uploadService := uploadApp.NewUploadService(blobClient, log)

	// ---------------- HTTP ----------------
	router := gin.Default()
	fulfillHttp.RegisterWebhookRoutes(router, fulfillHttp.NewWebhookHandler(fulfillmentService))
	connectHttp.RegisterConnectRoutes(router, connectHttp.NewConnectHandler(connectService))
	uploadHttp.RegisterUploadRoutes(router, uploadHttp.NewUploadHandler(uploadService))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
