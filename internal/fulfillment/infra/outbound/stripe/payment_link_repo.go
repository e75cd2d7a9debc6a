package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/davicafu/quickasset/internal/fulfillment/domain"
)

// stripeAPIBase es la URL base de la API de Stripe.
// Sobreescribible en tests vía WithBaseURL.
const stripeAPIBase = "https://api.stripe.com"

// PaymentLinkRepo implementa domain.PaymentLinkRepository contra la API REST
// de Stripe con un http.Client normal: un servidor httptest puede hacer de
// Stripe en los tests, y la cabecera de scope queda a la vista.
type PaymentLinkRepo struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
	log        *zap.Logger
}

var _ domain.PaymentLinkRepository = (*PaymentLinkRepo)(nil)

type RepoOption func(*PaymentLinkRepo)

// WithBaseURL apunta el repo a otro endpoint (tests).
func WithBaseURL(baseURL string) RepoOption {
	return func(r *PaymentLinkRepo) { r.baseURL = strings.TrimSuffix(baseURL, "/") }
}

func NewPaymentLinkRepo(httpClient *http.Client, secretKey string, log *zap.Logger, opts ...RepoOption) *PaymentLinkRepo {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	r := &PaymentLinkRepo{
		httpClient: httpClient,
		secretKey:  secretKey,
		baseURL:    stripeAPIBase,
		log:        log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// paymentLink es la respuesta de GET /v1/payment_links/{id}; solo nos
// interesa la metadata que el vendedor adjuntó al link.
type paymentLink struct {
	ID       string            `json:"id"`
	Metadata map[string]string `json:"metadata"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetMetadata recupera la metadata del payment link. Cuando la venta ocurrió
// bajo una cuenta conectada, la petición lleva la cabecera Stripe-Account:
// sin ella, el link no existe en el namespace consultado aunque el ID sea
// sintácticamente válido.
func (r *PaymentLinkRepo) GetMetadata(ctx context.Context, linkID, connectedAccountID string) (*domain.LinkMetadata, error) {
	url := fmt.Sprintf("%s/v1/payment_links/%s", r.baseURL, linkID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+r.secretKey)
	req.Header.Set("Stripe-Version", stripe.APIVersion)
	if connectedAccountID != "" {
		req.Header.Set("Stripe-Account", connectedAccountID)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrLinkNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("stripe error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("stripe error (%d)", resp.StatusCode)
	}

	var link paymentLink
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return nil, fmt.Errorf("failed to decode payment link response: %w", err)
	}

	r.log.Debug("payment link recuperado",
		zap.String("payment_link", link.ID),
		zap.String("account", connectedAccountID),
	)

	return &domain.LinkMetadata{
		DownloadURL: link.Metadata["downloadUrl"],
		AssetTitle:  link.Metadata["assetTitle"],
	}, nil
}
