package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/quickasset/internal/connect/application"
)

// stripeConnectBase es el endpoint OAuth de Stripe Connect.
const stripeConnectBase = "https://connect.stripe.com"

// OAuthClient intercambia authorization codes por tokens de la cuenta
// conectada. Form-POST plano, como pide el endpoint OAuth del proveedor.
type OAuthClient struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
	log        *zap.Logger
}

var _ application.OAuthExchanger = (*OAuthClient)(nil)

type ClientOption func(*OAuthClient)

// WithBaseURL apunta el cliente a otro endpoint (tests).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *OAuthClient) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

func NewOAuthClient(httpClient *http.Client, secretKey string, log *zap.Logger, opts ...ClientOption) *OAuthClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	c := &OAuthClient{
		httpClient: httpClient,
		secretKey:  secretKey,
		baseURL:    stripeConnectBase,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExchangeCode hace el POST a /oauth/token y devuelve el JSON del proveedor
// tal cual, también cuando describe un error OAuth (p.ej. code caducado):
// ese JSON es parte del contrato con el dashboard.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code, redirectURI string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("client_secret", c.secretKey)
	params.Set("code", code)
	params.Set("grant_type", "authorization_code")
	// El proveedor rechaza el intercambio si no coincide con el redirect
	// usado al autorizar
	params.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("oauth endpoint returned non-JSON response (%d)", resp.StatusCode)
	}

	c.log.Debug("oauth exchange completado", zap.Int("status", resp.StatusCode))
	return json.RawMessage(body), nil
}
