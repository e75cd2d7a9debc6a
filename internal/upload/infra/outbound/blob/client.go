package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/davicafu/quickasset/internal/upload/application"
)

// Client emite tokens de subida acotados contra el blob store, usando el
// token de despliegue como credencial. El browser nunca ve ese token: solo
// recibe el client token de un solo uso y con pathname fijo.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        *zap.Logger
}

var _ application.BlobGateway = (*Client)(nil)

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

func NewClient(httpClient *http.Client, baseURL, token string, log *zap.Logger, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenRequest struct {
	Pathname string `json:"pathname"`
	Payload  string `json:"payload,omitempty"`
}

type tokenResponse struct {
	Token string `json:"token"`
	Error string `json:"error"`
}

func (c *Client) GenerateClientToken(ctx context.Context, pathname, clientPayload string) (string, error) {
	body, err := json.Marshal(tokenRequest{Pathname: pathname, Payload: clientPayload})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/client-tokens", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("blob store request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode blob store response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if tr.Error != "" {
			return "", fmt.Errorf("blob store error (%d): %s", resp.StatusCode, tr.Error)
		}
		return "", fmt.Errorf("blob store error (%d)", resp.StatusCode)
	}

	c.log.Debug("client token emitido", zap.String("pathname", pathname))
	return tr.Token, nil
}
