package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/davicafu/quickasset/internal/connect/application"
)

// fakeExchanger simula al proveedor OAuth.
type fakeExchanger struct {
	resp        json.RawMessage
	err         error
	code        string // último code recibido
	redirectURI string // último redirect recibido
}

func (f *fakeExchanger) ExchangeCode(ctx context.Context, code, redirectURI string) (json.RawMessage, error) {
	f.code = code
	f.redirectURI = redirectURI
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func setupRouter(exchanger application.OAuthExchanger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := application.NewConnectService(exchanger, zap.NewNop())
	r := gin.New()
	RegisterConnectRoutes(r, NewConnectHandler(service))
	return r
}

func TestExchangeToken_POST(t *testing.T) {
	fake := &fakeExchanger{resp: json.RawMessage(`{"access_token":"sk_live_x","stripe_user_id":"acct_123"}`)}
	r := setupRouter(fake)

	body := `{"code":"ac_456","redirect_uri":"https://dashboard.example.com/connect/return"}`
	req := httptest.NewRequest(nethttp.MethodPost, "/api/exchange-token", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	// Respuesta verbatim del proveedor
	assert.JSONEq(t, `{"access_token":"sk_live_x","stripe_user_id":"acct_123"}`, rec.Body.String())
	assert.Equal(t, "ac_456", fake.code)
	assert.Equal(t, "https://dashboard.example.com/connect/return", fake.redirectURI)
}

func TestExchangeToken_GETWithQueryParam(t *testing.T) {
	fake := &fakeExchanger{resp: json.RawMessage(`{"stripe_user_id":"acct_9"}`)}
	r := setupRouter(fake)

	req := httptest.NewRequest(nethttp.MethodGet, "/api/exchange-token?code=ac_789&redirect_uri=https%3A%2F%2Fapp.example.com%2Freturn", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ac_789", fake.code)
	assert.Equal(t, "https://app.example.com/return", fake.redirectURI)
}

func TestExchangeToken_MissingCode(t *testing.T) {
	r := setupRouter(&fakeExchanger{})

	req := httptest.NewRequest(nethttp.MethodPost, "/api/exchange-token", bytes.NewBufferString(`{"redirect_uri":"https://app.example.com/return"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing code or redirect_uri")
}

func TestExchangeToken_MissingRedirectURI(t *testing.T) {
	fake := &fakeExchanger{}
	r := setupRouter(fake)

	req := httptest.NewRequest(nethttp.MethodPost, "/api/exchange-token", bytes.NewBufferString(`{"code":"ac_456"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing code or redirect_uri")
	// No se llega a llamar al proveedor
	assert.Empty(t, fake.code)
}

func TestExchangeToken_InvalidJSON(t *testing.T) {
	r := setupRouter(&fakeExchanger{})

	req := httptest.NewRequest(nethttp.MethodPost, "/api/exchange-token", bytes.NewBufferString(`{not json`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid JSON")
}

func TestExchangeToken_MethodNotAllowed(t *testing.T) {
	r := setupRouter(&fakeExchanger{})

	req := httptest.NewRequest(nethttp.MethodPut, "/api/exchange-token", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
}

func TestExchangeToken_ProviderFailure(t *testing.T) {
	r := setupRouter(&fakeExchanger{err: errors.New("connect.stripe.com unreachable")})

	req := httptest.NewRequest(nethttp.MethodPost, "/api/exchange-token", bytes.NewBufferString(`{"code":"ac_1","redirect_uri":"https://app.example.com/return"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
}
