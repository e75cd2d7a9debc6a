package application

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

// ---------- Errores ----------
var ErrMissingParams = errors.New("missing code or redirect_uri")

// ---------- Interfaces (Ports) ----------

// OAuthExchanger cambia un authorization code por credenciales del proveedor.
// El redirect_uri tiene que coincidir con el usado al iniciar el flujo: el
// proveedor lo exige en el intercambio. La respuesta se devuelve tal cual
// (verbatim): el dashboard del vendedor es quien la interpreta, este
// servicio solo hace de intermediario.
type OAuthExchanger interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (json.RawMessage, error)
}

// ConnectService cubre el flujo "conectar mi cuenta de cobros".
type ConnectService struct {
	oauth OAuthExchanger
	log   *zap.Logger
}

func NewConnectService(oauth OAuthExchanger, log *zap.Logger) *ConnectService {
	return &ConnectService{oauth: oauth, log: log}
}

func (s *ConnectService) ExchangeCode(ctx context.Context, code, redirectURI string) (json.RawMessage, error) {
	if code == "" || redirectURI == "" {
		return nil, ErrMissingParams
	}

	resp, err := s.oauth.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		s.log.Error("fallo intercambiando el authorization code", zap.Error(err))
		return nil, err
	}
	return resp, nil
}
