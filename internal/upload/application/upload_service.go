package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Mensajes del protocolo de subida cliente→blob store. El browser pide un
// token acotado, sube directo al blob store y este nos avisa al terminar.
const (
	MessageGenerateToken   = "blob.generate-client-token"
	MessageUploadCompleted = "blob.upload-completed"
)

var ErrUnknownMessage = errors.New("unknown upload message type")

// ---------- Interfaces (Ports) ----------

// BlobGateway delega la emisión de tokens en el blob store.
type BlobGateway interface {
	GenerateClientToken(ctx context.Context, pathname, clientPayload string) (string, error)
}

// ---------- Tipos del protocolo ----------

type uploadMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type tokenPayload struct {
	Pathname      string `json:"pathname"`
	ClientPayload string `json:"clientPayload"`
}

type completedPayload struct {
	Blob struct {
		URL      string `json:"url"`
		Pathname string `json:"pathname"`
	} `json:"blob"`
	TokenPayload string `json:"tokenPayload"`
}

// TokenResponse es la respuesta al browser con el token de subida.
type TokenResponse struct {
	Type        string `json:"type"`
	ClientToken string `json:"clientToken"`
}

// CompletedResponse acusa el callback del blob store.
type CompletedResponse struct {
	Response string `json:"response"`
}

// UploadService delega el flujo de subida en el blob store. Todo error
// delegado se propaga para que el handler responda 400.
type UploadService struct {
	gateway BlobGateway
	log     *zap.Logger
}

func NewUploadService(gateway BlobGateway, log *zap.Logger) *UploadService {
	return &UploadService{gateway: gateway, log: log}
}

// HandleMessage despacha un mensaje del protocolo de subida.
func (s *UploadService) HandleMessage(ctx context.Context, body []byte) (interface{}, error) {
	var msg uploadMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("invalid upload message: %w", err)
	}

	switch msg.Type {
	case MessageGenerateToken:
		var payload tokenPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid token payload: %w", err)
		}
		token, err := s.gateway.GenerateClientToken(ctx, payload.Pathname, payload.ClientPayload)
		if err != nil {
			return nil, err
		}
		return TokenResponse{Type: MessageGenerateToken, ClientToken: token}, nil

	case MessageUploadCompleted:
		var payload completedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid completion payload: %w", err)
		}
		s.log.Info("blob uploaded", zap.String("url", payload.Blob.URL))
		return CompletedResponse{Response: "ok"}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}
