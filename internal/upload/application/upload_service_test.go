package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeGateway simula el blob store.
type fakeGateway struct {
	token    string
	err      error
	pathname string
}

func (g *fakeGateway) GenerateClientToken(ctx context.Context, pathname, clientPayload string) (string, error) {
	g.pathname = pathname
	if g.err != nil {
		return "", g.err
	}
	return g.token, nil
}

func TestHandleMessage_GenerateToken(t *testing.T) {
	gw := &fakeGateway{token: "vercel_blob_client_token_abc"}
	service := NewUploadService(gw, zap.NewNop())

	resp, err := service.HandleMessage(context.Background(),
		[]byte(`{"type":"blob.generate-client-token","payload":{"pathname":"assets/ebook.pdf"}}`))
	assert.NoError(t, err)

	tr, ok := resp.(TokenResponse)
	assert.True(t, ok)
	assert.Equal(t, "vercel_blob_client_token_abc", tr.ClientToken)
	assert.Equal(t, "assets/ebook.pdf", gw.pathname)
}

func TestHandleMessage_UploadCompleted(t *testing.T) {
	service := NewUploadService(&fakeGateway{}, zap.NewNop())

	resp, err := service.HandleMessage(context.Background(),
		[]byte(`{"type":"blob.upload-completed","payload":{"blob":{"url":"https://blob/x.pdf"}}}`))
	assert.NoError(t, err)

	cr, ok := resp.(CompletedResponse)
	assert.True(t, ok)
	assert.Equal(t, "ok", cr.Response)
}

func TestHandleMessage_GatewayErrorPropagates(t *testing.T) {
	gw := &fakeGateway{err: errors.New("blob store error (403): invalid token")}
	service := NewUploadService(gw, zap.NewNop())

	_, err := service.HandleMessage(context.Background(),
		[]byte(`{"type":"blob.generate-client-token","payload":{"pathname":"x"}}`))
	assert.Error(t, err)
}

func TestHandleMessage_UnknownType(t *testing.T) {
	service := NewUploadService(&fakeGateway{}, zap.NewNop())

	_, err := service.HandleMessage(context.Background(), []byte(`{"type":"blob.something-else"}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestHandleMessage_InvalidBody(t *testing.T) {
	service := NewUploadService(&fakeGateway{}, zap.NewNop())

	_, err := service.HandleMessage(context.Background(), []byte(`{not json`))
	assert.Error(t, err)
}
