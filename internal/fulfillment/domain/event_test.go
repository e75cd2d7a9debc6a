package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_SaleEvent(t *testing.T) {
	evt := &VerifiedEvent{
		ID:                 "evt_1",
		Type:               CheckoutSessionCompleted,
		ConnectedAccountID: "acct_123",
		Object:             json.RawMessage(`{"payment_link":"plink_1","customer_details":{"email":"buyer@x.com"}}`),
	}

	intent, isSale, err := Classify(evt)
	assert.NoError(t, err)
	assert.True(t, isSale)
	assert.Equal(t, "plink_1", intent.PaymentLinkID)
	assert.Equal(t, "buyer@x.com", intent.BuyerEmail)
	// ✅ El account id sale del sobre, no del payload anidado
	assert.Equal(t, "acct_123", intent.ConnectedAccountID)
}

func TestClassify_IgnoresOtherEventTypes(t *testing.T) {
	evt := &VerifiedEvent{
		ID:     "evt_2",
		Type:   "invoice.paid",
		Object: json.RawMessage(`{"whatever": true}`),
	}

	intent, isSale, err := Classify(evt)
	assert.NoError(t, err)
	assert.False(t, isSale)
	assert.Nil(t, intent)
}

func TestClassify_NoPaymentLink(t *testing.T) {
	evt := &VerifiedEvent{
		ID:     "evt_3",
		Type:   CheckoutSessionCompleted,
		Object: json.RawMessage(`{"payment_link":null,"customer_details":{"email":"a@b.com"}}`),
	}

	intent, isSale, err := Classify(evt)
	assert.NoError(t, err)
	assert.True(t, isSale)
	assert.Empty(t, intent.PaymentLinkID)
}

func TestClassify_MissingCustomerDetails(t *testing.T) {
	evt := &VerifiedEvent{
		ID:     "evt_4",
		Type:   CheckoutSessionCompleted,
		Object: json.RawMessage(`{"payment_link":"plink_2"}`),
	}

	intent, isSale, err := Classify(evt)
	assert.NoError(t, err)
	assert.True(t, isSale)
	assert.Empty(t, intent.BuyerEmail)
}

func TestClassify_MalformedSalePayload(t *testing.T) {
	evt := &VerifiedEvent{
		ID:     "evt_5",
		Type:   CheckoutSessionCompleted,
		Object: json.RawMessage(`{"payment_link": 42}`),
	}

	_, _, err := Classify(evt)
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestSaleRecord_Fulfillable(t *testing.T) {
	cases := []struct {
		name  string
		email string
		url   string
		want  bool
	}{
		{"completa", "buyer@x.com", "https://x/y", true},
		{"sin email", "", "https://x/y", false},
		{"sin url", "buyer@x.com", "", false},
		{"vacía", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &SaleRecord{BuyerEmail: tc.email, DownloadURL: tc.url}
			assert.Equal(t, tc.want, r.Fulfillable())
		})
	}
}
