package browser

import (
	"testing"

	"stripe-checkout-demo/internal/checkout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResult(t *testing.T) {
	res, err := decodeResult(`{"paymentIntent":{"id":"pi_1","amount":2050,"currency":"usd","status":"requires_payment_method"},"error":null}`)
	require.NoError(t, err)
	assert.Nil(t, res.Error)
	assert.Equal(t, &checkout.PaymentIntent{
		ID:       "pi_1",
		Amount:   2050,
		Currency: "usd",
		Status:   "requires_payment_method",
	}, res.PaymentIntent)

	res, err = decodeResult(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`)
	require.NoError(t, err)
	require.NotNil(t, res.Error)
	assert.True(t, res.Error.UserFacing())
	assert.Equal(t, "Your card was declined.", res.Error.Message)

	_, err = decodeResult(`undefined`)
	assert.Error(t, err)
}
