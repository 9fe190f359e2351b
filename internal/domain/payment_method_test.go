package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paymentMethodsJSON = `{
	"paymentMethods": [
		{"type": "giftcard", "name": "Gift Card", "brand": "genericgiftcard", "transactionLimit": {"value": 100000, "currency": "EUR"}},
		{"type": "scheme", "name": "Cards"},
		{"type": "ideal", "name": "iDEAL", "issuers": [{"id": "1121", "name": "Test Issuer"}]},
		{"type": "hypothetical_new_method", "name": "Something New", "futureField": {"a": 1}},
		{"type": "mbway", "name": "MB WAY"}
	],
	"storedPaymentMethods": [
		{"id": "8415", "type": "scheme", "name": "VISA", "lastFour": "1111", "expiryMonth": "03", "expiryYear": "2030"}
	]
}`

func TestDecodePaymentMethods_PreservesServerOrder(t *testing.T) {
	methods, err := DecodePaymentMethods([]byte(paymentMethodsJSON))
	require.NoError(t, err)
	require.Len(t, methods.Methods, 5)

	assert.Equal(t, "giftcard", methods.Methods[0].Type)
	assert.Equal(t, "scheme", methods.Methods[1].Type)
	assert.Equal(t, "ideal", methods.Methods[2].Type)
	assert.Equal(t, "hypothetical_new_method", methods.Methods[3].Type)
	assert.Equal(t, "mbway", methods.Methods[4].Type)
}

func TestDecodePaymentMethods_UnknownTypeIsNotAnError(t *testing.T) {
	methods, err := DecodePaymentMethods([]byte(paymentMethodsJSON))
	require.NoError(t, err)

	unknown := methods.Methods[3]
	assert.Equal(t, KindUnknown, unknown.Kind())
	assert.Equal(t, "Something New", unknown.Name)
}

func TestDecodePaymentMethods_VariantClassification(t *testing.T) {
	methods, err := DecodePaymentMethods([]byte(paymentMethodsJSON))
	require.NoError(t, err)

	assert.Equal(t, KindGiftCard, methods.Methods[0].Kind())
	assert.Equal(t, KindCard, methods.Methods[1].Kind())
	assert.Equal(t, KindBankRedirect, methods.Methods[2].Kind())
	assert.Equal(t, KindPhoneBased, methods.Methods[4].Kind())
}

func TestDecodePaymentMethods_VariantFields(t *testing.T) {
	methods, err := DecodePaymentMethods([]byte(paymentMethodsJSON))
	require.NoError(t, err)

	giftCard := methods.Methods[0]
	require.NotNil(t, giftCard.TransactionLimit)
	assert.Equal(t, int64(100000), giftCard.TransactionLimit.Value)

	ideal := methods.Methods[2]
	require.Len(t, ideal.Issuers, 1)
	assert.Equal(t, "1121", ideal.Issuers[0].ID)

	require.Len(t, methods.Stored, 1)
	stored := methods.Stored[0]
	assert.Equal(t, "8415", stored.ID)
	require.NotNil(t, stored.LastFour)
	assert.Equal(t, "1111", *stored.LastFour)
}

func TestDecodePaymentMethods_MissingTypeFails(t *testing.T) {
	_, err := DecodePaymentMethods([]byte(`{"paymentMethods": [{"name": "No Type"}]}`))
	require.Error(t, err)
	assert.True(t, IsDecodingError(err))
}

func TestDecodePaymentMethods_MissingNameFails(t *testing.T) {
	_, err := DecodePaymentMethods([]byte(`{"paymentMethods": [{"type": "scheme"}]}`))
	require.Error(t, err)
	assert.True(t, IsDecodingError(err))
}

func TestPaymentMethods_Lookup(t *testing.T) {
	methods, err := DecodePaymentMethods([]byte(paymentMethodsJSON))
	require.NoError(t, err)

	byType := methods.MethodOfType("ideal")
	require.NotNil(t, byType)
	assert.Equal(t, "iDEAL", byType.Name)

	byKind := methods.MethodOfKind(KindGiftCard)
	require.NotNil(t, byKind)
	assert.Equal(t, "Gift Card", byKind.Name)

	assert.Nil(t, methods.MethodOfType("nope"))
	assert.Nil(t, methods.MethodOfKind(KindAlreadyPaid))
}

func TestPaymentMethod_RoundTripKeepsUnknownFields(t *testing.T) {
	raw := []byte(`{"type": "hypothetical_new_method", "name": "Something New", "futureField": {"a": 1}}`)

	var method PaymentMethod
	require.NoError(t, json.Unmarshal(raw, &method))

	encoded, err := json.Marshal(method)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(encoded))
}

func TestPaymentMethod_DecodeIsIdempotent(t *testing.T) {
	var first, second PaymentMethods
	require.NoError(t, json.Unmarshal([]byte(paymentMethodsJSON), &first))
	require.NoError(t, json.Unmarshal([]byte(paymentMethodsJSON), &second))
	assert.Equal(t, first, second)
}

func TestPaymentMethod_DisplayName(t *testing.T) {
	lastFour := "1111"
	withCard := PaymentMethod{Type: "scheme", Name: "VISA", LastFour: &lastFour}
	assert.Equal(t, "VISA •••• 1111", withCard.DisplayName())

	plain := PaymentMethod{Type: "ideal", Name: "iDEAL"}
	assert.Equal(t, "iDEAL", plain.DisplayName())
}
