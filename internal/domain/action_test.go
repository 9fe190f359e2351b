package domain

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_DecodeRedirect(t *testing.T) {
	var action Action
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type": "redirect", "url": "https://bank.example.com/auth", "method": "GET", "paymentData": "pd-123"}`),
		&action,
	))
	assert.Equal(t, ActionTypeRedirect, action.Type)

	redirect, err := action.Redirect()
	require.NoError(t, err)
	assert.Equal(t, "https://bank.example.com/auth", redirect.URL)
	assert.Equal(t, "GET", redirect.Method)
	assert.Equal(t, "pd-123", redirect.PaymentData)
}

func TestAction_RedirectDefaultsToGET(t *testing.T) {
	var action Action
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type": "redirect", "url": "https://bank.example.com/auth"}`),
		&action,
	))

	redirect, err := action.Redirect()
	require.NoError(t, err)
	assert.Equal(t, "GET", redirect.Method)
}

func TestAction_RedirectMissingURLFails(t *testing.T) {
	var action Action
	require.NoError(t, json.Unmarshal([]byte(`{"type": "redirect"}`), &action))

	_, err := action.Redirect()
	require.Error(t, err)
	assert.True(t, IsDecodingError(err))
}

func TestAction_MissingTypeFails(t *testing.T) {
	var action Action
	err := json.Unmarshal([]byte(`{"url": "https://bank.example.com"}`), &action)
	require.Error(t, err)
	assert.True(t, IsDecodingError(err))
}

func TestAction_UnknownTypeDecodes(t *testing.T) {
	// Unknown action types are rejected at dispatch time, never at decode time.
	var action Action
	require.NoError(t, json.Unmarshal([]byte(`{"type": "voiceAuthorization"}`), &action))
	assert.Equal(t, ActionType("voiceAuthorization"), action.Type)
}

func TestAction_DecodeThreeDS2Variants(t *testing.T) {
	var fingerprint Action
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type": "threeDS2Fingerprint", "token": "fp-token", "paymentData": "pd"}`),
		&fingerprint,
	))
	fp, err := fingerprint.ThreeDS2Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, "fp-token", fp.Token)

	var challenge Action
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type": "threeDS2Challenge", "token": "ch-token", "paymentData": "pd"}`),
		&challenge,
	))
	ch, err := challenge.ThreeDS2Challenge()
	require.NoError(t, err)
	assert.Equal(t, "ch-token", ch.Token)

	_, err = fingerprint.Redirect()
	require.Error(t, err, "fingerprint payload has no url")
}

func TestAction_ThreeDS2MissingTokenFails(t *testing.T) {
	var action Action
	require.NoError(t, json.Unmarshal([]byte(`{"type": "threeDS2Fingerprint"}`), &action))

	_, err := action.ThreeDS2Fingerprint()
	require.Error(t, err)
	assert.True(t, IsDecodingError(err))
}

func TestAction_DecodeSDK(t *testing.T) {
	var action Action
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type": "sdk", "paymentMethodType": "wechatpaySDK", "sdkData": {"appid": "wx123"}}`),
		&action,
	))

	sdk, err := action.SDK()
	require.NoError(t, err)
	assert.Equal(t, "wechatpaySDK", sdk.PaymentMethodType)
	assert.JSONEq(t, `{"appid": "wx123"}`, string(sdk.SDKData))
}

func TestAction_DecodeAwait(t *testing.T) {
	var action Action
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type": "await", "paymentMethodType": "blik", "paymentData": "pd-await"}`),
		&action,
	))

	await, err := action.Await()
	require.NoError(t, err)
	assert.Equal(t, "pd-await", await.PaymentData)
}

func TestAction_RoundTrip(t *testing.T) {
	raw := []byte(`{"type": "redirect", "url": "https://bank.example.com/auth", "method": "POST", "futureField": true}`)

	var action Action
	require.NoError(t, json.Unmarshal(raw, &action))

	encoded, err := json.Marshal(action)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(encoded))
}

func TestDecodeChallengeToken(t *testing.T) {
	payload := map[string]string{
		"acsReferenceNumber":   "ACS-REF",
		"acsSignedContent":     "signed-content",
		"acsTransID":           "acs-trans-id",
		"threeDSServerTransID": "server-trans-id",
	}
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	token, err := DecodeChallengeToken(base64.StdEncoding.EncodeToString(encoded))
	require.NoError(t, err)
	assert.Equal(t, "ACS-REF", token.ACSReferenceNumber)
	assert.Equal(t, "signed-content", token.ACSSignedContent)
	assert.Equal(t, "acs-trans-id", token.ACSTransactionIdentifier)
	assert.Equal(t, "server-trans-id", token.ServerTransactionIdentifier)
}

func TestDecodeFingerprintToken(t *testing.T) {
	payload := map[string]string{
		"directoryServerId":        "A000000003",
		"directoryServerPublicKey": "key",
		"threeDSServerTransID":     "server-trans-id",
		"threeDSMessageVersion":    "2.2.0",
	}
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	token, err := DecodeFingerprintToken(base64.StdEncoding.EncodeToString(encoded))
	require.NoError(t, err)
	assert.Equal(t, "2.2.0", token.MessageVersion)
	assert.Equal(t, "server-trans-id", token.ServerTransactionIdentifier)
}

func TestDecodeChallengeToken_InvalidBase64Fails(t *testing.T) {
	_, err := DecodeChallengeToken("not base64 at all!!!")
	require.Error(t, err)
	assert.True(t, IsDecodingError(err))
}
