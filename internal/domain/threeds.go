package domain

import (
	"encoding/base64"
	"encoding/json"
)

// ChallengeToken is the internal representation of a 3DS2 challenge token.
// Both the legacy and the current wire encodings translate into this one
// shape before it is handed to the challenge executor.
type ChallengeToken struct {
	ACSReferenceNumber          string `json:"acsReferenceNumber"`
	ACSSignedContent            string `json:"acsSignedContent"`
	ACSTransactionIdentifier    string `json:"acsTransID"`
	ServerTransactionIdentifier string `json:"threeDSServerTransID"`
}

// FingerprintToken is the decoded payload of a threeDS2Fingerprint action
// token. Its message version selects the wire encoding used when the
// fingerprint result is exchanged with the server.
type FingerprintToken struct {
	DirectoryServerID           string `json:"directoryServerId"`
	DirectoryServerPublicKey    string `json:"directoryServerPublicKey"`
	ServerTransactionIdentifier string `json:"threeDSServerTransID"`
	MessageVersion              string `json:"threeDSMessageVersion"`
}

// DecodeFingerprintToken decodes a base64-encoded fingerprint token.
func DecodeFingerprintToken(token string) (*FingerprintToken, error) {
	var decoded FingerprintToken
	if err := decodeBase64JSON(token, &decoded); err != nil {
		return nil, WrapError(ErrorCodeDecoding, "cannot decode fingerprint token", err)
	}
	return &decoded, nil
}

// DecodeChallengeToken decodes a base64-encoded challenge token.
func DecodeChallengeToken(token string) (*ChallengeToken, error) {
	var decoded ChallengeToken
	if err := decodeBase64JSON(token, &decoded); err != nil {
		return nil, WrapError(ErrorCodeDecoding, "cannot decode challenge token", err)
	}
	return &decoded, nil
}

func decodeBase64JSON(token string, v interface{}) error {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
