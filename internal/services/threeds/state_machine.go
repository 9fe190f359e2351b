package threeds

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	"go.uber.org/zap"
)

// State tracks the progress of a 3DS2 authentication.
type State int

const (
	StateIdle State = iota
	StateFingerprintRequested
	StateFingerprintSubmitted
	StateChallengeRequested
	StateChallengeSubmitted
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFingerprintRequested:
		return "fingerprint_requested"
	case StateFingerprintSubmitted:
		return "fingerprint_submitted"
	case StateChallengeRequested:
		return "challenge_requested"
	case StateChallengeSubmitted:
		return "challenge_submitted"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// defaultMessageVersion applies when a challenge arrives without a preceding
// fingerprint exchange in this machine.
const defaultMessageVersion = "2.2.0"

// isLegacyMessageVersion reports whether the protocol version uses the flat
// "threeds2.*" details encoding instead of the wrapped threeDSResult one.
func isLegacyMessageVersion(version string) bool {
	return version == "" || strings.HasPrefix(version, "2.0.") || strings.HasPrefix(version, "2.1.")
}

// StateMachine owns the 3DS2 protocol sequencing: device fingerprint, server
// exchange, optional challenge, result. Fingerprinting and challenge
// execution are delegated to a platform-provided executor; this machine only
// sequences the protocol and translates tokens. Stage failures resolve the
// machine immediately and surface the underlying error untouched; 3DS2 steps
// are never retried against the issuer.
type StateMachine struct {
	client         ports.APIClient
	executor       ports.ChallengeExecutor
	logger         *zap.Logger
	state          State
	messageVersion string
}

// New creates a state machine. Each call to HandleFingerprint or
// HandleChallenge starts a fresh attempt; nothing carries over from a
// previous one.
func New(client ports.APIClient, executor ports.ChallengeExecutor, logger *zap.Logger) *StateMachine {
	return &StateMachine{
		client:   client,
		executor: executor,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the machine's current state.
func (m *StateMachine) State() State {
	return m.state
}

// HandleFingerprint runs the device-fingerprint stage: decode the token,
// collect the fingerprint, exchange it with the server, and either resolve
// directly (frictionless flow) or continue into the challenge branch.
func (m *StateMachine) HandleFingerprint(ctx context.Context, action *domain.ThreeDS2FingerprintAction) *ports.ActionResult {
	m.begin()

	token, err := domain.DecodeFingerprintToken(action.Token)
	if err != nil {
		return m.resolveFailure(err)
	}
	m.messageVersion = token.MessageVersion

	m.transition(StateFingerprintRequested)
	fingerprint, err := m.executor.CreateFingerprint(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return m.resolveCancelled()
		}
		return m.resolveFailure(err)
	}

	details, err := encodeFingerprintDetails(token.MessageVersion, fingerprint)
	if err != nil {
		return m.resolveFailure(err)
	}

	m.transition(StateFingerprintSubmitted)
	resp, err := m.client.SubmitDetails(ctx, &ports.DetailsRequest{
		Data: &models.DetailsData{Details: details, PaymentData: action.PaymentData},
	})
	if err != nil {
		return m.resolveFailure(err)
	}

	if resp.HasAction() && resp.Action.Type == domain.ActionTypeThreeDS2Challenge {
		challenge, err := resp.Action.ThreeDS2Challenge()
		if err != nil {
			return m.resolveFailure(err)
		}
		return m.runChallenge(ctx, challenge)
	}

	// Frictionless flow: the fingerprint exchange produced the result
	// without ever entering the challenge branch.
	m.transition(StateResolved)
	return ports.Completed(&ports.ActionData{Response: resp, PaymentData: action.PaymentData})
}

// HandleChallenge runs the challenge stage for a challenge action the server
// issued directly.
func (m *StateMachine) HandleChallenge(ctx context.Context, action *domain.ThreeDS2ChallengeAction) *ports.ActionResult {
	m.begin()
	return m.runChallenge(ctx, action)
}

// begin clears state left over from a previous attempt. A standalone
// challenge must never inherit the message version an earlier fingerprint
// observed.
func (m *StateMachine) begin() {
	m.state = StateIdle
	m.messageVersion = ""
}

func (m *StateMachine) runChallenge(ctx context.Context, action *domain.ThreeDS2ChallengeAction) *ports.ActionResult {
	token, err := domain.DecodeChallengeToken(action.Token)
	if err != nil {
		return m.resolveFailure(err)
	}

	m.transition(StateChallengeRequested)
	result, err := m.executor.HandleChallenge(ctx, *token)
	if err != nil {
		if ctx.Err() != nil {
			return m.resolveCancelled()
		}
		return m.resolveFailure(err)
	}

	version := m.messageVersion
	if version == "" {
		version = defaultMessageVersion
	}
	details, err := encodeChallengeDetails(version, result)
	if err != nil {
		return m.resolveFailure(err)
	}

	m.transition(StateChallengeSubmitted)
	resp, err := m.client.SubmitDetails(ctx, &ports.DetailsRequest{
		Data: &models.DetailsData{Details: details, PaymentData: action.PaymentData},
	})
	if err != nil {
		return m.resolveFailure(err)
	}

	m.transition(StateResolved)
	return ports.Completed(&ports.ActionData{Response: resp, PaymentData: action.PaymentData})
}

func (m *StateMachine) transition(next State) {
	m.logger.Debug("3DS2 state transition",
		zap.String("from", m.state.String()),
		zap.String("to", next.String()),
	)
	m.state = next
}

func (m *StateMachine) resolveFailure(err error) *ports.ActionResult {
	m.transition(StateResolved)
	return ports.Failed(err)
}

func (m *StateMachine) resolveCancelled() *ports.ActionResult {
	m.transition(StateResolved)
	return ports.Cancelled()
}

// encodeFingerprintDetails encodes the fingerprint result in the wire
// encoding selected by the token's message version.
func encodeFingerprintDetails(messageVersion, fingerprint string) (json.RawMessage, error) {
	if isLegacyMessageVersion(messageVersion) {
		return json.Marshal(map[string]string{"threeds2.fingerprint": fingerprint})
	}
	return json.Marshal(map[string]string{"fingerprintResult": fingerprint})
}

// encodeChallengeDetails encodes the challenge result in the wire encoding
// selected by the message version observed during the fingerprint stage.
func encodeChallengeDetails(messageVersion string, result *ports.ChallengeResult) (json.RawMessage, error) {
	if isLegacyMessageVersion(messageVersion) {
		encoded, err := encodeBase64JSON(map[string]string{"transStatus": result.TransactionStatus})
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]string{"threeds2.challengeResult": encoded})
	}
	encoded, err := encodeBase64JSON(map[string]string{
		"transStatus":        result.TransactionStatus,
		"authorisationToken": result.Payload,
	})
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]string{"threeDSResult": encoded})
}

func encodeBase64JSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
