package mocks

import (
	"context"

	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

// MockRedirectHandler mocks the merchant-provided redirect collaborator.
type MockRedirectHandler struct {
	mock.Mock
}

func (m *MockRedirectHandler) Open(ctx context.Context, url, method string) (*ports.ReturnPayload, error) {
	args := m.Called(ctx, url, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ReturnPayload), args.Error(1)
}

// MockChallengeExecutor mocks the platform 3DS2 capability.
type MockChallengeExecutor struct {
	mock.Mock
}

func (m *MockChallengeExecutor) CreateFingerprint(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockChallengeExecutor) HandleChallenge(ctx context.Context, token domain.ChallengeToken) (*ports.ChallengeResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ChallengeResult), args.Error(1)
}

// MockSDKActionHandler mocks one registered SDK hand-off handler.
type MockSDKActionHandler struct {
	mock.Mock
}

func (m *MockSDKActionHandler) Handle(ctx context.Context, action *domain.SDKAction) (*ports.ActionData, error) {
	args := m.Called(ctx, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ActionData), args.Error(1)
}
