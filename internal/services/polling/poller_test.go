package polling

import (
	"context"
	"testing"
	"time"

	"github.com/kevin07696/checkout-sdk/internal/config"
	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	"github.com/kevin07696/checkout-sdk/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPoller(client ports.APIClient, maxDuration time.Duration) *Poller {
	return New(client, config.PollingConfig{
		Interval:    time.Millisecond,
		MaxDuration: maxDuration,
	}, zap.NewNop())
}

func TestPoller_FinishesOnTerminalStatus(t *testing.T) {
	client := new(mocks.MockAPIClient)
	client.On("PaymentStatus", mock.Anything, &ports.StatusRequest{PaymentData: "pd-1"}).
		Return(&models.StatusResponse{ResultCode: models.ResultCodePending}, nil).Twice()
	client.On("PaymentStatus", mock.Anything, &ports.StatusRequest{PaymentData: "pd-1"}).
		Return(&models.StatusResponse{ResultCode: models.ResultCodeAuthorised, PSPReference: "psp-1"}, nil).Once()

	poller := newTestPoller(client, time.Minute)
	result := poller.Handle(context.Background(), &domain.AwaitAction{PaymentData: "pd-1"})

	require.Equal(t, ports.ActionCompleted, result.Status)
	require.NotNil(t, result.Data.Response)
	assert.Equal(t, models.ResultCodeAuthorised, result.Data.Response.ResultCode)
	assert.Equal(t, "psp-1", result.Data.Response.PSPReference)
	assert.Equal(t, "pd-1", result.Data.PaymentData)
	client.AssertExpectations(t)
}

func TestPoller_TimesOutAfterMaxDuration(t *testing.T) {
	client := new(mocks.MockAPIClient)
	client.On("PaymentStatus", mock.Anything, mock.Anything).
		Return(&models.StatusResponse{ResultCode: models.ResultCodePending}, nil)

	poller := newTestPoller(client, 10*time.Millisecond)
	result := poller.Handle(context.Background(), &domain.AwaitAction{PaymentData: "pd-1"})

	require.Equal(t, ports.ActionFailed, result.Status)
	assert.True(t, domain.IsCheckoutError(result.Err, domain.ErrorCodePollingTimeout))
}

func TestPoller_CancellationIsSilent(t *testing.T) {
	client := new(mocks.MockAPIClient)
	client.On("PaymentStatus", mock.Anything, mock.Anything).
		Return(&models.StatusResponse{ResultCode: models.ResultCodePending}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	poller := newTestPoller(client, time.Minute)
	result := poller.Handle(ctx, &domain.AwaitAction{PaymentData: "pd-1"})

	assert.Equal(t, ports.ActionCancelled, result.Status)
	assert.NoError(t, result.Err, "shopper cancellation carries no error")
}

func TestPoller_TransportErrorFails(t *testing.T) {
	client := new(mocks.MockAPIClient)
	netErr := domain.NewCheckoutError(domain.ErrorCodeNetwork, "gateway unreachable")
	client.On("PaymentStatus", mock.Anything, mock.Anything).Return(nil, netErr)

	poller := newTestPoller(client, time.Minute)
	result := poller.Handle(context.Background(), &domain.AwaitAction{PaymentData: "pd-1"})

	require.Equal(t, ports.ActionFailed, result.Status)
	assert.True(t, domain.IsNetworkError(result.Err))
}
