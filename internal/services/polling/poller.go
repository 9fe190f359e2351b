package polling

import (
	"context"
	"time"

	"github.com/kevin07696/checkout-sdk/internal/config"
	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	"github.com/kevin07696/checkout-sdk/pkg/resilience"
	"go.uber.org/zap"
)

const defaultMaxDuration = 15 * time.Minute

// Poller drives an await action: it repeatedly checks the payment status
// until the gateway reports a terminal result, the configured maximum
// duration elapses, or the caller cancels.
type Poller struct {
	client      ports.APIClient
	backoff     resilience.BackoffStrategy
	maxDuration time.Duration
	logger      *zap.Logger
}

// New creates a poller. A zero-valued config falls back to the default
// polling backoff and a 15 minute cap.
func New(client ports.APIClient, cfg config.PollingConfig, logger *zap.Logger) *Poller {
	var backoff resilience.BackoffStrategy = resilience.PollingBackoff()
	if cfg.Interval > 0 {
		backoff = &resilience.FixedBackoff{Delay: cfg.Interval}
	}
	maxDuration := cfg.MaxDuration
	if maxDuration <= 0 {
		maxDuration = defaultMaxDuration
	}
	return &Poller{
		client:      client,
		backoff:     backoff,
		maxDuration: maxDuration,
		logger:      logger,
	}
}

// Handle polls until the payment leaves its pending state. Cancellation is a
// silent stop: the shopper backing out is not a failure.
func (p *Poller) Handle(ctx context.Context, action *domain.AwaitAction) *ports.ActionResult {
	deadline := time.Now().Add(p.maxDuration)

	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return ports.Cancelled()
		}

		status, err := p.client.PaymentStatus(ctx, &ports.StatusRequest{PaymentData: action.PaymentData})
		if err != nil {
			if ctx.Err() != nil {
				return ports.Cancelled()
			}
			return ports.Failed(err)
		}

		if status.IsTerminal() {
			p.logger.Info("payment status poll finished",
				zap.String("result_code", string(status.ResultCode)),
				zap.Int("attempts", attempt+1),
			)
			return ports.Completed(&ports.ActionData{
				PaymentData: action.PaymentData,
				Response: &models.PaymentsResponse{
					ResultCode:   status.ResultCode,
					PSPReference: status.PSPReference,
				},
			})
		}

		if time.Now().After(deadline) {
			p.logger.Warn("payment status polling timed out",
				zap.Int("attempts", attempt+1),
				zap.Duration("max_duration", p.maxDuration),
			)
			return ports.Failed(domain.ErrPollingTimeout)
		}

		select {
		case <-ctx.Done():
			return ports.Cancelled()
		case <-time.After(p.backoff.NextDelay(attempt)):
		}
	}
}
