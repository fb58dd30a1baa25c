package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/roofline-saas/service-estimate/internal/pkg/kafka"
)

// LeadEstimator computes and stores an estimate in response to a
// qualified lead. Implemented by the application layer.
type LeadEstimator interface {
	CreateEstimateForLead(ctx context.Context, evt LeadQualifiedEvent) error
}

// LeadEventConsumer listens to lead events and triggers automatic
// estimate computation for qualified leads with known coordinates.
type LeadEventConsumer struct {
	consumer  *kafka.Consumer
	estimator LeadEstimator
	logger    *zap.Logger
}

// NewLeadEventConsumer creates a new LeadEventConsumer.
func NewLeadEventConsumer(
	brokers []string,
	groupID string,
	estimator LeadEstimator,
	logger *zap.Logger,
) *LeadEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicLeadEvents, logger)
	return &LeadEventConsumer{
		consumer:  consumer,
		estimator: estimator,
		logger:    logger,
	}
}

// Start begins consuming lead events. Blocks until the context is cancelled.
func (c *LeadEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *LeadEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *LeadEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from lead topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case LeadQualified:
		return c.handleLeadQualified(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled lead event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *LeadEventConsumer) handleLeadQualified(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt LeadQualifiedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse LeadQualifiedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	if evt.Latitude == nil || evt.Longitude == nil {
		c.logger.Info("lead qualified without coordinates, skipping estimate",
			zap.String("lead_id", evt.LeadID.String()),
		)
		return nil
	}

	c.logger.Info("computing estimate for qualified lead",
		zap.String("lead_id", evt.LeadID.String()),
		zap.String("org_id", evt.OrgID.String()),
	)

	if err := c.estimator.CreateEstimateForLead(ctx, evt); err != nil {
		c.logger.Error("failed to compute estimate for qualified lead",
			zap.String("lead_id", evt.LeadID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}
