// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package eventbus publishes domain events to Amazon EventBridge.

Each event becomes one PutEvents entry whose DetailType is the event type and
whose Detail is the JSON encoded payload. EventBridge can accept the request
and still reject individual entries; that partial failure is reported as an
error just like a transport failure.
*/
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
)

// PutEventsAPI is the slice of the EventBridge client used by [Publisher].
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher sends events to a single bus under a fixed source.
type Publisher struct {
	client  PutEventsAPI
	busName string
	source  string
	logger  *slog.Logger
	now     func() time.Time
}

// NewPublisher wraps an EventBridge client.
func NewPublisher(client PutEventsAPI, busName, source string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
		source:  source,
		logger:  logger,
		now:     time.Now,
	}
}

// NewClient builds an EventBridge client from the default AWS credential chain.
func NewClient(ctx context.Context, region string) (*eventbridge.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("eventbus: failed to load aws config: %w", err)
	}
	return eventbridge.NewFromConfig(cfg), nil
}

// Publish encodes detail as JSON and sends it with detailType.
//
// Returns:
//   - error: DEPENDENCY_FAILURE when the call fails or any entry is rejected
func (publisher *Publisher) Publish(ctx context.Context, detailType string, detail any) error {
	body, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("eventbus: failed to encode %s: %w", detailType, err)
	}

	output, err := publisher.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(publisher.busName),
			Source:       aws.String(publisher.source),
			DetailType:   aws.String(detailType),
			Detail:       aws.String(string(body)),
			Time:         aws.Time(publisher.now()),
		}},
	})
	if err != nil {
		return apperr.DependencyFailure("Event bus", fmt.Errorf("eventbus: put events: %w", err))
	}

	if output.FailedEntryCount > 0 {
		return apperr.DependencyFailure("Event bus", partialFailure(output))
	}

	eventID := ""
	if len(output.Entries) > 0 {
		eventID = aws.ToString(output.Entries[0].EventId)
	}
	publisher.logger.DebugContext(ctx, "event_published",
		slog.String("detail_type", detailType),
		slog.String("event_id", eventID),
	)

	return nil
}

func partialFailure(output *eventbridge.PutEventsOutput) error {
	for _, entry := range output.Entries {
		if entry.ErrorCode != nil {
			return fmt.Errorf("eventbus: %d entries rejected: %s: %s",
				output.FailedEntryCount, aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
		}
	}
	return fmt.Errorf("eventbus: %d entries rejected", output.FailedEntryCount)
}
