// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package errtrack forwards recovered failures to the error-tracking service.

The collection service swallows event bus failures so that a write never fails
because a downstream consumer is unreachable. Those failures are still reported
here so they are not silently lost.
*/
package errtrack

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/taibuivan/collections-api/internal/platform/constants"
	"github.com/taibuivan/collections-api/internal/platform/ctxutil"
)

// flushTimeout bounds how long Close waits for buffered events.
const flushTimeout = 2 * time.Second

// Reporter receives errors that were handled locally but must stay visible.
type Reporter interface {
	Report(ctx context.Context, err error, tags map[string]string)
}

// SentryReporter reports to Sentry through a dedicated hub.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter initializes a Sentry client for the given DSN.
func NewSentryReporter(dsn, environment string) (*SentryReporter, error) {
	return newSentryReporter(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     constants.AppName + "@" + constants.AppVersion,
	})
}

func newSentryReporter(options sentry.ClientOptions) (*SentryReporter, error) {
	client, err := sentry.NewClient(options)
	if err != nil {
		return nil, fmt.Errorf("errtrack: failed to init sentry: %w", err)
	}

	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// Report captures err with the given tags and the request id, if any.
func (reporter *SentryReporter) Report(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}

	hub := reporter.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range tags {
			scope.SetTag(key, value)
		}
		if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
			scope.SetTag("request_id", requestID)
		}
		hub.CaptureException(err)
	})
}

// Close flushes buffered events.
func (reporter *SentryReporter) Close() {
	reporter.hub.Flush(flushTimeout)
}

// Nop drops every report. It is used when no DSN is configured.
type Nop struct{}

// Report implements [Reporter].
func (Nop) Report(context.Context, error, map[string]string) {}
