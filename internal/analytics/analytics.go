// Package analytics carries fire-and-forget product events and user-facing
// notices. Nothing here reports failures back to the caller.
package analytics

import (
	"context"

	"bakery-be/internal/logger"

	"go.uber.org/zap"
)

type Event string

const (
	EventCheckoutStart     Event = "checkout_start"
	EventGatewayView       Event = "gateway_view"
	EventMethodSelected    Event = "method_selected"
	EventPaymentTimeout    Event = "payment_timeout"
	EventPaymentRegenerate Event = "payment_regenerate"
	EventPaymentCancel     Event = "payment_cancel"
	EventPaymentSuccess    Event = "payment_success"
)

type Props map[string]any

type Tracker interface {
	Track(ctx context.Context, event Event, props Props)
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier delivers a toast-style message to the customer.
type Notifier interface {
	Notify(ctx context.Context, level Level, message string)
}

type multiTracker []Tracker

// Multi fans an event out to every tracker.
func Multi(trackers ...Tracker) Tracker {
	out := make(multiTracker, 0, len(trackers))
	for _, t := range trackers {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (m multiTracker) Track(ctx context.Context, event Event, props Props) {
	for _, t := range m {
		t.Track(ctx, event, props)
	}
}

type LogTracker struct{}

func (LogTracker) Track(ctx context.Context, event Event, props Props) {
	logger.FromCtx(ctx).Info("analytics event",
		zap.String("layer", "analytics"),
		zap.String("event", string(event)),
		zap.Any("props", props),
	)
}

type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, level Level, message string) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notifier"),
		zap.String("level", string(level)),
	)
	switch level {
	case LevelWarning, LevelError:
		log.Warn(message)
	default:
		log.Info(message)
	}
}

type Nop struct{}

func (Nop) Track(context.Context, Event, Props)   {}
func (Nop) Notify(context.Context, Level, string) {}
