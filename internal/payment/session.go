package payment

import (
	"fmt"
	"time"

	"bakery-be/internal/utils"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusExpired   Status = "expired"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Event string

const (
	EventExpire     Event = "expire"
	EventComplete   Event = "complete"
	EventRegenerate Event = "regenerate"
	EventCancel     Event = "cancel"
)

const DefaultWindow = 120 * time.Second

// Session is one attempt at paying. The order id and transaction code are
// provisional until the session completes.
type Session struct {
	MethodID        string
	OrderID         string
	TransactionCode string
	StartedAt       time.Time
	Deadline        time.Time
	Status          Status

	window time.Duration
	newIDs func(now time.Time) (orderID, transactionCode string)
}

func generateIDs(now time.Time) (string, string) {
	return utils.GenerateOrderID(now), utils.GenerateTransactionCode()
}

func NewSession(methodID string, now time.Time, window time.Duration) *Session {
	return newSession(methodID, now, window, generateIDs)
}

func newSession(methodID string, now time.Time, window time.Duration, newIDs func(time.Time) (string, string)) *Session {
	if window <= 0 {
		window = DefaultWindow
	}
	s := &Session{
		MethodID: methodID,
		window:   window,
		newIDs:   newIDs,
	}
	s.arm(now)
	return s
}

func (s *Session) arm(now time.Time) {
	s.OrderID, s.TransactionCode = s.newIDs(now)
	s.StartedAt = now
	s.Deadline = now.Add(s.window)
	s.Status = StatusIdle
}

// Remaining is the countdown shown on the gateway screen.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.Status != StatusIdle || !now.Before(s.Deadline) {
		return 0
	}
	return s.Deadline.Sub(now)
}

// Resolved reports whether the session left idle for good or until
// regenerated.
func (s *Session) Resolved() bool {
	return s.Status != StatusIdle
}

// Transition applies ev at now. It reports whether the status changed.
// onComplete runs only for EventComplete while the session is still payable;
// when it fails the session stays idle and the error is returned.
func (s *Session) Transition(ev Event, now time.Time, onComplete func() error) (bool, error) {
	switch ev {
	case EventExpire:
		switch s.Status {
		case StatusIdle:
			if now.Before(s.Deadline) {
				return false, ErrDeadlineNotReached
			}
			s.Status = StatusExpired
			return true, nil
		default:
			// already resolved; the other trigger won
			return false, nil
		}

	case EventComplete:
		switch s.Status {
		case StatusIdle:
			if !now.Before(s.Deadline) {
				return false, ErrSessionExpired
			}
			if onComplete != nil {
				if err := onComplete(); err != nil {
					return false, err
				}
			}
			s.Status = StatusCompleted
			return true, nil
		case StatusCompleted:
			return false, nil
		case StatusExpired:
			return false, ErrSessionExpired
		default:
			return false, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, s.Status)
		}

	case EventRegenerate:
		if s.Status != StatusExpired {
			return false, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, s.Status)
		}
		s.arm(now)
		return true, nil

	case EventCancel:
		switch s.Status {
		case StatusIdle, StatusExpired:
			s.Status = StatusCancelled
			return true, nil
		case StatusCancelled:
			return false, nil
		default:
			return false, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, s.Status)
		}
	}

	return false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev)
}
