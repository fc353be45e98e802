// Package notify delivers admin notifications for scheduling events.
// Delivery is best-effort and never affects the operation that caused it.
package notify

import (
	"context"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type EventType string

const (
	EventAppointmentCreated  EventType = "appointment_created"
	EventAppointmentCanceled EventType = "appointment_canceled"
	EventUserSignup          EventType = "user_signup"
)

type Message struct {
	EventID    string         `json:"event_id"`
	BusinessID uint           `json:"business_id"`
	Type       EventType      `json:"event_type"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`

	// Recipients are the subscribed admin ids, resolved by the dispatcher.
	Recipients []uint `json:"recipients"`

	// Trace carries W3C trace context across the dispatcher queue.
	Trace map[string]string `json:"-"`
}

type Result struct {
	OK   bool `json:"ok"`
	Sent int  `json:"sent"`
}

type Sender interface {
	NotifyAdmins(ctx context.Context, msg Message) (Result, error)
}

// AdminDirectory resolves the admins of a business that opted in.
type AdminDirectory interface {
	ListNotifiableAdmins(ctx context.Context, businessID uint) ([]models.User, error)
}
