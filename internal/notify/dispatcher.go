package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/metrics"
)

const sendTimeout = 10 * time.Second

// Dispatcher hands notifications to a Sender on a background goroutine.
// A full queue drops the message.
type Dispatcher struct {
	sender Sender
	admins AdminDirectory
	log    *zap.Logger
	queue  chan Message

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sender Sender, admins AdminDirectory, log *zap.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	d := &Dispatcher{
		sender: sender,
		admins: admins,
		log:    log,
		queue:  make(chan Message, size),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

// Notify enqueues msg and returns immediately.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) {
	if msg.EventID == "" {
		msg.EventID = uuid.NewString()
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	msg.Trace = carrier

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("notification dispatcher closed, dropping event", zap.String("event_type", string(msg.Type)))
		return
	}

	select {
	case d.queue <- msg:
	default:
		metrics.NotificationsTotal.WithLabelValues(string(msg.Type), "dropped").Inc()
		d.log.Warn("notification queue full, dropping event", zap.String("event_type", string(msg.Type)))
	}
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.MapCarrier(msg.Trace))
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	log := d.log.With(
		zap.String("event_id", msg.EventID),
		zap.String("event_type", string(msg.Type)),
		zap.Uint("business_id", msg.BusinessID),
	)

	admins, err := d.admins.ListNotifiableAdmins(ctx, msg.BusinessID)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(msg.Type), "error").Inc()
		log.Warn("resolve admins failed", zap.Error(err))
		return
	}
	if len(admins) == 0 {
		metrics.NotificationsTotal.WithLabelValues(string(msg.Type), "no_recipients").Inc()
		return
	}

	msg.Recipients = make([]uint, 0, len(admins))
	for _, a := range admins {
		msg.Recipients = append(msg.Recipients, a.ID)
	}

	res, err := d.sender.NotifyAdmins(ctx, msg)
	if err != nil || !res.OK {
		metrics.NotificationsTotal.WithLabelValues(string(msg.Type), "error").Inc()
		log.Warn("notify admins failed", zap.Error(err))
		return
	}

	metrics.NotificationsTotal.WithLabelValues(string(msg.Type), "ok").Inc()
	log.Debug("admins notified", zap.Int("sent", res.Sent))
}

// Close stops intake and waits until queued messages are delivered or
// ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
