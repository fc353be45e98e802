package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
)

// AuditSender records each notification in the audit trail.
type AuditSender struct {
	logger *audit.Logger
}

func NewAuditSender(logger *audit.Logger) *AuditSender {
	return &AuditSender{logger: logger}
}

func (s *AuditSender) NotifyAdmins(ctx context.Context, msg Message) (Result, error) {
	err := s.logger.Log(ctx, audit.Event{
		BusinessID: msg.BusinessID,
		Action:     "notify." + string(msg.Type),
		Entity:     "notification",
		Metadata: map[string]any{
			"event_id":   msg.EventID,
			"title":      msg.Title,
			"body":       msg.Body,
			"data":       msg.Data,
			"recipients": msg.Recipients,
		},
	})
	if err != nil {
		return Result{}, err
	}
	return Result{OK: true, Sent: len(msg.Recipients)}, nil
}

// LogSender writes notifications to the process log. Used when no
// broker is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) NotifyAdmins(_ context.Context, msg Message) (Result, error) {
	s.log.Info("admin notification",
		zap.String("event_id", msg.EventID),
		zap.String("event_type", string(msg.Type)),
		zap.Uint("business_id", msg.BusinessID),
		zap.String("title", msg.Title),
		zap.Uints("recipients", msg.Recipients),
	)
	return Result{OK: true, Sent: len(msg.Recipients)}, nil
}

// Multi fans a message out to every sender. It succeeds when at least
// one sender does; Sent is the highest count reported.
type Multi []Sender

func (m Multi) NotifyAdmins(ctx context.Context, msg Message) (Result, error) {
	var (
		out  Result
		errs []error
	)
	for _, s := range m {
		res, err := s.NotifyAdmins(ctx, msg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res.OK {
			out.OK = true
			if res.Sent > out.Sent {
				out.Sent = res.Sent
			}
		}
	}
	if !out.OK {
		return out, errors.Join(errs...)
	}
	return out, nil
}
