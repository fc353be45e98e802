package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// Repository is the persistence collaborator of the scheduling core.
// Every query is scoped by business id; missing rows are reported as
// domain.ErrNotFound.
type Repository interface {
	// -------- Tenant --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	GetMember(
		ctx context.Context,
		businessID uint,
		userID uint,
	) (*models.User, error)

	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	// ListConfirmedInRange returns confirmed appointments of the worker
	// whose [start, end) intersects [start, end) of the query.
	ListConfirmedInRange(
		ctx context.Context,
		businessID uint,
		workerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// ListActiveBlocksInRange returns active blocks that are business-wide
	// or belong to the worker and intersect the range.
	ListActiveBlocksInRange(
		ctx context.Context,
		businessID uint,
		workerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Block, error)

	// ListAppointmentsInRange is the any-status variant used by listings.
	ListAppointmentsInRange(
		ctx context.Context,
		businessID uint,
		workerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListClientAppointments(
		ctx context.Context,
		businessID uint,
		clientID uint,
		status string,
	) ([]models.Appointment, error)

	// -------- Stats --------
	CountByStatus(
		ctx context.Context,
		businessID uint,
		from *time.Time,
		to *time.Time,
	) (map[string]int64, error)

	// CountConfirmedSince and DistinctClientsWithConfirmedSince both
	// select confirmed appointments with start_at >= since.
	CountConfirmedSince(
		ctx context.Context,
		businessID uint,
		since time.Time,
	) (int64, error)

	DistinctClientsWithConfirmedSince(
		ctx context.Context,
		businessID uint,
		since time.Time,
	) ([]uint, error)

	// -------- Appointment (write) --------

	// UpdateStatusIf persists ap's status, lifecycle timestamps and notes
	// only when the stored status still equals from. It reports whether a row was updated.
	UpdateStatusIf(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) (bool, error)

	// InWorkerTx runs fn in a transaction serialized per (business, worker).
	InWorkerTx(
		ctx context.Context,
		businessID uint,
		workerID uint,
		fn func(ctx context.Context, tx WorkerTx) error,
	) error
}

// WorkerTx is the view of the store available inside InWorkerTx.
type WorkerTx interface {
	// LockClient additionally serializes on the client for the rest of
	// the transaction. Always taken after the worker lock.
	LockClient(
		ctx context.Context,
		businessID uint,
		clientID uint,
	) error

	CountConfirmedForClient(
		ctx context.Context,
		businessID uint,
		clientID uint,
	) (int64, error)

	ListConfirmedInRange(
		ctx context.Context,
		businessID uint,
		workerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListActiveBlocksInRange(
		ctx context.Context,
		businessID uint,
		workerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Block, error)

	// CreateAppointment returns domain.ErrDuplicate when the confirmed
	// (business, worker, start) uniqueness guard fires.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateStatusIf(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) (bool, error)
}
