package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {
	return getBusiness(ctx, r.db, id)
}

func (r *AppointmentGormRepository) GetMember(
	ctx context.Context,
	businessID uint,
	userID uint,
) (*models.User, error) {
	return getMember(ctx, r.db, businessID, userID)
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {
	return getService(ctx, r.db, businessID, serviceID)
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, mapError(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListConfirmedInRange(
	ctx context.Context,
	businessID uint,
	workerID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	return listConfirmedInRange(ctx, r.db, businessID, workerID, start, end)
}

func (r *AppointmentGormRepository) ListActiveBlocksInRange(
	ctx context.Context,
	businessID uint,
	workerID uint,
	start time.Time,
	end time.Time,
) ([]models.Block, error) {
	return listActiveBlocksInRange(ctx, r.db, businessID, workerID, start, end)
}

func (r *AppointmentGormRepository) ListAppointmentsInRange(
	ctx context.Context,
	businessID uint,
	workerID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"business_id = ? AND worker_id = ? AND start_at < ? AND end_at > ?",
			businessID, workerID, end, start,
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListClientAppointments(
	ctx context.Context,
	businessID uint,
	clientID uint,
	status string,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where("business_id = ? AND client_id = ?", businessID, clientID)

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var apps []models.Appointment
	if err := q.Order("start_at ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Stats
// --------------------------------------------------

func (r *AppointmentGormRepository) CountByStatus(
	ctx context.Context,
	businessID uint,
	from *time.Time,
	to *time.Time,
) (map[string]int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("business_id = ?", businessID)

	if from != nil {
		q = q.Where("end_at > ?", *from)
	}
	if to != nil {
		q = q.Where("start_at < ?", *to)
	}

	var rows []struct {
		Status string
		Total  int64
	}
	if err := q.
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *AppointmentGormRepository) CountConfirmedSince(
	ctx context.Context,
	businessID uint,
	since time.Time,
) (int64, error) {

	var n int64
	err := confirmedSince(r.db.WithContext(ctx), businessID, since).Count(&n).Error
	return n, err
}

func (r *AppointmentGormRepository) DistinctClientsWithConfirmedSince(
	ctx context.Context,
	businessID uint,
	since time.Time,
) ([]uint, error) {

	var ids []uint
	if err := confirmedSince(r.db.WithContext(ctx), businessID, since).
		Distinct().
		Order("client_id ASC").
		Pluck("client_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func confirmedSince(db *gorm.DB, businessID uint, since time.Time) *gorm.DB {
	return db.Model(&models.Appointment{}).
		Where("business_id = ? AND status = ? AND start_at >= ?",
			businessID, appointment.StatusConfirmed, since)
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentGormRepository) UpdateStatusIf(
	ctx context.Context,
	ap *models.Appointment,
	from appointment.Status,
) (bool, error) {
	return updateStatusIf(ctx, r.db, ap, from)
}

// InWorkerTx serializes writers of one worker with a transaction-scoped
// advisory lock. The lock is released on commit or rollback.
func (r *AppointmentGormRepository) InWorkerTx(
	ctx context.Context,
	businessID uint,
	workerID uint,
	fn func(ctx context.Context, tx appointment.WorkerTx) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, fmt.Sprintf("worker:%d:%d", businessID, workerID)); err != nil {
			return err
		}
		return fn(ctx, &gormWorkerTx{db: tx})
	})
}

type gormWorkerTx struct {
	db *gorm.DB
}

func (t *gormWorkerTx) LockClient(
	ctx context.Context,
	businessID uint,
	clientID uint,
) error {
	return advisoryLock(t.db.WithContext(ctx), fmt.Sprintf("client:%d:%d", businessID, clientID))
}

func (t *gormWorkerTx) CountConfirmedForClient(
	ctx context.Context,
	businessID uint,
	clientID uint,
) (int64, error) {

	var count int64
	if err := t.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("business_id = ? AND client_id = ? AND status = ?",
			businessID, clientID, appointment.StatusConfirmed).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (t *gormWorkerTx) ListConfirmedInRange(
	ctx context.Context,
	businessID uint,
	workerID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {
	return listConfirmedInRange(ctx, t.db, businessID, workerID, start, end)
}

func (t *gormWorkerTx) ListActiveBlocksInRange(
	ctx context.Context,
	businessID uint,
	workerID uint,
	start time.Time,
	end time.Time,
) ([]models.Block, error) {
	return listActiveBlocksInRange(ctx, t.db, businessID, workerID, start, end)
}

func (t *gormWorkerTx) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return mapError(t.db.WithContext(ctx).Create(ap).Error)
}

func (t *gormWorkerTx) UpdateStatusIf(
	ctx context.Context,
	ap *models.Appointment,
	from appointment.Status,
) (bool, error) {
	return updateStatusIf(ctx, t.db, ap, from)
}

// --------------------------------------------------
// Shared queries
// --------------------------------------------------

func advisoryLock(tx *gorm.DB, key string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func getBusiness(ctx context.Context, db *gorm.DB, id uint) (*models.Business, error) {
	var b models.Business
	if err := db.WithContext(ctx).
		Preload("OpeningHours").
		First(&b, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func getMember(ctx context.Context, db *gorm.DB, businessID, userID uint) (*models.User, error) {
	var u models.User
	if err := db.WithContext(ctx).
		Where("id = ? AND business_id = ?", userID, businessID).
		First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func getService(ctx context.Context, db *gorm.DB, businessID, serviceID uint) (*models.Service, error) {
	var s models.Service
	if err := db.WithContext(ctx).
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&s).Error; err != nil {
		return nil, mapError(err)
	}
	return &s, nil
}

func listConfirmedInRange(
	ctx context.Context,
	db *gorm.DB,
	businessID, workerID uint,
	start, end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := db.WithContext(ctx).
		Where(
			"business_id = ? AND worker_id = ? AND status = ? AND start_at < ? AND end_at > ?",
			businessID, workerID, appointment.StatusConfirmed, end, start,
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func listActiveBlocksInRange(
	ctx context.Context,
	db *gorm.DB,
	businessID, workerID uint,
	start, end time.Time,
) ([]models.Block, error) {

	var blocks []models.Block
	if err := db.WithContext(ctx).
		Where(
			"business_id = ? AND active = ? AND (worker_id IS NULL OR worker_id = ?) AND start_at < ? AND end_at > ?",
			businessID, true, workerID, end, start,
		).
		Order("start_at ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func updateStatusIf(
	ctx context.Context,
	db *gorm.DB,
	ap *models.Appointment,
	from appointment.Status,
) (bool, error) {

	res := db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Appointment{}).
		Where("id = ? AND business_id = ? AND status = ?", ap.ID, ap.BusinessID, from).
		Updates(map[string]any{
			"status":       ap.Status,
			"canceled_at":  ap.CanceledAt,
			"completed_at": ap.CompletedAt,
			"notes":        ap.Notes,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return false, mapError(res.Error)
	}
	return res.RowsAffected == 1, nil
}

var (
	_ appointment.Repository = (*AppointmentGormRepository)(nil)
	_ appointment.WorkerTx   = (*gormWorkerTx)(nil)
)
