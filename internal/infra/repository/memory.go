package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// MemoryStore is a process-local implementation of every repository
// interface. It backs STORE=memory and the use case tests. Worker and
// client serialization use keyed mutexes instead of advisory locks, and
// the confirmed (business, worker, start) uniqueness rule is enforced on
// every write like the partial unique index does in postgres.
type MemoryStore struct {
	mu sync.RWMutex

	seq          uint
	businesses   map[uint]models.Business
	hours        map[uint][]models.OpeningHours
	users        map[uint]models.User
	services     map[uint]models.Service
	blocks       map[uint]models.Block
	appointments map[uint]models.Appointment
	auditLogs    []models.AuditLog

	locks keyedMutex
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		businesses:   map[uint]models.Business{},
		hours:        map[uint][]models.OpeningHours{},
		users:        map[uint]models.User{},
		services:     map[uint]models.Service{},
		blocks:       map[uint]models.Block{},
		appointments: map[uint]models.Appointment{},
		now:          time.Now,
	}
}

func (s *MemoryStore) nextID() uint {
	s.seq++
	return s.seq
}

func (s *MemoryStore) stamp() time.Time {
	return s.now().UTC()
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

func (s *MemoryStore) GetBusinessByID(_ context.Context, id uint) (*models.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.businesses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.OpeningHours = append([]models.OpeningHours(nil), s.hours[id]...)
	return &b, nil
}

func (s *MemoryStore) GetMember(_ context.Context, businessID, userID uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok || u.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetService(_ context.Context, businessID, serviceID uint) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[serviceID]
	if !ok || svc.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return &svc, nil
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (s *MemoryStore) GetAppointment(_ context.Context, businessID, appointmentID uint) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ap, ok := s.appointments[appointmentID]
	if !ok || ap.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	ap.Client = s.users[ap.ClientID]
	return &ap, nil
}

func (s *MemoryStore) ListConfirmedInRange(
	_ context.Context,
	businessID, workerID uint,
	start, end time.Time,
) ([]models.Appointment, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appointmentsWhere(func(ap models.Appointment) bool {
		return ap.BusinessID == businessID &&
			ap.WorkerID == workerID &&
			ap.Status == string(appointment.StatusConfirmed) &&
			ap.StartAt.Before(end) && ap.EndAt.After(start)
	}), nil
}

func (s *MemoryStore) ListActiveBlocksInRange(
	_ context.Context,
	businessID, workerID uint,
	start, end time.Time,
) ([]models.Block, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocksWhere(func(b models.Block) bool {
		return b.BusinessID == businessID &&
			b.Active &&
			(b.WorkerID == nil || *b.WorkerID == workerID) &&
			b.StartAt.Before(end) && b.EndAt.After(start)
	}), nil
}

func (s *MemoryStore) ListAppointmentsInRange(
	_ context.Context,
	businessID, workerID uint,
	start, end time.Time,
) ([]models.Appointment, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()
	apps := s.appointmentsWhere(func(ap models.Appointment) bool {
		return ap.BusinessID == businessID &&
			ap.WorkerID == workerID &&
			ap.StartAt.Before(end) && ap.EndAt.After(start)
	})
	for i := range apps {
		apps[i].Client = s.users[apps[i].ClientID]
	}
	return apps, nil
}

func (s *MemoryStore) ListClientAppointments(
	_ context.Context,
	businessID, clientID uint,
	status string,
) ([]models.Appointment, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appointmentsWhere(func(ap models.Appointment) bool {
		return ap.BusinessID == businessID &&
			ap.ClientID == clientID &&
			(status == "" || ap.Status == status)
	}), nil
}

// --------------------------------------------------
// Stats
// --------------------------------------------------

func (s *MemoryStore) CountByStatus(
	_ context.Context,
	businessID uint,
	from, to *time.Time,
) (map[string]int64, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]int64{}
	for _, ap := range s.appointments {
		if ap.BusinessID != businessID {
			continue
		}
		if from != nil && !ap.EndAt.After(*from) {
			continue
		}
		if to != nil && !ap.StartAt.Before(*to) {
			continue
		}
		out[ap.Status]++
	}
	return out, nil
}

func (s *MemoryStore) CountConfirmedSince(_ context.Context, businessID uint, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, ap := range s.appointments {
		if ap.BusinessID == businessID && ap.Status == string(appointment.StatusConfirmed) && !ap.StartAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) DistinctClientsWithConfirmedSince(
	_ context.Context,
	businessID uint,
	since time.Time,
) ([]uint, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[uint]bool{}
	ids := []uint{}
	for _, ap := range s.appointments {
		if ap.BusinessID != businessID || ap.Status != string(appointment.StatusConfirmed) {
			continue
		}
		if ap.StartAt.Before(since) || seen[ap.ClientID] {
			continue
		}
		seen[ap.ClientID] = true
		ids = append(ids, ap.ClientID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (s *MemoryStore) UpdateStatusIf(
	_ context.Context,
	ap *models.Appointment,
	from appointment.Status,
) (bool, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok, err := s.updateStatusLocked(ap, from)
	return ok, err
}

func (s *MemoryStore) InWorkerTx(
	ctx context.Context,
	businessID, workerID uint,
	fn func(ctx context.Context, tx appointment.WorkerTx) error,
) (err error) {

	unlock := s.locks.lock(fmt.Sprintf("worker:%d:%d", businessID, workerID))
	defer unlock()

	tx := &memoryTx{store: s}
	defer tx.release()

	if err = fn(ctx, tx); err != nil {
		tx.rollback()
	}
	return err
}

// confirmedClash reports whether another confirmed appointment already
// holds ap's (business, worker, start).
func (s *MemoryStore) confirmedClash(ap *models.Appointment) bool {
	if ap.Status != string(appointment.StatusConfirmed) {
		return false
	}
	for id, other := range s.appointments {
		if id == ap.ID || other.Status != string(appointment.StatusConfirmed) {
			continue
		}
		if other.BusinessID == ap.BusinessID &&
			other.WorkerID == ap.WorkerID &&
			other.StartAt.Equal(ap.StartAt) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) createAppointmentLocked(ap *models.Appointment) error {
	ap.SyncEnd()
	if ap.Status == "" {
		ap.Status = string(appointment.InitialStatus())
	}
	if s.confirmedClash(ap) {
		return domain.ErrDuplicate
	}

	now := s.stamp()
	ap.ID = s.nextID()
	ap.CreatedAt = now
	ap.UpdatedAt = now

	stored := *ap
	stored.Client = models.User{}
	stored.Worker = models.User{}
	s.appointments[ap.ID] = stored
	return nil
}

// updateStatusLocked returns the previous row so transactions can undo.
func (s *MemoryStore) updateStatusLocked(
	ap *models.Appointment,
	from appointment.Status,
) (models.Appointment, bool, error) {

	current, ok := s.appointments[ap.ID]
	if !ok || current.BusinessID != ap.BusinessID || current.Status != string(from) {
		return models.Appointment{}, false, nil
	}

	next := current
	next.Status = ap.Status
	next.CanceledAt = ap.CanceledAt
	next.CompletedAt = ap.CompletedAt
	next.Notes = ap.Notes
	next.UpdatedAt = s.stamp()

	if s.confirmedClash(&next) {
		return models.Appointment{}, false, domain.ErrDuplicate
	}

	s.appointments[ap.ID] = next
	return current, true, nil
}

// --------------------------------------------------
// Worker transaction
// --------------------------------------------------

type memoryTx struct {
	store   *MemoryStore
	undo    []func()
	unlocks []func()
}

func (t *memoryTx) LockClient(_ context.Context, businessID, clientID uint) error {
	t.unlocks = append(t.unlocks, t.store.locks.lock(fmt.Sprintf("client:%d:%d", businessID, clientID)))
	return nil
}

func (t *memoryTx) CountConfirmedForClient(_ context.Context, businessID, clientID uint) (int64, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	var n int64
	for _, ap := range t.store.appointments {
		if ap.BusinessID == businessID &&
			ap.ClientID == clientID &&
			ap.Status == string(appointment.StatusConfirmed) {
			n++
		}
	}
	return n, nil
}

func (t *memoryTx) ListConfirmedInRange(
	ctx context.Context,
	businessID, workerID uint,
	start, end time.Time,
) ([]models.Appointment, error) {
	return t.store.ListConfirmedInRange(ctx, businessID, workerID, start, end)
}

func (t *memoryTx) ListActiveBlocksInRange(
	ctx context.Context,
	businessID, workerID uint,
	start, end time.Time,
) ([]models.Block, error) {
	return t.store.ListActiveBlocksInRange(ctx, businessID, workerID, start, end)
}

func (t *memoryTx) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if err := t.store.createAppointmentLocked(ap); err != nil {
		return err
	}
	id := ap.ID
	t.undo = append(t.undo, func() { delete(t.store.appointments, id) })
	return nil
}

func (t *memoryTx) UpdateStatusIf(
	_ context.Context,
	ap *models.Appointment,
	from appointment.Status,
) (bool, error) {

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	prev, ok, err := t.store.updateStatusLocked(ap, from)
	if ok {
		t.undo = append(t.undo, func() { t.store.appointments[prev.ID] = prev })
	}
	return ok, err
}

func (t *memoryTx) rollback() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memoryTx) release() {
	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}
	t.unlocks = nil
}

// --------------------------------------------------
// Blocks
// --------------------------------------------------

func (s *MemoryStore) CreateBlock(_ context.Context, b *models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	b.ID = s.nextID()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.blocks[b.ID] = *b
	return nil
}

func (s *MemoryStore) GetBlock(_ context.Context, businessID, blockID uint) (*models.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blocks[blockID]
	if !ok || b.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *MemoryStore) ListBlocks(_ context.Context, f block.Filter) ([]models.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.blocksWhere(func(b models.Block) bool {
		if b.BusinessID != f.BusinessID {
			return false
		}
		if !f.IncludeInactive && !b.Active {
			return false
		}
		if f.WorkerID != nil && b.WorkerID != nil && *b.WorkerID != *f.WorkerID {
			return false
		}
		if f.From != nil && !b.EndAt.After(*f.From) {
			return false
		}
		if f.To != nil && !b.StartAt.Before(*f.To) {
			return false
		}
		return true
	}), nil
}

func (s *MemoryStore) SaveBlock(_ context.Context, b *models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == 0 {
		b.ID = s.nextID()
		b.CreatedAt = s.stamp()
	}
	b.UpdatedAt = s.stamp()
	s.blocks[b.ID] = *b
	return nil
}

func (s *MemoryStore) DeactivateBlock(_ context.Context, businessID, blockID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blocks[blockID]
	if !ok || b.BusinessID != businessID || !b.Active {
		return false, nil
	}
	b.Active = false
	b.UpdatedAt = s.stamp()
	s.blocks[blockID] = b
	return true, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (s *MemoryStore) SaveBusiness(_ context.Context, b *models.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, other := range s.businesses {
		if id != b.ID && other.Slug == b.Slug {
			return domain.ErrDuplicate
		}
	}
	if b.ID == 0 {
		b.ID = s.nextID()
		b.CreatedAt = s.stamp()
	}
	if b.Timezone == "" {
		b.Timezone = "UTC"
	}
	b.UpdatedAt = s.stamp()

	stored := *b
	stored.OpeningHours = nil
	s.businesses[b.ID] = stored
	return nil
}

func (s *MemoryStore) ReplaceOpeningHours(_ context.Context, businessID uint, hours []models.OpeningHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[int]bool{}
	out := make([]models.OpeningHours, 0, len(hours))
	for _, oh := range hours {
		if seen[oh.Weekday] {
			return domain.ErrDuplicate
		}
		seen[oh.Weekday] = true
		oh.ID = s.nextID()
		oh.BusinessID = businessID
		out = append(out, oh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	s.hours[businessID] = out
	return nil
}

func (s *MemoryStore) ListServices(_ context.Context, businessID uint, onlyActive bool) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Service{}
	for _, svc := range s.services {
		if svc.BusinessID == businessID && (!onlyActive || svc.Active) {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) CreateService(_ context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	svc.ID = s.nextID()
	svc.CreatedAt = now
	svc.UpdatedAt = now
	s.services[svc.ID] = *svc
	return nil
}

func (s *MemoryStore) SaveService(_ context.Context, svc *models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc.ID == 0 {
		svc.ID = s.nextID()
		svc.CreatedAt = s.stamp()
	}
	svc.UpdatedAt = s.stamp()
	s.services[svc.ID] = *svc
	return nil
}

func (s *MemoryStore) ListStaff(_ context.Context, businessID uint) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.usersWhere(func(u models.User) bool {
		return u.BusinessID == businessID && u.IsStaff()
	}), nil
}

// --------------------------------------------------
// Accounts
// --------------------------------------------------

func (s *MemoryStore) CreateBusinessWithOwner(_ context.Context, b *models.Business, owner *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.businesses {
		if other.Slug == b.Slug {
			return domain.ErrDuplicate
		}
	}
	if s.emailTaken(owner.Email, 0) {
		return domain.ErrDuplicate
	}

	now := s.stamp()
	b.ID = s.nextID()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Timezone == "" {
		b.Timezone = "UTC"
	}

	owner.ID = s.nextID()
	owner.BusinessID = b.ID
	owner.CreatedAt = now
	owner.UpdatedAt = now
	b.OwnerID = &owner.ID

	stored := *b
	stored.OpeningHours = nil
	s.businesses[b.ID] = stored
	s.users[owner.ID] = *owner
	return nil
}

func (s *MemoryStore) GetBusinessBySlug(_ context.Context, slug string) (*models.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.businesses {
		if b.Slug == slug {
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) FindStaffByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email != nil && *u.Email == email && u.IsStaff() {
			u.Business = s.businesses[u.BusinessID]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createUserLocked(u)
}

func (s *MemoryStore) FindClientByPhone(_ context.Context, businessID uint, phone string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.BusinessID == businessID && u.IsClient() && u.Phone == phone {
			u.Business = s.businesses[u.BusinessID]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemoryStore) ListNotifiableAdmins(_ context.Context, businessID uint) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.usersWhere(func(u models.User) bool {
		return u.BusinessID == businessID && u.Role == models.RoleAdmin && u.NotifyEnabled
	}), nil
}

func (s *MemoryStore) createUserLocked(u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if s.emailTaken(u.Email, 0) {
		return domain.ErrDuplicate
	}
	if u.IsClient() {
		for _, other := range s.users {
			if other.BusinessID == u.BusinessID && other.IsClient() && other.Phone == u.Phone {
				return domain.ErrDuplicate
			}
		}
	}

	now := s.stamp()
	u.ID = s.nextID()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) emailTaken(email *string, exceptID uint) bool {
	if email == nil {
		return false
	}
	for id, u := range s.users {
		if id != exceptID && u.Email != nil && *u.Email == *email {
			return true
		}
	}
	return false
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (s *MemoryStore) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.ID = s.nextID()
	log.CreatedAt = s.stamp()
	s.auditLogs = append(s.auditLogs, *log)
	return nil
}

func (s *MemoryStore) ListAuditLogs(_ context.Context, f audit.Filter) ([]models.AuditLog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []models.AuditLog{}
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		l := s.auditLogs[i]
		if l.BusinessID != f.BusinessID {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !l.CreatedAt.Before(*f.To) {
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func (s *MemoryStore) appointmentsWhere(keep func(models.Appointment) bool) []models.Appointment {
	out := []models.Appointment{}
	for _, ap := range s.appointments {
		if keep(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) blocksWhere(keep func(models.Block) bool) []models.Block {
	out := []models.Block{}
	for _, b := range s.blocks {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) usersWhere(keep func(models.User) bool) []models.User {
	out := []models.User{}
	for _, u := range s.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// keyedMutex hands out one mutex per key. Keys are never evicted; the
// key space is bounded by workers and clients.
type keyedMutex struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.m == nil {
		k.m = map[string]*sync.Mutex{}
	}
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

var (
	_ appointment.Repository = (*MemoryStore)(nil)
	_ appointment.WorkerTx   = (*memoryTx)(nil)
	_ block.Repository       = (*MemoryStore)(nil)
	_ catalog.Repository     = (*MemoryStore)(nil)
	_ account.Repository     = (*MemoryStore)(nil)
	_ audit.Store            = (*MemoryStore)(nil)
)
