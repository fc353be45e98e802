package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/dto"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/validation"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	cancel       *ucAppointment.CancelAppointment
	changeStatus *ucAppointment.ChangeStatus
	findSlots    *ucAppointment.FindSlots
	checkSlot    *ucAppointment.CheckSlot
	day          *ucAppointment.GetDaySchedule
	mine         *ucAppointment.ListMyAppointments
	stats        *ucAppointment.GetStats
}

func NewAppointmentHandler(
	repo domain.Repository,
	notifier ucAppointment.Notifier,
	auditor ucAppointment.Auditor,
	policy config.Policy,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       ucAppointment.NewCreateAppointment(repo, notifier, auditor, policy),
		cancel:       ucAppointment.NewCancelAppointment(repo, notifier, auditor, policy),
		changeStatus: ucAppointment.NewChangeStatus(repo, notifier, auditor),
		findSlots:    ucAppointment.NewFindSlots(repo, policy),
		checkSlot:    ucAppointment.NewCheckSlot(repo),
		day:          ucAppointment.NewGetDaySchedule(repo, policy),
		mine:         ucAppointment.NewListMyAppointments(repo),
		stats:        ucAppointment.NewGetStats(repo),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ServiceRequest struct {
	Name        string  `json:"name"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
}

type CreateAppointmentRequest struct {
	ClientID  uint            `json:"client_id"`
	WorkerID  uint            `json:"worker_id" binding:"required"`
	ServiceID *uint           `json:"service_id"`
	Service   *ServiceRequest `json:"service"`
	StartAt   time.Time       `json:"start_at" binding:"required"`
	Notes     string          `json:"notes" binding:"max=1000"`
}

type ChangeStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

type SlotsQuery struct {
	WorkerID  uint  `form:"worker_id" binding:"required"`
	Duration  int   `form:"duration" binding:"omitempty,min=1,max=480"`
	ServiceID *uint `form:"service_id"`
	Limit     int   `form:"limit" binding:"omitempty,min=1,max=50"`
}

type AvailabilityQuery struct {
	WorkerID uint   `form:"worker_id" binding:"required"`
	Start    string `form:"start" binding:"required"`
	Duration int    `form:"duration" binding:"required,min=1,max=480"`
}

type DayQuery struct {
	WorkerID uint   `form:"worker_id" binding:"required"`
	Date     string `form:"date" binding:"required"`
}

type DayScheduleResponse struct {
	*ucAppointment.DaySchedule
	Appointments []dto.AppointmentListDTO `json:"appointments"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	in := ucAppointment.CreateAppointmentInput{
		Caller:    middleware.Identity(c),
		ClientID:  req.ClientID,
		WorkerID:  req.WorkerID,
		ServiceID: req.ServiceID,
		StartAt:   req.StartAt,
		Notes:     req.Notes,
	}
	if req.Service != nil {
		in.Service = &ucAppointment.ServiceInput{
			Name:        req.Service.Name,
			DurationMin: req.Service.DurationMin,
			Price:       req.Service.Price,
		}
	}

	ap, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.Identity(c)
	ap, err := h.cancel.Execute(c.Request.Context(), caller.BusinessID, caller.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req ChangeStatusRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.Identity(c)
	ap, err := h.changeStatus.Execute(c.Request.Context(), ucAppointment.ChangeStatusInput{
		BusinessID:    caller.BusinessID,
		ActorID:       caller.UserID,
		AppointmentID: id,
		Status:        req.Status,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// QUERIES
// ======================================================

func (h *AppointmentHandler) Slots(c *gin.Context) {
	var q SlotsQuery
	if err := validation.BindQuery(c, &q); err != nil {
		respondError(c, err)
		return
	}

	out, err := h.findSlots.Execute(c.Request.Context(), ucAppointment.FindSlotsInput{
		BusinessID:  middleware.Identity(c).BusinessID,
		WorkerID:    q.WorkerID,
		DurationMin: q.Duration,
		ServiceID:   q.ServiceID,
		Limit:       q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	var q AvailabilityQuery
	if err := validation.BindQuery(c, &q); err != nil {
		respondError(c, err)
		return
	}

	start, err := parseInstant("start", q.Start)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.checkSlot.Execute(c.Request.Context(), ucAppointment.CheckSlotInput{
		BusinessID:  middleware.Identity(c).BusinessID,
		WorkerID:    q.WorkerID,
		StartAt:     *start,
		DurationMin: q.Duration,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) Day(c *gin.Context) {
	var q DayQuery
	if err := validation.BindQuery(c, &q); err != nil {
		respondError(c, err)
		return
	}

	out, err := h.day.Execute(c.Request.Context(), ucAppointment.DayScheduleInput{
		BusinessID: middleware.Identity(c).BusinessID,
		WorkerID:   q.WorkerID,
		Date:       q.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, DayScheduleResponse{
		DaySchedule:  out,
		Appointments: dto.AppointmentList(out.Appointments),
	})
}

func (h *AppointmentHandler) Mine(c *gin.Context) {
	caller := middleware.Identity(c)

	apps, err := h.mine.Execute(c.Request.Context(), caller.BusinessID, caller.UserID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, dto.AppointmentList(apps))
}

func (h *AppointmentHandler) Stats(c *gin.Context) {
	from, err := parseDayOrInstant("from", c.Query("from"), false)
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := parseDayOrInstant("to", c.Query("to"), true)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.stats.Execute(c.Request.Context(), ucAppointment.StatsInput{
		BusinessID: middleware.Identity(c).BusinessID,
		From:       from,
		To:         to,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, out)
}
