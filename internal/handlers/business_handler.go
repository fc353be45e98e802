package handlers

import (
	"github.com/gin-gonic/gin"

	catalogdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	ucCatalog "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/validation"
)

type BusinessHandler struct {
	get    *ucCatalog.GetBusiness
	update *ucCatalog.UpdateBusiness
	hours  *ucCatalog.ReplaceOpeningHours
}

func NewBusinessHandler(repo catalogdomain.Repository, auditor ucCatalog.Auditor) *BusinessHandler {
	return &BusinessHandler{
		get:    ucCatalog.NewGetBusiness(repo),
		update: ucCatalog.NewUpdateBusiness(repo, auditor),
		hours:  ucCatalog.NewReplaceOpeningHours(repo, auditor),
	}
}

// --------- Requests ---------

type UpdateBusinessRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	Timezone *string `json:"timezone"`

	SlotGranularityMin    *int `json:"slot_granularity_min"`
	LookaheadDays         *int `json:"lookahead_days"`
	MaxConfirmedPerClient *int `json:"max_confirmed_per_client"`
	CancelCutoffHours     *int `json:"cancel_cutoff_hours"`
}

type OpeningDayRequest struct {
	Weekday int    `json:"weekday" binding:"min=0,max=6"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

type OpeningHoursRequest struct {
	Days []OpeningDayRequest `json:"days" binding:"dive"`
}

// --------- Handlers ---------

func (h *BusinessHandler) Get(c *gin.Context) {
	b, err := h.get.Execute(c.Request.Context(), middleware.Identity(c).BusinessID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, b)
}

func (h *BusinessHandler) Update(c *gin.Context) {
	var req UpdateBusinessRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.Identity(c)
	b, err := h.update.Execute(c.Request.Context(), ucCatalog.UpdateBusinessInput{
		BusinessID: caller.BusinessID,
		ActorID:    caller.UserID,

		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Timezone: req.Timezone,

		SlotGranularityMin:    req.SlotGranularityMin,
		LookaheadDays:         req.LookaheadDays,
		MaxConfirmedPerClient: req.MaxConfirmedPerClient,
		CancelCutoffHours:     req.CancelCutoffHours,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ReplaceHours swaps the whole weekly schedule. Weekdays left out are
// closed; an empty list falls back to the default workday.
func (h *BusinessHandler) ReplaceHours(c *gin.Context) {
	var req OpeningHoursRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	days := make([]ucCatalog.DayHours, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, ucCatalog.DayHours{Weekday: d.Weekday, Open: d.Open, Close: d.Close})
	}

	caller := middleware.Identity(c)
	b, err := h.hours.Execute(c.Request.Context(), caller.BusinessID, caller.UserID, days)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, b)
}
