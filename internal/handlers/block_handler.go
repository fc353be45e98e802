package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	blockdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	ucBlock "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/validation"
)

type BlockHandler struct {
	create     *ucBlock.CreateBlock
	list       *ucBlock.ListBlocks
	update     *ucBlock.UpdateBlock
	deactivate *ucBlock.DeactivateBlock
}

func NewBlockHandler(repo blockdomain.Repository, auditor ucBlock.Auditor) *BlockHandler {
	return &BlockHandler{
		create:     ucBlock.NewCreateBlock(repo, auditor),
		list:       ucBlock.NewListBlocks(repo),
		update:     ucBlock.NewUpdateBlock(repo, auditor),
		deactivate: ucBlock.NewDeactivateBlock(repo, auditor),
	}
}

// --------- Requests ---------

type CreateBlockRequest struct {
	WorkerID *uint     `json:"worker_id"`
	StartAt  time.Time `json:"start_at" binding:"required"`
	EndAt    time.Time `json:"end_at" binding:"required,gtfield=StartAt"`
	Reason   string    `json:"reason" binding:"required"`
	Notes    string    `json:"notes" binding:"max=1000"`
}

type UpdateBlockRequest struct {
	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`
	Reason  *string    `json:"reason"`
	Notes   *string    `json:"notes" binding:"omitempty,max=1000"`
}

// --------- Handlers ---------

func (h *BlockHandler) Create(c *gin.Context) {
	var req CreateBlockRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.Identity(c)
	b, err := h.create.Execute(c.Request.Context(), ucBlock.CreateBlockInput{
		BusinessID: caller.BusinessID,
		ActorID:    caller.UserID,
		WorkerID:   req.WorkerID,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Reason:     req.Reason,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *BlockHandler) List(c *gin.Context) {
	f := blockdomain.Filter{BusinessID: middleware.Identity(c).BusinessID}

	if raw := c.Query("worker_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			respondError(c, invalid("worker_id", "id", "worker_id must be a positive integer"))
			return
		}
		wid := uint(id)
		f.WorkerID = &wid
	}

	var err error
	if f.From, err = parseDayOrInstant("from", c.Query("from"), false); err != nil {
		respondError(c, err)
		return
	}
	if f.To, err = parseDayOrInstant("to", c.Query("to"), true); err != nil {
		respondError(c, err)
		return
	}
	f.IncludeInactive = c.Query("include_inactive") == "true"

	blocks, err := h.list.Execute(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, blocks)
}

func (h *BlockHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateBlockRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.Identity(c)
	b, err := h.update.Execute(c.Request.Context(), ucBlock.UpdateBlockInput{
		BusinessID: caller.BusinessID,
		ActorID:    caller.UserID,
		BlockID:    id,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Reason:     req.Reason,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// Deactivate soft-deletes the block; repeating it is a no-op.
func (h *BlockHandler) Deactivate(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.Identity(c)
	b, err := h.deactivate.Execute(c.Request.Context(), caller.BusinessID, caller.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, b)
}
