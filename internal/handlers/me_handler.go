package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type MeHandler struct {
	repo domain.Repository
}

func NewMeHandler(repo domain.Repository) *MeHandler {
	return &MeHandler{repo: repo}
}

type MeResponse struct {
	User     *models.User     `json:"user"`
	Business *models.Business `json:"business"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	caller := middleware.Identity(c)
	ctx := c.Request.Context()

	user, err := h.repo.GetMember(ctx, caller.BusinessID, caller.UserID)
	if err != nil {
		// token outlived its user
		respondError(c, notFoundOr(err, httperr.CodeUnauthorized))
		return
	}

	business, err := h.repo.GetBusinessByID(ctx, caller.BusinessID)
	if err != nil {
		respondError(c, notFoundOr(err, httperr.CodeNotFound))
		return
	}

	httpresp.OK(c, MeResponse{User: user, Business: business})
}
