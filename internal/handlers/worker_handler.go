package handlers

import (
	"github.com/gin-gonic/gin"

	accountdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	catalogdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	ucAccount "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/account"
	ucCatalog "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/validation"
)

type WorkerHandler struct {
	list   *ucCatalog.ListWorkers
	create *ucAccount.CreateStaff
}

func NewWorkerHandler(
	catalog catalogdomain.Repository,
	accounts accountdomain.Repository,
	auditor ucAccount.Auditor,
) *WorkerHandler {
	return &WorkerHandler{
		list:   ucCatalog.NewListWorkers(catalog),
		create: ucAccount.NewCreateStaff(accounts, auditor),
	}
}

type CreateWorkerRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Phone         string `json:"phone" binding:"max=20"`
	Role          string `json:"role" binding:"omitempty,oneof=admin worker"`
	NotifyEnabled bool   `json:"notify_enabled"`
}

func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.list.Execute(c.Request.Context(), middleware.Identity(c).BusinessID)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, workers)
}

func (h *WorkerHandler) Create(c *gin.Context) {
	var req CreateWorkerRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.Identity(c)
	u, err := h.create.Execute(c.Request.Context(), ucAccount.CreateStaffInput{
		BusinessID:    caller.BusinessID,
		ActorID:       caller.UserID,
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Phone:         req.Phone,
		Role:          req.Role,
		NotifyEnabled: req.NotifyEnabled,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, u)
}
