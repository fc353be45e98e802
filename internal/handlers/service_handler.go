package handlers

import (
	"github.com/gin-gonic/gin"

	catalogdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	ucCatalog "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/validation"
)

type ServiceHandler struct {
	list   *ucCatalog.ListServices
	create *ucCatalog.CreateService
	update *ucCatalog.UpdateService
}

func NewServiceHandler(repo catalogdomain.Repository, auditor ucCatalog.Auditor) *ServiceHandler {
	return &ServiceHandler{
		list:   ucCatalog.NewListServices(repo),
		create: ucCatalog.NewCreateService(repo, auditor),
		update: ucCatalog.NewUpdateService(repo, auditor),
	}
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=255"`
	DurationMin int     `json:"duration_min" binding:"required,min=1,max=480"`
	Price       float64 `json:"price" binding:"gte=0"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description" binding:"omitempty,max=255"`
	DurationMin *int     `json:"duration_min" binding:"omitempty,min=1,max=480"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Active      *bool    `json:"active"`
}

// List shows active services; admins may pass include_inactive=true.
func (h *ServiceHandler) List(c *gin.Context) {
	caller := middleware.Identity(c)
	onlyActive := !(caller.Role == models.RoleAdmin && c.Query("include_inactive") == "true")

	services, err := h.list.Execute(c.Request.Context(), caller.BusinessID, onlyActive)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.Identity(c)
	svc, err := h.create.Execute(c.Request.Context(), ucCatalog.CreateServiceInput{
		BusinessID:  caller.BusinessID,
		ActorID:     caller.UserID,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateServiceRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	caller := middleware.Identity(c)
	svc, err := h.update.Execute(c.Request.Context(), ucCatalog.UpdateServiceInput{
		BusinessID:  caller.BusinessID,
		ActorID:     caller.UserID,
		ServiceID:   id,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, svc)
}
