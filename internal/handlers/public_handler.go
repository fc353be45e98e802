package handlers

import (
	"github.com/gin-gonic/gin"

	accountdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	catalogdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	ucCatalog "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/catalog"
)

// PublicHandler serves the anonymous, slug-addressed business page.
type PublicHandler struct {
	profile *ucCatalog.GetPublicProfile
}

func NewPublicHandler(accounts accountdomain.Repository, catalog catalogdomain.Repository) *PublicHandler {
	return &PublicHandler{profile: ucCatalog.NewGetPublicProfile(accounts, catalog)}
}

func (h *PublicHandler) Business(c *gin.Context) {
	p, err := h.profile.Execute(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, p)
}
