package handlers

import (
	"net/http"

	"comercia/internal/apperr"
	"comercia/internal/common"
	"comercia/internal/provisioning"

	"github.com/labstack/echo/v4"
)

// ProvisioningHandlers are the thin route adapters in front of the one
// provisioning service. Both creation routes share the same handler.
type ProvisioningHandlers struct {
	svc provisioning.Service
}

func NewProvisioningHandlers(svc provisioning.Service) *ProvisioningHandlers {
	return &ProvisioningHandlers{svc: svc}
}

// Register mounts the two equivalent creation routes.
func (h *ProvisioningHandlers) Register(g *echo.Group) {
	g.POST("/inventory/create", h.CreateTenant)
	g.POST("/control_login/create", h.CreateTenant)
}

// CreateTenant handles a tenant onboarding request.
func (h *ProvisioningHandlers) CreateTenant(c echo.Context) error {
	subject, ok := common.GetAuthSubjectFromContext(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, &provisioning.ErrorResponse{
			Errors: []apperr.FieldError{{Field: "general", Message: "authentication required"}},
		})
	}

	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, &provisioning.ErrorResponse{
			Errors: []apperr.FieldError{{Field: "general", Message: "invalid request body"}},
		})
	}

	result, err := h.svc.Provision(c.Request().Context(), payload, subject)
	if err != nil {
		status, body := provisioning.MapError(err)
		return c.JSON(status, body)
	}
	return c.JSON(http.StatusOK, result)
}
