package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/ports"
)

// RoleHandler maintains the role catalogue that policies are resolved from.
type RoleHandler struct {
	roles ports.RoleCatalog
}

func NewRoleHandler(roles ports.RoleCatalog) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type roleRequest struct {
	Name     string   `json:"name"     example:"MENTOR"`
	Policies []string `json:"policies" example:"COURSE_READ,COMMENT_CREATE"`
}

type seedRolesRequest struct {
	Roles []roleRequest `json:"roles"`
}

// Upsert creates or replaces role definitions. Tokens already issued keep
// the policies they were signed with.
//
// @Summary      Upsert roles
// @Tags         roles
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  seedRolesRequest  true  "Role definitions"
// @Success      204
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      403   {object}  api.errorResponse
// @Router       /accounts/roles [put]
func (h *RoleHandler) Upsert(c echo.Context) error {
	var req seedRolesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(req.Roles) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "roles cannot be empty")
	}

	roles := make([]domain.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "role name cannot be blank")
		}
		roles = append(roles, domain.Role{Name: name, Policies: r.Policies})
	}

	if err := h.roles.SeedRoles(c.Request().Context(), roles); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
