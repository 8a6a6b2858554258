package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubcore/members-system/internal/api/middleware"
	"github.com/clubcore/members-system/internal/core/ports"
)

// AdminHandler serves the admin panel: user listing and role changes.
// Routes using it are gated on an admin session by the router.
type AdminHandler struct {
	auth ports.AuthService
}

func NewAdminHandler(auth ports.AuthService) *AdminHandler {
	return &AdminHandler{auth: auth}
}

// ListUsers returns every registered user.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Success      200  {object}  userListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.auth.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	out := userListResponse{Users: make([]userResponse, 0, len(users))}
	for _, u := range users {
		out.Users = append(out.Users, userResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Promote grants the target user the admin role. Sessions the target already
// holds keep their cached role until the next login.
//
// @Summary      Promote a user to admin
// @Tags         admin
// @Param        id  path  string  true  "Target user id"
// @Success      204  "role updated"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id}/promote [post]
func (h *AdminHandler) Promote(c echo.Context) error {
	actor, _ := middleware.Identity(c)
	if err := h.auth.Promote(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Demote returns the target user to the plain user role.
//
// @Summary      Demote an admin to user
// @Tags         admin
// @Param        id  path  string  true  "Target user id"
// @Success      204  "role updated"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id}/demote [post]
func (h *AdminHandler) Demote(c echo.Context) error {
	actor, _ := middleware.Identity(c)
	if err := h.auth.Demote(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
