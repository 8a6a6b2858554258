package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubcore/members-system/internal/api/middleware"
)

// MemberHandler serves the members-only area.
type MemberHandler struct{}

func NewMemberHandler() *MemberHandler {
	return &MemberHandler{}
}

// Profile returns the signed-in member's identity as cached in the session.
//
// @Summary      Members area
// @Tags         members
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /members [get]
func (h *MemberHandler) Profile(c echo.Context) error {
	username, role := middleware.Identity(c)
	return c.JSON(http.StatusOK, sessionResponse{Username: username, Role: role})
}
