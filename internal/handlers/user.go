package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

const userSearchLimit = 20

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterUserRoutes registers user profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.GET("/search", h.SearchUsers, protect)
	g.GET("/:id", h.GetUser)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseUserIDParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return storeError(c, err, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// SearchUsers matches users by name or email
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}
	users, err := h.userRepository.SearchUsers(c.Request().Context(), query, userSearchLimit)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, users)
}
