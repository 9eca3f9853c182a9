package handlers

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// streamClaims is the payload Stream Chat expects in a user token.
type streamClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// StreamHandler issues chat tokens for the Stream service
type StreamHandler struct {
	apiSecret string
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(apiSecret string) *StreamHandler {
	return &StreamHandler{apiSecret: apiSecret}
}

// RegisterStreamRoutes registers stream routes. The group is expected to be protected.
func (h *StreamHandler) RegisterStreamRoutes(g *echo.Group) {
	g.POST("/token", h.GetToken)
}

// GetToken signs a Stream user token for the caller
func (h *StreamHandler) GetToken(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	if h.apiSecret == "" {
		return echo.NewHTTPError(http.StatusInternalServerError, "Stream is not configured")
	}

	claims := &streamClaims{UserID: strconv.FormatUint(uint64(userID), 10)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.apiSecret))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
