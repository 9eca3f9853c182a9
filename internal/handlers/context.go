package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/middleware"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier queues notifications for asynchronous delivery.
type Notifier interface {
	Notify(n models.Notification) bool
}

// Rewards records gamified actions. Implementations never fail the caller.
type Rewards interface {
	Record(ctx context.Context, userID uint, event gamification.Event, category models.SkillCategory)
	CheckFollowers(ctx context.Context, userID uint, followers int64)
	CheckReelViews(ctx context.Context, creatorID uint, views int64)
}

// Broadcaster pushes an event to everyone connected to a room.
type Broadcaster interface {
	Broadcast(room, event string, data interface{}) error
}

// CompactUserSource resolves user ids to their embedded profile shape.
type CompactUserSource interface {
	GetCompactUsers(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error)
}

// currentClaims returns the JWT claims set by the auth middleware, if any.
func currentClaims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(middleware.ClaimsKey).(*models.JwtCustomClaims)
	return claims
}

// getUserIDFromContext extracts the authenticated user's id.
func getUserIDFromContext(c echo.Context) (uint, error) {
	claims := currentClaims(c)
	if claims == nil || claims.UserID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return claims.UserID, nil
}

// actorName is the display name used in notification messages.
func actorName(c echo.Context) string {
	if claims := currentClaims(c); claims != nil && claims.Name != "" {
		return claims.Name
	}
	return "Someone"
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func parseUserIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return uint(id), nil
}

// parseObjectIDParam reads a hex ObjectID path parameter. A malformed id
// cannot name an existing document, so it is reported as missing.
func parseObjectIDParam(c echo.Context, name, notFound string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return oid, nil
}

// storeError maps repository errors to HTTP errors. Missing or malformed ids
// become 404 with notFound as the message; anything else is a 500 carrying the
// underlying message.
func storeError(c echo.Context, err error, notFound string) error {
	if repositories.IsNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request().Method,
		"path":   c.Path(),
	}).Error("store operation failed")
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func compactUsers(ctx context.Context, users CompactUserSource, ids []uint) map[uint]models.UserCompact {
	profiles, err := users.GetCompactUsers(ctx, ids)
	if err != nil {
		logrus.WithError(err).Warn("failed to load user profiles")
		return map[uint]models.UserCompact{}
	}
	return profiles
}

func compactPtr(profiles map[uint]models.UserCompact, id uint) *models.UserCompact {
	if p, ok := profiles[id]; ok {
		return &p
	}
	return nil
}

func uintPtr(v uint) *uint {
	return &v
}
