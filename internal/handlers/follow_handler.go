package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const suggestionLimit = 10

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	notifier         Notifier
	rewards          Rewards
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifier Notifier, rewards Rewards) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		notifier:         notifier,
		rewards:          rewards,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.GET("/suggestions", h.GetSuggestedUsers, protect)
	g.POST("/:id", h.FollowUser, protect)
	g.DELETE("/:id", h.UnfollowUser, protect)
	g.GET("/:id/followers", h.GetFollowers)
	g.GET("/:id/following", h.GetFollowing)
	g.GET("/:id/check", h.CheckFollowing, protect)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseUserIDParam(c, "id")
	if err != nil {
		return err
	}
	if currentUserID == targetID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}
	ctx := c.Request().Context()

	if _, err := h.userRepository.GetUserByID(ctx, targetID); err != nil {
		return storeError(c, err, "User not found")
	}

	follow := &models.Follow{
		FollowerID:  currentUserID,
		FollowingID: targetID,
	}
	if err := h.followRepository.CreateFollow(ctx, follow); err != nil {
		if errors.Cause(err) == repositories.ErrAlreadyFollowing {
			return echo.NewHTTPError(http.StatusBadRequest, "Already following this user")
		}
		return storeError(c, err, "")
	}

	h.notifier.Notify(models.Notification{
		RecipientID: targetID,
		SenderID:    uintPtr(currentUserID),
		Type:        models.NotificationFollow,
		Message:     fmt.Sprintf("%s started following you", actorName(c)),
		Link:        fmt.Sprintf("/profile/%d", currentUserID),
	})

	followers, err := h.followRepository.GetFollowersCount(ctx, targetID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", targetID).Warn("failed to count followers")
	} else {
		h.rewards.CheckFollowers(ctx, targetID, followers)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully followed user"})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseUserIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.followRepository.DeleteFollow(c.Request().Context(), currentUserID, targetID); err != nil {
		return storeError(c, err, "Not following this user")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully unfollowed user"})
}

// GetFollowers lists the users following :id
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := parseUserIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.followRepository.GetFollowers(c.Request().Context(), userID)
	if err != nil {
		return storeError(c, err, "")
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// GetFollowing lists the users :id follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := parseUserIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.followRepository.GetFollowing(c.Request().Context(), userID)
	if err != nil {
		return storeError(c, err, "")
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// CheckFollowing reports whether the caller follows :id
func (h *FollowHandler) CheckFollowing(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseUserIDParam(c, "id")
	if err != nil {
		return err
	}
	isFollowing, err := h.followRepository.IsFollowing(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"isFollowing": isFollowing})
}

// GetSuggestedUsers returns users the caller does not follow yet
func (h *FollowHandler) GetSuggestedUsers(c echo.Context) error {
	currentUserID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	following, err := h.followRepository.GetFollowingIDs(ctx, currentUserID)
	if err != nil {
		return storeError(c, err, "")
	}
	users, err := h.userRepository.SuggestUsers(ctx, append(following, currentUserID), suggestionLimit)
	if err != nil {
		return storeError(c, err, "")
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(http.StatusOK, users)
}
