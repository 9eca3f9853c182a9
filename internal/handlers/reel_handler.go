package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/anonto42/hackmate/backend/internal/engagement"
	"github.com/anonto42/hackmate/backend/internal/feed"
	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReelHandler handles HTTP requests related to reels
type ReelHandler struct {
	reelRepository repositories.ReelRepository
	comments       *CommentHandler
	users          CompactUserSource
	notifier       Notifier
	rewards        Rewards
}

// NewReelHandler creates a new ReelHandler
func NewReelHandler(reelRepo repositories.ReelRepository, comments *CommentHandler, users CompactUserSource, notifier Notifier, rewards Rewards) *ReelHandler {
	return &ReelHandler{
		reelRepository: reelRepo,
		comments:       comments,
		users:          users,
		notifier:       notifier,
		rewards:        rewards,
	}
}

// RegisterReelRoutes registers reel routes
func (h *ReelHandler) RegisterReelRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.POST("", h.CreateReel, protect)
	g.GET("", h.GetReels)
	g.GET("/trending", h.GetTrendingReels)
	g.GET("/user/:id", h.GetUserReels)
	g.GET("/:id", h.GetReel)
	g.DELETE("/:id", h.DeleteReel, protect)
	g.POST("/:id/view", h.ViewReel)
	g.POST("/:id/like", h.LikeReel, protect)
	g.POST("/:id/comment", h.CommentOnReel, protect)
}

func (h *ReelHandler) withCreators(c echo.Context, reels []models.Reel) []models.ReelView {
	ids := make([]uint, 0, len(reels))
	for _, r := range reels {
		ids = append(ids, r.CreatorID)
	}
	profiles := compactUsers(c.Request().Context(), h.users, ids)

	views := make([]models.ReelView, 0, len(reels))
	for _, r := range reels {
		views = append(views, models.ReelView{Reel: r, Creator: compactPtr(profiles, r.CreatorID)})
	}
	return views
}

func optionalObjectID(hex string) *primitive.ObjectID {
	if hex == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &oid
}

// CreateReel stores an uploaded reel
func (h *ReelHandler) CreateReel(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateReelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	reel := &models.Reel{
		CreatorID:   userID,
		VideoURL:    req.VideoURL,
		Thumbnail:   req.Thumbnail,
		Caption:     req.Caption,
		Duration:    req.Duration,
		Tags:        req.Tags,
		HackathonID: optionalObjectID(req.HackathonID),
		ProjectID:   optionalObjectID(req.ProjectID),
	}
	if err := h.reelRepository.CreateReel(ctx, reel); err != nil {
		return storeError(c, err, "")
	}
	h.rewards.Record(ctx, userID, gamification.EventReelUploaded, req.Category)

	return c.JSON(http.StatusCreated, h.withCreators(c, []models.Reel{*reel})[0])
}

// GetReels pages through all reels, newest first
func (h *ReelHandler) GetReels(c echo.Context) error {
	p := pagination(c, feed.DefaultReelLimit)
	reels, err := h.reelRepository.ListReels(c.Request().Context(), int64(p.Skip()), int64(p.Limit))
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reels":   h.withCreators(c, reels),
		"page":    p.Page,
		"hasMore": p.HasMore(len(reels)),
	})
}

// GetTrendingReels pages through the last day's reels, most viewed first
func (h *ReelHandler) GetTrendingReels(c echo.Context) error {
	p := pagination(c, feed.DefaultReelLimit)
	since := time.Now().UTC().Add(-feed.TrendingWindow)
	reels, err := h.reelRepository.ListTrending(c.Request().Context(), since, int64(p.Skip()), int64(p.Limit))
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reels":   h.withCreators(c, reels),
		"page":    p.Page,
		"hasMore": p.HasMore(len(reels)),
	})
}

// GetUserReels lists one creator's reels, newest first
func (h *ReelHandler) GetUserReels(c echo.Context) error {
	creatorID, err := parseUserIDParam(c, "id")
	if err != nil {
		return err
	}
	reels, err := h.reelRepository.ListByCreator(c.Request().Context(), creatorID)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, h.withCreators(c, reels))
}

func (h *ReelHandler) GetReel(c echo.Context) error {
	reel, err := h.reelRepository.GetReelByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err, "Reel not found")
	}
	return c.JSON(http.StatusOK, h.withCreators(c, []models.Reel{*reel})[0])
}

// DeleteReel removes a reel created by the caller along with its comments
func (h *ReelHandler) DeleteReel(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	reel, err := h.reelRepository.GetReelByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Reel not found")
	}
	if reel.CreatorID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this reel")
	}

	if err := h.reelRepository.DeleteReel(ctx, reel.ID.Hex()); err != nil {
		return storeError(c, err, "Reel not found")
	}
	h.comments.removeAll(ctx, models.TargetReel, reel.ID)

	return c.JSON(http.StatusOK, echo.Map{"message": "Reel deleted successfully"})
}

// ViewReel counts a view and checks the creator's viral-reel achievement
func (h *ReelHandler) ViewReel(c echo.Context) error {
	ctx := c.Request().Context()
	reel, err := h.reelRepository.IncrementViews(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Reel not found")
	}
	h.rewards.CheckReelViews(ctx, reel.CreatorID, reel.Views)
	return c.JSON(http.StatusOK, echo.Map{"views": reel.Views})
}

// LikeReel toggles the caller's like on a reel
func (h *ReelHandler) LikeReel(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	outcome, err := h.reelRepository.ToggleLike(c.Request().Context(), id, userID)
	if err != nil {
		return storeError(c, err, "Reel not found")
	}
	if outcome.Liked {
		h.notifier.Notify(models.Notification{
			RecipientID: outcome.OwnerID,
			SenderID:    uintPtr(userID),
			Type:        models.NotificationLikeReel,
			Message:     fmt.Sprintf("%s liked your reel", actorName(c)),
			Link:        "/reels/" + id,
		})
	}

	return c.JSON(http.StatusOK, engagement.LikeResult{Likes: outcome.Count, Liked: outcome.Liked})
}

// CommentOnReel adds a comment and returns the reel's full comment list
func (h *ReelHandler) CommentOnReel(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	reel, err := h.reelRepository.GetReelByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Reel not found")
	}

	_, count, err := h.comments.addComment(c, commentTarget{
		Type:         models.TargetReel,
		ID:           reel.ID,
		OwnerID:      reel.CreatorID,
		Notification: models.NotificationCommentReel,
		Noun:         "reel",
		Link:         "/reels/" + reel.ID.Hex(),
	}, &req)
	if err != nil {
		return err
	}

	comments, err := h.comments.listComments(ctx, models.TargetReel, reel.ID, false)
	if err != nil {
		return storeError(c, err, "Reel not found")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"comments":     comments,
		"commentCount": count,
	})
}
