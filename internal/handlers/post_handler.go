package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/hackmate/backend/internal/engagement"
	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	comments       *CommentHandler
	users          CompactUserSource
	notifier       Notifier
	rewards        Rewards
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, comments *CommentHandler, users CompactUserSource, notifier Notifier, rewards Rewards) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		comments:       comments,
		users:          users,
		notifier:       notifier,
		rewards:        rewards,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.POST("", h.CreatePost, protect)
	g.DELETE("/comments/:commentId", h.comments.DeleteComment, protect)
	g.GET("/:id", h.GetPost)
	g.DELETE("/:id", h.DeletePost, protect)
	g.POST("/:id/like", h.LikePost, protect)
	g.POST("/:id/comment", h.CommentOnPost, protect)
	g.GET("/:id/comments", h.GetPostComments)
}

func postLink(p *models.Post) string {
	return "/post/" + p.ID.Hex()
}

// CreatePost creates a new post and notifies mentioned users
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	post := &models.Post{
		AuthorID: userID,
		Content:  req.Content,
		Images:   req.Images,
		Tags:     req.Tags,
		Mentions: req.Mentions,
	}
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return storeError(c, err, "")
	}

	name := actorName(c)
	for _, mentioned := range post.Mentions {
		h.notifier.Notify(models.Notification{
			RecipientID: mentioned,
			SenderID:    uintPtr(userID),
			Type:        models.NotificationMention,
			Message:     fmt.Sprintf("%s mentioned you in a post", name),
			Link:        postLink(post),
		})
	}
	h.rewards.Record(ctx, userID, gamification.EventPostCreated, models.SkillGeneral)

	profiles := compactUsers(ctx, h.users, []uint{userID})
	return c.JSON(http.StatusCreated, models.PostView{Post: *post, Author: compactPtr(profiles, userID)})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Post not found")
	}
	profiles := compactUsers(ctx, h.users, []uint{post.AuthorID})
	return c.JSON(http.StatusOK, models.PostView{Post: *post, Author: compactPtr(profiles, post.AuthorID)})
}

// DeletePost removes a post owned by the caller along with its comments
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, c.Param("id"))
	if err != nil {
		return storeError(c, err, "Post not found")
	}
	if post.AuthorID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(ctx, post.ID.Hex()); err != nil {
		return storeError(c, err, "Post not found")
	}
	h.comments.removeAll(ctx, models.TargetPost, post.ID)

	return c.JSON(http.StatusOK, echo.Map{"message": "Post removed"})
}

// LikePost toggles the caller's like on a post
func (h *PostHandler) LikePost(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	outcome, err := h.postRepository.ToggleLike(c.Request().Context(), id, userID)
	if err != nil {
		return storeError(c, err, "Post not found")
	}
	if outcome.Liked {
		h.notifier.Notify(models.Notification{
			RecipientID: outcome.OwnerID,
			SenderID:    uintPtr(userID),
			Type:        models.NotificationLikePost,
			Message:     fmt.Sprintf("%s liked your post", actorName(c)),
			Link:        "/post/" + id,
		})
	}

	return c.JSON(http.StatusOK, engagement.LikeResult{Likes: outcome.Count, Liked: outcome.Liked})
}

// CommentOnPost adds a comment to a post
func (h *PostHandler) CommentOnPost(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(c, err, "Post not found")
	}

	view, _, err := h.comments.addComment(c, commentTarget{
		Type:         models.TargetPost,
		ID:           post.ID,
		OwnerID:      post.AuthorID,
		Notification: models.NotificationCommentPost,
		Noun:         "post",
		Link:         postLink(post),
	}, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// GetPostComments lists the top-level comments of a post
func (h *PostHandler) GetPostComments(c echo.Context) error {
	oid, err := parseObjectIDParam(c, "id", "Post not found")
	if err != nil {
		return err
	}
	comments, err := h.comments.listComments(c.Request().Context(), models.TargetPost, oid, true)
	if err != nil {
		return storeError(c, err, "Post not found")
	}
	return c.JSON(http.StatusOK, comments)
}
