package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentCounter maintains the denormalized comment counter of a commentable item.
type CommentCounter interface {
	IncrementCommentCount(ctx context.Context, id primitive.ObjectID, delta int) (int64, error)
}

// commentTarget describes the item a comment is attached to and how its owner is notified.
type commentTarget struct {
	Type         models.TargetType
	ID           primitive.ObjectID
	OwnerID      uint
	Notification models.NotificationType
	Noun         string
	Link         string
}

// CommentHandler owns the comment lifecycle shared by posts, reels and projects.
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	counters          map[models.TargetType]CommentCounter
	users             CompactUserSource
	notifier          Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, posts, reels, projects CommentCounter, users CompactUserSource, notifier Notifier) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		counters: map[models.TargetType]CommentCounter{
			models.TargetPost:    posts,
			models.TargetReel:    reels,
			models.TargetProject: projects,
		},
		users:    users,
		notifier: notifier,
	}
}

// addComment stores a comment, bumps the target's counter and notifies the
// target owner and any mentioned users. It returns the new counter value.
func (h *CommentHandler) addComment(c echo.Context, target commentTarget, req *models.CreateCommentRequest) (*models.CommentView, int64, error) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return nil, 0, err
	}
	ctx := c.Request().Context()

	comment := &models.Comment{
		AuthorID:   userID,
		Content:    req.Content,
		TargetType: target.Type,
		TargetID:   target.ID,
		Mentions:   req.Mentions,
	}

	if req.ParentID != "" {
		parent, err := h.commentRepository.GetCommentByID(ctx, req.ParentID)
		if err != nil {
			return nil, 0, storeError(c, err, "Parent comment not found")
		}
		if parent.TargetType != target.Type || parent.TargetID != target.ID {
			return nil, 0, echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to a different item")
		}
		comment.ParentID = &parent.ID
	}

	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return nil, 0, storeError(c, err, "")
	}

	count, err := h.counters[target.Type].IncrementCommentCount(ctx, target.ID, 1)
	if err != nil {
		logrus.WithError(err).WithField("target_id", target.ID.Hex()).Warn("failed to increment comment count")
	}

	name := actorName(c)
	h.notifier.Notify(models.Notification{
		RecipientID: target.OwnerID,
		SenderID:    uintPtr(userID),
		Type:        target.Notification,
		Message:     fmt.Sprintf("%s commented on your %s", name, target.Noun),
		Link:        target.Link,
	})
	for _, mentioned := range req.Mentions {
		h.notifier.Notify(models.Notification{
			RecipientID: mentioned,
			SenderID:    uintPtr(userID),
			Type:        models.NotificationMention,
			Message:     fmt.Sprintf("%s mentioned you in a comment", name),
			Link:        target.Link,
		})
	}

	profiles := compactUsers(ctx, h.users, []uint{userID})
	return &models.CommentView{Comment: *comment, Author: compactPtr(profiles, userID)}, count, nil
}

// listComments returns the comments on an item, newest first, with their authors.
func (h *CommentHandler) listComments(ctx context.Context, targetType models.TargetType, targetID primitive.ObjectID, topLevelOnly bool) ([]models.CommentView, error) {
	comments, err := h.commentRepository.ListByTarget(ctx, targetType, targetID, topLevelOnly)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(comments))
	for _, cm := range comments {
		ids = append(ids, cm.AuthorID)
	}
	profiles := compactUsers(ctx, h.users, ids)

	views := make([]models.CommentView, 0, len(comments))
	for _, cm := range comments {
		views = append(views, models.CommentView{Comment: cm, Author: compactPtr(profiles, cm.AuthorID)})
	}
	return views, nil
}

// removeAll drops every comment of a deleted item.
func (h *CommentHandler) removeAll(ctx context.Context, targetType models.TargetType, targetID primitive.ObjectID) {
	if _, err := h.commentRepository.DeleteByTarget(ctx, targetType, targetID); err != nil {
		logrus.WithError(err).WithField("target_id", targetID.Hex()).Warn("failed to delete comments")
	}
}

// DeleteComment removes a comment written by the caller and decrements the
// counter on the item it belongs to.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	comment, err := h.commentRepository.GetCommentByID(ctx, c.Param("commentId"))
	if err != nil {
		return storeError(c, err, "Comment not found")
	}
	if comment.AuthorID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this comment")
	}

	if err := h.commentRepository.DeleteComment(ctx, comment.ID); err != nil {
		return storeError(c, err, "Comment not found")
	}

	if counter, ok := h.counters[comment.TargetType]; ok {
		if _, err := counter.IncrementCommentCount(ctx, comment.TargetID, -1); err != nil && !repositories.IsNotFound(err) {
			logrus.WithError(err).WithField("target_id", comment.TargetID.Hex()).Warn("failed to decrement comment count")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comment removed"})
}
