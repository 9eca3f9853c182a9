package handlers

import (
	"net/http"

	"github.com/anonto42/hackmate/backend/internal/feed"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the post feeds
type FeedHandler struct {
	feed *feed.Service
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feedService *feed.Service) *FeedHandler {
	return &FeedHandler{feed: feedService}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.GET("/global", h.GetGlobalFeed)
	g.GET("/following", h.GetFollowingFeed, protect)
	g.GET("/trending", h.GetTrendingFeed)
	g.GET("/user/:id", h.GetUserPosts)
}

func pagination(c echo.Context, defaultLimit int) feed.Pagination {
	return feed.ParsePagination(c.QueryParam("page"), c.QueryParam("limit"), defaultLimit)
}

// GetGlobalFeed returns the newest page of posts ranked by engagement and age
func (h *FeedHandler) GetGlobalFeed(c echo.Context) error {
	p := pagination(c, feed.DefaultPostLimit)
	posts, err := h.feed.Global(c.Request().Context(), p)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts":   posts,
		"page":    p.Page,
		"hasMore": p.HasMore(len(posts)),
	})
}

// GetFollowingFeed returns posts by the users the caller follows, newest first
func (h *FeedHandler) GetFollowingFeed(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	p := pagination(c, feed.DefaultPostLimit)
	posts, err := h.feed.Following(c.Request().Context(), userID, p)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts":   posts,
		"page":    p.Page,
		"hasMore": p.HasMore(len(posts)),
	})
}

// GetTrendingFeed ranks the last day's posts by engagement
func (h *FeedHandler) GetTrendingFeed(c echo.Context) error {
	p := pagination(c, feed.DefaultPostLimit)
	posts, err := h.feed.Trending(c.Request().Context(), p)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts":   posts,
		"page":    p.Page,
		"hasMore": p.HasMore(len(posts)),
	})
}

// GetUserPosts returns one author's posts, newest first
func (h *FeedHandler) GetUserPosts(c echo.Context) error {
	authorID, err := parseUserIDParam(c, "id")
	if err != nil {
		return err
	}
	p := pagination(c, feed.DefaultPostLimit)
	posts, err := h.feed.ByAuthor(c.Request().Context(), authorID, p)
	if err != nil {
		return storeError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"posts":   posts,
		"page":    p.Page,
		"hasMore": p.HasMore(len(posts)),
	})
}
