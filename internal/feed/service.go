package feed

import (
	"context"
	"time"

	"github.com/anonto42/hackmate/backend/internal/models"
)

// PostSource loads raw post pages, newest first.
type PostSource interface {
	ListRecent(ctx context.Context, skip, limit int64) ([]models.Post, error)
	ListSince(ctx context.Context, since time.Time, limit int64) ([]models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, skip, limit int64) ([]models.Post, error)
}

// FollowingSource resolves who a user follows.
type FollowingSource interface {
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// AuthorSource resolves compact user profiles by ID.
type AuthorSource interface {
	GetCompactUsers(ctx context.Context, ids []uint) (map[uint]models.UserCompact, error)
}

// Service assembles the four post feeds.
type Service struct {
	posts     PostSource
	following FollowingSource
	authors   AuthorSource
	now       func() time.Time
}

// NewService creates a feed Service.
func NewService(posts PostSource, following FollowingSource, authors AuthorSource) *Service {
	return &Service{posts: posts, following: following, authors: authors, now: time.Now}
}

// Global ranks the most recent page of posts by GlobalScore.
func (s *Service) Global(ctx context.Context, p Pagination) ([]RankedPost, error) {
	posts, err := s.posts.ListRecent(ctx, int64(p.Skip()), int64(p.Limit))
	if err != nil {
		return nil, err
	}
	views, err := s.attachAuthors(ctx, posts)
	if err != nil {
		return nil, err
	}
	return RankGlobal(views, s.now()), nil
}

// Trending ranks posts from the last TrendingWindow by engagement.
func (s *Service) Trending(ctx context.Context, p Pagination) ([]TrendingPost, error) {
	since := s.now().Add(-TrendingWindow)
	pool, err := s.posts.ListSince(ctx, since, TrendingPoolSize)
	if err != nil {
		return nil, err
	}
	views, err := s.attachAuthors(ctx, pool)
	if err != nil {
		return nil, err
	}
	return RankTrending(views, p), nil
}

// Following lists posts by the users userID follows, newest first.
func (s *Service) Following(ctx context.Context, userID uint, p Pagination) ([]models.PostView, error) {
	ids, err := s.following.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.PostView{}, nil
	}
	posts, err := s.posts.ListByAuthors(ctx, ids, int64(p.Skip()), int64(p.Limit))
	if err != nil {
		return nil, err
	}
	return s.attachAuthors(ctx, posts)
}

// ByAuthor lists one user's posts, newest first.
func (s *Service) ByAuthor(ctx context.Context, authorID uint, p Pagination) ([]models.PostView, error) {
	posts, err := s.posts.ListByAuthors(ctx, []uint{authorID}, int64(p.Skip()), int64(p.Limit))
	if err != nil {
		return nil, err
	}
	return s.attachAuthors(ctx, posts)
}

func (s *Service) attachAuthors(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	return AttachAuthors(ctx, s.authors, posts)
}

// AttachAuthors resolves the author of every post in one lookup.
func AttachAuthors(ctx context.Context, authors AuthorSource, posts []models.Post) ([]models.PostView, error) {
	views := make([]models.PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
	}
	byID, err := authors.GetCompactUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i, p := range posts {
		views[i] = models.PostView{Post: p}
		if u, ok := byID[p.AuthorID]; ok {
			author := u
			views[i].Author = &author
		}
	}
	return views, nil
}
