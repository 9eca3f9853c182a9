// Package feed ranks and pages post listings.
package feed

import (
	"sort"
	"time"

	"github.com/anonto42/hackmate/backend/internal/models"
)

const (
	// TrendingWindow bounds how old a trending item may be.
	TrendingWindow = 24 * time.Hour
	// TrendingPoolSize caps the working set that trending pagination draws from.
	TrendingPoolSize = 100
)

// RankedPost is a global-feed entry.
type RankedPost struct {
	models.PostView
	Score float64 `json:"score"`
}

// TrendingPost is a trending-feed entry.
type TrendingPost struct {
	models.PostView
	EngagementScore int `json:"engagement_score"`
}

// EngagementScore weighs comments above likes.
func EngagementScore(likes, comments int) int {
	return likes*2 + comments*3
}

// GlobalScore adds the age of the post in hours to its engagement score.
// Older posts gain score from the age term.
func GlobalScore(likes, comments int, createdAt, now time.Time) float64 {
	ageHours := now.Sub(createdAt).Hours()
	return float64(EngagementScore(likes, comments)) + ageHours
}

// RankGlobal scores a page of posts and orders it by descending score.
func RankGlobal(posts []models.PostView, now time.Time) []RankedPost {
	ranked := make([]RankedPost, len(posts))
	for i, p := range posts {
		ranked[i] = RankedPost{
			PostView: p,
			Score:    GlobalScore(len(p.Likes), p.CommentCount, p.CreatedAt, now),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// RankTrending orders the pool by engagement and then cuts the requested page.
// Ties keep their pool order, which is newest first.
func RankTrending(pool []models.PostView, p Pagination) []TrendingPost {
	ranked := make([]TrendingPost, len(pool))
	for i, post := range pool {
		ranked[i] = TrendingPost{
			PostView:        post,
			EngagementScore: EngagementScore(len(post.Likes), post.CommentCount),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EngagementScore > ranked[j].EngagementScore
	})

	start := p.Skip()
	if start >= len(ranked) {
		return []TrendingPost{}
	}
	end := start + p.Limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end]
}
