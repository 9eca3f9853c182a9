// Package engagement holds the like-set operations shared by posts, reels and projects.
package engagement

// ToggleLike flips the membership of actor in likes. It returns a fresh slice
// and whether actor is a member afterwards. The input slice is never modified.
func ToggleLike(likes []uint, actor uint) ([]uint, bool) {
	next := make([]uint, 0, len(likes)+1)
	found := false
	for _, id := range likes {
		if id == actor {
			found = true
			continue
		}
		next = append(next, id)
	}
	if found {
		return next, false
	}
	return append(next, actor), true
}

// Contains reports whether actor is in likes.
func Contains(likes []uint, actor uint) bool {
	for _, id := range likes {
		if id == actor {
			return true
		}
	}
	return false
}

// LikeResult is the response of a toggle: the new cardinality and the resulting state.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}
