// Package vote holds the local like/dislike state for videos and comments.
// Nothing here is sent upstream.
package vote

import (
	"slices"

	"github.com/mmcdole/youhub/internal/domain"
)

// Reaction is the viewer's like/dislike on a video. Like and dislike are
// mutually exclusive.
type Reaction struct {
	Liked    bool
	Disliked bool
}

// ToggleLike flips the like and clears any dislike when turning it on
func (r Reaction) ToggleLike() Reaction {
	r.Liked = !r.Liked
	if r.Liked {
		r.Disliked = false
	}
	return r
}

// ToggleDislike flips the dislike and clears any like when turning it on
func (r Reaction) ToggleDislike() Reaction {
	r.Disliked = !r.Disliked
	if r.Disliked {
		r.Liked = false
	}
	return r
}

// Display returns the like and dislike counts adjusted for the viewer's
// own reaction.
func (r Reaction) Display(likes, dislikes int64) (int64, int64) {
	like := likes
	if r.Liked {
		like++
	}
	if r.Disliked && likes > 0 {
		like--
	}
	dislike := dislikes
	if r.Disliked {
		dislike++
	}
	if r.Liked && dislikes > 0 {
		dislike--
	}
	return like, dislike
}

// Toggles holds the independent on/off actions under a video
type Toggles struct {
	Favorite   bool
	Subscribed bool
}

// Choice is the viewer's vote on a comment
type Choice int

const (
	None Choice = iota
	Up
	Down
)

func (c Choice) String() string {
	switch c {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return ""
	}
}

// CommentVote tracks counts and the viewer's vote for one comment
type CommentVote struct {
	Likes    int64
	Dislikes int64
	User     Choice
}

// Up toggles an upvote, undoing a previous downvote
func (v CommentVote) Up() CommentVote {
	wasUp, wasDown := v.User == Up, v.User == Down
	if wasUp {
		v.Likes--
	} else {
		v.Likes++
	}
	if wasDown {
		v.Likes++
		v.Dislikes--
	}
	v.Likes, v.Dislikes = max(0, v.Likes), max(0, v.Dislikes)
	if wasUp {
		v.User = None
	} else {
		v.User = Up
	}
	return v
}

// Down toggles a downvote, undoing a previous upvote
func (v CommentVote) Down() CommentVote {
	wasUp, wasDown := v.User == Up, v.User == Down
	if wasDown {
		v.Dislikes--
	} else {
		v.Dislikes++
	}
	if wasUp {
		v.Dislikes++
		v.Likes--
	}
	v.Likes, v.Dislikes = max(0, v.Likes), max(0, v.Dislikes)
	if wasDown {
		v.User = None
	} else {
		v.User = Down
	}
	return v
}

// SortMode orders a comment list
type SortMode string

const (
	SortPopular SortMode = "popular"
	SortRecent  SortMode = "recent"
)

// ParseSortMode defaults unknown values to popular
func ParseSortMode(s string) SortMode {
	if SortMode(s) == SortRecent {
		return SortRecent
	}
	return SortPopular
}

// Board is the vote state for a comment thread
type Board struct {
	votes map[string]CommentVote
}

// NewBoard seeds votes from the upstream like counts
func NewBoard(comments []domain.Comment) *Board {
	b := &Board{votes: make(map[string]CommentVote, len(comments))}
	b.Add(comments)
	return b
}

// Add seeds votes for comments not seen before
func (b *Board) Add(comments []domain.Comment) {
	for _, c := range comments {
		if _, ok := b.votes[c.ID]; !ok {
			b.votes[c.ID] = CommentVote{Likes: c.Likes.Int()}
		}
	}
}

// Get returns the vote for a comment id
func (b *Board) Get(id string) CommentVote {
	return b.votes[id]
}

// Up applies an upvote to a comment
func (b *Board) Up(id string) CommentVote {
	v := b.votes[id].Up()
	b.votes[id] = v
	return v
}

// Down applies a downvote to a comment
func (b *Board) Down(id string) CommentVote {
	v := b.votes[id].Down()
	b.votes[id] = v
	return v
}

// Sort returns comments in display order. Popular sorts by current likes,
// recent keeps upstream order.
func (b *Board) Sort(comments []domain.Comment, mode SortMode) []domain.Comment {
	out := slices.Clone(comments)
	if mode != SortPopular {
		return out
	}
	slices.SortStableFunc(out, func(x, y domain.Comment) int {
		lx, ly := b.likes(x), b.likes(y)
		switch {
		case lx > ly:
			return -1
		case lx < ly:
			return 1
		}
		return 0
	})
	return out
}

func (b *Board) likes(c domain.Comment) int64 {
	if v, ok := b.votes[c.ID]; ok {
		return v.Likes
	}
	return c.Likes.Int()
}
