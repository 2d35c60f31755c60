package model

import (
	"errors"
	"time"
)

// Comment is an append-only comment on a post. Username is a creation-time
// snapshot of the commenter's name. Comments are never edited or individually
// deleted; they go away with their post.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"-"`
	UserID    int64     `db:"user_id" json:"user"`
	Username  string    `db:"username" json:"username"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Comment constraints
const (
	MaxCommentLength = 500
)

// Comment errors
var (
	ErrCommentEmpty   = errors.New("comment text is required")
	ErrCommentTooLong = errors.New("comment text too long")
)
