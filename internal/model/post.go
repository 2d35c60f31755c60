package model

import (
	"errors"
	"time"
)

// Post is a user's post with its embedded like and comment collections.
// Username is a snapshot taken at creation time; it is never re-synced if
// the author later renames.
type Post struct {
	ID       int64   `db:"id" json:"id"`
	UserID   int64   `db:"user_id" json:"user"`
	Username string  `db:"username" json:"username"`
	Content  string  `db:"content" json:"content"`
	ImageURL *string `db:"image_url" json:"imageUrl"`
	ImageKey *string `db:"image_key" json:"-"`

	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Derived at read time from the collections, never persisted.
	LikesCount    int `db:"-" json:"likesCount"`
	CommentsCount int `db:"-" json:"commentsCount"`
}

// Recount refreshes the derived counts from the collection lengths.
// Must be called whenever a projection is built.
func (p *Post) Recount() {
	p.LikesCount = len(p.Likes)
	p.CommentsCount = len(p.Comments)
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// Like records that a user liked a post. Username is a creation-time snapshot.
type Like struct {
	ID        int64     `db:"id" json:"-"`
	PostID    int64     `db:"post_id" json:"-"`
	UserID    int64     `db:"user_id" json:"user"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CreatePostRequest carries the fields of the multipart create-post form.
type CreatePostRequest struct {
	Content  string
	ImageURL *string
	ImageKey *string
}

// AddCommentRequest is the request body for commenting on a post.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// Post constraints
const (
	MaxPostContentLength = 2000
)

// Post errors
var (
	ErrPostNotFound   = errors.New("post not found")
	ErrNotPostOwner   = errors.New("not the owner of this post")
	ErrEmptyPost      = errors.New("post must have either content or an image")
	ErrContentTooLong = errors.New("post content too long")
)
