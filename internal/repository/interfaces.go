package repository

import (
	"context"

	"pulsefeed/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type PostRepository interface {
	// Create inserts a post carrying the author's username snapshot.
	Create(ctx context.Context, post *model.Post) error
	// GetByID loads the full projection: post row plus ordered like and
	// comment collections. Returns model.ErrPostNotFound if absent.
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	// List returns one page of projections ordered newest-first
	// (created_at DESC, id DESC) together with the total post count.
	List(ctx context.Context, offset, limit int) ([]model.Post, int, error)
	// ToggleLike atomically flips the (post, user) like inside a single
	// post-locked transaction. Reports whether the post is liked afterwards.
	ToggleLike(ctx context.Context, postID, userID int64, username string) (bool, error)
	// AddComment appends a comment with a username snapshot inside a single
	// post-locked transaction.
	AddComment(ctx context.Context, postID, userID int64, username, text string) (*model.Comment, error)
	// Delete removes a post (likes and comments cascade) after verifying
	// ownership, returning the stored media key for cleanup, if any.
	Delete(ctx context.Context, postID, userID int64) (imageKey *string, err error)
}
