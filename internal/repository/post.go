package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pulsefeed/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a new post with the author's username snapshot.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (user_id, username, content, image_url, image_key)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	row := r.db.QueryRowxContext(ctx, query,
		post.UserID, post.Username, post.Content, post.ImageURL, post.ImageKey)

	if err := row.Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	post.Recount()
	return nil
}

// GetByID retrieves a single post with its like and comment collections.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `
		SELECT id, user_id, username, content, image_url, image_key, created_at, updated_at
		FROM posts
		WHERE id = $1
	`
	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	if err := r.attachCollections(ctx, []*model.Post{&post}); err != nil {
		return nil, err
	}

	return &post, nil
}

// List returns one page of posts ordered most recent first, ties broken by id,
// plus the total post count for pagination metadata.
func (r *postRepository) List(ctx context.Context, offset, limit int) ([]model.Post, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := `
		SELECT id, user_id, username, content, image_url, image_key, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`
	var posts []model.Post
	if err := r.db.SelectContext(ctx, &posts, query, offset, limit); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	refs := make([]*model.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	if err := r.attachCollections(ctx, refs); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ToggleLike flips the caller's like on a post as one atomic unit.
// The post row lock serializes concurrent toggles on the same post, so the
// delete-else-insert below cannot race into duplicate likes.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID int64, username string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockPost(ctx, tx, postID); err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	liked := false
	if rows == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO post_likes (post_id, user_id, username) VALUES ($1, $2, $3)`,
			postID, userID, username)
		if err != nil {
			return false, fmt.Errorf("insert like: %w", err)
		}
		liked = true
	}

	if err := touchPost(ctx, tx, postID); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return liked, nil
}

// AddComment appends a comment under the post row lock, preserving the
// chronological append order of the collection.
func (r *postRepository) AddComment(ctx context.Context, postID, userID int64, username, text string) (*model.Comment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockPost(ctx, tx, postID); err != nil {
		return nil, err
	}

	var comment model.Comment
	query := `
		INSERT INTO post_comments (post_id, user_id, username, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, post_id, user_id, username, text, created_at
	`
	if err := tx.GetContext(ctx, &comment, query, postID, userID, username, text); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	if err := touchPost(ctx, tx, postID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &comment, nil
}

// Delete removes a post after verifying ownership. Likes and comments go with
// it via ON DELETE CASCADE. Returns the stored image key so the caller can
// clean up the media object.
func (r *postRepository) Delete(ctx context.Context, postID, userID int64) (*string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owner struct {
		UserID   int64   `db:"user_id"`
		ImageKey *string `db:"image_key"`
	}
	err = tx.GetContext(ctx, &owner,
		`SELECT user_id, image_key FROM posts WHERE id = $1 FOR UPDATE`, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock post for delete: %w", err)
	}

	if owner.UserID != userID {
		return nil, model.ErrNotPostOwner
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID); err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return owner.ImageKey, nil
}

// lockPost takes the per-post row lock that serializes all mutations against
// the same post. Mutations on different posts proceed independently.
func lockPost(ctx context.Context, tx *sqlx.Tx, postID int64) error {
	var id int64
	err := tx.GetContext(ctx, &id, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID)
	if err == sql.ErrNoRows {
		return model.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("lock post: %w", err)
	}
	return nil
}

func touchPost(ctx context.Context, tx *sqlx.Tx, postID int64) error {
	if _, err := tx.ExecContext(ctx, `UPDATE posts SET updated_at = NOW() WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("touch post: %w", err)
	}
	return nil
}

// attachCollections loads likes and comments for a batch of posts in two
// queries and recomputes the derived counts.
func (r *postRepository) attachCollections(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	byID := make(map[int64]*model.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	var likes []model.Like
	err := r.db.SelectContext(ctx, &likes, `
		SELECT id, post_id, user_id, username, created_at
		FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("get post likes: %w", err)
	}
	for _, l := range likes {
		p := byID[l.PostID]
		p.Likes = append(p.Likes, l)
	}

	var comments []model.Comment
	err = r.db.SelectContext(ctx, &comments, `
		SELECT id, post_id, user_id, username, text, created_at
		FROM post_comments
		WHERE post_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("get post comments: %w", err)
	}
	for _, c := range comments {
		p := byID[c.PostID]
		p.Comments = append(p.Comments, c)
	}

	for _, p := range posts {
		p.Recount()
	}
	return nil
}
