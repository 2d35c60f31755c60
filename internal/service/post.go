package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pulsefeed/internal/model"
	"pulsefeed/internal/pagination"
	"pulsefeed/internal/queue"
	"pulsefeed/internal/repository"
)

// MediaCleaner is the slice of the media service the post service needs for
// best-effort cleanup.
type MediaCleaner interface {
	RemovePostImage(ctx context.Context, key string) error
}

// PostService implements post creation, retrieval, deletion and the
// like/comment interactions.
type PostService struct {
	postRepo  repository.PostRepository
	media     MediaCleaner
	publisher queue.Publisher // nil when Redis is not configured
}

func NewPostService(postRepo repository.PostRepository, media MediaCleaner, publisher queue.Publisher) *PostService {
	return &PostService{
		postRepo:  postRepo,
		media:     media,
		publisher: publisher,
	}
}

// Create validates and persists a new post, snapshotting the author's current
// username onto it. A post must carry content, an image, or both.
func (s *PostService) Create(ctx context.Context, user *model.AuthUser, req model.CreatePostRequest) (*model.Post, error) {
	content := strings.TrimSpace(req.Content)
	if len(content) > model.MaxPostContentLength {
		return nil, model.ErrContentTooLong
	}
	if content == "" && req.ImageURL == nil {
		return nil, model.ErrEmptyPost
	}

	post := &model.Post{
		UserID:   user.ID,
		Username: user.Username,
		Content:  content,
		ImageURL: req.ImageURL,
		ImageKey: req.ImageKey,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		// The image is already in the bucket; don't leave it orphaned.
		if req.ImageKey != nil {
			s.cleanupMedia(ctx, 0, *req.ImageKey)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// GetByID retrieves a single post projection.
func (s *PostService) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// List returns one page of posts, newest first, with pagination metadata.
func (s *PostService) List(ctx context.Context, page, limit int) ([]model.Post, pagination.Meta, error) {
	params := pagination.NewParams(page, limit)

	posts, total, err := s.postRepo.List(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []model.Post{}
	}

	return posts, pagination.NewMeta(params, total), nil
}

// ToggleLike flips the caller's like on the post and returns the updated
// projection. Applying it twice with no intervening change restores the
// original state.
func (s *PostService) ToggleLike(ctx context.Context, postID int64, user *model.AuthUser) (*model.Post, bool, error) {
	liked, err := s.postRepo.ToggleLike(ctx, postID, user.ID, user.Username)
	if err != nil {
		return nil, false, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, false, err
	}

	return post, liked, nil
}

// AddComment appends a comment to the post and returns the updated projection.
// Length limits are validated at the handler boundary too; this re-check is
// the service contract.
func (s *PostService) AddComment(ctx context.Context, postID int64, user *model.AuthUser, text string) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, model.ErrCommentEmpty
	}
	if len(text) > model.MaxCommentLength {
		return nil, model.ErrCommentTooLong
	}

	if _, err := s.postRepo.AddComment(ctx, postID, user.ID, user.Username, text); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID)
}

// Delete removes the caller's post. The attached media object is cleaned up
// best-effort after the delete commits; cleanup failures are logged and never
// surfaced to the client.
func (s *PostService) Delete(ctx context.Context, postID int64, user *model.AuthUser) error {
	imageKey, err := s.postRepo.Delete(ctx, postID, user.ID)
	if err != nil {
		return err
	}

	if imageKey != nil && *imageKey != "" {
		s.cleanupMedia(ctx, postID, *imageKey)
	}

	log.Printf("[PostService] User %d deleted post %d", user.ID, postID)
	return nil
}

// cleanupMedia hands the orphaned object to the cleanup workers, falling back
// to an inline delete when no queue is configured or the publish fails.
func (s *PostService) cleanupMedia(ctx context.Context, postID int64, key string) {
	if s.publisher != nil {
		event := queue.NewMediaCleanupEvent(postID, key)
		_, err := s.publisher.Publish(ctx, queue.StreamCleanup, event)
		if err == nil {
			return
		}
		log.Printf("[PostService] Failed to publish MediaCleanup event: post=%d key=%s err=%v", postID, key, err)
	}

	if err := s.media.RemovePostImage(ctx, key); err != nil {
		log.Printf("[PostService] Failed to remove media inline: post=%d key=%s err=%v", postID, key, err)
	}
}
