package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pulsefeed/internal/httputil"
	"pulsefeed/internal/model"
	"pulsefeed/internal/pagination"
	"pulsefeed/internal/service"
	"pulsefeed/internal/transport/http/middleware"
)

type PostHandler struct {
	postService  *service.PostService
	mediaService *service.MediaService
}

func NewPostHandler(postService *service.PostService, mediaService *service.MediaService) *PostHandler {
	return &PostHandler{
		postService:  postService,
		mediaService: mediaService,
	}
}

// Create handles POST /api/posts
// Accepts multipart/form-data with a "content" field and an optional "image"
// file. The post must carry content, an image, or both.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := int64(model.MaxImageSizeBytes) + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequest(w, "Image exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	req := model.CreatePostRequest{
		Content: r.FormValue("content"),
	}

	file, header, err := r.FormFile(model.PostImageField)
	if err == nil {
		defer file.Close()
		upload, uploadErr := h.mediaService.UploadPostImage(r.Context(), file, header)
		if uploadErr != nil {
			switch {
			case errors.Is(uploadErr, model.ErrFileTooLarge):
				httputil.WriteBadRequest(w, "Image exceeds 5MB limit")
			case errors.Is(uploadErr, model.ErrInvalidMedia):
				httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, jpg, png, gif, webp")
			case errors.Is(uploadErr, model.ErrMissingFilename):
				httputil.WriteBadRequest(w, "Image filename must carry an extension")
			default:
				log.Printf("[ERROR] Upload post image: user=%d err=%v", user.ID, uploadErr)
				httputil.WriteInternalError(w, "Failed to upload image")
			}
			return
		}
		req.ImageURL = &upload.URL
		req.ImageKey = &upload.Key
	} else if !errors.Is(err, http.ErrMissingFile) {
		httputil.WriteBadRequest(w, "Invalid image upload")
		return
	}

	post, err := h.postService.Create(r.Context(), user, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyPost):
			httputil.WriteBadRequest(w, "Post must have content or an image")
		case errors.Is(err, model.ErrContentTooLong):
			httputil.WriteBadRequest(w, "Content too long (max 2000 characters)")
		default:
			log.Printf("[ERROR] Create post: user=%d err=%v", user.ID, err)
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteData(w, http.StatusCreated, post, "Post created successfully")
}

// List handles GET /api/posts
// Returns one page of posts, newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parseIntQuery(r, "page", pagination.DefaultPage)
	limit := parseIntQuery(r, "limit", pagination.DefaultLimit)

	posts, meta, err := h.postService.List(r.Context(), page, limit)
	if err != nil {
		log.Printf("[ERROR] List posts: %v", err)
		httputil.WriteInternalError(w, "Failed to fetch posts")
		return
	}

	httputil.WritePage(w, http.StatusOK, posts, meta)
}

// GetByID handles GET /api/posts/{postID}
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, err := h.postService.GetByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Get post: id=%d err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to fetch post")
		return
	}

	httputil.WriteData(w, http.StatusOK, post, "")
}

// ToggleLike handles PUT /api/posts/{postID}/like
// Flips the caller's like on the post.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	post, liked, err := h.postService.ToggleLike(r.Context(), postID, user)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Toggle like: post=%d user=%d err=%v", postID, user.ID, err)
		httputil.WriteInternalError(w, "Failed to update like")
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	httputil.WriteData(w, http.StatusOK, post, message)
}

// AddComment handles POST /api/posts/{postID}/comment
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	var req model.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.AddComment(r.Context(), postID, user, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentEmpty):
			httputil.WriteBadRequest(w, "Comment text is required")
		case errors.Is(err, model.ErrCommentTooLong):
			httputil.WriteBadRequest(w, "Comment too long (max 500 characters)")
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		default:
			log.Printf("[ERROR] Add comment: post=%d user=%d err=%v", postID, user.ID, err)
			httputil.WriteInternalError(w, "Failed to add comment")
		}
		return
	}

	httputil.WriteData(w, http.StatusCreated, post, "Comment added successfully")
}

// Delete handles DELETE /api/posts/{postID}
// Only the post owner may delete it.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post ID")
		return
	}

	if err := h.postService.Delete(r.Context(), postID, user); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You can only delete your own posts")
		default:
			log.Printf("[ERROR] Delete post: post=%d user=%d err=%v", postID, user.ID, err)
			httputil.WriteInternalError(w, "Failed to delete post")
		}
		return
	}

	httputil.WriteData(w, http.StatusOK, nil, "Post deleted successfully")
}

// parsePostID pulls the {postID} route parameter.
func parsePostID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
}

// parseIntQuery reads an integer query parameter, falling back to def when
// the parameter is absent or malformed.
func parseIntQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
