package model

import "errors"

const (
	MaxImageSizeBytes = 5 * 1024 * 1024 // 5MB limit per upload
	PostImageFolder   = "posts"
	PostImageField    = "image"
)

// Supported declared content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypeJPG  = "image/jpg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypeJPG:  {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

var allowedImageExts = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Domain errors for media operations
var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidMedia    = errors.New("invalid media")
	ErrMissingFilename = errors.New("upload has no file extension")
)

// UploadResult represents the uploaded object location.
// URL is the public-facing URL, Key the object key inside the bucket
// (kept on the post for the delete path).
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IsAllowedImageType reports if the declared content type is supported.
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// IsAllowedImageExt reports if the lowercased file extension is supported.
func IsAllowedImageExt(ext string) bool {
	_, ok := allowedImageExts[ext]
	return ok
}
