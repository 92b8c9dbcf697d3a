package model

import "errors"

const (
	MaxVideoSizeBytes     = 200 * 1024 * 1024 // per upload plan
	MaxThumbnailSizeBytes = 5 * 1024 * 1024

	ThumbnailWidth  = 1280
	ThumbnailHeight = 720

	VideoFolder     = "videos"
	ThumbnailFolder = "thumbnails"

	ThumbnailExt      = ".jpg"
	MediaCacheControl = "public, max-age=31536000" // 1 year
)

// Supported content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeWebP = "image/webp"
	ContentTypeMP4  = "video/mp4"
	ContentTypeWebM = "video/webm"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeWebP: {},
}

var allowedVideoTypes = map[string]struct{}{
	ContentTypeMP4:  {},
	ContentTypeWebM: {},
}

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrInvalidVideoType = errors.New("invalid video type")
	ErrMediaRequired    = errors.New("media file is required")
)

// UploadResult is the stored object location. Key is the object key inside
// the bucket, kept for later deletes. Duration is set for video uploads only.
type UploadResult struct {
	URL      string  `json:"url"`
	Key      string  `json:"key"`
	Duration float64 `json:"duration,omitempty"`
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// IsAllowedVideoType reports if the provided content type is supported
func IsAllowedVideoType(contentType string) bool {
	_, ok := allowedVideoTypes[contentType]
	return ok
}
