package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"vidtube/internal/config"
	domain "vidtube/internal/model"
)

// MediaStore is the object-storage surface the video service depends on.
// MediaService is the R2-backed implementation; tests swap in a mock.
type MediaStore interface {
	UploadVideo(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error)
	UploadThumbnail(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error)
	DeleteObject(ctx context.Context, key string) error
}

// MediaService handles video and thumbnail uploads to Cloudflare R2.
type MediaService struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewMediaService constructs an S3-compatible client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &MediaService{
		s3Client:  s3Client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// UploadVideo enforces size/type, probes the duration and uploads the raw
// file to R2.
func (s *MediaService) UploadVideo(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	data, contentType, err := readAndValidate(file, header, domain.MaxVideoSizeBytes, domain.IsAllowedVideoType, domain.ErrInvalidVideoType)
	if err != nil {
		return nil, err
	}

	duration, err := probeDuration(data, extForVideo(contentType))
	if err != nil {
		return nil, fmt.Errorf("probe video duration: %w", err)
	}

	key := fmt.Sprintf("%s/%s%s", domain.VideoFolder, uuid.NewString(), extForVideo(contentType))
	if err := s.putObject(ctx, key, data, contentType, domain.MediaCacheControl); err != nil {
		return nil, err
	}

	return &domain.UploadResult{
		URL:      fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:      key,
		Duration: duration,
	}, nil
}

// UploadThumbnail enforces size/type, normalizes to 1280x720 JPEG, and
// uploads to R2.
func (s *MediaService) UploadThumbnail(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*domain.UploadResult, error) {
	data, _, err := readAndValidate(file, header, domain.MaxThumbnailSizeBytes, domain.IsAllowedImageType, domain.ErrInvalidImageType)
	if err != nil {
		return nil, err
	}

	jpegBytes, err := resizeToJPEG(data, domain.ThumbnailWidth, domain.ThumbnailHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", domain.ThumbnailFolder, uuid.NewString(), domain.ThumbnailExt)
	if err := s.putObject(ctx, key, jpegBytes, domain.ContentTypeJPEG, domain.MediaCacheControl); err != nil {
		return nil, err
	}

	return &domain.UploadResult{
		URL: fmt.Sprintf("%s/%s", s.publicURL, key),
		Key: key,
	}, nil
}

// readAndValidate loads the upload into memory with size and type checks.
func readAndValidate(file multipart.File, header *multipart.FileHeader, maxSize int64, allowed func(string) bool, typeErr error) ([]byte, string, error) {
	if header.Size > maxSize {
		return nil, "", domain.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", domain.ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !allowed(contentType) {
		return nil, "", typeErr
	}

	return data, contentType, nil
}

// probeDuration writes the upload to a temp file and reads the container
// duration with ffprobe. The temp file is removed before returning.
func probeDuration(data []byte, ext string) (float64, error) {
	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	probeJSON, err := ffmpeg.Probe(tmpName)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &probe); err != nil {
		return 0, fmt.Errorf("parse probe output: %w", err)
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", probe.Format.Duration, err)
	}
	return duration, nil
}

// resizeToJPEG centers/crops to target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

func extForVideo(contentType string) string {
	if contentType == domain.ContentTypeWebM {
		return ".webm"
	}
	return ".mp4"
}

// putObject uploads bytes to R2 with metadata.
func (s *MediaService) putObject(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return fmt.Errorf("upload to r2: %w", err)
	}
	return nil
}

// DeleteObject removes an object by key. A blank key is a no-op.
func (s *MediaService) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete from r2: %w", err)
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
