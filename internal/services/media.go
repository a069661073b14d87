package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"love-journal-backend/internal/config"
	"love-journal-backend/internal/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// MaxUploadSize is the largest accepted upload, in bytes
const MaxUploadSize = 10 << 20

// ObjectPutter is the part of the S3 client used for uploads
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaService stores uploaded images and audio in S3
type MediaService struct {
	s3Client ObjectPutter
	s3Bucket string
	baseURL  string
	breaker  *gobreaker.CircuitBreaker[*s3.PutObjectOutput]
}

// Upload describes one file to store
type Upload struct {
	OwnerID     string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is where an upload ended up
type UploadResult struct {
	URL      string
	PublicID string
}

// NewMediaService creates a media service backed by a real S3 client
func NewMediaService(ctx context.Context, cfg config.AWSConfig) (*MediaService, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newMediaService(s3Client, cfg.S3Bucket, publicBaseURL(cfg)), nil
}

func newMediaService(client ObjectPutter, bucket, baseURL string) *MediaService {
	breaker := gobreaker.NewCircuitBreaker[*s3.PutObjectOutput](gobreaker.Settings{
		Name:        "s3-upload",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Media circuit breaker state changed")
			metrics.MediaBreakerState.Set(float64(to))
		},
	})

	return &MediaService{
		s3Client: client,
		s3Bucket: bucket,
		baseURL:  strings.TrimRight(baseURL, "/"),
		breaker:  breaker,
	}
}

func publicBaseURL(cfg config.AWSConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.S3Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.Region)
	}
}

// allowedMedia reports whether a content type is an image or audio type
func allowedMedia(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "audio/")
}

// ObjectKey builds the storage key for a file: <owner>/<uuid><ext>
func ObjectKey(ownerID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\ ") {
		ext = ""
	}
	return fmt.Sprintf("%s/%s%s", ownerID, uuid.New().String(), ext)
}

// Upload validates a file and puts it in the bucket
func (s *MediaService) Upload(ctx context.Context, up Upload) (result *UploadResult, err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = KindOf(err).String()
		}
		metrics.MediaUploads.WithLabelValues(status).Inc()
	}()

	if up.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	if !allowedMedia(up.ContentType) {
		return nil, ErrUnsupportedMedia
	}

	key := ObjectKey(up.OwnerID, up.Filename)
	_, err = s.breaker.Execute(func() (*s3.PutObjectOutput, error) {
		return s.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.s3Bucket),
			Key:           aws.String(key),
			Body:          up.Body,
			ContentType:   aws.String(up.ContentType),
			ContentLength: aws.Int64(up.Size),
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrMediaUnavailable
		}
		return nil, &Error{Kind: KindUpstream, Message: ErrMediaUnavailable.Message, Err: err}
	}

	log.Info().
		Str("owner_id", up.OwnerID).
		Str("key", key).
		Int64("size", up.Size).
		Msg("Media uploaded")
	return &UploadResult{URL: s.baseURL + "/" + key, PublicID: key}, nil
}
