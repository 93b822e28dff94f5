package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageLookup resolves presentable images for profiles.
type ImageLookup interface {
	// MainImageFor returns the stored image reference of userID's main
	// photo, or "" when the user has none.
	MainImageFor(ctx context.Context, userID string) (string, error)
	// PresentURL turns a stored reference into a URL a client can load.
	PresentURL(ctx context.Context, ref string) string
}

// Presigner is the subset of *s3.PresignClient used for read URLs.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PhotoSource returns a user's first photo key or URL.
type PhotoSource interface {
	MainPhoto(ctx context.Context, userID string) (string, error)
}

// S3ImageService stores images as CDN URLs when a CDN is configured and as
// bucket keys otherwise; keys are presigned when presented.
type S3ImageService struct {
	Photos     PhotoSource
	Presigner  Presigner
	Bucket     string
	CDNBaseURL string
	URLTTL     time.Duration
}

// NewS3ImageService builds the service from an AWS config.
func NewS3ImageService(cfg aws.Config, photos PhotoSource, bucket, cdnBaseURL string, ttl time.Duration) *S3ImageService {
	return &S3ImageService{
		Photos:     photos,
		Presigner:  s3.NewPresignClient(s3.NewFromConfig(cfg)),
		Bucket:     bucket,
		CDNBaseURL: cdnBaseURL,
		URLTTL:     ttl,
	}
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// MainImageFor returns the user's first photo as a stable reference.
func (s *S3ImageService) MainImageFor(ctx context.Context, userID string) (string, error) {
	photo, err := s.Photos.MainPhoto(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch photo for %s: %w", userID, err)
	}
	if photo == "" || isAbsoluteURL(photo) || s.CDNBaseURL == "" {
		return photo, nil
	}
	return s.CDNBaseURL + "/" + strings.TrimLeft(photo, "/"), nil
}

// PresentURL passes absolute URLs through and presigns bucket keys. A signing
// failure falls back to the raw reference.
func (s *S3ImageService) PresentURL(ctx context.Context, ref string) string {
	if ref == "" || isAbsoluteURL(ref) {
		return ref
	}
	req, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(ref),
	}, s3.WithPresignExpires(s.URLTTL))
	if err != nil {
		return ref
	}
	return req.URL
}
