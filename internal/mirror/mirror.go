// Package mirror copies finished downloads to an S3 bucket.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

var ErrInvalidS3URL = errors.New("invalid S3 URL, expected s3://bucket[/prefix]")

type Location struct {
	Bucket string
	Prefix string
}

// Key joins the location prefix with name.
func (l Location) Key(name string) string {
	if l.Prefix == "" {
		return name
	}
	return path.Join(l.Prefix, name)
}

func (l Location) String() string {
	return "s3://" + path.Join(l.Bucket, l.Prefix)
}

func ParseS3URL(raw string) (Location, error) {
	if !strings.HasPrefix(raw, "s3://") {
		return Location{}, fmt.Errorf("%w: %s", ErrInvalidS3URL, raw)
	}
	rest := strings.TrimPrefix(raw, "s3://")
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("%w: %s", ErrInvalidS3URL, raw)
	}
	return Location{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// putter is the part of manager.Uploader used here.
type putter interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type Mirror struct {
	location Location
	uploader putter
}

func New(ctx context.Context, location Location, profile string) (*Mirror, error) {
	opts := []func(*config.LoadOptions) error{config.WithRetryMode(aws.RetryModeAdaptive)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %v", err)
	}
	return &Mirror{
		location: location,
		uploader: manager.NewUploader(s3.NewFromConfig(cfg)),
	}, nil
}

// Put uploads localPath under the mirror prefix using its base name and
// returns the object URL.
func (m *Mirror) Put(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	key := m.location.Key(filepath.Base(localPath))
	_, err = m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.location.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to s3://%s/%s: %v", m.location.Bucket, key, err)
	}
	log.Info().Str("op", "mirror/mirror").Msgf("Mirrored %s to s3://%s/%s", localPath, m.location.Bucket, key)
	return fmt.Sprintf("s3://%s/%s", m.location.Bucket, key), nil
}
