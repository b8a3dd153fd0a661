package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/xid"

	"github.com/sakif/videotube/internal/config"
)

// S3Store implements Store on an S3-compatible bucket.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
	acl      s3types.ObjectCannedACL
}

var _ Store = (*S3Store)(nil)

// NewS3Store configures a client and multipart uploader for the bucket.
func NewS3Store(ctx context.Context, cfg config.MediaConfig) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("media: bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Store{
		client:   client,
		uploader: uploader,
		bucket:   cfg.Bucket,
		baseURL:  PublicBaseURL(cfg),
		acl:      s3types.ObjectCannedACL(strings.TrimSpace(cfg.ObjectACL)),
	}, nil
}

// Store uploads f under folder and returns its public URL.
func (s *S3Store) Store(ctx context.Context, f File, folder string) (*Asset, error) {
	if f.Body == nil {
		return nil, errors.New("media: empty upload")
	}
	key := objectKey(folder, f.Name)

	input := s.putInput(key, f)
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("media: upload %s: %w", key, err)
	}

	return &Asset{URL: s.baseURL + "/" + key}, nil
}

// putInput builds the upload request. The ACL is only sent when configured.
func (s *S3Store) putInput(key string, f File) *s3.PutObjectInput {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   manager.ReadSeekCloser(f.Body),
		ACL:    s.acl,
	}
	if f.ContentType != "" {
		input.ContentType = aws.String(f.ContentType)
	}
	return input
}

// Remove deletes the object with the given key. Object keys are unique
// across resource types, so kind does not change the request.
func (s *S3Store) Remove(ctx context.Context, storageID string, kind ResourceType) error {
	if storageID == "" {
		return errors.New("media: empty storage id")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageID),
	})
	if err != nil {
		return fmt.Errorf("media: remove %s %s: %w", kind, storageID, err)
	}
	return nil
}

// objectKey builds "<folder>/<xid><ext>". The client's file name only
// contributes its extension.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 10 || strings.ContainsAny(ext, " ?#%") {
		ext = ""
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return xid.New().String() + ext
	}
	return folder + "/" + xid.New().String() + ext
}
