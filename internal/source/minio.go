package source

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gcbaptista/go-voter-search/config"
)

// MinIOOpener reads minio://bucket/key references.
type MinIOOpener struct {
	client *minio.Client
}

// NewMinIOOpener creates a MinIOOpener.
func NewMinIOOpener(client *minio.Client) *MinIOOpener {
	return &MinIOOpener{client: client}
}

// NewMinIOClient creates a MinIO client with static credentials.
func NewMinIOClient(settings config.MinIOSettings) (*minio.Client, error) {
	return minio.New(settings.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKey, settings.SecretKey, ""),
		Secure: settings.UseSSL,
		Region: settings.Region,
	})
}

// Open implements Opener.
func (o *MinIOOpener) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	parsed, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme != schemeMinIO {
		return nil, fmt.Errorf("not a minio reference: %q", ref)
	}

	// GetObject is lazy; Stat surfaces a missing object before any read.
	obj, err := o.client.GetObject(ctx, parsed.Bucket, parsed.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, minioError(ref, err)
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, minioError(ref, err)
	}
	return obj, nil
}

func minioError(ref string, err error) error {
	errResp := minio.ToErrorResponse(err)
	if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" || errResp.Code == "NoSuchBucket" {
		return fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	return err
}
