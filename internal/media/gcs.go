// AngelaMos | 2026
// gcs.go

package media

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/carterperez-dev/instaiq-backend/internal/config"
)

type GCSStore struct {
	client     *storage.Client
	bucket     string
	publicBase string
}

// NewGCSStore uses application default credentials unless a credentials
// file is configured.
func NewGCSStore(ctx context.Context, cfg config.StorageConfig) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &GCSStore{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: cfg.PublicBaseURL,
	}, nil
}

func (g *GCSStore) Put(
	ctx context.Context,
	key, contentType string,
	body io.Reader,
) (string, error) {
	wc := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0

	if _, err := io.Copy(wc, body); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", key, err)
	}

	return publicURL(
		g.publicBase,
		"https://storage.googleapis.com/"+g.bucket,
		key,
	), nil
}

func (g *GCSStore) Delete(ctx context.Context, key string) error {
	if err := g.client.Bucket(g.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (g *GCSStore) Close() error {
	return g.client.Close()
}

var _ Store = (*GCSStore)(nil)
