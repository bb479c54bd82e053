package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS stores photos in a Cloud Storage bucket.
type GCS struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewGCS connects with the credentials file when one is given and with
// application default credentials otherwise.
func NewGCS(ctx context.Context, bucket, credentialsFile, baseURL string) (*GCS, error) {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + bucket
	}

	return &GCS{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (g *GCS) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("uploading photo: %w", err)
	}

	if err := w.Close(); err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}

	return g.baseURL + "/" + name, nil
}

func (g *GCS) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	name := strings.TrimPrefix(strings.TrimPrefix(ref, g.baseURL), "/")

	rc, err := g.client.Bucket(g.bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("downloading photo: %w", err)
	}

	return rc, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
