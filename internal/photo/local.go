package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores photos below a directory served at baseURL.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating photo directory: %w", err)
	}

	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Put(_ context.Context, name, _ string, r io.Reader) (string, error) {
	dst := filepath.Join(l.dir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating photo directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating photo file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("writing photo: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing photo: %w", err)
	}

	return l.baseURL + "/" + name, nil
}

func (l *Local) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	name := strings.TrimPrefix(strings.TrimPrefix(ref, l.baseURL), "/")

	// Clean against a rooted path so references cannot climb out of dir.
	name = strings.TrimPrefix(path.Clean("/"+name), "/")

	f, err := os.Open(filepath.Join(l.dir, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("opening photo: %w", err)
	}

	return f, nil
}
