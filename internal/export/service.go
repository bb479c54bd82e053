package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/recette/internal/daily"
	"github.com/MrJamesThe3rd/recette/internal/lineitem"
	"github.com/MrJamesThe3rd/recette/internal/money"
	"github.com/MrJamesThe3rd/recette/internal/photo"
)

type RecordSource interface {
	Range(ctx context.Context, start, end string) ([]*daily.Record, error)
}

type PhotoSource interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// Item is an invoice paid in the exported range with the local paths of its
// downloaded photos.
type Item struct {
	Date  string
	Entry lineitem.Item
	Files []string
}

// Service exports reconciled ranges for the accountant.
type Service struct {
	records RecordSource
	photos  PhotoSource
	client  *http.Client
}

// NewService creates a new export Service.
func NewService(records RecordSource, photos PhotoSource) *Service {
	return &Service{
		records: records,
		photos:  photos,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Export downloads the photos of the invoices paid between start and end to
// outputDir. Photos that cannot be fetched are logged and left out.
func (s *Service) Export(ctx context.Context, start, end, outputDir string) ([]Item, error) {
	records, err := s.records.Range(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	return s.collect(ctx, records, outputDir)
}

func (s *Service) collect(ctx context.Context, records []*daily.Record, outputDir string) ([]Item, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var items []Item

	for _, rec := range records {
		for _, entry := range rec.Items[lineitem.CategoryPurchase] {
			if !entry.FromInvoice() {
				continue
			}

			item := Item{Date: rec.Date, Entry: entry}

			for i, ref := range entry.Photos {
				p, err := s.fetch(ctx, ref, outputDir, filenameFor(rec.Date, entry.Name, i))
				if err != nil {
					slog.Warn("skipping invoice photo", "ref", ref, "date", rec.Date, "error", err)
					continue
				}

				item.Files = append(item.Files, p)
			}

			items = append(items, item)
		}
	}

	return items, nil
}

// fetch copies a photo into dir. References owned by the photo store are read
// from it; other http(s) references are downloaded.
func (s *Service) fetch(ctx context.Context, ref, dir, base string) (string, error) {
	if s.photos != nil {
		rc, err := s.photos.Open(ctx, ref)
		if err == nil {
			defer rc.Close()

			ext := path.Ext(ref)
			if ext == "" {
				ext = ".jpg"
			}

			return writeFile(filepath.Join(dir, base+ext), rc)
		}

		if !errors.Is(err, photo.ErrNotFound) {
			return "", err
		}
	}

	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return "", photo.ErrNotFound
	}

	return s.download(ctx, ref, dir, base)
}

func (s *Service) download(ctx context.Context, url, dir, base string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for url %s", resp.StatusCode, url)
	}

	return writeFile(filepath.Join(dir, determineFilename(resp, base)), resp.Body)
}

func writeFile(p string, r io.Reader) (string, error) {
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return p, nil
}

func determineFilename(resp *http.Response, base string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if filename, ok := params["filename"]; ok && filename != "" {
				return base + "_" + strings.ReplaceAll(filepath.Base(filename), " ", "_")
			}
		}
	}

	ext := ".jpg"

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
			ext = exts[0]
		}
	}

	return base + ext
}

// filenameFor builds YYYYMMDD_Supplier_N from a day key, a label and a
// photo index.
func filenameFor(date, name string, i int) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, name)

	return fmt.Sprintf("%s_%s_%d", strings.ReplaceAll(date, "-", ""), safe, i+1)
}

// GenerateSummary lists the exported invoices, one line each.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		files := "Sans photo"
		if len(item.Files) > 0 {
			names := make([]string, 0, len(item.Files))
			for _, f := range item.Files {
				names = append(names, filepath.Base(f))
			}

			files = strings.Join(names, ", ")
		}

		method := item.Entry.PaymentMethod
		if method == "" {
			method = "?"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s TND | %s | %s\n",
			item.Date, item.Entry.Name, money.Format(item.Entry.Amount), method, files)
	}

	return sb.String()
}
