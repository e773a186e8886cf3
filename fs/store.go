// Package fs stores scraped articles as JSON files.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/scoop"
)

// URLToPath converts an article URL to a relative file path under its host.
// Distinct article URLs map to distinct paths: the extension is kept, a
// trailing slash maps to an index file, and a query string adds a hash
// suffix. Fragments are ignored.
//
//	https://example.com/india/story-123.html  → example.com/india/story-123.html.json
//	https://example.com/india/                → example.com/india/index.json
//	https://example.com/story?id=7            → example.com/story-<xxhash of query>.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", scoop.Errorf(scoop.EINVALID, "invalid article URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", scoop.Errorf(scoop.EINVALID, "article URL %q has no host", rawURL)
	}

	// Cleaning a rooted path drops ".." segments that would escape the host
	// directory.
	name := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if name == "" || strings.HasSuffix(u.Path, "/") {
		name = path.Join(name, "index")
	}
	if u.RawQuery != "" {
		name += "-" + strconv.FormatUint(xxhash.Sum64String(u.RawQuery), 16)
	}

	return filepath.Join(u.Host, filepath.FromSlash(name)+".json"), nil
}

// Ensure ArticleStore implements scoop.ArticleWriter at compile time.
var _ scoop.ArticleWriter = (*ArticleStore)(nil)

// ArticleStore writes one JSON file per article with all-or-nothing
// semantics: articles go to baseDir/name.tmp and replace baseDir/name on
// Commit.
type ArticleStore struct {
	baseDir string
	name    string
	now     func() time.Time
}

// NewArticleStore creates a new ArticleStore.
func NewArticleStore(baseDir, name string) *ArticleStore {
	return &ArticleStore{
		baseDir: baseDir,
		name:    name,
		now:     time.Now,
	}
}

func (s *ArticleStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ArticleStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// CreateArticle writes the article into the pending directory.
func (s *ArticleStore) CreateArticle(ctx context.Context, a *scoop.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(a.URL)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.tempDir(), relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	if a.ScrapedAt.IsZero() {
		a.ScrapedAt = s.now().UTC()
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode article: %w", err)
	}
	return os.WriteFile(fullPath, append(data, '\n'), 0644)
}

// Commit replaces the final directory with the pending one.
func (s *ArticleStore) Commit() error {
	if _, err := os.Stat(s.tempDir()); os.IsNotExist(err) {
		// Nothing was written; keep the previous output.
		return nil
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the pending directory.
func (s *ArticleStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
