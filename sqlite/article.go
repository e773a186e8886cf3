package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/scoop"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ scoop.ArticleService = (*ArticleService)(nil)

// ArticleService implements scoop.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

const articleColumns = "id, site, url, title, thumbnail, short_content, paragraphs, published, image, content_hash, position, scraped_at"

// hashParagraphs computes the xxHash of the article body as a hex string.
func hashParagraphs(paragraphs []string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(strings.Join(paragraphs, "\n")))
	return hex.EncodeToString(b)
}

// CreateArticle stores an article. An article already stored under the same
// URL is replaced and keeps its ID.
func (s *ArticleService) CreateArticle(ctx context.Context, a *scoop.Article) error {
	if err := a.Validate(); err != nil {
		return err
	}

	paragraphs, err := json.Marshal(a.Paragraphs)
	if err != nil {
		return fmt.Errorf("failed to encode paragraphs: %w", err)
	}

	a.ScrapedAt = time.Now().UTC()
	a.ContentHash = hashParagraphs(a.Paragraphs)

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			site = excluded.site,
			title = excluded.title,
			thumbnail = excluded.thumbnail,
			short_content = excluded.short_content,
			paragraphs = excluded.paragraphs,
			published = excluded.published,
			image = excluded.image,
			content_hash = excluded.content_hash,
			position = excluded.position,
			scraped_at = excluded.scraped_at
		RETURNING id
	`, uuid.New().String(), a.Site, a.URL, a.Title, a.Thumbnail, a.ShortContent, string(paragraphs),
		a.Date, a.Image, a.ContentHash, a.Position, formatTime(a.ScrapedAt)).Scan(&id)
	if err != nil {
		return err
	}

	a.ID = id
	return nil
}

// FindArticleByURL retrieves an article by URL.
func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*scoop.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE url = ?", url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scoop.Errorf(scoop.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindArticles retrieves articles matching the filter, most recently
// scraped first and in listing order within one scrape.
func (s *ArticleService) FindArticles(ctx context.Context, filter scoop.ArticleFilter) ([]*scoop.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.Site != nil {
		query.WriteString(" AND site = ?")
		args = append(args, *filter.Site)
	}

	query.WriteString(" ORDER BY scraped_at DESC, position ASC")

	paginate(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []*scoop.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*scoop.Article, error) {
	var a scoop.Article
	var paragraphs, scrapedAt string

	if err := row.Scan(&a.ID, &a.Site, &a.URL, &a.Title, &a.Thumbnail, &a.ShortContent, &paragraphs,
		&a.Date, &a.Image, &a.ContentHash, &a.Position, &scrapedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(paragraphs), &a.Paragraphs); err != nil {
		return nil, fmt.Errorf("failed to decode paragraphs: %w", err)
	}

	var err error
	if a.ScrapedAt, err = parseTime(scrapedAt, "scraped_at"); err != nil {
		return nil, err
	}

	return &a, nil
}
