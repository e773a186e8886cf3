package mock

import (
	"context"

	"github.com/fwojciec/scoop"
)

var _ scoop.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of scoop.ArticleService.
type ArticleService struct {
	CreateArticleFn    func(ctx context.Context, a *scoop.Article) error
	FindArticleByURLFn func(ctx context.Context, url string) (*scoop.Article, error)
	FindArticlesFn     func(ctx context.Context, filter scoop.ArticleFilter) ([]*scoop.Article, error)
}

func (s *ArticleService) CreateArticle(ctx context.Context, a *scoop.Article) error {
	return s.CreateArticleFn(ctx, a)
}

func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*scoop.Article, error) {
	return s.FindArticleByURLFn(ctx, url)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter scoop.ArticleFilter) ([]*scoop.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

var _ scoop.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of scoop.ArticleWriter.
type ArticleWriter struct {
	CreateArticleFn func(ctx context.Context, a *scoop.Article) error
}

func (w *ArticleWriter) CreateArticle(ctx context.Context, a *scoop.Article) error {
	return w.CreateArticleFn(ctx, a)
}
