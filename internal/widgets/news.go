package widgets

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/errs"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/logger"
)

const (
	newsAPIEverythingURL   = "https://newsapi.org/v2/everything"
	newsAPITopHeadlinesURL = "https://newsapi.org/v2/top-headlines"

	defaultMaxArticles       = 10
	maxArticlesCap           = 50
	defaultDescriptionLength = 200
)

type newsWidget struct {
	deps   Deps
	inst   Instance
	parser *gofeed.Parser
}

// NewNews is the factory for the news widget.
func NewNews(deps Deps, inst Instance) Widget {
	return &newsWidget{deps: deps, inst: inst, parser: gofeed.NewParser()}
}

func (w *newsWidget) Instance() Instance { return w.inst }

func (w *newsWidget) now() time.Time { return w.deps.now() }

func (w *newsWidget) ValidateConfig() error {
	if len(w.inst.Config.RSSFeeds) == 0 && !w.inst.Config.UseNewsAPI {
		return errs.NewValidationError("config must list rssFeeds or enable useNewsApi")
	}
	return nil
}

func (w *newsWidget) maxArticles() int {
	n := w.inst.Config.MaxArticles
	if n <= 0 {
		return defaultMaxArticles
	}
	if n > maxArticlesCap {
		return maxArticlesCap
	}
	return n
}

func (w *newsWidget) descriptionLength() int {
	if w.inst.Config.DescriptionLength <= 0 {
		return defaultDescriptionLength
	}
	return w.inst.Config.DescriptionLength
}

// FetchData merges articles from every configured RSS feed and, when
// enabled, NewsAPI. Individual sources failing are logged and skipped; the
// fetch fails only when every source failed and nothing was collected.
func (w *newsWidget) FetchData(ctx context.Context) (any, error) {
	log := logger.FromContext(ctx)
	var articles []dto.Article
	sources, failures := 0, 0

	for _, feedURL := range w.inst.Config.RSSFeeds {
		sources++
		feedArticles, err := w.fetchFeed(ctx, feedURL)
		if err != nil {
			failures++
			log.Warn("rss feed fetch failed, skipping feed",
				"widget_id", w.inst.ID, "feed", feedURL, "error", err)
			continue
		}
		articles = append(articles, feedArticles...)
	}

	if w.inst.Config.UseNewsAPI {
		sources++
		apiArticles, err := w.fetchNewsAPI(ctx)
		if err != nil {
			failures++
			log.Warn("newsapi fetch failed, skipping source",
				"widget_id", w.inst.ID, "error", err)
		} else {
			articles = append(articles, apiArticles...)
		}
	}

	if len(articles) == 0 && failures == sources {
		return nil, errs.NewExternalServiceError("news",
			"all configured news sources failed", true)
	}

	// Newest first; articles without a timestamp sort last.
	sort.SliceStable(articles, func(i, j int) bool {
		if articles[i].PublishedAt.IsZero() {
			return false
		}
		if articles[j].PublishedAt.IsZero() {
			return true
		}
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	articles = dedupeByURL(articles)
	if max := w.maxArticles(); len(articles) > max {
		articles = articles[:max]
	}

	return dto.NewsData{Articles: articles}, nil
}

func (w *newsWidget) fetchFeed(ctx context.Context, feedURL string) ([]dto.Article, error) {
	body, err := w.deps.Fetch.GetText(ctx, feedURL, nil, nil)
	if err != nil {
		return nil, err
	}
	feed, err := w.parser.ParseString(body)
	if err != nil {
		return nil, errs.NewExternalServiceError("rss", "malformed feed", false)
	}

	out := make([]dto.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		article := dto.Article{
			Title:       strings.TrimSpace(item.Title),
			Description: w.cleanDescription(item.Description),
			URL:         item.Link,
			Source:      feed.Title,
		}
		if item.PublishedParsed != nil {
			article.PublishedAt = item.PublishedParsed.UTC()
		}
		if item.Image != nil {
			article.ImageURL = item.Image.URL
		} else if len(item.Enclosures) > 0 && strings.HasPrefix(item.Enclosures[0].Type, "image/") {
			article.ImageURL = item.Enclosures[0].URL
		}
		out = append(out, article)
	}
	return out, nil
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// fetchNewsAPI uses the everything endpoint when a query is configured and
// top-headlines otherwise.
func (w *newsWidget) fetchNewsAPI(ctx context.Context) ([]dto.Article, error) {
	key := w.deps.providerKey(ctx, w.inst, models.ProviderNews)
	if key == "" {
		return nil, errs.NewValidationError("no API key available for news provider")
	}

	endpoint := newsAPITopHeadlinesURL
	params := url.Values{"pageSize": {"50"}}
	if query := w.inst.Config.Query; query != "" {
		endpoint = newsAPIEverythingURL
		params.Set("q", query)
		if w.inst.Config.Language != "" {
			params.Set("language", w.inst.Config.Language)
		}
	} else {
		if w.inst.Config.Category != "" {
			params.Set("category", w.inst.Config.Category)
		}
		country := w.inst.Config.Country
		if country == "" {
			country = "us"
		}
		params.Set("country", country)
	}

	var resp newsAPIResponse
	headers := map[string]string{"X-Api-Key": key}
	if err := w.deps.Fetch.GetJSON(ctx, endpoint, params, headers, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, errs.NewExternalServiceError("newsapi",
			"provider returned status "+resp.Status, false)
	}

	out := make([]dto.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		out = append(out, dto.Article{
			Title:       strings.TrimSpace(a.Title),
			Description: w.cleanDescription(a.Description),
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			PublishedAt: a.PublishedAt.UTC(),
			Source:      a.Source.Name,
		})
	}
	return out, nil
}

func (w *newsWidget) cleanDescription(raw string) string {
	return truncate(stripHTML(raw), w.descriptionLength())
}

// stripHTML reduces markup to its text content, collapsing whitespace.
func stripHTML(raw string) string {
	if !strings.ContainsRune(raw, '<') {
		return strings.Join(strings.Fields(raw), " ")
	}
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(tokenizer.Text())
			b.WriteByte(' ')
		}
	}
}

// truncate cuts s to at most limit runes at a word boundary, appending an
// ellipsis when anything was removed.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

func dedupeByURL(articles []dto.Article) []dto.Article {
	seen := make(map[string]struct{}, len(articles))
	out := articles[:0]
	for _, a := range articles {
		if a.URL != "" {
			if _, dup := seen[a.URL]; dup {
				continue
			}
			seen[a.URL] = struct{}{}
		}
		out = append(out, a)
	}
	return out
}
