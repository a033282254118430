package widgets

import (
	"fmt"
	"testing"
	"time"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/dto"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/helpers"
)

// rssBody builds a minimal RSS 2.0 feed. Items are (title, link, pubDate).
func rssBody(feedTitle string, items [][3]string) string {
	body := fmt.Sprintf(`<?xml version="1.0"?><rss version="2.0"><channel><title>%s</title>`, feedTitle)
	for _, item := range items {
		body += fmt.Sprintf(`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate><description>desc</description></item>`,
			item[0], item[1], item[2])
	}
	return body + `</channel></rss>`
}

func pubDate(daysAgo int) string {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo).Format(time.RFC1123Z)
}

func newsInstance(feeds ...string) Instance {
	inst := enabledInstance("w1", models.WidgetTypeNews)
	inst.Config = models.WidgetConfig{RSSFeeds: feeds}
	return inst
}

func TestNewsValidateConfig(t *testing.T) {
	if err := NewNews(Deps{}, newsInstance()).ValidateConfig(); err == nil {
		t.Error("ValidateConfig accepted a config with no sources")
	}
	if err := NewNews(Deps{}, newsInstance("https://example.com/feed")).ValidateConfig(); err != nil {
		t.Errorf("ValidateConfig: %v", err)
	}
	inst := enabledInstance("w1", models.WidgetTypeNews)
	inst.Config = models.WidgetConfig{UseNewsAPI: true}
	if err := NewNews(Deps{}, inst).ValidateConfig(); err != nil {
		t.Errorf("ValidateConfig with useNewsApi only: %v", err)
	}
}

func TestNewsMergeSortsNewestFirst(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.text["https://a.example/feed"] = rssBody("Feed A", [][3]string{
		{"a-old", "https://a.example/1", pubDate(5)},
		{"a-new", "https://a.example/2", pubDate(0)},
	})
	fetch.text["https://b.example/feed"] = rssBody("Feed B", [][3]string{
		{"b-mid", "https://b.example/1", pubDate(2)},
	})

	inst := newsInstance("https://a.example/feed", "https://b.example/feed")
	inst.Config.MaxArticles = 3
	raw, err := NewNews(Deps{Fetch: fetch}, inst).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	articles := raw.(dto.NewsData).Articles

	want := []string{"a-new", "b-mid", "a-old"}
	if len(articles) != len(want) {
		t.Fatalf("articles = %d, want %d", len(articles), len(want))
	}
	for i, title := range want {
		if articles[i].Title != title {
			t.Errorf("articles[%d] = %q, want %q", i, articles[i].Title, title)
		}
	}
	if articles[0].Source != "Feed A" {
		t.Errorf("Source = %q, want feed title", articles[0].Source)
	}
}

func TestNewsMaxArticlesCap(t *testing.T) {
	items := make([][3]string, 10)
	for i := range items {
		items[i] = [3]string{fmt.Sprintf("item-%d", i), fmt.Sprintf("https://a.example/%d", i), pubDate(i)}
	}
	fetch := newFakeFetcher()
	fetch.text["https://a.example/feed"] = rssBody("Feed A", items)

	inst := newsInstance("https://a.example/feed")
	inst.Config.MaxArticles = 4
	raw, err := NewNews(Deps{Fetch: fetch}, inst).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	if got := len(raw.(dto.NewsData).Articles); got != 4 {
		t.Errorf("articles = %d, want cap of 4", got)
	}
}

func TestNewsUndatedArticlesSortLast(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.text["https://a.example/feed"] = `<?xml version="1.0"?><rss version="2.0"><channel><title>A</title>` +
		`<item><title>undated</title><link>https://a.example/1</link></item>` +
		`<item><title>dated</title><link>https://a.example/2</link><pubDate>` + pubDate(3) + `</pubDate></item>` +
		`</channel></rss>`

	raw, err := NewNews(Deps{Fetch: fetch}, newsInstance("https://a.example/feed")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	articles := raw.(dto.NewsData).Articles
	if articles[0].Title != "dated" || articles[1].Title != "undated" {
		t.Errorf("order = [%s, %s], want dated first", articles[0].Title, articles[1].Title)
	}
}

func TestNewsFailingFeedSkipped(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.errors["https://down.example/feed"] = fmt.Errorf("timeout")
	fetch.text["https://up.example/feed"] = rssBody("Up", [][3]string{
		{"survivor", "https://up.example/1", pubDate(1)},
	})

	raw, err := NewNews(Deps{Fetch: fetch}, newsInstance("https://down.example/feed", "https://up.example/feed")).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	articles := raw.(dto.NewsData).Articles
	if len(articles) != 1 || articles[0].Title != "survivor" {
		t.Errorf("articles = %+v, want the healthy feed only", articles)
	}
}

func TestNewsAllSourcesFailed(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.errors["https://down.example/feed"] = fmt.Errorf("timeout")

	if _, err := NewNews(Deps{Fetch: fetch}, newsInstance("https://down.example/feed")).FetchData(helpers.TestCtx()); err == nil {
		t.Error("FetchData succeeded with every source failing")
	}
}

func TestNewsAPIQueryUsesEverythingEndpoint(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.json[newsAPIEverythingURL] = `{"status": "ok", "articles": [
		{"source": {"name": "Wire"}, "title": "hit", "description": "d",
		 "url": "https://wire.example/1", "publishedAt": "2026-08-30T10:00:00Z"}
	]}`

	inst := enabledInstance("w1", models.WidgetTypeNews)
	inst.Config = models.WidgetConfig{UseNewsAPI: true, Query: "golang", APIKey: "news-key"}
	raw, err := NewNews(Deps{Fetch: fetch}, inst).FetchData(helpers.TestCtx())
	if err != nil {
		t.Fatalf("FetchData: %v", err)
	}
	articles := raw.(dto.NewsData).Articles
	if len(articles) != 1 || articles[0].Source != "Wire" {
		t.Errorf("articles = %+v", articles)
	}

	call := fetch.calls[0]
	if call.params.Get("q") != "golang" {
		t.Errorf("q param = %q, want golang", call.params.Get("q"))
	}
	if call.headers["X-Api-Key"] != "news-key" {
		t.Error("API key not sent via X-Api-Key header")
	}
}

func TestNewsAPIHeadlinesDefaults(t *testing.T) {
	fetch := newFakeFetcher()
	fetch.json[newsAPITopHeadlinesURL] = `{"status": "ok", "articles": []}`

	inst := enabledInstance("w1", models.WidgetTypeNews)
	inst.Config = models.WidgetConfig{UseNewsAPI: true, Category: "technology", APIKey: "news-key"}
	if _, err := NewNews(Deps{Fetch: fetch}, inst).FetchData(helpers.TestCtx()); err != nil {
		t.Fatalf("FetchData: %v", err)
	}

	call := fetch.calls[0]
	if call.params.Get("category") != "technology" {
		t.Errorf("category = %q", call.params.Get("category"))
	}
	if call.params.Get("country") != "us" {
		t.Errorf("country = %q, want default us", call.params.Get("country"))
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"line<br/>break", "line break"},
		{"  spaced   out  ", "spaced out"},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.in); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 200); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	got := truncate("one two three four five", 13)
	if got != "one two three…" && got != "one two…" {
		t.Errorf("truncate = %q, want word-boundary cut with ellipsis", got)
	}
	if len([]rune(got)) > 14 {
		t.Errorf("truncate result too long: %q", got)
	}
}
