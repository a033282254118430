package dto

import "time"

// NewsData is the payload of a news widget fetch.
type NewsData struct {
	Articles []Article `json:"articles"`
}

// Article is the normalized shape for entries from either RSS or the News API.
// A zero PublishedAt means the source carried no parseable date; such entries
// sort last under the newest-first ordering.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      string    `json:"source"`
}
