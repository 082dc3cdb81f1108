// Package notion adapts the workspace API client: construction, rich text
// helpers, block conversion, property formatting and the embedded ticket
// database schema.
package notion

import (
	"net/http"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/supportops/ticketsync/internal/config"
)

// NewClient builds an API client from configuration.
func NewClient(cfg config.NotionConfig, httpClient *http.Client) *notionapi.Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	opts := []notionapi.ClientOption{notionapi.WithHTTPClient(httpClient)}
	if v := strings.TrimSpace(cfg.APIVersion); v != "" {
		opts = append(opts, notionapi.WithVersion(v))
	}
	return notionapi.NewClient(notionapi.Token(cfg.Token), opts...)
}

// PlainText concatenates every segment of a rich text array.
func PlainText(segments []notionapi.RichText) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.PlainText != "" {
			b.WriteString(seg.PlainText)
			continue
		}
		if seg.Text != nil {
			b.WriteString(seg.Text.Content)
		}
	}
	return b.String()
}

// RichText builds a single plain text segment.
func RichText(content string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: content},
	}}
}

// LinkedRichText builds a single text segment hyperlinked to url.
func LinkedRichText(content, url string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: content, Link: &notionapi.Link{Url: url}},
	}}
}

// NormalizeID strips dashes so ids copied from URLs compare equal.
func NormalizeID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}

// LooksLikeID reports whether identifier is a database/page id rather than a name.
func LooksLikeID(identifier string) bool {
	clean := NormalizeID(identifier)
	if len(clean) != 32 {
		return false
	}
	for _, r := range strings.ToLower(clean) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
