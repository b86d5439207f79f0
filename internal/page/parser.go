package page

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// ErrParse signals that the body could not be treated as an HTML document at
// all. Partial or malformed markup is not an error; missing elements simply
// leave their fields nil.
var ErrParse = errors.New("page: cannot parse document")

// Meta holds the SEO-relevant fields extracted from a page. A nil field means
// the element was absent; Description keeps an empty string when the meta tag
// exists with an empty content attribute.
type Meta struct {
	H1          *string
	Title       *string
	Description *string
}

// Parse extracts the first <h1>, the <title> and the content attribute of
// <meta name="description"> from an HTML document. contentType, when known,
// drives charset detection for non-UTF-8 pages.
func Parse(body []byte, contentType string) (Meta, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return Meta{}, ErrParse
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return Meta{}, ErrParse
	}

	var meta Meta

	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		text := strings.TrimSpace(h1.Text())
		meta.H1 = &text
	}

	if title := doc.Find("title").First(); title.Length() > 0 {
		text := strings.TrimSpace(title.Text())
		meta.Title = &text
	}

	if desc := doc.Find(`meta[name="description"]`).First(); desc.Length() > 0 {
		content := strings.TrimSpace(desc.AttrOr("content", ""))
		meta.Description = &content
	}

	return meta, nil
}
