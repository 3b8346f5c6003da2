// Package goquery extracts page metadata from HTML documents.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fwojciec/zimsearch"
)

// PageMeta holds metadata extracted from an HTML document's head.
type PageMeta struct {
	Title       string
	Description string
}

// ExtractMeta parses an HTML document and returns its metadata.
//
// Title resolution order: <title>, og:title, first <h1>. Description
// resolution order: meta description, og:description. Missing fields
// are left empty; only unparseable input is an error.
func ExtractMeta(html string) (*PageMeta, error) {
	if strings.TrimSpace(html) == "" {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "failed to parse HTML: %v", err)
	}

	meta := &PageMeta{
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
	}
	return meta, nil
}

func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := metaContent(doc, `meta[property="og:title"]`); t != "" {
		return t
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func extractDescription(doc *goquery.Document) string {
	if d := metaContent(doc, `meta[name="description"]`); d != "" {
		return d
	}
	return metaContent(doc, `meta[property="og:description"]`)
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
