// Package htmltomarkdown converts archive HTML content to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/zimsearch"
)

// strippedSelectors are non-content tags removed before conversion.
const strippedSelectors = "script, style, noscript"

// Ensure Converter implements zimsearch.Converter at compile time.
var _ zimsearch.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
// Script and style markup is stripped before conversion.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", zimsearch.Errorf(zimsearch.EINVALID, "empty HTML input")
	}

	stripped, err := stripNonContent(html)
	if err != nil {
		return "", err
	}

	result, err := c.conv.ConvertString(stripped)
	if err != nil {
		return "", err
	}

	return result, nil
}

// stripNonContent removes script/style/noscript nodes from the document.
func stripNonContent(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", zimsearch.Errorf(zimsearch.EINTERNAL, "could not parse HTML: %s", err)
	}
	doc.Find(strippedSelectors).Remove()
	return doc.Html()
}
