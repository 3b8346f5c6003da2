package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"

	"github.com/fwojciec/zimsearch"
)

// Ensure Extractor implements zimsearch.Extractor at compile time.
var _ zimsearch.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*zimsearch.ExtractResult, error) {
	if rawHTML == "" {
		return nil, zimsearch.Errorf(zimsearch.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, zimsearch.Errorf(zimsearch.EINTERNAL, "extracting content: %v", err)
	}

	return &zimsearch.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
