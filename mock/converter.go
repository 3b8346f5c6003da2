package mock

import "github.com/fwojciec/zimsearch"

var _ zimsearch.Converter = (*Converter)(nil)

// Converter is a mock implementation of zimsearch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ zimsearch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of zimsearch.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*zimsearch.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*zimsearch.ExtractResult, error) {
	return e.ExtractFn(html)
}
