package hubspot

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/viant/afs"
)

// defaultSitePage is the site page document created after install. The
// client sends it verbatim.
//
//go:embed assets/site_page.json
var defaultSitePage []byte

// DefaultPagePayload returns a copy of the embedded site page document.
func DefaultPagePayload() []byte {
	return append([]byte(nil), defaultSitePage...)
}

// LoadPagePayload reads the site page document from location, which may be
// a local path or any URL afs understands. An empty location returns the
// embedded default.
func LoadPagePayload(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return DefaultPagePayload(), nil
	}
	data, err := afs.New().DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("[hubspot LoadPagePayload] download %s: %w", location, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("[hubspot LoadPagePayload] %s is not valid JSON", location)
	}
	return data, nil
}
