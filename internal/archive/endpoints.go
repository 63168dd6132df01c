package archive

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/klcheung/opw-data/internal/model"
)

// versionsResponse is the wire shape of /list-file-versions.
type versionsResponse struct {
	DataDictionary string   `json:"data-dictionary"`
	Timestamps     []string `json:"timestamps"`
	Versions       int      `json:"versions"`
}

// ListVersions fetches the version stamps recorded for the source file
// between start and end inclusive. The archive caps the range per call;
// callers walk longer horizons in sub-windows.
func (c *Client) ListVersions(ctx context.Context, start, end time.Time) ([]string, error) {
	query := url.Values{}
	query.Set("url", c.sourceURL)
	query.Set("start", start.Format(model.DateLayout))
	query.Set("end", end.Format(model.DateLayout))

	var resp versionsResponse
	if err := c.get(ctx, "/list-file-versions", query, &resp); err != nil {
		return nil, fmt.Errorf("list versions %s..%s: %w",
			start.Format(model.DateLayout), end.Format(model.DateLayout), err)
	}

	return resp.Timestamps, nil
}

// GetSnapshot fetches one archived snapshot of the source file by
// version stamp. The payload is the full item catalog for that day.
func (c *Client) GetSnapshot(ctx context.Context, version string) ([]model.RawItemRecord, error) {
	query := url.Values{}
	query.Set("url", c.sourceURL)
	query.Set("time", version)

	var items []model.RawItemRecord
	if err := c.get(ctx, "/get-file", query, &items); err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", version, err)
	}

	return items, nil
}
