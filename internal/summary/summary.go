package summary

import (
	"context"

	"media-sweep/internal/asset"
	"media-sweep/internal/preview"
	"media-sweep/pkg/format"
)

// CategorySummary is one row of the reclaimable-space overview.
type CategorySummary struct {
	Category   asset.Category `json:"category"`
	Enumerable bool           `json:"enumerable"`
	Count      int            `json:"count"`
	TotalBytes int64          `json:"totalBytes"`
	TotalHuman string         `json:"total"`
}

// Overview sizes every category through the session and returns the rows in
// display order plus the grand total of reclaimable bytes. Non-enumerable
// categories appear with zero numbers so the UI can still render their card.
func Overview(ctx context.Context, sess *preview.Session) ([]CategorySummary, int64, error) {
	var rows []CategorySummary
	var grand int64

	for _, c := range asset.Categories() {
		if !c.Enumerable() {
			rows = append(rows, CategorySummary{Category: c, TotalHuman: format.Size(0)})
			continue
		}
		load, err := sess.Load(ctx, c)
		if err != nil {
			return nil, 0, err
		}
		total := load.TotalSize()
		rows = append(rows, CategorySummary{
			Category:   c,
			Enumerable: true,
			Count:      load.Count(),
			TotalBytes: total,
			TotalHuman: format.Size(total),
		})
		grand += total
	}
	return rows, grand, nil
}
