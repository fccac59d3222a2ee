package source

import "context"

// DefaultMaxBytes caps how much of a sheet download is read.
const DefaultMaxBytes = 10 << 20

// Source yields the raw CSV export of the tracking sheet.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Location identifies the sheet in logs and API responses.
	Location() string
}
