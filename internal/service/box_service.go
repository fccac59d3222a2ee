package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/drugbox/internal/cache"
	"github.com/vbonduro/drugbox/internal/domain"
	"github.com/vbonduro/drugbox/internal/filter"
	"github.com/vbonduro/drugbox/internal/sheet"
	"github.com/vbonduro/drugbox/internal/source"
)

// LoadFailedPrefix starts the warning shown when the sheet cannot be loaded.
const LoadFailedPrefix = "ไม่สามารถดึงข้อมูลได้"

// Snapshot is one cleaned download of the tracking sheet.
type Snapshot struct {
	ID           string
	Source       string
	LoadedAt     time.Time
	ExtraHeaders []string
	Boxes        []*domain.Box
	// Warning is a user-facing message; set only when the load failed.
	Warning string
}

// Empty reports whether there is nothing to render.
func (s *Snapshot) Empty() bool {
	return len(s.Boxes) == 0
}

type BoxService struct {
	source  source.Source
	columns sheet.Columns
	cache   *cache.Value[*Snapshot]
	now     func() time.Time
	logger  *slog.Logger
}

func NewBoxService(src source.Source, columns sheet.Columns, ttl time.Duration, logger *slog.Logger) *BoxService {
	return &BoxService{
		source:  src,
		columns: columns,
		cache:   cache.New[*Snapshot](ttl),
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the time source used for cache expiry and LoadedAt.
func (s *BoxService) WithClock(now func() time.Time) *BoxService {
	s.now = now
	s.cache.WithClock(now)
	return s
}

// Snapshot returns the cached sheet, loading it when the cache window has passed.
// It never fails: a broken source yields an empty snapshot carrying a Warning.
func (s *BoxService) Snapshot(ctx context.Context) *Snapshot {
	return s.cache.GetOrLoad(func() *Snapshot {
		return s.load(ctx)
	})
}

// Refresh discards the cached sheet and loads it again.
func (s *BoxService) Refresh(ctx context.Context) *Snapshot {
	s.logger.Info("sheet refresh requested", "source", s.source.Location())
	s.cache.Invalidate()
	return s.Snapshot(ctx)
}

// Invalidate discards the cached sheet without loading.
func (s *BoxService) Invalidate() {
	s.cache.Invalidate()
}

// ExpiresAt reports when the cached sheet goes stale.
func (s *BoxService) ExpiresAt() time.Time {
	return s.cache.ExpiresAt()
}

func (s *BoxService) load(ctx context.Context) *Snapshot {
	start := s.now()
	snap := &Snapshot{
		ID:       uuid.NewString(),
		Source:   s.source.Location(),
		LoadedAt: start,
	}

	// The load outlives the request that triggered it; the source timeout bounds it.
	ctx = context.WithoutCancel(ctx)

	s.logger.Info("sheet load started", "snapshot_id", snap.ID, "source", snap.Source)

	data, err := s.source.Fetch(ctx)
	if err == nil {
		var parsed *sheet.Sheet
		parsed, err = sheet.Parse(bytes.NewReader(data), s.columns)
		if err == nil {
			snap.Boxes = parsed.Boxes
			snap.ExtraHeaders = parsed.ExtraHeaders
		}
	}
	if err != nil {
		snap.Warning = fmt.Sprintf("%s: %v", LoadFailedPrefix, err)
		s.logger.Error("sheet load failed",
			"snapshot_id", snap.ID,
			"source", snap.Source,
			"error", err,
		)
		return snap
	}

	s.logger.Info("sheet load complete",
		"snapshot_id", snap.ID,
		"record_count", len(snap.Boxes),
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return snap
}

// View is the dashboard state for one interaction.
type View struct {
	Snapshot  *Snapshot
	Selection filter.Selection
	Options   map[domain.Field][]string
	Boxes     []*domain.Box
	Summary   Summary
}

// View filters the current snapshot. Only an invalid selection returns an error.
func (s *BoxService) View(ctx context.Context, sel filter.Selection) (*View, error) {
	snap := s.Snapshot(ctx)

	boxes, err := filter.Apply(snap.Boxes, sel)
	if err != nil {
		return nil, err
	}

	return &View{
		Snapshot:  snap,
		Selection: sel,
		Options:   filter.Options(snap.Boxes),
		Boxes:     boxes,
		Summary:   Summarize(boxes),
	}, nil
}
