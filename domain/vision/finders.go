package vision

import (
	"image"
	"log/slog"
)

// SplashFinder finds every splash ripple in a frame by template matching.
type SplashFinder struct {
	store         *Store
	name          string
	opts          MatchOptions
	minSeparation float64
	logger        *slog.Logger
}

// NewSplashFinder returns a finder for the splash template.
func NewSplashFinder(store *Store, opts MatchOptions, minSeparation float64, logger *slog.Logger) *SplashFinder {
	return &SplashFinder{store: store, name: SplashTemplate, opts: opts, minSeparation: minSeparation, logger: logger}
}

// FindSplashes returns splash centres in scan order and the template size.
func (f *SplashFinder) FindSplashes(frame *image.RGBA) ([]image.Point, image.Point) {
	t, ok := f.store.Template(f.name)
	if !ok || frame == nil {
		return nil, image.Point{}
	}
	matches := MatchAll(frame, t, f.opts, f.minSeparation)
	centers := make([]image.Point, 0, len(matches))
	for _, m := range matches {
		centers = append(centers, m.Center)
	}
	if f.logger != nil {
		f.logger.Debug("splash search", "found", len(centers))
	}
	return centers, t.Size()
}

// CircleFinder locates a single circle marker (navigation or catch circle)
// by best masked match, optionally across scales.
type CircleFinder struct {
	store  *Store
	name   string
	opts   MatchOptions
	multi  MultiScaleOptions
	logger *slog.Logger
}

// NewCircleFinder returns a finder for the named template. When multi is
// enabled the search runs across its scale range.
func NewCircleFinder(store *Store, name string, opts MatchOptions, multi MultiScaleOptions, logger *slog.Logger) *CircleFinder {
	multi.Match = opts
	return &CircleFinder{store: store, name: name, opts: opts, multi: multi, logger: logger}
}

// FindCircle returns the centre of the best match when it reaches the threshold.
func (f *CircleFinder) FindCircle(frame *image.RGBA) (image.Point, bool) {
	t, ok := f.store.Template(f.name)
	if !ok || frame == nil {
		return image.Point{}, false
	}
	var res MatchResult
	if f.multi.Enabled() {
		res = MatchBestMultiScale(frame, t, f.multi).MatchResult
	} else {
		res = MatchBest(frame, t, f.opts)
	}
	if !res.Found {
		if f.logger != nil {
			f.logger.Debug("circle not found", "template", f.name, "best", res.Score)
		}
		return image.Point{}, false
	}
	return res.Center, true
}
