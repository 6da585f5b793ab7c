package vision

import (
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// MultiScaleOptions configures multi-scale template matching.
// Scales: explicit factors to try. If empty, factors are generated from
// MinScale..MaxScale using ScaleStep. StopOnScore disables when set to 0.
type MultiScaleOptions struct {
	Scales      []float64
	Match       MatchOptions
	StopOnScore float64
	MinScale    float64
	MaxScale    float64
	ScaleStep   float64
}

// Enabled reports whether the options describe at least one scale.
func (o MultiScaleOptions) Enabled() bool {
	return len(o.Scales) > 0 || (o.MinScale > 0 && o.MaxScale >= o.MinScale && o.ScaleStep > 0)
}

func (o MultiScaleOptions) factors() []float64 {
	if len(o.Scales) > 0 {
		return o.Scales
	}
	if !o.Enabled() {
		return []float64{1}
	}
	maxSteps := min(1+int((o.MaxScale-o.MinScale)/o.ScaleStep+0.5), 200)
	scales := make([]float64, 0, maxSteps)
	for s := o.MinScale; s <= o.MaxScale+1e-9 && len(scales) < maxSteps; s += o.ScaleStep {
		scales = append(scales, s)
	}
	return scales
}

// MultiScaleResult is the best match found across scales.
type MultiScaleResult struct {
	MatchResult
	Scale           float64
	ScalesEvaluated int
}

// MatchBestMultiScale evaluates t at multiple scales in parallel and returns
// the best match. It supports an optional early-stop threshold in
// MultiScaleOptions.StopOnScore.
func MatchBestMultiScale(frame *image.RGBA, t *Template, opts MultiScaleOptions) MultiScaleResult {
	start := time.Now()
	if frame == nil || t == nil {
		return MultiScaleResult{MatchResult: MatchResult{Score: -1}}
	}
	match := opts.Match.withDefaults()
	pre := buildGrayPrecomp(frame)
	fb := frame.Bounds()

	var earlyStop atomic.Bool
	var evaluated atomic.Int64
	scales := opts.factors()
	results := make(chan MultiScaleResult, len(scales))
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())

	for _, factor := range scales {
		if factor <= 0 {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(factor float64) {
			defer wg.Done()
			defer func() { <-sem }()
			if earlyStop.Load() {
				return
			}
			pc := t.scaledPrecomp(factor)
			if pc == nil {
				return
			}
			x, y, score := matchBestPre(pre, pc, match)
			evaluated.Add(1)
			if score <= -1 {
				return
			}
			r := MultiScaleResult{MatchResult: resultAt(fb, pc, x, y, score), Scale: factor}
			if opts.StopOnScore > 0 && score >= opts.StopOnScore {
				earlyStop.Store(true)
			}
			results <- r
		}(factor)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	best := MultiScaleResult{MatchResult: MatchResult{Score: -1}}
	for r := range results {
		if r.Score > best.Score {
			best = r
		}
	}
	best.Found = best.Score >= match.Threshold
	best.ScalesEvaluated = int(evaluated.Load())
	if match.DebugTiming {
		best.Dur = time.Since(start)
	}
	return best
}
