package vision

import (
	"image"
	"math"
	"time"
)

const varianceEpsilon = 1e-9

// grayPrecomp stores per-frame grayscale values and their summed-area tables
// (integral images). The integrals allow O(1) window sum and variance queries.
type grayPrecomp struct {
	gray       []float64 // per pixel grayscale (length W*H)
	integral   []float64 // summed-area table of grayscale
	integralSq []float64 // summed-area table of grayscale squared
	W, H       int
}

// MatchOptions configures normalized cross-correlation template matching.
type MatchOptions struct {
	Threshold   float64 // Minimum NCC score for a positive match (default 0.80)
	Stride      int     // Coarse stride for scanning (default 1)
	Refine      bool    // If true and Stride>1, refine around every promising coarse window
	DebugTiming bool    // If true, measure elapsed time
}

func (o MatchOptions) withDefaults() MatchOptions {
	if o.Threshold <= 0 {
		o.Threshold = 0.80
	}
	if o.Stride <= 0 {
		o.Stride = 1
	}
	return o
}

// MatchResult is one template match. TopLeft and Center are in the frame's
// coordinate space (screen coordinates for captured frames).
type MatchResult struct {
	TopLeft image.Point
	Center  image.Point
	Score   float64 // normalised correlation in [-1,1]
	Found   bool
	Dur     time.Duration // Only set if DebugTiming
}

// buildGrayPrecomp computes per-pixel grayscale values and their summed-area
// tables for a frame. Alpha==0 pixels contribute zero.
func buildGrayPrecomp(frame *image.RGBA) *grayPrecomp {
	if frame == nil {
		return nil
	}
	b := frame.Bounds()
	W, H := b.Dx(), b.Dy()
	need := W * H
	p := &grayPrecomp{
		gray:       make([]float64, need),
		integral:   make([]float64, need),
		integralSq: make([]float64, need),
		W:          W,
		H:          H,
	}
	for y := 0; y < H; y++ {
		var rowSum, rowSum2 float64
		row := frame.Pix[y*frame.Stride:]
		for x := 0; x < W; x++ {
			px := row[x*4 : x*4+4]
			var gray float64
			if px[3] != 0 {
				// 8-bit channels scaled to the 16-bit range used for templates.
				gray = luma(uint32(px[0])*0x101, uint32(px[1])*0x101, uint32(px[2])*0x101)
			}
			off := y*W + x
			p.gray[off] = gray
			rowSum += gray
			rowSum2 += gray * gray
			if y == 0 {
				p.integral[off] = rowSum
				p.integralSq[off] = rowSum2
			} else {
				p.integral[off] = p.integral[(y-1)*W+x] + rowSum
				p.integralSq[off] = p.integralSq[(y-1)*W+x] + rowSum2
			}
		}
	}
	return p
}

// integralSum returns the inclusive sum over rectangle [x0..x1] x [y0..y1]
// from an integral image stored in row-major order with width W.
func integralSum(I []float64, W int, x0, y0, x1, y1 int) float64 {
	if x0 > x1 || y0 > y1 {
		return 0
	}
	A := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return I[y*W+x]
	}
	return A(x1, y1) - A(x0-1, y1) - A(x1, y0-1) + A(x0-1, y0-1)
}

// scoreAt returns the NCC between pc and the frame window whose top-left is
// (x,y), and false when the score is undefined (flat window or template).
// Unmasked templates use the integral images for the window statistics;
// masked templates accumulate them over opaque pixels only.
func scoreAt(pre *grayPrecomp, pc *templatePrecomp, x, y int) (float64, bool) {
	w, h := pc.W, pc.H
	W := pre.W
	var sumF, sumF2, sumFT float64
	if pc.masked {
		for py := 0; py < h; py++ {
			row := (y+py)*W + x
			for px := 0; px < w; px++ {
				i := py*w + px
				if !pc.mask[i] {
					continue
				}
				f := pre.gray[row+px]
				sumF += f
				sumF2 += f * f
				sumFT += f * float64(pc.gray[i])
			}
		}
	} else {
		sumF = integralSum(pre.integral, W, x, y, x+w-1, y+h-1)
		sumF2 = integralSum(pre.integralSq, W, x, y, x+w-1, y+h-1)
		for py := 0; py < h; py++ {
			row := (y+py)*W + x
			trow := pc.gray[py*w : py*w+w]
			for px, t := range trow {
				sumFT += pre.gray[row+px] * float64(t)
			}
		}
	}
	n := pc.n
	meanF := sumF / n
	varF := (sumF2 - sumF*sumF/n) / n
	if pc.stdT <= varianceEpsilon {
		// Flat template: only an equally flat window of the same value matches.
		if varF <= varianceEpsilon && math.Abs(meanF-pc.meanT) <= 1 {
			return 1, true
		}
		return 0, false
	}
	if varF <= varianceEpsilon {
		return 0, false
	}
	denom := n * math.Sqrt(varF) * pc.stdT
	if denom <= 0 {
		return 0, false
	}
	return (sumFT - n*meanF*pc.meanT) / denom, true
}

// coarseSeedRatio scales opts.Threshold to the minimum coarse score a window
// needs to be refined when Stride > 1.
const coarseSeedRatio = 0.5

// scanBest visits every step-th window in [x0,x1]x[y0,y1] and updates the
// running best.
func scanBest(pre *grayPrecomp, pc *templatePrecomp, x0, y0, x1, y1, step int, bx, by *int, best *float64) {
	for y := y0; y <= y1; y += step {
		for x := x0; x <= x1; x += step {
			if s, ok := scoreAt(pre, pc, x, y); ok && s > *best {
				*best, *bx, *by = s, x, y
			}
		}
	}
}

// matchBestPre scans the frame for the best window. It returns the best
// top-left offset relative to the frame origin and its score (-1 if none).
//
// With Stride > 1 the coarse pass only seeds the search: with Refine set,
// every coarse window scoring at least coarseSeedRatio*Threshold is refined
// over its ±stride neighbourhood, and when the result still misses
// Threshold the frame is rescanned at every position.
func matchBestPre(pre *grayPrecomp, pc *templatePrecomp, opts MatchOptions) (int, int, float64) {
	bestX, bestY, bestScore := 0, 0, -1.0
	if pre == nil || pc == nil || pre.W < pc.W || pre.H < pc.H {
		return bestX, bestY, bestScore
	}
	maxX, maxY := pre.W-pc.W, pre.H-pc.H
	stride := opts.Stride
	if stride <= 1 {
		scanBest(pre, pc, 0, 0, maxX, maxY, 1, &bestX, &bestY, &bestScore)
		return bestX, bestY, bestScore
	}

	floor := opts.Threshold * coarseSeedRatio
	var seeds []image.Point
	for y := 0; y <= maxY; y += stride {
		for x := 0; x <= maxX; x += stride {
			s, ok := scoreAt(pre, pc, x, y)
			if !ok {
				continue
			}
			if s > bestScore {
				bestScore, bestX, bestY = s, x, y
			}
			if opts.Refine && s >= floor {
				seeds = append(seeds, image.Pt(x, y))
			}
		}
	}
	if opts.Refine && bestScore > -1 {
		seeds = append(seeds, image.Pt(bestX, bestY))
	}
	for _, p := range seeds {
		scanBest(pre, pc,
			max(0, p.X-stride), max(0, p.Y-stride),
			min(maxX, p.X+stride), min(maxY, p.Y+stride),
			1, &bestX, &bestY, &bestScore)
	}
	if bestScore < opts.Threshold {
		scanBest(pre, pc, 0, 0, maxX, maxY, 1, &bestX, &bestY, &bestScore)
	}
	return bestX, bestY, bestScore
}

func resultAt(fb image.Rectangle, pc *templatePrecomp, x, y int, score float64) MatchResult {
	tl := image.Pt(x+fb.Min.X, y+fb.Min.Y)
	return MatchResult{TopLeft: tl, Center: tl.Add(image.Pt(pc.W/2, pc.H/2)), Score: score}
}

// MatchBest returns the globally best-scoring position of t in frame. Found
// is set when the score reaches opts.Threshold; the best position and score
// are reported either way.
func MatchBest(frame *image.RGBA, t *Template, opts MatchOptions) MatchResult {
	start := time.Now()
	opts = opts.withDefaults()
	if frame == nil || t == nil {
		return MatchResult{Score: -1}
	}
	pre := buildGrayPrecomp(frame)
	x, y, score := matchBestPre(pre, t.pre, opts)
	if score <= -1 {
		return MatchResult{Score: -1}
	}
	res := resultAt(frame.Bounds(), t.pre, x, y, score)
	res.Found = score >= opts.Threshold
	if opts.DebugTiming {
		res.Dur = time.Since(start)
	}
	return res
}

// MatchAll returns every window scoring at least opts.Threshold, de-duplicated
// by proximity: candidates are visited in row-major scan order and a candidate
// is kept only when its centre is farther than minSeparation from every
// centre already kept. Scores do not influence which duplicate survives.
// Every position is scanned; opts.Stride only affects MatchBest.
func MatchAll(frame *image.RGBA, t *Template, opts MatchOptions, minSeparation float64) []MatchResult {
	opts = opts.withDefaults()
	if frame == nil || t == nil {
		return nil
	}
	pre := buildGrayPrecomp(frame)
	pc := t.pre
	if pre.W < pc.W || pre.H < pc.H {
		return nil
	}
	fb := frame.Bounds()
	minSep2 := minSeparation * minSeparation
	var kept []MatchResult
	for y := 0; y <= pre.H-pc.H; y++ {
		for x := 0; x <= pre.W-pc.W; x++ {
			s, ok := scoreAt(pre, pc, x, y)
			if !ok || s < opts.Threshold {
				continue
			}
			cand := resultAt(fb, pc, x, y, s)
			cand.Found = true
			if farFromAll(cand.Center, kept, minSep2) {
				kept = append(kept, cand)
			}
		}
	}
	return kept
}

func farFromAll(p image.Point, kept []MatchResult, minSep2 float64) bool {
	for _, k := range kept {
		dx := float64(p.X - k.Center.X)
		dy := float64(p.Y - k.Center.Y)
		if dx*dx+dy*dy <= minSep2 {
			return false
		}
	}
	return true
}
