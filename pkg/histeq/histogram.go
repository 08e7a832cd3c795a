// Package histeq implements grayscale histogram equalization over the 8-bit
// intensity domain: histogram, probability mass, cumulative distribution and
// the (L-1)*CDF(r) intensity remap.
package histeq

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// Levels is the number of intensity levels of an 8-bit grayscale image.
const Levels = 256

// Histogram holds the occurrence count of every intensity level.
type Histogram [Levels]int

// Sum returns the total number of counted pixels.
func (h *Histogram) Sum() int {
	s := 0
	for _, v := range h {
		s += v
	}
	return s
}

// Max returns the largest bin count.
func (h *Histogram) Max() int {
	m := 0
	for _, v := range h {
		if v > m {
			m = v
		}
	}
	return m
}

// ComputeHistogram counts the occurrences of each intensity in src.
// A nil or empty image yields an all-zero histogram.
func ComputeHistogram(src *image.Gray) Histogram {
	var hist Histogram
	if src == nil {
		return hist
	}
	b := src.Bounds()
	countRows(src, b.Min.Y, b.Max.Y, &hist)
	return hist
}

// ComputeHistogramParallel is ComputeHistogram split across workers by row
// bands. Each worker counts into its own histogram; partials are summed once
// all bands are done, so the result is identical to the serial pass.
func ComputeHistogramParallel(ctx context.Context, src *image.Gray, workers int) (Histogram, error) {
	if src == nil {
		return Histogram{}, nil
	}
	b := src.Bounds()
	bands := splitRows(b, workers)
	if len(bands) <= 1 {
		return ComputeHistogram(src), nil
	}

	partials := make([]Histogram, len(bands))
	g, ctx := errgroup.WithContext(ctx)
	for i, band := range bands {
		i, band := i, band
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			countRows(src, band[0], band[1], &partials[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Histogram{}, fmt.Errorf("histogram: %w", err)
	}

	var hist Histogram
	for i := range partials {
		for v, n := range partials[i] {
			hist[v] += n
		}
	}
	return hist, nil
}

// countRows accumulates rows [y0,y1) of src into hist.
func countRows(src *image.Gray, y0, y1 int, hist *Histogram) {
	b := src.Bounds()
	w := b.Dx()
	for y := y0; y < y1; y++ {
		i := src.PixOffset(b.Min.X, y)
		for _, v := range src.Pix[i : i+w] {
			hist[v]++
		}
	}
}

// splitRows partitions the rows of b into at most workers contiguous bands,
// returned as [y0,y1) pairs.
func splitRows(b image.Rectangle, workers int) [][2]int {
	h := b.Dy()
	if h <= 0 || b.Dx() <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > h {
		workers = h
	}
	bands := make([][2]int, 0, workers)
	step := (h + workers - 1) / workers
	for y := b.Min.Y; y < b.Max.Y; y += step {
		bands = append(bands, [2]int{y, min(y+step, b.Max.Y)})
	}
	return bands
}
