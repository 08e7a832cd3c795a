package histeq

import (
	"errors"
	"fmt"
)

// ErrEmptyImage is returned when the pipeline is asked to work on an image
// without pixels. Normalizing its histogram would divide by zero.
var ErrEmptyImage = errors.New("histeq: image has no pixels")

// PDF is the probability mass of each intensity level.
type PDF [Levels]float64

// CDF is the running sum of a PDF.
type CDF [Levels]float64

// Sum returns the total probability mass, ~1.0 for a normalized PDF.
func (p *PDF) Sum() float64 {
	s := 0.0
	for _, v := range p {
		s += v
	}
	return s
}

// Max returns the largest probability in p.
func (p *PDF) Max() float64 {
	m := 0.0
	for _, v := range p {
		if v > m {
			m = v
		}
	}
	return m
}

// ComputePDF normalizes hist by totalPixels.
func ComputePDF(hist Histogram, totalPixels int) (PDF, error) {
	var pdf PDF
	if totalPixels <= 0 {
		return pdf, fmt.Errorf("pdf over %d pixels: %w", totalPixels, ErrEmptyImage)
	}
	total := float64(totalPixels)
	for i, n := range hist {
		pdf[i] = float64(n) / total
	}
	return pdf, nil
}

// ComputeCDF returns the prefix sum of pdf. Values are not validated.
func ComputeCDF(pdf PDF) CDF {
	var cdf CDF
	cdf[0] = pdf[0]
	for i := 1; i < Levels; i++ {
		cdf[i] = cdf[i-1] + pdf[i]
	}
	return cdf
}
