package stdimg

import (
	"image"
	"math"

	"github.com/Fepozopo/histeq/pkg/histeq"
)

// ApplyLUT maps every pixel of src through lut. The result keeps src bounds.
func ApplyLUT(src *image.Gray, lut *[histeq.Levels]uint8) *image.Gray {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := image.NewGray(b)
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := out.PixOffset(b.Min.X, y)
		for x := 0; x < w; x++ {
			out.Pix[di+x] = lut[src.Pix[si+x]]
		}
	}
	return out
}

// toneLUT builds a table from f, which maps [0,1] to [0,1].
func toneLUT(f func(v float64) float64) *[histeq.Levels]uint8 {
	var lut [histeq.Levels]uint8
	for v := range lut {
		lut[v] = roundUint8(f(float64(v)/255.0) * 255.0)
	}
	return &lut
}

func roundUint8(v float64) uint8 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Level applies a levels adjustment: values are rescaled so blackPoint maps
// to 0 and whitePoint to 255, then bent by gamma (midtone; 1 or <= 0 keeps
// it linear). whitePoint <= blackPoint is a no-op.
func Level(src *image.Gray, blackPoint, gamma, whitePoint float64) *image.Gray {
	if src == nil {
		return nil
	}
	if whitePoint <= blackPoint {
		return CloneGray(src)
	}
	lo, hi := blackPoint/255.0, whitePoint/255.0
	invGamma := 1.0
	if gamma > 0 {
		invGamma = 1.0 / gamma
	}
	return ApplyLUT(src, toneLUT(func(v float64) float64 {
		n := math.Min(math.Max((v-lo)/(hi-lo), 0), 1)
		return math.Pow(n, invGamma)
	}))
}

// Gamma applies gamma correction (gamma > 0). gamma == 1 is a no-op.
func Gamma(src *image.Gray, gamma float64) *image.Gray {
	if src == nil {
		return nil
	}
	if gamma <= 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return CloneGray(src)
	}
	inv := 1.0 / gamma
	return ApplyLUT(src, toneLUT(func(v float64) float64 { return math.Pow(v, inv) }))
}

// Negate inverts intensities.
func Negate(src *image.Gray) *image.Gray {
	var lut [histeq.Levels]uint8
	for v := range lut {
		lut[v] = uint8(255 - v)
	}
	return ApplyLUT(src, &lut)
}

// Threshold sets pixels >= thresh to 255 and the rest to 0.
func Threshold(src *image.Gray, thresh int) *image.Gray {
	thresh = clampInt(thresh, 0, 255)
	var lut [histeq.Levels]uint8
	for v := thresh; v < histeq.Levels; v++ {
		lut[v] = 255
	}
	return ApplyLUT(src, &lut)
}

// Normalize linearly stretches the occupied intensity range to [0,255].
// Unlike equalization the mapping is affine, so relative spacing between
// levels is preserved. A single-level image is returned unchanged.
func Normalize(src *image.Gray) *image.Gray {
	if src == nil {
		return nil
	}
	hist := histeq.ComputeHistogram(src)
	lo, hi := -1, -1
	for v, n := range hist {
		if n == 0 {
			continue
		}
		if lo < 0 {
			lo = v
		}
		hi = v
	}
	if lo < 0 || hi <= lo {
		return CloneGray(src)
	}
	return Level(src, float64(lo), 1, float64(hi))
}

// AutoGamma picks the gamma that maps the mean intensity to mid-gray and
// applies it. Images whose mean is 0 or 255 are returned unchanged.
func AutoGamma(src *image.Gray) *image.Gray {
	if src == nil {
		return nil
	}
	hist := histeq.ComputeHistogram(src)
	total := hist.Sum()
	if total == 0 {
		return CloneGray(src)
	}
	sum := 0
	for v, n := range hist {
		sum += v * n
	}
	mean := float64(sum) / float64(total) / 255.0
	if mean <= 0 || mean >= 1 {
		return CloneGray(src)
	}
	// mean^(1/gamma) = 0.5
	gamma := math.Log(mean) / math.Log(0.5)
	gamma = math.Min(math.Max(gamma, 0.1), 10)
	return Gamma(src, gamma)
}

// MedianFilter replaces each pixel by the median of its (2r+1)x(2r+1)
// neighbourhood, clipped to the image. A running histogram per row keeps
// the cost linear in the radius.
func MedianFilter(src *image.Gray, radius int) *image.Gray {
	if src == nil {
		return nil
	}
	if radius <= 0 {
		return CloneGray(src)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	at := func(x, y int) uint8 { return src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)] }

	for y := 0; y < h; y++ {
		y0, y1 := max(0, y-radius), min(h-1, y+radius)
		var hist histeq.Histogram
		n := 0
		column := func(x, delta int) {
			for yy := y0; yy <= y1; yy++ {
				hist[at(x, yy)] += delta
			}
			n += delta * (y1 - y0 + 1)
		}
		for x := 0; x <= min(w-1, radius); x++ {
			column(x, 1)
		}
		di := out.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			if x > 0 {
				if left := x - radius - 1; left >= 0 {
					column(left, -1)
				}
				if right := x + radius; right < w {
					column(right, 1)
				}
			}
			out.Pix[di+x] = medianOf(&hist, n)
		}
	}
	return out
}

// medianOf returns the lower-index middle value (element n/2 in sorted order).
func medianOf(hist *histeq.Histogram, n int) uint8 {
	cum := 0
	for v, c := range hist {
		cum += c
		if cum > n/2 {
			return uint8(v)
		}
	}
	return 255
}

// Posterize quantizes intensities to the given number of evenly spaced
// levels. levels < 2 returns a copy.
func Posterize(src *image.Gray, levels int) *image.Gray {
	if src == nil {
		return nil
	}
	if levels < 2 {
		return CloneGray(src)
	}
	step := 255.0 / float64(levels-1)
	return ApplyLUT(src, toneLUT(func(v float64) float64 {
		return math.Round(v*255/step) * step / 255
	}))
}
