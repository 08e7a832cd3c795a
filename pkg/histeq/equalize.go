package histeq

import (
	"context"
	"fmt"
	"image"
	"math"

	"golang.org/x/sync/errgroup"
)

// Options tunes EqualizeWithOptions.
type Options struct {
	// Workers > 1 splits histogram counting and remapping across row bands.
	Workers int
	// SkipOutputStats drops the recomputation of the output histogram and PDF.
	SkipOutputStats bool
}

// Result carries the equalized image and the statistics computed on the way.
// OutputHistogram and OutputPDF are zero when output stats were skipped.
type Result struct {
	Image *image.Gray

	InputHistogram Histogram
	InputPDF       PDF
	InputCDF       CDF

	OutputHistogram Histogram
	OutputPDF       PDF
}

// TransferFunction builds the lookup table r -> round((L-1)*cdf[r]).
// Results are clamped to [0, L-1] so that floating overshoot of a CDF
// ending slightly above 1.0 cannot wrap.
func TransferFunction(cdf CDF) [Levels]uint8 {
	var lut [Levels]uint8
	for r, c := range cdf {
		v := math.Round((Levels - 1) * c)
		if v < 0 {
			v = 0
		}
		if v > Levels-1 {
			v = Levels - 1
		}
		lut[r] = uint8(v)
	}
	return lut
}

// Equalize runs the serial pipeline on src and recomputes the output stats.
func Equalize(src *image.Gray) (*Result, error) {
	return EqualizeWithOptions(context.Background(), src, Options{})
}

// EqualizeWithOptions runs histogram -> PDF -> CDF -> remap on src. The
// input image is never modified; the returned image has the same bounds.
func EqualizeWithOptions(ctx context.Context, src *image.Gray, opts Options) (*Result, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, fmt.Errorf("equalize: %w", ErrEmptyImage)
	}
	b := src.Bounds()
	total := b.Dx() * b.Dy()

	hist, err := histogram(ctx, src, opts.Workers)
	if err != nil {
		return nil, err
	}
	pdf, err := ComputePDF(hist, total)
	if err != nil {
		return nil, fmt.Errorf("equalize: %w", err)
	}
	cdf := ComputeCDF(pdf)
	lut := TransferFunction(cdf)

	out := image.NewGray(b)
	if err := remap(ctx, src, out, &lut, opts.Workers); err != nil {
		return nil, err
	}

	res := &Result{
		Image:          out,
		InputHistogram: hist,
		InputPDF:       pdf,
		InputCDF:       cdf,
	}
	if opts.SkipOutputStats {
		return res, nil
	}
	res.OutputHistogram, err = histogram(ctx, out, opts.Workers)
	if err != nil {
		return nil, err
	}
	res.OutputPDF, err = ComputePDF(res.OutputHistogram, total)
	if err != nil {
		return nil, fmt.Errorf("equalize output: %w", err)
	}
	return res, nil
}

func histogram(ctx context.Context, src *image.Gray, workers int) (Histogram, error) {
	if workers > 1 {
		return ComputeHistogramParallel(ctx, src, workers)
	}
	return ComputeHistogram(src), nil
}

// remap writes lut[src] into dst, which must share src's bounds.
func remap(ctx context.Context, src, dst *image.Gray, lut *[Levels]uint8, workers int) error {
	b := src.Bounds()
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("remap: %w", err)
		}
		mapRows(src, dst, lut, b.Min.Y, b.Max.Y)
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, band := range splitRows(b, workers) {
		band := band
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mapRows(src, dst, lut, band[0], band[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("remap: %w", err)
	}
	return nil
}

func mapRows(src, dst *image.Gray, lut *[Levels]uint8, y0, y1 int) {
	b := src.Bounds()
	w := b.Dx()
	for y := y0; y < y1; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		row := dst.Pix[di : di+w]
		for x, v := range src.Pix[si : si+w] {
			row[x] = lut[v]
		}
	}
}
