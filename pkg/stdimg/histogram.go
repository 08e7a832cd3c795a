package stdimg

import (
	"image"
	"math"

	"github.com/Fepozopo/histeq/pkg/histeq"
)

// Default plot size used when callers pass non-positive dimensions.
const (
	DefaultPlotWidth  = 512
	DefaultPlotHeight = 160
)

// RenderPDFImage draws pdf as a bar plot: white background, one black
// column per x position, bars scaled so the largest probability reaches the
// top row. width/height choose the output image size.
func RenderPDFImage(pdf histeq.PDF, width, height int) *image.Gray {
	if width <= 0 {
		width = DefaultPlotWidth
	}
	if height <= 0 {
		height = DefaultPlotHeight
	}
	out := image.NewGray(image.Rect(0, 0, width, height))
	for i := range out.Pix {
		out.Pix[i] = 255
	}
	maxv := pdf.Max()
	if maxv <= 0 {
		return out
	}
	for x := 0; x < width; x++ {
		// determine bin index
		bin := clampInt(int(math.Floor(float64(x)*histeq.Levels/float64(width))), 0, histeq.Levels-1)
		bh := int(math.Round(pdf[bin] / maxv * float64(height-1)))
		// draw from bottom up
		for y := 0; y < bh; y++ {
			out.Pix[out.PixOffset(x, height-1-y)] = 0
		}
	}
	return out
}

// RenderHistogramPlots renders the input and output PDF plots of an
// equalization, each captioned with its title.
func RenderHistogramPlots(res *histeq.Result, width, height int) (in, out *image.Gray) {
	return RenderHistogramPlotsWithFont(res, width, height, "")
}

// RenderHistogramPlotsWithFont is RenderHistogramPlots with captions drawn
// in the font at fontPath (empty for the built-in face).
func RenderHistogramPlotsWithFont(res *histeq.Result, width, height int, fontPath string) (in, out *image.Gray) {
	if res == nil {
		return nil, nil
	}
	in = LabelImageWithFont(RenderPDFImage(res.InputPDF, width, height), "input histogram", fontPath, 12)
	out = LabelImageWithFont(RenderPDFImage(res.OutputPDF, width, height), "output histogram", fontPath, 12)
	return in, out
}
