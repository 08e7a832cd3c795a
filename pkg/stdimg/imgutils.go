package stdimg

import (
	"image"
)

// ToNRGBA converts any image.Image to *image.NRGBA (non-premultiplied RGBA).
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	if n, ok := src.(*image.NRGBA); ok {
		// copy row by row; sub-images share a wider stride
		out := image.NewNRGBA(n.Rect)
		rowLen := 4 * n.Rect.Dx()
		for y := n.Rect.Min.Y; y < n.Rect.Max.Y; y++ {
			copy(out.Pix[out.PixOffset(n.Rect.Min.X, y):][:rowLen], n.Pix[n.PixOffset(n.Rect.Min.X, y):][:rowLen])
		}
		return out
	}
	b := src.Bounds()
	out := image.NewNRGBA(b)
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, b_, a := src.At(x, y).RGBA()
			// r,g,b,a are 16-bit [0, 65535]; convert to 8-bit
			out.Pix[idx+0] = uint8(r >> 8)
			out.Pix[idx+1] = uint8(g >> 8)
			out.Pix[idx+2] = uint8(b_ >> 8)
			out.Pix[idx+3] = uint8(a >> 8)
			idx += 4
		}
	}
	return out
}

// ToGray converts src to an 8-bit grayscale image with BT.601 luma weights
// (0.299 R + 0.587 G + 0.114 B). A *image.Gray input is copied.
// The returned image always starts at the origin.
func ToGray(src image.Image) *image.Gray {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if g, ok := src.(*image.Gray); ok {
		w := b.Dx()
		for y := 0; y < b.Dy(); y++ {
			si := g.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+w], g.Pix[si:si+w])
		}
		return out
	}
	n := ToNRGBA(src)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := n.PixOffset(b.Min.X+x, b.Min.Y+y)
			out.Pix[y*out.Stride+x] = luma(n.Pix[i+0], n.Pix[i+1], n.Pix[i+2])
		}
	}
	return out
}

// luma uses 14-bit fixed point weights, rounding to nearest.
func luma(r, g, b uint8) uint8 {
	const (
		wr = 4899 // 0.299 * 16384
		wg = 9617 // 0.587 * 16384
		wb = 1868 // 0.114 * 16384
	)
	y := (wr*uint32(r) + wg*uint32(g) + wb*uint32(b) + 1<<13) >> 14
	if y > 255 {
		y = 255
	}
	return uint8(y)
}

// CloneGray returns a copy of src with the same bounds and a compact stride.
func CloneGray(src *image.Gray) *image.Gray {
	if src == nil {
		return nil
	}
	out := image.NewGray(src.Rect)
	w := src.Rect.Dx()
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		copy(out.Pix[out.PixOffset(src.Rect.Min.X, y):][:w], src.Pix[src.PixOffset(src.Rect.Min.X, y):][:w])
	}
	return out
}

// clampInt clamps v to [lo,hi]
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
