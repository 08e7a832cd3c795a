package stdimg

import (
	"image"
)

// AutoOrient applies an EXIF orientation (1..8) to a grayscale image and
// returns a new image anchored at the origin. Orientation 1 or an unknown
// value returns a plain copy.
func AutoOrient(src *image.Gray, orientation int) *image.Gray {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if orientation < 1 || orientation > 8 {
		orientation = 1
	}
	// orientations 5..8 swap the axes
	ow, oh := w, h
	if orientation >= 5 {
		ow, oh = h, w
	}
	out := image.NewGray(image.Rect(0, 0, ow, oh))
	for y := 0; y < h; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			dx, dy := orientPoint(orientation, x, y, w, h)
			out.Pix[dy*out.Stride+dx] = src.Pix[si+x]
		}
	}
	return out
}

// orientPoint maps source (x,y) of a w×h image to its destination under
// the given EXIF orientation.
func orientPoint(orientation, x, y, w, h int) (int, int) {
	switch orientation {
	case 2: // flop
		return w - 1 - x, y
	case 3: // rotate 180
		return w - 1 - x, h - 1 - y
	case 4: // flip
		return x, h - 1 - y
	case 5: // transpose
		return y, x
	case 6: // rotate 90 CW
		return h - 1 - y, x
	case 7: // transverse
		return h - 1 - y, w - 1 - x
	case 8: // rotate 90 CCW
		return y, w - 1 - x
	default:
		return x, y
	}
}

// Flip mirrors the image vertically.
func Flip(src *image.Gray) *image.Gray { return AutoOrient(src, 4) }

// Flop mirrors the image horizontally.
func Flop(src *image.Gray) *image.Gray { return AutoOrient(src, 2) }
