package stdimg

import (
	"image"
	"testing"

	"github.com/Fepozopo/histeq/pkg/histeq"
)

func solidGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestMedianFilterSingleImpulse(t *testing.T) {
	// one impulse on a flat background is removed by a 3x3 median
	src := solidGray(5, 5, 100)
	src.Pix[src.PixOffset(2, 2)] = 255

	out := MedianFilter(src, 1)
	if out.Bounds() != src.Bounds() {
		t.Fatalf("output bounds mismatch")
	}
	for i, v := range out.Pix {
		if v != 100 {
			t.Fatalf("pixel %d = %d, expected 100 after median", i, v)
		}
	}
}

func TestMedianFilterEdgesNoPanic(t *testing.T) {
	src := ramp(3, 3, 10, 30)
	out := MedianFilter(src, 5)
	if out == nil || out.Bounds() != src.Bounds() {
		t.Fatalf("unexpected output %v", out)
	}
	// the window covers the whole image everywhere, so every pixel gets the
	// global median
	want := out.Pix[0]
	for _, v := range out.Pix {
		if v != want {
			t.Fatalf("expected uniform output, got %v", out.Pix)
		}
	}
	if MedianFilter(src, 0).Pix[1] != src.Pix[1] {
		t.Fatalf("radius 0 should copy")
	}
}

func TestNormalizeStretchesRange(t *testing.T) {
	src := ramp(11, 2, 100, 150)
	out := Normalize(src)
	hist := histeq.ComputeHistogram(out)
	if hist[0] == 0 || hist[255] == 0 {
		t.Fatalf("expected full range after normalize")
	}
	for x := 1; x < 11; x++ {
		if out.Pix[x] < out.Pix[x-1] {
			t.Fatalf("normalize must be monotonic")
		}
	}
	flat := solidGray(4, 4, 77)
	if Normalize(flat).Pix[5] != 77 {
		t.Fatalf("single-level image must stay unchanged")
	}
}

func TestToneOperators(t *testing.T) {
	src := ramp(256, 1, 0, 255)

	neg := Negate(src)
	thr := Threshold(src, 128)
	gam := Gamma(src, 2.2)
	lvl := Level(src, 64, 1, 192)
	for v := 0; v < 256; v++ {
		if neg.Pix[v] != uint8(255-v) {
			t.Fatalf("negate(%d) = %d", v, neg.Pix[v])
		}
		want := uint8(0)
		if v >= 128 {
			want = 255
		}
		if thr.Pix[v] != want {
			t.Fatalf("threshold(%d) = %d", v, thr.Pix[v])
		}
		if v > 0 && v < 255 && gam.Pix[v] < uint8(v) {
			t.Fatalf("gamma 2.2 must brighten, %d -> %d", v, gam.Pix[v])
		}
	}
	if lvl.Pix[64] != 0 || lvl.Pix[192] != 255 || lvl.Pix[128] != 128 {
		t.Fatalf("level endpoints wrong: %d %d %d", lvl.Pix[64], lvl.Pix[128], lvl.Pix[192])
	}
	if Gamma(src, 1).Pix[77] != 77 || Gamma(src, -1).Pix[77] != 77 {
		t.Fatalf("gamma 1 and invalid gamma must be no-ops")
	}
}

func TestAutoGammaMovesMeanTowardsMid(t *testing.T) {
	src := ramp(64, 4, 0, 80)
	before := meanOf(src)
	after := meanOf(AutoGamma(src))
	if after <= before {
		t.Fatalf("expected brighter image, mean %.1f -> %.1f", before, after)
	}
	black := solidGray(3, 3, 0)
	if AutoGamma(black).Pix[0] != 0 {
		t.Fatalf("black image must stay unchanged")
	}
}

func meanOf(img *image.Gray) float64 {
	sum := 0
	for _, v := range img.Pix {
		sum += int(v)
	}
	return float64(sum) / float64(len(img.Pix))
}

func TestPosterizeLevels(t *testing.T) {
	out := Posterize(ramp(256, 1, 0, 255), 4)
	hist := histeq.ComputeHistogram(out)
	used := 0
	for v, n := range hist {
		if n == 0 {
			continue
		}
		used++
		if v != 0 && v != 85 && v != 170 && v != 255 {
			t.Fatalf("unexpected level %d", v)
		}
	}
	if used != 4 {
		t.Fatalf("expected 4 levels, got %d", used)
	}
}
