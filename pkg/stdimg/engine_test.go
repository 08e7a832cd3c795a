package stdimg

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/Fepozopo/histeq/pkg/histeq"
)

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}

// ramp returns a w×h gray image whose values grow left to right in [lo,hi].
func ramp(w, h int, lo, hi uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := int(lo)
			if w > 1 {
				v += (int(hi) - int(lo)) * x / (w - 1)
			}
			img.Pix[img.PixOffset(x, y)] = uint8(v)
		}
	}
	return img
}

func TestToGrayLuma(t *testing.T) {
	cases := []struct {
		c    color.NRGBA
		want uint8
	}{
		{color.NRGBA{255, 255, 255, 255}, 255},
		{color.NRGBA{0, 0, 0, 255}, 0},
		{color.NRGBA{255, 0, 0, 255}, 76},
		{color.NRGBA{0, 255, 0, 255}, 150},
		{color.NRGBA{0, 0, 255, 255}, 29},
		{color.NRGBA{128, 128, 128, 255}, 128},
	}
	for _, tc := range cases {
		g := ToGray(makeSolidNRGBA(3, 2, tc.c))
		if g.Bounds() != image.Rect(0, 0, 3, 2) {
			t.Fatalf("unexpected bounds %v", g.Bounds())
		}
		for _, v := range g.Pix {
			if v != tc.want {
				t.Fatalf("ToGray(%v) = %d, want %d", tc.c, v, tc.want)
			}
		}
	}
}

func TestToGrayCopiesGray(t *testing.T) {
	src := ramp(10, 4, 0, 90)
	sub := src.SubImage(image.Rect(2, 1, 8, 3)).(*image.Gray)
	g := ToGray(sub)
	if g.Bounds() != image.Rect(0, 0, 6, 2) {
		t.Fatalf("unexpected bounds %v", g.Bounds())
	}
	if g.GrayAt(0, 0) != sub.GrayAt(2, 1) || g.GrayAt(5, 1) != sub.GrayAt(7, 2) {
		t.Fatalf("sub image pixels not copied")
	}
	g.Pix[0] = 200
	if sub.GrayAt(2, 1).Y == 200 {
		t.Fatalf("ToGray shares memory with its source")
	}
}

func TestAutoOrient(t *testing.T) {
	// 3x2:
	// 1 2 3
	// 4 5 6
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(src.Pix, []uint8{1, 2, 3, 4, 5, 6})
	cases := map[int][]uint8{
		1: {1, 2, 3, 4, 5, 6},
		2: {3, 2, 1, 6, 5, 4},
		3: {6, 5, 4, 3, 2, 1},
		4: {4, 5, 6, 1, 2, 3},
		5: {1, 4, 2, 5, 3, 6},
		6: {4, 1, 5, 2, 6, 3},
		7: {6, 3, 5, 2, 4, 1},
		8: {3, 6, 2, 5, 1, 4},
		0: {1, 2, 3, 4, 5, 6},
	}
	for o, want := range cases {
		out := AutoOrient(src, o)
		if o >= 5 && o <= 8 {
			if out.Bounds() != image.Rect(0, 0, 2, 3) {
				t.Fatalf("orientation %d: bounds %v", o, out.Bounds())
			}
		}
		if string(out.Pix) != string(want) {
			t.Fatalf("orientation %d: got %v want %v", o, out.Pix, want)
		}
	}
}

func TestRenderPDFImage(t *testing.T) {
	var pdf histeq.PDF
	pdf[0] = 1.0
	out := RenderPDFImage(pdf, 256, 50)
	if out.Bounds() != image.Rect(0, 0, 256, 50) {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if out.GrayAt(0, 49).Y != 0 || out.GrayAt(0, 1).Y != 0 {
		t.Fatalf("expected full-height bar in column 0")
	}
	if out.GrayAt(0, 0).Y != 255 {
		t.Fatalf("expected top row above bar to stay white")
	}
	if out.GrayAt(1, 49).Y != 255 {
		t.Fatalf("expected empty bin to stay white")
	}

	blank := RenderPDFImage(histeq.PDF{}, 0, 0)
	if blank.Bounds().Dx() != DefaultPlotWidth || blank.Bounds().Dy() != DefaultPlotHeight {
		t.Fatalf("expected default size, got %v", blank.Bounds())
	}
}

func TestLabelImageDrawsText(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 120, 30))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	out := LabelImage(src, "input histogram")
	changed := false
	for i := range out.Pix {
		if out.Pix[i] != 255 {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatalf("expected label to draw non-white pixels")
	}
	if src.Pix[0] != 255 {
		t.Fatalf("LabelImage modified its input")
	}
	if os.Getenv("HISTEQ_SAVE_TEST_OUTPUT") == "1" {
		f, _ := os.Create("label_test_out.png")
		defer f.Close()
		png.Encode(f, out)
	}
}

func TestApplyCommandEqualizeSpreadsRange(t *testing.T) {
	src := ramp(64, 8, 100, 140)
	outImg, err := ApplyCommand(src, "equalize", nil)
	if err != nil {
		t.Fatalf("equalize failed: %v", err)
	}
	out, ok := outImg.(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray output")
	}
	if out.Bounds() != src.Bounds() {
		t.Fatalf("output bounds mismatch")
	}
	if out.GrayAt(63, 0).Y != 255 {
		t.Fatalf("expected brightest level to map to 255, got %d", out.GrayAt(63, 0).Y)
	}
	if out.GrayAt(0, 0).Y >= 100 {
		t.Fatalf("expected darkest level to be pushed down, got %d", out.GrayAt(0, 0).Y)
	}

	par, err := ApplyCommand(src, "equalize", []string{"4"})
	if err != nil {
		t.Fatalf("parallel equalize failed: %v", err)
	}
	if string(par.(*image.Gray).Pix) != string(out.Pix) {
		t.Fatalf("parallel equalize differs from serial")
	}
}

func TestApplyCommandHistogramPlots(t *testing.T) {
	src := ramp(32, 4, 0, 31)
	for _, name := range []string{"histogram", "outputHistogram"} {
		img, err := ApplyCommand(src, name, []string{"300", "90"})
		if err != nil {
			t.Fatalf("%s failed: %v", name, err)
		}
		if img.Bounds() != image.Rect(0, 0, 300, 90) {
			t.Fatalf("%s: unexpected bounds %v", name, img.Bounds())
		}
	}
	if _, err := ApplyCommand(src, "histogram", []string{"0", "10"}); err == nil {
		t.Fatalf("expected error for zero plot width")
	}
}

func TestApplyCommandErrors(t *testing.T) {
	src := ramp(4, 4, 0, 255)
	if _, err := ApplyCommand(nil, "equalize", nil); err == nil {
		t.Fatalf("expected error for nil image")
	}
	if _, err := ApplyCommand(src, "equalize", []string{"x"}); err == nil {
		t.Fatalf("expected error for bad workers")
	}
	if _, err := ApplyCommand(src, "equalize", []string{"0"}); err == nil {
		t.Fatalf("expected error for zero workers")
	}
	if _, err := ApplyCommand(src, "sharpen", nil); err == nil {
		t.Fatalf("expected error for unknown command")
	}
	if _, err := ApplyCommand(image.NewGray(image.Rect(0, 0, 0, 0)), "equalize", nil); err == nil {
		t.Fatalf("expected error for empty image")
	}
}

func TestCommandsRegistryMatchesEngine(t *testing.T) {
	src := ramp(8, 8, 0, 200)
	for _, c := range Commands {
		args := make([]string, len(c.Args))
		for i, a := range c.Args {
			args[i] = a.Default
		}
		if _, err := ApplyCommand(src, c.Name, args); err != nil {
			t.Fatalf("registered command %s failed with defaults %v: %v", c.Name, args, err)
		}
	}
}

func TestApplyCommandToneArgs(t *testing.T) {
	src := ramp(16, 2, 40, 200)
	for _, tc := range []struct {
		name string
		args []string
	}{
		{"level", []string{"10"}},
		{"level", []string{"200", "100"}},
		{"level", []string{"0", "255", "abc"}},
		{"gamma", []string{"0"}},
		{"gamma", nil},
		{"threshold", []string{"high"}},
		{"median", []string{"-1"}},
	} {
		if _, err := ApplyCommand(src, tc.name, tc.args); err == nil {
			t.Errorf("%s %v: expected error", tc.name, tc.args)
		}
	}

	out, err := ApplyCommand(src, "threshold", []string{"120"})
	if err != nil {
		t.Fatal(err)
	}
	g := out.(*image.Gray)
	if g.Pix[0] != 0 || g.Pix[15] != 255 {
		t.Fatalf("threshold ends: %d %d", g.Pix[0], g.Pix[15])
	}
}

func TestDescribe(t *testing.T) {
	info, err := Describe(ramp(2, 1, 10, 30))
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	for _, want := range []string{"Pixels: 2", "Min: 10", "Max: 30", "Mean: 20.00", "Levels used: 2/256"} {
		if !strings.Contains(info, want) {
			t.Fatalf("expected %q in %q", want, info)
		}
	}
}
