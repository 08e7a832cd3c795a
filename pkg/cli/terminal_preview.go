package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"
)

// Terminal preview stands in for image windows: the input, the equalized
// output and both histogram plots are drawn inline in the terminal.
//
// Backends, in detection order:
//   - iTerm2-style OSC 1337 inline images (iTerm2, WezTerm, Warp, VSCode, ...)
//   - kitty graphics protocol (kitty, ghostty, konsole)
//   - sixel through an external img2sixel
//   - chafa block rendering as a last resort
//
// PREVIEW_BACKEND forces one backend first; PREVIEW_DEBUG=1 traces decisions.

var previewOut io.Writer = os.Stdout

func debugf(format string, args ...interface{}) {
	if envTrue("PREVIEW_DEBUG") {
		fmt.Fprintf(os.Stderr, "histeq-preview: "+format+"\n", args...)
	}
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("KONSOLE_VERSION") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghostty")
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "Tabby", "Bobcat":
		return true
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "wezterm") || strings.Contains(term, "vscode")
}

func isSixelCapable() bool {
	if os.Getenv("SIXEL_PREVIEW") == "1" || os.Getenv("WT_SESSION") != "" {
		return true
	}
	return strings.Contains(strings.ToLower(os.Getenv("TERM")), "foot")
}

func hasChafa() bool {
	if os.Getenv("NO_CHAFA") == "1" {
		return false
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported returns true if the running environment likely supports a terminal inline preview.
func PreviewSupported() bool {
	supported := isKitty() || isInlineImageCapable() || isSixelCapable() || hasChafa()
	debugf("PreviewSupported -> %v", supported)
	return supported
}

// PreviewSize conveys a target placement for terminal preview backends.
type PreviewSize struct {
	Cols        int // terminal character columns
	Rows        int // terminal character rows
	PixelWidth  int // approximate pixel width (Cols * cellWidth)
	PixelHeight int // approximate pixel height (Rows * cellHeight)
}

// computePreviewSize fits the image into at most 80x40 cells of 8x16 pixels,
// preserving aspect ratio and never scaling up.
func computePreviewSize(img image.Image) PreviewSize {
	const (
		charW, charH     = 8, 16
		minCols, minRows = 6, 3
		maxCols, maxRows = 80, 40
	)
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	scale := math.Min(1.0, math.Min(maxCols*charW/w, maxRows*charH/h))
	cols := clampPreview(int(math.Round(w*scale/charW)), minCols, maxCols)
	rows := clampPreview(int(math.Round(h*scale/charH)), minRows, maxRows)
	return PreviewSize{Cols: cols, Rows: rows, PixelWidth: cols * charW, PixelHeight: rows * charH}
}

func clampPreview(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PreviewImage PNG-encodes img and draws it in the terminal under title.
// Images larger than the preview area are downscaled first.
func PreviewImage(img image.Image, title string) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("nil image")
	}
	size := computePreviewSize(img)
	if b := img.Bounds(); b.Dx() > size.PixelWidth || b.Dy() > size.PixelHeight {
		img = imaging.Fit(img, size.PixelWidth, size.PixelHeight, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	if title != "" {
		fmt.Fprintln(previewOut, title)
	}
	return previewBytes(buf.Bytes(), size)
}

type previewBackend struct {
	name   string
	usable func() bool
	send   func([]byte, PreviewSize) error
}

var previewBackends = []previewBackend{
	{"inline", isInlineImageCapable, sendInlineImage},
	{"kitty", isKitty, sendKittyImage},
	{"sixel", isSixelCapable, sendSixelImage},
	{"chafa", hasChafa, sendChafaImage},
}

// previewBytes tries the PREVIEW_BACKEND override, then every detected backend.
func previewBytes(blob []byte, size PreviewSize) error {
	if len(blob) == 0 {
		return fmt.Errorf("empty image blob")
	}
	override := strings.ToLower(os.Getenv("PREVIEW_BACKEND"))
	if override == "iterm" || override == "wezterm" {
		override = "inline"
	}
	var lastErr error
	for _, b := range previewBackends {
		if b.name != override {
			continue
		}
		if lastErr = b.send(blob, size); lastErr == nil {
			return nil
		}
		debugf("override %s failed: %v", b.name, lastErr)
	}
	for _, b := range previewBackends {
		if b.name == override || !b.usable() {
			continue
		}
		debugf("attempting %s backend", b.name)
		if lastErr = b.send(blob, size); lastErr == nil {
			return nil
		}
		debugf("%s backend failed: %v", b.name, lastErr)
	}
	if lastErr != nil {
		return fmt.Errorf("terminal preview failed: %w", lastErr)
	}
	return fmt.Errorf("no preview protocol matched")
}

// sendKittyImage transmits PNG data with the kitty graphics protocol in
// base64 chunks of at most 4096 bytes. q=2 suppresses terminal replies.
func sendKittyImage(data []byte, size PreviewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := 0
		if end < len(enc) {
			more = 1
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%d;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = fmt.Sprintf("\x1b_Gm=%d;%s\x1b\\", more, enc[pos:end])
		}
		if _, err := io.WriteString(previewOut, seq); err != nil {
			return err
		}
	}
	fmt.Fprintln(previewOut)
	return nil
}

// sendInlineImage emits the iTerm2 OSC 1337 inline file sequence.
func sendInlineImage(data []byte, size PreviewSize) error {
	enc := base64.StdEncoding.EncodeToString(data)
	seq := fmt.Sprintf("\x1b]1337;File=name=preview.png;inline=1;size=%d;width=%dpx;height=%dpx:%s\a",
		len(data), size.PixelWidth, size.PixelHeight, enc)
	if _, err := io.WriteString(previewOut, seq); err != nil {
		return err
	}
	fmt.Fprintln(previewOut)
	return nil
}

func sendSixelImage(data []byte, size PreviewSize) error {
	return runRenderer(data, "img2sixel", "-w", fmt.Sprint(size.PixelWidth), "-")
}

func sendChafaImage(data []byte, size PreviewSize) error {
	return runRenderer(data, "chafa", "--fill=block", "--symbols=block", "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
}

// runRenderer pipes data into an external renderer writing to the terminal.
func runRenderer(data []byte, name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = previewOut
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
