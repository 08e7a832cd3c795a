package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Fepozopo/histeq/pkg/stdimg"
)

// stdin is shared by every prompt so buffered input is never lost between
// a rune read in the main loop and a following line read.
var stdin = bufio.NewReader(os.Stdin)

// PromptLine displays a prompt and reads a full line of input from the user.
// The returned string is trimmed of surrounding whitespace (including the newline).
func PromptLine(prompt string) (string, error) {
	return promptLineFrom(stdin, prompt)
}

func promptLineFrom(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptLineOrFzf reads a full line from stdin and treats a single-line "/"
// as a request to invoke fzf for file selection. If fzf is unavailable or
// the selection is cancelled the prompt is shown again.
func PromptLineOrFzf(prompt string) (string, error) {
	return promptLineOrFzfFrom(stdin, prompt, SelectFileWithFzf)
}

func promptLineOrFzfFrom(reader *bufio.Reader, prompt string, selectFile func(startDir string) (string, error)) (string, error) {
	input, err := promptLineFrom(reader, prompt)
	if err != nil {
		return "", err
	}
	if input == "/" {
		sel, selErr := selectFile(".")
		if selErr == nil && sel != "" {
			fmt.Printf(" [fzf] %s\n", sel)
			return sel, nil
		}
		return promptLineFrom(reader, prompt)
	}
	return input, nil
}

// sniffFormat detects the container format from the file signature.
func sniffFormat(b []byte) string {
	switch {
	case len(b) >= 3 && bytes.Equal(b[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case len(b) >= 8 && bytes.Equal(b[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(b) >= 6 && (bytes.Equal(b[:6], []byte("GIF87a")) || bytes.Equal(b[:6], []byte("GIF89a"))):
		return "gif"
	case len(b) >= 2 && bytes.Equal(b[:2], []byte("BM")):
		return "bmp"
	case len(b) >= 4 && (bytes.Equal(b[:4], []byte("II*\x00")) || bytes.Equal(b[:4], []byte("MM\x00*"))):
		return "tiff"
	case len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return "webp"
	}
	return ""
}

// LoadImage reads path and decodes it. Supports PNG, JPEG, GIF, BMP, TIFF and
// WebP. The returned format is the detected container name.
func LoadImage(path string) (image.Image, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	img, decoded, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	format := sniffFormat(b)
	if format == "" {
		format = decoded
	}
	debugLog("loaded %s as %s (%dx%d)", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return img, format, nil
}

// LoadGray loads path, converts it to grayscale and applies the JPEG EXIF
// orientation so the pixel grid matches what viewers show.
func LoadGray(path string) (*image.Gray, string, error) {
	img, format, err := LoadImage(path)
	if err != nil {
		return nil, "", err
	}
	gray := stdimg.ToGray(img)
	if format == "jpeg" {
		if b, rerr := os.ReadFile(path); rerr == nil {
			if o, oerr := extractJPEGOrientation(b); oerr == nil && o != 1 {
				debugLog("applying exif orientation %d", o)
				gray = stdimg.AutoOrient(gray, o)
			}
		}
	}
	return gray, format, nil
}

// SaveImage saves an image.Image to disk using format inferred from the filename extension.
// Supports .png, .jpg/.jpeg, .gif, .bmp, .tif/.tiff
func SaveImage(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	case ".gif":
		err = gif.Encode(f, img, nil)
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		// default to PNG
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// GetImageInfoImage returns a short info string for an image.Image
func GetImageInfoImage(img image.Image, format string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if format == "" {
		format = "unknown"
	}
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d", strings.ToUpper(format), b.Dx(), b.Dy()), nil
}
