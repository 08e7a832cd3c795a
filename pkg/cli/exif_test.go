package cli

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

// makeExifPayload builds a minimal EXIF APP1 payload (starting with "Exif\x00\x00")
// containing a single Orientation tag (0x0112) in IFD0 with the provided value.
func makeExifPayload(order binary.ByteOrder, orientation uint16) []byte {
	buf := &bytes.Buffer{}
	buf.Write([]byte("Exif\x00\x00"))
	if order == binary.LittleEndian {
		buf.Write([]byte{'I', 'I'})
	} else {
		buf.Write([]byte{'M', 'M'})
	}
	_ = binary.Write(buf, order, uint16(0x2A))
	_ = binary.Write(buf, order, uint32(8))
	// IFD0: 1 entry
	_ = binary.Write(buf, order, uint16(1))
	_ = binary.Write(buf, order, uint16(0x0112))
	_ = binary.Write(buf, order, uint16(3))
	_ = binary.Write(buf, order, uint32(1))
	// SHORT value in the first two bytes of the value field
	_ = binary.Write(buf, order, orientation)
	_ = binary.Write(buf, order, uint16(0))
	_ = binary.Write(buf, order, uint32(0))
	return buf.Bytes()
}

// makeJPEGWithExif encodes a w x h gradient and inserts an APP1 segment
// right after SOI.
func makeJPEGWithExif(t *testing.T, w, h int, payload []byte) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / w)})
		}
	}
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg encode failed: %v", err)
	}
	data := buf.Bytes()
	out := append([]byte{}, data[:2]...)
	seg := make([]byte, 4)
	seg[0], seg[1] = 0xFF, 0xE1
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	out = append(out, seg...)
	out = append(out, payload...)
	return append(out, data[2:]...)
}

func TestExtractJPEGOrientation(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		for _, want := range []int{1, 3, 6, 8} {
			b := makeJPEGWithExif(t, 8, 4, makeExifPayload(order, uint16(want)))
			got, err := extractJPEGOrientation(b)
			if err != nil {
				t.Fatalf("%v orientation %d: %v", order, want, err)
			}
			if got != want {
				t.Fatalf("%v: expected orientation %d, got %d", order, want, got)
			}
		}
	}
}

func TestExtractJPEGOrientationErrors(t *testing.T) {
	if _, err := extractJPEGOrientation([]byte("not a jpeg")); err == nil {
		t.Fatalf("expected error for non-jpeg data")
	}

	var plain bytes.Buffer
	if err := jpeg.Encode(&plain, image.NewGray(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := extractJPEGOrientation(plain.Bytes()); err == nil {
		t.Fatalf("expected error for jpeg without exif")
	}

	bad := makeJPEGWithExif(t, 4, 4, makeExifPayload(binary.LittleEndian, 9))
	if _, err := extractJPEGOrientation(bad); err == nil {
		t.Fatalf("expected error for orientation 9")
	}
}

func TestLoadGrayAppliesOrientation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rotated.jpg")
	if err := os.WriteFile(path, makeJPEGWithExif(t, 16, 8, makeExifPayload(binary.LittleEndian, 6)), 0o644); err != nil {
		t.Fatal(err)
	}
	gray, format, err := LoadGray(path)
	if err != nil {
		t.Fatalf("LoadGray failed: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected format jpeg, got %q", format)
	}
	if b := gray.Bounds(); b.Dx() != 8 || b.Dy() != 16 {
		t.Fatalf("expected 8x16 after orientation 6, got %dx%d", b.Dx(), b.Dy())
	}
}
