package cli

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const tagOrientation = 0x0112

// tiffStartFromJPEG scans JPEG segments for an APP1 Exif block and returns
// the offset of its TIFF header.
func tiffStartFromJPEG(data []byte) (int, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return -1, fmt.Errorf("not a jpeg stream")
	}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xDA || marker == 0xD9 { // start of scan / end of image
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		if marker == 0xE1 && segLen >= 8 && i+10 <= len(data) && bytes.Equal(data[i+4:i+10], []byte("Exif\x00\x00")) {
			return i + 10, nil
		}
		if segLen < 2 {
			i += 2
		} else {
			i += 2 + segLen
		}
	}
	return -1, fmt.Errorf("no exif segment")
}

// extractJPEGOrientation returns the EXIF orientation (1..8) from JPEG bytes.
// Only IFD0 is consulted; that is where cameras store the tag.
func extractJPEGOrientation(data []byte) (int, error) {
	start, err := tiffStartFromJPEG(data)
	if err != nil {
		return 0, err
	}
	if start+8 > len(data) {
		return 0, fmt.Errorf("tiff header truncated")
	}
	tiff := data[start:]
	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return 0, fmt.Errorf("unknown tiff byte order")
	}
	if order.Uint16(tiff[2:4]) != 0x002A {
		return 0, fmt.Errorf("invalid tiff magic")
	}
	ifd := int(order.Uint32(tiff[4:8]))
	if ifd < 8 || ifd+2 > len(tiff) {
		return 0, fmt.Errorf("ifd0 out of range")
	}
	n := int(order.Uint16(tiff[ifd : ifd+2]))
	for e := 0; e < n; e++ {
		ent := ifd + 2 + e*12
		if ent+12 > len(tiff) {
			break
		}
		if order.Uint16(tiff[ent:ent+2]) != tagOrientation {
			continue
		}
		// SHORT stored inline in the value field
		if order.Uint16(tiff[ent+2:ent+4]) != 3 {
			return 0, fmt.Errorf("orientation tag has unexpected type")
		}
		o := int(order.Uint16(tiff[ent+8 : ent+10]))
		if o < 1 || o > 8 {
			return 0, fmt.Errorf("orientation %d out of range", o)
		}
		return o, nil
	}
	return 0, fmt.Errorf("orientation tag not found")
}
