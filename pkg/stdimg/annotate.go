package stdimg

import (
	"image"
	"image/color"
	"log"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// captionGray is the ink used for plot captions, light enough not to be
// confused with histogram bars.
var captionGray = color.Gray{Y: 96}

// LabelImage returns a copy of src with text drawn in the top-left corner
// using the built-in 7x13 face.
func LabelImage(src *image.Gray, text string) *image.Gray {
	return LabelImageWithFont(src, text, "", 0)
}

// LabelImageWithFont draws text with the TrueType/OpenType font at fontPath.
// An empty path, or a font that fails to load, falls back to the basic face.
func LabelImageWithFont(src *image.Gray, text, fontPath string, size float64) *image.Gray {
	if src == nil {
		return nil
	}
	out := CloneGray(src)
	if text == "" {
		return out
	}
	face := loadFace(fontPath, size)
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(captionGray),
		Face: face,
		Dot:  fixed.P(out.Rect.Min.X+4, out.Rect.Min.Y+2+ascent),
	}
	d.DrawString(text)
	return out
}

func loadFace(fontPath string, size float64) font.Face {
	if fontPath == "" {
		return basicfont.Face7x13
	}
	if size <= 0 {
		size = 12
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		log.Printf("failed to read font file %s: %v, falling back to basic font", fontPath, err)
		return basicfont.Face7x13
	}
	tt, err := opentype.Parse(data)
	if err != nil {
		log.Printf("failed to parse font: %v, falling back to basic", err)
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("failed to create font face: %v, falling back to basic", err)
		return basicfont.Face7x13
	}
	return face
}
