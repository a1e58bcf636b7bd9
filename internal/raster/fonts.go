// Package raster turns the design surface into bitmaps: z-ordered software
// compositing of the design objects, text rendering through the embedded Go
// faces, insert-time grayscale conversion, and PNG export.
package raster

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Families available to text objects.
const (
	FamilyGo     = "Go"
	FamilyGoMono = "Go Mono"
)

// Families lists the selectable font families.
func Families() []string {
	return []string{FamilyGo, FamilyGoMono}
}

type fontKey struct {
	family string
	bold   bool
	italic bool
}

var (
	fontMu    sync.Mutex
	fontCache = map[fontKey]*opentype.Font{}
)

func fontData(key fontKey) []byte {
	mono := key.family == FamilyGoMono
	switch {
	case mono && key.bold && key.italic:
		return gomonobolditalic.TTF
	case mono && key.bold:
		return gomonobold.TTF
	case mono && key.italic:
		return gomonoitalic.TTF
	case mono:
		return gomono.TTF
	case key.bold && key.italic:
		return gobolditalic.TTF
	case key.bold:
		return gobold.TTF
	case key.italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

// face returns a rendering face for the family/weight/style at the given
// pixel size. Parsed fonts are cached; faces are cheap per call.
func face(family string, bold, italic bool, size float64) (font.Face, error) {
	key := fontKey{family: family, bold: bold, italic: italic}

	fontMu.Lock()
	fnt, ok := fontCache[key]
	fontMu.Unlock()

	if !ok {
		parsed, err := opentype.Parse(fontData(key))
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", family, err)
		}
		fontMu.Lock()
		fontCache[key] = parsed
		fontMu.Unlock()
		fnt = parsed
	}

	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s@%g: %w", family, size, err)
	}
	return f, nil
}
