package render

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	fontOnce sync.Once
	hudFont  *truetype.Font
	fontErr  error
)

// hudFace returns a new HUD face at size points, or nil if the font failed
// to parse. Faces cache glyphs and are not safe to share between frames
// rendered concurrently.
func hudFace(size float64) font.Face {
	fontOnce.Do(func() {
		hudFont, fontErr = truetype.Parse(gomono.TTF)
	})
	if fontErr != nil {
		return nil
	}
	return truetype.NewFace(hudFont, &truetype.Options{Size: size})
}
