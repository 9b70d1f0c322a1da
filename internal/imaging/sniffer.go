package imaging

import (
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// Raster formats accepted for avatars. SVG is deliberately absent: it is
// text, scriptable, and not a raster image.
var rasterTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
	"image/tiff",
}

type Sniffer struct{}

func NewSniffer() *Sniffer {
	return &Sniffer{}
}

// IsImage classifies content by its leading bytes only. The filename and any
// client-declared content type play no part in the decision.
func (s *Sniffer) IsImage(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return isRaster(mimetype.Detect(data))
}

// IsImageReader is the streaming variant. A non-image yields (false, nil);
// a failure to read the stream is reported as an error.
func (s *Sniffer) IsImageReader(r io.Reader) (bool, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return false, err
	}
	return isRaster(mtype), nil
}

func isRaster(mtype *mimetype.MIME) bool {
	for _, want := range rasterTypes {
		if mtype.Is(want) {
			return true
		}
	}
	return false
}
