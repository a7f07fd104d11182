package photo

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"simaru/config"
	"simaru/shared/failure"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	defaultMaxSizeMB = 2
	defaultMaxEdge   = 1600
	jpegQuality      = 85
	bytesPerMB       = 1024 * 1024

	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimeGIF  = "image/gif"
)

var allowedTypes = []string{mimeJPEG, mimePNG, mimeGIF}

// Image is a sniffed and, where needed, down-scaled photo ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

type Processor struct {
	maxBytes int64
	maxEdge  int
}

func NewProcessor(cfg *config.Config) Processor {
	maxSizeMB := cfg.Storage.PhotoMaxSizeMB
	if maxSizeMB <= 0 {
		maxSizeMB = defaultMaxSizeMB
	}

	maxEdge := cfg.Storage.PhotoMaxEdge
	if maxEdge <= 0 {
		maxEdge = defaultMaxEdge
	}

	return Processor{
		maxBytes: int64(maxSizeMB) * bytesPerMB,
		maxEdge:  maxEdge,
	}
}

// Process reads the upload, rejects anything that is not a jpeg, png or gif within the size
// limit, and fits jpeg and png images into a maxEdge square. GIFs are kept untouched.
func (p Processor) Process(reader io.Reader) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(reader, p.maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read photo: %w", err)
	}

	if int64(len(data)) > p.maxBytes {
		return Image{}, failure.BadRequestFromString(fmt.Sprintf("photo may not be greater than %d MB", p.maxBytes/bytesPerMB)) // nolint:wrapcheck
	}

	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedTypes...) {
		return Image{}, failure.BadRequestFromString("photo must be a file of type: jpeg, png, jpg, gif") // nolint:wrapcheck
	}

	img := Image{
		Data:        data,
		ContentType: detected.String(),
		Extension:   detected.Extension(),
	}

	if detected.Is(mimeGIF) {
		return img, nil
	}

	decoded, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, failure.BadRequestFromString("photo could not be decoded") // nolint:wrapcheck
	}

	bounds := decoded.Bounds()
	if bounds.Dx() <= p.maxEdge && bounds.Dy() <= p.maxEdge {
		return img, nil
	}

	format := imaging.JPEG
	if detected.Is(mimePNG) {
		format = imaging.PNG
	}

	var buf bytes.Buffer

	resized := imaging.Fit(decoded, p.maxEdge, p.maxEdge, imaging.Lanczos)
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return Image{}, fmt.Errorf("failed to encode resized photo: %w", err)
	}

	img.Data = buf.Bytes()

	return img, nil
}

// NewKey returns a fresh storage key under directory, e.g. uploads/rooms/<uuid>.jpg.
func NewKey(directory, extension string) string {
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	return path.Join(directory, uuid.NewString()+extension)
}
