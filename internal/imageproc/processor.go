// Package imageproc validates admin image uploads, stores them and derives
// JPEG thumbnails.
package imageproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // registers the webp decoder with image.Decode

	"github.com/weiawesome/wes-furniture/internal/domain"
	pkglog "github.com/weiawesome/wes-furniture/pkg/log"
	"github.com/weiawesome/wes-furniture/pkg/storage"
)

var (
	ErrImageTooLarge = errors.New("image exceeds size limit")
	ErrInvalidImage  = errors.New("unsupported or corrupt image")
)

const (
	defaultMaxBytes    = 1 << 20
	defaultThumbSize   = 480
	defaultJpegQuality = 85
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Options configures a Processor. Zero values take defaults.
type Options struct {
	MaxBytes    int64
	ThumbSize   int
	JpegQuality int
}

// Processor stores uploaded images and their thumbnails.
type Processor struct {
	store       storage.Storage
	maxBytes    int64
	thumbSize   int
	jpegQuality int
}

// NewProcessor creates a Processor writing to store.
func NewProcessor(store storage.Storage, opts Options) *Processor {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.ThumbSize <= 0 {
		opts.ThumbSize = defaultThumbSize
	}
	if opts.JpegQuality <= 0 || opts.JpegQuality > 100 {
		opts.JpegQuality = defaultJpegQuality
	}
	return &Processor{
		store:       store,
		maxBytes:    opts.MaxBytes,
		thumbSize:   opts.ThumbSize,
		jpegQuality: opts.JpegQuality,
	}
}

// MaxBytes is the largest accepted upload.
func (p *Processor) MaxBytes() int64 {
	return p.maxBytes
}

// Process reads an upload, checks it decodes as jpeg, png or webp, stores the
// original under folder and a JPEG thumbnail fitting ThumbSize under
// folder/thumbs.
func (p *Processor) Process(ctx context.Context, folder string, r io.Reader) (*domain.Image, error) {
	l := pkglog.Ctx(ctx)

	data, err := io.ReadAll(io.LimitReader(r, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, ErrInvalidImage
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	folder = cleanFolder(folder)
	id := uuid.New().String()
	key := path.Join(folder, id+ext)
	thumbKey := path.Join(folder, "thumbs", id+".jpg")

	if err := p.store.Write(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("upload original: %w", err)
	}

	thumb := imaging.Fit(img, p.thumbSize, p.thumbSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(p.jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := p.store.Write(ctx, thumbKey, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "image/jpeg"); err != nil {
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}

	l.Info().Str("key", key).Str("thumbnail", thumbKey).Msg("image stored")

	return &domain.Image{
		URL:       p.store.PublicURL(key),
		Thumbnail: p.store.PublicURL(thumbKey),
		Key:       key,
	}, nil
}

// cleanFolder keeps uploads under a single relative folder.
func cleanFolder(folder string) string {
	folder = strings.Trim(path.Clean("/"+folder), "/")
	if folder == "" {
		return "images"
	}
	return folder
}
