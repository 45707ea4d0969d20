// AngelaMos | 2026
// upload.go

package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

const (
	ImageField   = "image"
	formOverhead = 1 << 20
	sniffLen     = 512
)

var (
	ErrImageTooLarge = core.NewAppError(
		errors.New("image too large"),
		"image exceeds the maximum upload size",
		http.StatusRequestEntityTooLarge,
		"FILE_TOO_LARGE",
	)
	ErrNotImage = core.NewAppError(
		errors.New("not an image"),
		"only image files are allowed",
		http.StatusBadRequest,
		"VALIDATION_ERROR",
	)
)

// Image is an object written to the store by SaveImage.
type Image struct {
	Key string
	URL string
}

type Uploader struct {
	store   Store
	maxSize int64
}

func NewUploader(store Store, maxSize int64) *Uploader {
	return &Uploader{store: store, maxSize: maxSize}
}

func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// ParseForm reads a multipart body bounded by the upload limit. It must run
// before any FormValue or SaveImage call.
func (u *Uploader) ParseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, u.maxSize+formOverhead)

	if err := r.ParseMultipartForm(u.maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrImageTooLarge
		}
		return core.ValidationError("invalid multipart form")
	}

	return nil
}

// SaveImage stores the image part of a parsed multipart form under prefix.
// An absent image yields a nil Image.
func (u *Uploader) SaveImage(
	ctx context.Context,
	r *http.Request,
	prefix string,
) (*Image, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile(ImageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read image part: %w", err)
	}
	defer func() { _ = file.Close() }()

	if header.Size > u.maxSize {
		return nil, ErrImageTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("sniff image: %w", err)
	}

	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind image: %w", err)
	}

	key := ObjectKey(prefix, header.Filename)
	url, err := u.store.Put(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	return &Image{Key: key, URL: url}, nil
}

// Discard removes an image saved for a write that did not go through.
// A nil image is a no-op.
func (u *Uploader) Discard(ctx context.Context, img *Image) {
	if img == nil {
		return
	}

	if err := u.store.Delete(context.WithoutCancel(ctx), img.Key); err != nil {
		slog.WarnContext(ctx, "failed to discard uploaded image",
			"key", img.Key,
			"error", err,
		)
	}
}

// PublicURL returns the public URL of img, or "" when nothing was uploaded.
func (img *Image) PublicURL() string {
	if img == nil {
		return ""
	}
	return img.URL
}
