package handler

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const maxUploadSize = 8 << 20

var (
	ErrUnsupportedImage = errors.New("image must be a .jpg, .jpeg, .png or .bmp file")
	ErrImageTooLarge    = errors.New("image is larger than 8 MB")
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// saveImage stores an uploaded image under dir with a collision-free name and returns that
// name.
func saveImage(dir, itemName string, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return "", ErrUnsupportedImage
	}
	if fh.Size > maxUploadSize {
		return "", ErrImageTooLarge
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create images directory")
	}

	name := "item_" + slug(itemName) + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + ext

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "create image file")
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", errors.Wrap(err, "write image file")
	}
	return name, errors.Wrap(dst.Close(), "close image file")
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > 32 {
		out = strings.Trim(out[:32], "-")
	}
	if out == "" {
		return "image"
	}
	return out
}
