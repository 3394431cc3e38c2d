package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"time"
)

// ============================================================
// Raster export
// ============================================================

// PNG кодирует поверхность как есть: сетка и выделение попадают в файл.
func PNG(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("encode png: no surface")
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ============================================================
// Filenames
// ============================================================

const timestampLayout = "20060102-150405.000"

// Filename собирает имя вида design-20261017-153012.123.png.
func Filename(prefix, ext string, now time.Time) string {
	if prefix == "" {
		prefix = "design"
	}
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s-%s.%s", prefix, now.UTC().Format(timestampLayout), ext)
}
