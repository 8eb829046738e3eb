package video

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type encodeFunc func(w io.Writer, m image.Image) error

// encoderFor picks a lossless codec from the file extension. Unknown
// extensions get PNG.
func encoderFor(filename string) encodeFunc {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}
	case ".bmp":
		return bmp.Encode
	default:
		return png.Encode
	}
}

func encodeFile(m image.Image, filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("video: save %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("video: close %s: %w", filename, cerr))
		}
	}()

	w := bufio.NewWriter(f)
	if err := encoderFor(filename)(w, m); err != nil {
		return fmt.Errorf("video: encode %s: %w", filename, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("video: save %s: %w", filename, err)
	}
	return nil
}
