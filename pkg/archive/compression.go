package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// DefaultLevel is the deflate level used when none is configured.
const DefaultLevel = flate.DefaultCompression

// ValidateLevel checks that level is usable for deflate: -1 for the default,
// or 0 (stored inside a deflate stream) through 9.
func ValidateLevel(level int) error {
	if level == flate.DefaultCompression || level >= flate.NoCompression && level <= flate.BestCompression {
		return nil
	}
	return fmt.Errorf("invalid compression level %d, expected -1 or 0..9", level)
}

// deflateCompressor returns a zip compressor writing deflate streams at level.
func deflateCompressor(level int) zip.Compressor {
	return func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	}
}

// newZipWriter wraps w in a zip writer whose Deflate method honours level.
func newZipWriter(w io.Writer, level int) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, deflateCompressor(level))
	return zw
}
