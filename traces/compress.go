package traces

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/npillmayer/tracescope"
	"github.com/ulikunitz/xz"
)

// Compression is the compression format of a capture file.
type Compression int

// Compression formats recognized by Decompress.
const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionBzip2:
		return "bzip2"
	case CompressionXZ:
		return "xz"
	}
	return "none"
}

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68} // "BZh"
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
)

// DetectCompression sniffs the compression format from the leading bytes.
func DetectCompression(buf []byte) Compression {
	switch {
	case bytes.HasPrefix(buf, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(buf, bzip2Magic):
		return CompressionBzip2
	case bytes.HasPrefix(buf, xzMagic):
		return CompressionXZ
	}
	return CompressionNone
}

// Decompress returns the decompressed content of buf. Uncompressed buffers
// are returned unchanged. A corrupt compressed buffer fails with an error
// wrapping tracescope.ErrDecode.
func Decompress(buf []byte) ([]byte, error) {
	c := DetectCompression(buf)
	var r io.Reader
	switch c {
	case CompressionNone:
		return buf, nil
	case CompressionGzip:
		gz, err := gzip.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", tracescope.ErrDecode, err)
		}
		defer gz.Close()
		r = gz
	case CompressionBzip2:
		r = bzip2.NewReader(bytes.NewReader(buf))
	case CompressionXZ:
		xzr, err := xz.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, fmt.Errorf("%w: xz: %v", tracescope.ErrDecode, err)
		}
		r = xzr
	}
	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", tracescope.ErrDecode, c, err)
	}
	tracer().Debugf("decompressed %d bytes of %s to %d bytes", len(buf), c, out.Len())
	return out.Bytes(), nil
}
