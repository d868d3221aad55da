package codec

import (
	"bytes"
	"io"

	"github.com/golang/glog"
	"github.com/klauspost/compress/flate"

	"badc0de.net/pkg/go-spritecodec/sprite"
)

// decodeInflate handles types 9 and 18, a raw deflate stream after the
// header. A stream that fails half way keeps whatever inflated before the
// failure; the rest of the image stays transparent.
func decodeInflate(buf, _ []byte, meta sprite.Meta) []byte {
	n := outputSize(declaredSize(buf), meta)
	out := make([]byte, n)
	if len(buf) <= headerSize {
		return out
	}
	r := flate.NewReader(bytes.NewReader(buf[headerSize:]))
	defer r.Close()
	got, err := io.ReadFull(r, out)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		glog.Warningf("%s: inflate stopped after %d of %d bytes: %s", meta.Name, got, n, err)
	}
	return out
}
