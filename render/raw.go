package render

import (
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/sprite"
)

var rawMagic = [4]byte{'S', 'P', 'I', 'X'}

type rawHeader struct {
	Magic       [4]byte
	Width       uint16
	PaddedWidth uint16
	Height      uint16
	Len         uint32
}

// WriteRaw writes the palette indices of b, zstd compressed, after a small
// header with its dimensions.
func WriteRaw(w io.Writer, b *sprite.Block) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return errors.Wrap(err, "raw dump")
	}
	h := rawHeader{
		Magic:       rawMagic,
		Width:       uint16(b.Width),
		PaddedWidth: uint16(b.PaddedWidth),
		Height:      uint16(b.Height),
		Len:         uint32(len(b.Pix)),
	}
	if err := binary.Write(enc, binary.LittleEndian, &h); err != nil {
		enc.Close()
		return errors.Wrap(err, "raw dump header")
	}
	if _, err := enc.Write(b.Pix); err != nil {
		enc.Close()
		return errors.Wrap(err, "raw dump pixels")
	}
	return errors.Wrap(enc.Close(), "raw dump")
}

// ReadRaw reads a block written by WriteRaw.
func ReadRaw(r io.Reader) (*sprite.Block, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "raw dump")
	}
	defer dec.Close()

	var h rawHeader
	if err := binary.Read(dec, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "raw dump header")
	}
	if h.Magic != rawMagic {
		return nil, errors.New("not a raw sprite dump")
	}
	b := &sprite.Block{
		Pix:         make([]byte, h.Len),
		Width:       int(h.Width),
		PaddedWidth: int(h.PaddedWidth),
		Height:      int(h.Height),
	}
	if _, err := io.ReadFull(dec, b.Pix); err != nil {
		return nil, errors.Wrap(err, "raw dump pixels")
	}
	return b, nil
}
