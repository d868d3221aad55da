package mktpc

import (
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bitbuf"
)

// Tables holds the two shared RLE parameters stored after a file's image
// headers: bits per pixel and bits per zero-run code.
type Tables struct {
	BitsPerPixel int
	RunBits      int
}

// RLEDecode expands a bit-packed zero-run stream into size pixels. A pixel
// code of zero is followed by run codes; an all-zero run code adds a full
// run and continues, any other run code ends the run.
//
// Decoding stops when the input runs out; the pixels decoded so far are
// returned along with the error.
func RLEDecode(t Tables, input []byte, size int) ([]byte, error) {
	out := &canvas{pix: make([]byte, size)}
	if t.BitsPerPixel <= 0 || t.BitsPerPixel > 32 || t.RunBits <= 0 || t.RunBits > 32 {
		return out.pix, errors.Errorf("rle: bad tables %d/%d", t.BitsPerPixel, t.RunBits)
	}
	in, err := bitbuf.NewMSBReader(input, 0, 32)
	if err != nil {
		return out.pix, err
	}
	maxZeros := 1<<uint(t.RunBits&0xff) - 1

	for !out.full() {
		v, err := in.ReadBits(t.BitsPerPixel)
		if err != nil {
			return out.pix, errors.Wrapf(err, "rle: pixel %d", out.off)
		}
		if v != 0 {
			out.put(byte(v))
			continue
		}
		zeros := 0
		z, err := in.ReadBits(t.RunBits)
		for err == nil && z == 0 {
			zeros += maxZeros
			z, err = in.ReadBits(t.RunBits)
		}
		if err != nil {
			return out.pix, errors.Wrapf(err, "rle: zero run at pixel %d", out.off)
		}
		zeros += int(z) & maxZeros
		out.fill(0, zeros)
	}
	return out.pix, nil
}
