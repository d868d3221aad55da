// Package codec decodes the compressed image blocks found in MK Trilogy N64
// ROMs and in the asset files derived from them.
//
// A block starts with a big-endian 32-bit word: the low 6 bits of the first
// byte select the compression type and the low 24 bits of the word are a
// declared size. The declared size is advisory; output is sized to
// max(declared, width*height) and decoders stop when either the input runs out
// or the output is full.
package codec

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/sprite"
)

// ErrMissingDictionary is logged (never returned) when a block whose type
// needs a dictionary is decoded without one. A zero dictionary is used.
var ErrMissingDictionary = errors.New("block needs a dictionary")

// DictSize is the size of a compression dictionary: 128 pixel pairs.
const DictSize = 256

// UnknownTypeError is returned for a block whose type code has no decoder.
type UnknownTypeError struct {
	Name string
	Type int
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("image %q is of unknown type %d", e.Name, e.Type)
}

// Descriptor describes one compression type.
type Descriptor struct {
	Type      int
	Name      string
	NeedsDict bool

	decode decodeFunc
}

type decodeFunc func(buf, dict []byte, meta sprite.Meta) []byte

// Lookup returns the descriptor for a type code. The set of types is closed.
func Lookup(t int) (Descriptor, bool) {
	switch t {
	case 0:
		return Descriptor{Type: t, Name: "raw #0", decode: decodeRaw}, true
	case 21:
		return Descriptor{Type: t, Name: "raw #21", decode: decodeRaw}, true
	case 2:
		return Descriptor{Type: t, Name: "simple RLE", decode: decodeSimpleRLE}, true
	case 7:
		return Descriptor{Type: t, Name: "64 color RLE with dict #7", NeedsDict: true, decode: decode64}, true
	case 8:
		return Descriptor{Type: t, Name: "32 color RLE with dict #8", decode: decode32Type8}, true
	case 9:
		return Descriptor{Type: t, Name: "pkzip #9", decode: decodeInflate}, true
	case 13:
		return Descriptor{Type: t, Name: "method #13", decode: decodeMethod13}, true
	case 14:
		return Descriptor{Type: t, Name: "32 color RLE with dict #14", decode: decode32Type14}, true
	case 15:
		return Descriptor{Type: t, Name: "8 color #15", decode: decode8}, true
	case 16:
		return Descriptor{Type: t, Name: "16 color #16", decode: decode16}, true
	case 18:
		return Descriptor{Type: t, Name: "pkzip #18", decode: decodeInflate}, true
	case 19:
		return Descriptor{Type: t, Name: "32 color RLE with dict #19", decode: decode32Type14}, true
	case 20:
		return Descriptor{Type: t, Name: "method #20", decode: decodeMethod20}, true
	case 22, 23, 24:
		return Descriptor{Type: t, Name: fmt.Sprintf("32 color with dict #%d", t), NeedsDict: true, decode: decode32Flip}, true
	case 25:
		return Descriptor{Type: t, Name: "method #25", decode: decodeMethod25}, true
	default:
		return Descriptor{Type: t}, false
	}
}

// KnownTypes lists every type code Lookup accepts, in ascending order.
func KnownTypes() []int {
	return []int{0, 2, 7, 8, 9, 13, 14, 15, 16, 18, 19, 20, 21, 22, 23, 24, 25}
}

// BlockInfo is what can be learned from a block header without decoding.
type BlockInfo struct {
	Descriptor
	Known bool
	Size  int
}

// Info reads the header of a block.
func Info(buf []byte) BlockInfo {
	t := blockType(buf)
	d, ok := Lookup(t)
	return BlockInfo{Descriptor: d, Known: ok, Size: declaredSize(buf)}
}

func blockType(buf []byte) int {
	if len(buf) == 0 {
		return -1
	}
	return int(buf[0] & 0x3f)
}

func declaredSize(buf []byte) int {
	if len(buf) < 4 {
		return 0
	}
	return int(buf[1])<<16 | int(buf[2])<<8 | int(buf[3])
}

// Decode decompresses one block. dict may be nil; types that need one then
// decode against a zero dictionary and a warning is logged.
func Decode(buf, dict []byte, meta sprite.Meta) (*sprite.Block, error) {
	if len(buf) < 1 {
		return nil, errors.Errorf("decode %q: buffer is empty", meta.Name)
	}
	t := blockType(buf)
	d, ok := Lookup(t)
	if !ok {
		return nil, &UnknownTypeError{Name: meta.Name, Type: t}
	}
	if d.NeedsDict && len(dict) == 0 {
		glog.Warningf("%s: %s (type %d)", meta.Name, ErrMissingDictionary, t)
		dict = make([]byte, DictSize)
	}
	return sprite.NewBlock(d.decode(buf, dict, meta), meta), nil
}

// outputSize is max(natural, width*height).
func outputSize(natural int, meta sprite.Meta) int {
	if wh := meta.Size(); wh > natural {
		return wh
	}
	if natural < 0 {
		return 0
	}
	return natural
}
