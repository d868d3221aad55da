package palette

import (
	"fmt"
	"image/color"
	"strings"
)

// Format is the bit layout of one 16-bit palette entry.
type Format int

const (
	RGBX5551 Format = iota
	XRGB1555
	RGB565
	RGB655
	RGB556
	BGRX5551
	XBGR1555
	BGR565
	BGR655
	BGR556
)

var formatNames = [...]string{
	RGBX5551: "RGBX5551",
	XRGB1555: "XRGB1555",
	RGB565:   "RGB565",
	RGB655:   "RGB655",
	RGB556:   "RGB556",
	BGRX5551: "BGRX5551",
	XBGR1555: "XBGR1555",
	BGR565:   "BGR565",
	BGR655:   "BGR655",
	BGR556:   "BGR556",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Formats lists every known format.
func Formats() []Format {
	fs := make([]Format, len(formatNames))
	for i := range fs {
		fs[i] = Format(i)
	}
	return fs
}

// ParseFormat accepts a format name, case insensitively.
func ParseFormat(name string) (Format, error) {
	for i, n := range formatNames {
		if strings.EqualFold(n, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown palette format %q", name)
}

// Set and Get let a Format be used as a flag.Value / flag.Getter.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f *Format) Get() interface{} { return *f }

// EntryToRGB expands one palette word into an opaque colour. Each component
// is scaled by shifting up (5 bits by 3, 6 bits by 2), the way the hardware
// did it; the low bits stay zero.
func EntryToRGB(c uint16, f Format) color.NRGBA {
	five := func(shift uint) uint8 { return uint8((c>>shift)&31) << 3 }
	six := func(shift uint) uint8 { return uint8((c>>shift)&63) << 2 }

	var r, g, b uint8
	switch f {
	case RGBX5551:
		r, g, b = five(11), five(6), five(1)
	case XRGB1555:
		r, g, b = five(10), five(5), five(0)
	case RGB565:
		r, g, b = five(11), six(5), five(0)
	case RGB655:
		r, g, b = six(10), five(5), five(0)
	case RGB556:
		r, g, b = five(11), five(6), six(0)
	case BGRX5551:
		b, g, r = five(11), five(6), five(1)
	case XBGR1555:
		b, g, r = five(10), five(5), five(0)
	case BGR565:
		b, g, r = five(11), six(5), five(0)
	case BGR655:
		b, g, r = six(10), five(5), five(0)
	case BGR556:
		b, g, r = five(11), five(6), six(0)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
