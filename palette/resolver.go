package palette

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrUnresolved is logged when no palette could be found for an image and
// the dummy ramp is used instead.
var ErrUnresolved = errors.New("palette unresolved")

// Source says which rule of the Resolver produced a palette.
type Source int

const (
	SourceDummy Source = iota
	SourceExplicit
	SourceSuggested
	SourceLabel
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceSuggested:
		return "suggested"
	case SourceLabel:
		return "label"
	case SourceDefault:
		return "default"
	default:
		return "dummy"
	}
}

// Request describes the image whose palette is wanted. Zero values mean
// "not known".
type Request struct {
	Name string

	// Explicit is the palette address stored with the image itself.
	Explicit int
	// Suggested is the palette inherited from the image's animation.
	Suggested int
	// Label is the image's label in disassembled source.
	Label string
}

// LabelSource finds the palette label for an image label, typically by
// walking the label reference graph of disassembled source.
type LabelSource interface {
	PaletteFor(label string) (string, bool)
}

// Resolver picks a palette for an image. The first rule that yields a
// non-empty palette wins: explicit address, suggested address, parent label,
// format default. When all fail the dummy ramp is returned.
type Resolver struct {
	// ByAddress reads the palette at an address. Used for Explicit and
	// Suggested.
	ByAddress func(addr int) (Entries, error)
	// Labels and ByLabel resolve palettes of disassembled source.
	Labels  LabelSource
	ByLabel func(label string) (Entries, bool)
	// Default returns the format's fallback palette, such as a character's
	// primary palette.
	Default func() (Entries, bool)
}

// Resolve never fails; see Resolver.
func (r *Resolver) Resolve(req Request) (Entries, Source) {
	if e, ok := r.byAddress(req.Name, req.Explicit); ok {
		return e, SourceExplicit
	}
	if e, ok := r.byAddress(req.Name, req.Suggested); ok {
		return e, SourceSuggested
	}
	if req.Label != "" && r.Labels != nil && r.ByLabel != nil {
		if pl, ok := r.Labels.PaletteFor(req.Label); ok {
			if e, ok := r.ByLabel(pl); ok && len(e) > 0 {
				return e, SourceLabel
			}
			glog.V(1).Infof("%s: palette label %q has no data", req.Name, pl)
		}
	}
	if r.Default != nil {
		if e, ok := r.Default(); ok && len(e) > 0 {
			return e, SourceDefault
		}
	}
	glog.Warningf("%s: %s, using dummy palette", req.Name, ErrUnresolved)
	return Dummy(), SourceDummy
}

func (r *Resolver) byAddress(name string, addr int) (Entries, bool) {
	if addr == 0 || r.ByAddress == nil {
		return nil, false
	}
	e, err := r.ByAddress(addr)
	if err != nil {
		glog.V(1).Infof("%s: palette at 0x%x: %s", name, addr, err)
		return nil, false
	}
	return e, len(e) > 0
}
