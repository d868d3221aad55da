package n64rom

import (
	"image/gif"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/render"
)

// Frame composites the subframes of one frame. Subframes are drawn at the
// negated offsets they declare. Subframes that fail to decode are logged
// and left out.
func (c *Character) Frame(subframes []*Subframe) (render.Frame, error) {
	var parts []render.Frame
	for _, sf := range subframes {
		b, pal, _, err := c.Decode(sf)
		if err != nil {
			glog.Warningf("character %d: subframe %s: %v", c.ID, sf.Name(), err)
			continue
		}
		parts = append(parts, render.Frame{
			Image: render.Cropped(b, pal),
			X:     -sf.XOffset,
			Y:     -sf.YOffset,
		})
	}
	return render.Composite(parts)
}

// Animate renders animation table entry idx as a GIF. delay is in
// hundredths of a second.
func (c *Character) Animate(idx, delay int) (*gif.GIF, error) {
	if idx < 0 || idx >= len(c.Graph.Anitab) || c.Graph.Anitab[idx] == nil {
		return nil, errors.Errorf("character %d has no animation %d", c.ID, idx)
	}
	var frames []render.Frame
	for i, fr := range c.Graph.Anitab[idx].Frames {
		f, err := c.Frame(fr)
		if err != nil {
			glog.V(1).Infof("character %d: animation %d frame %d: %v", c.ID, idx, i, err)
			continue
		}
		frames = append(frames, f)
	}
	g, err := render.Animate(frames, delay)
	return g, errors.Wrapf(err, "character %d animation %d", c.ID, idx)
}
