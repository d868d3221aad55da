package n64rom

import (
	"context"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/bufptr"
)

// ObjectKind tags an Object.
type ObjectKind int

const (
	SegmentEnd ObjectKind = iota
	AniCmdObject
	FrameObject
	SubframeObject
	ImgObject
)

func (k ObjectKind) String() string {
	switch k {
	case SegmentEnd:
		return "segmentEnd"
	case AniCmdObject:
		return "aniCmd"
	case FrameObject:
		return "frame"
	case SubframeObject:
		return "subframe"
	case ImgObject:
		return "img"
	}
	return "unknown"
}

// Object is whatever was found at an offset of the segment. AniCmd is set
// for AniCmdObject, Frame for FrameObject, and Subframe for SubframeObject
// and ImgObject.
type Object struct {
	Offset   int
	Kind     ObjectKind
	AniCmd   *AniCmd
	Frame    []*Subframe
	Subframe *Subframe
}

// Subframe is a validated subframe record.
type Subframe struct {
	AniCmd *AniCmd
	// SubOffset is where the record was read from.
	SubOffset int
	ImgOffset int
	// Img is the image block. It runs to the end of the segment until the
	// fixup pass clips it at the next known object.
	Img []byte
	// Width is padded to a multiple of 4; Padding says by how much.
	Width   int
	Padding int
	Height  int
	XOffset int
	YOffset int
	// Palette is the palette's RDRAM address, or 0.
	Palette uint32
	// SuggestedPalette is the file offset of the palette inherited from the
	// animation, or 0.
	SuggestedPalette int
}

// Animation is what was collected for one animation table entry.
type Animation struct {
	Index  int
	Cmds   []*AniCmd
	Frames [][]*Subframe
	// Secondary holds the frames of slave animations started by sladd.
	Secondary [][][]*Subframe
}

// Graph is the result of Reconstruct.
type Graph struct {
	Segment  Segment
	Objects  map[int]*Object
	Palettes map[int]PaletteRef
	Anitab   []*Animation

	file []byte
}

type walker struct {
	file []byte
	seg  Segment
	g    *Graph
}

// Reconstruct walks the animation table of seg. The context is checked
// between animation table entries; when it is done, the graph built so far
// is returned along with ctx.Err(). Entries that cannot be walked are logged
// and skipped.
func Reconstruct(ctx context.Context, file []byte, seg Segment) (*Graph, error) {
	if seg.Start < 0 || seg.Size <= 0 || seg.Start >= len(file) {
		return nil, errors.Errorf("segment 0x%x-0x%x is outside a 0x%x byte file", seg.Start, seg.End, len(file))
	}
	g := &Graph{
		Segment:  seg,
		Objects:  map[int]*Object{seg.Size: {Offset: seg.Size, Kind: SegmentEnd}},
		Palettes: map[int]PaletteRef{},
		file:     file,
	}
	w := &walker{file: file, seg: seg, g: g}

	type entry struct {
		index, ptr int
	}
	var entries []entry
	anitabEnd := seg.Size
	p := bufptr.NewBE(file, seg.Start)
	for i := 0; !p.AtEnd() && p.Offset() < seg.Start+anitabEnd; i++ {
		v, err := p.GetAndIncU32()
		if err != nil {
			break
		}
		entries = append(entries, entry{index: i, ptr: int(v)})
		if v != 0 && int(v) < anitabEnd {
			anitabEnd = int(v)
		}
	}
	glog.V(2).Infof("segment 0x%x: %d animation table entries", seg.Start, len(entries))

	startOfImageData := seg.Size
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return g, err
		}
		a := &Animation{Index: e.index}
		g.Anitab = append(g.Anitab, a)
		if e.ptr == 0 {
			continue
		}
		st, err := w.walkAnimation(a, e.ptr, startOfImageData, 0, 0)
		if err != nil {
			glog.Warningf("segment 0x%x: animation %d at 0x%x: %v", seg.Start, e.index, e.ptr, err)
		}
		startOfImageData = st.startOfImageData
	}

	if err := ctx.Err(); err != nil {
		return g, err
	}
	w.fixupAnimations(startOfImageData)
	w.fixupPalettes()
	return g, nil
}

type walkState struct {
	startOfImageData int
	palette          int
	secondaryPalette int
}

// walkAnimation reads the command stream at off until an end or jump. The
// state is returned even when err is set.
func (w *walker) walkAnimation(a *Animation, off, startOfImageData, palette, secondaryPalette int) (walkState, error) {
	st := walkState{startOfImageData, palette, secondaryPalette}
	p := bufptr.NewBE(w.file, w.seg.Start+off)
	for !p.AtEnd() && p.Offset() < w.seg.End {
		c, err := ParseAniCmd(p, w.seg.Start, a.Index)
		if err != nil {
			return st, errors.Wrapf(err, "command at 0x%x", p.Offset()-w.seg.Start)
		}
		w.g.Objects[c.AniAddr] = &Object{Offset: c.AniAddr, Kind: AniCmdObject, AniCmd: c}

		switch c.Kind {
		case Frame:
			if c.FrameOffset > w.seg.Size {
				glog.V(1).Infof("animation %d: frame offset 0x%x is past the segment", a.Index, c.FrameOffset)
				return st, nil
			}
			a.Frames, st.startOfImageData, st.palette = w.frameAt(a.Frames, c, st.startOfImageData, st.palette)
		case SlAdd, SlAni, SlAniSleep:
			if c.FrameOffset > w.seg.Size {
				glog.V(1).Infof("animation %d: %s offset 0x%x is past the segment", a.Index, c.Kind, c.FrameOffset)
				return st, nil
			}
			if c.Kind == SlAdd || len(a.Secondary) == 0 {
				a.Secondary = append(a.Secondary, nil)
			}
			last := len(a.Secondary) - 1
			a.Secondary[last], st.startOfImageData, st.secondaryPalette = w.frameAt(a.Secondary[last], c, st.startOfImageData, st.secondaryPalette)
		}
		a.Cmds = append(a.Cmds, c)
		if c.Ends() {
			break
		}
	}
	return st, nil
}

// frameAt appends the frame c points at to frames, reading it unless it was
// seen before. A frame without a single valid subframe marks the real end of
// the animation and is not appended.
func (w *walker) frameAt(frames [][]*Subframe, c *AniCmd, startOfImageData, palette int) ([][]*Subframe, int, int) {
	off := c.FrameOffset
	obj, seen := w.g.Objects[off]
	switch {
	case !seen:
		frame := w.readFrame(c, startOfImageData)
		if len(frame) == 0 {
			glog.V(2).Infof("animation %d: no valid subframe at 0x%x, assuming end of animation", c.AnitabIndex, off)
			return frames, startOfImageData, palette
		}
		for _, sf := range frame {
			if sf.ImgOffset != 0 && sf.ImgOffset < startOfImageData {
				startOfImageData = sf.ImgOffset
			}
		}
		frames = append(frames, frame)
		w.g.Objects[off] = &Object{Offset: off, Kind: FrameObject, Frame: frame}
	case obj.Kind == FrameObject:
		frames = append(frames, obj.Frame)
	case obj.Kind == SubframeObject:
		// animations may point straight at a subframe
		frames = append(frames, []*Subframe{obj.Subframe})
	default:
		glog.V(1).Infof("animation %d: %s already at frame offset 0x%x", c.AnitabIndex, obj.Kind, off)
	}
	if len(frames) > 0 {
		palette = suggestPalette(c.AnitabIndex, len(frames), frames[len(frames)-1], palette)
	}
	return frames, startOfImageData, palette
}

// suggestPalette takes the palette of the animation's first frame, except
// for the first animation, and hands it down to every subframe.
func suggestPalette(anitabIndex, nFrames int, frame []*Subframe, palette int) int {
	if anitabIndex != 0 && nFrames == 1 && len(frame) > 0 && frame[0].Palette != 0 {
		palette = PaletteFileOffset(frame[0].Palette)
	}
	if palette != 0 {
		for _, sf := range frame {
			sf.SuggestedPalette = palette
		}
	}
	return palette
}

// readFrame reads the zero terminated subframe pointer list of a frame. A
// pointer past startOfImageData means c points directly at a subframe.
func (w *walker) readFrame(c *AniCmd, startOfImageData int) []*Subframe {
	var subs []*Subframe
	p := bufptr.NewBE(w.file, w.seg.Start+c.FrameOffset)
	for i := 0; !p.AtEnd() && p.Offset() < w.seg.End; i++ {
		v, err := p.GetAndIncU32()
		if err != nil || v == 0 {
			break
		}
		subOffset := int(v)
		if subOffset > w.seg.Size {
			glog.V(1).Infof("animation %d: subframe %d offset 0x%x is past the segment", c.AnitabIndex, i, subOffset)
			break
		}

		at := subOffset
		if subOffset > startOfImageData {
			at = c.FrameOffset
		}
		sf := w.readSubframe(at)
		if sf == nil {
			break
		}
		sf.AniCmd = c
		sf.SubOffset = at

		w.g.Objects[subOffset] = &Object{Offset: subOffset, Kind: SubframeObject, Subframe: sf}
		if sf.ImgOffset != 0 && sf.Img != nil {
			w.g.Objects[sf.ImgOffset] = &Object{Offset: sf.ImgOffset, Kind: ImgObject, Subframe: sf}
		} else {
			glog.V(2).Infof("animation %d: subframe at 0x%x has no image", c.AnitabIndex, at)
		}
		subs = append(subs, sf)

		// a direct subframe is not followed by a terminator
		if sf.ImgOffset == subOffset {
			break
		}
	}
	return subs
}

// readSubframe reads and validates the subframe record at off, returning
// nil if it is not plausible.
func (w *walker) readSubframe(off int) *Subframe {
	raw, err := readRawSubframe(bufptr.NewBE(w.file, w.seg.Start+off))
	if err != nil {
		glog.V(2).Infof("subframe at 0x%x: %v", off, err)
		return nil
	}
	if v := ValidateSubframe(len(w.file), w.seg, raw); v != SubframeValid {
		glog.V(2).Infof("subframe at 0x%x: %s", off, v)
		return nil
	}

	img := int(raw.ImgOffset)
	sf := &Subframe{
		ImgOffset: img,
		Height:    raw.Height,
		Width:     (raw.Width + 3) &^ 3,
		XOffset:   raw.XOffset,
		YOffset:   raw.YOffset,
	}
	sf.Padding = sf.Width - raw.Width
	if ValidPaletteAddr(raw.Palette) {
		sf.Palette = raw.Palette
	}
	if v := ValidateImg(w.file, w.seg, img); v == ImgValid {
		start, end := w.seg.Start+img, w.seg.Start+w.seg.Size
		if end > len(w.file) {
			glog.V(2).Infof("subframe at 0x%x: segment runs past the end of the file", off)
			return nil
		}
		sf.Img = w.file[start:end]
	} else {
		glog.V(2).Infof("subframe at 0x%x: image at 0x%x: %s", off, img, v)
	}
	return sf
}

func readRawSubframe(p *bufptr.Ptr) (RawSubframe, error) {
	var sf RawSubframe
	var err error
	if sf.ImgOffset, err = p.GetAndIncU32(); err != nil {
		return sf, err
	}
	h, _ := p.GetAndIncU16()
	w, _ := p.GetAndIncU16()
	y, _ := p.GetAndIncS16()
	x, _ := p.GetAndIncS16()
	pal, err := p.GetAndIncU32()
	if err != nil {
		return sf, err
	}
	sf.Height, sf.Width = int(h), int(w)
	sf.YOffset, sf.XOffset = int(y), int(x)
	sf.Palette = pal
	return sf, nil
}

// sortedOffsets returns the offsets of every known object in ascending order.
func (g *Graph) sortedOffsets() []int {
	offs := make([]int, 0, len(g.Objects))
	for o := range g.Objects {
		offs = append(offs, o)
	}
	sort.Ints(offs)
	return offs
}

// fixupAnimations looks for bytes between the end of a command and the next
// known object, and walks them as more commands of the same animation. The
// rescan continues while each pass ends further on and before that object.
func (w *walker) fixupAnimations(startOfImageData int) {
	offs := w.g.sortedOffsets()
	for i := 0; i+1 < len(offs); i++ {
		cur, next := offs[i], offs[i+1]
		obj := w.g.Objects[cur]
		if obj == nil || obj.Kind != AniCmdObject {
			continue
		}
		off := cur + obj.AniCmd.Size
		if next-off <= 0 {
			continue
		}
		if obj.AniCmd.AnitabIndex >= len(w.g.Anitab) {
			continue
		}
		a := w.g.Anitab[obj.AniCmd.AnitabIndex]
		var palette int
		if len(a.Frames) > 0 && len(a.Frames[0]) > 0 {
			palette = a.Frames[0][0].SuggestedPalette
		}
		glog.V(2).Infof("animation %d: rescanning 0x%x bytes at 0x%x", a.Index, next-off, off)
		for {
			var secondary int
			if n := len(a.Secondary); n > 0 && len(a.Secondary[n-1]) > 0 && len(a.Secondary[n-1][0]) > 0 {
				secondary = a.Secondary[n-1][0][0].SuggestedPalette
			}
			if _, err := w.walkAnimation(a, off, startOfImageData, palette, secondary); err != nil {
				glog.Warningf("animation %d: rescan at 0x%x: %v", a.Index, off, err)
				break
			}
			if len(a.Cmds) == 0 {
				break
			}
			prev := off
			newest := a.Cmds[len(a.Cmds)-1]
			off = newest.AniAddr + newest.Size
			if off <= prev || off >= next {
				break
			}
		}
	}
}

// fixupPalettes clips every image at the next known object and collects the
// palettes subframes point at.
func (w *walker) fixupPalettes() {
	offs := w.g.sortedOffsets()
	for i := 0; i+1 < len(offs); i++ {
		cur, next := offs[i], offs[i+1]
		obj := w.g.Objects[cur]
		switch obj.Kind {
		case FrameObject:
			for _, sf := range obj.Frame {
				w.collectPalette(sf)
			}
		case SubframeObject:
			w.collectPalette(obj.Subframe)
		case ImgObject:
			if room := next - cur; len(obj.Subframe.Img) > room {
				obj.Subframe.Img = obj.Subframe.Img[:room]
			}
		case SegmentEnd:
			glog.Warningf("segment 0x%x: object at 0x%x is past the segment end", w.seg.Start, next)
		}
	}
}

func (w *walker) collectPalette(sf *Subframe) {
	if sf.Palette == 0 {
		return
	}
	off := PaletteFileOffset(sf.Palette)
	if off >= len(w.file) {
		glog.Warningf("palette 0x%x is past the end of the file", sf.Palette)
		return
	}
	if _, ok := w.g.Palettes[off]; ok {
		return
	}
	w.g.Palettes[off] = PaletteRef{FileOffset: off, Kind: FromAni, AnitabIndex: sf.AniCmd.AnitabIndex}
}

// Images returns the image objects in offset order.
func (g *Graph) Images() []*Object {
	var rv []*Object
	for _, o := range g.sortedOffsets() {
		if obj := g.Objects[o]; obj.Kind == ImgObject {
			rv = append(rv, obj)
		}
	}
	return rv
}

// Count returns the number of objects of kind k.
func (g *Graph) Count(k ObjectKind) int {
	n := 0
	for _, obj := range g.Objects {
		if obj.Kind == k {
			n++
		}
	}
	return n
}
