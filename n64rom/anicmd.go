package n64rom

import (
	"fmt"

	"badc0de.net/pkg/go-spritecodec/bufptr"
)

// Kind is an animation command.
type Kind int

// Command words 0 to 15 are commands. Any other word is a frame command
// whose value is the frame's offset.
const (
	End Kind = iota
	Jump
	Flip
	AdjustX
	AdjustXY
	NoSleep
	CallA
	Sound
	OCharJump
	FlipV
	OffsetXY
	SlAdd
	SlAni
	SwPal
	SlAniSleep
	OCharSound

	Frame Kind = -1
)

var kindNames = map[Kind]string{
	End:        "end",
	Jump:       "jump",
	Flip:       "flip",
	AdjustX:    "adjustx",
	AdjustXY:   "adjustxy",
	NoSleep:    "nosleep",
	CallA:      "calla",
	Sound:      "sound",
	OCharJump:  "ochar_jump",
	FlipV:      "flip_v",
	OffsetXY:   "offset_xy",
	SlAdd:      "sladd",
	SlAni:      "slani",
	SlAniSleep: "slani_sleep",
	SwPal:      "swpal",
	OCharSound: "ochar_sound",
	Frame:      "frame",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HasFrame is true for commands that point at a frame.
func (k Kind) HasFrame() bool {
	switch k {
	case Frame, SlAdd, SlAni, SlAniSleep:
		return true
	}
	return false
}

// AniCmd is one parsed animation command. Only the fields of its Kind are
// set. Proc, OChar and Sound are kept as read; nothing interprets them.
type AniCmd struct {
	Kind        Kind `json:"cmd"`
	AnitabIndex int  `json:"anitabIndex"`
	// AniAddr is the command's offset in the segment.
	AniAddr int `json:"aniAddr"`
	// Size is the number of bytes the command takes, its word included.
	Size int `json:"size"`

	FrameOffset  int    `json:"frameOffset,omitempty"`
	NextFrame    uint32 `json:"nextFrame,omitempty"`
	X            int    `json:"x,omitempty"`
	Y            int    `json:"y,omitempty"`
	Proc         uint32 `json:"proc,omitempty"`
	Sound        uint32 `json:"sound,omitempty"`
	OChar        uint32 `json:"ochar,omitempty"`
	PaletteFrame uint32 `json:"paletteFrame,omitempty"`
}

// ParseAniCmd reads the command at p, which must be big-endian, and advances
// p past it.
func ParseAniCmd(p *bufptr.Ptr, segStart, anitabIndex int) (*AniCmd, error) {
	start := p.Offset()
	c := &AniCmd{AnitabIndex: anitabIndex, AniAddr: start - segStart}
	w, err := p.GetAndIncU32()
	if err != nil {
		return nil, err
	}
	if w > uint32(OCharSound) {
		c.Kind = Frame
		c.FrameOffset = int(w)
		c.Size = 4
		return c, nil
	}
	c.Kind = Kind(w)

	u32 := func() uint32 {
		if err != nil {
			return 0
		}
		var v uint32
		v, err = p.GetAndIncU32()
		return v
	}
	u16 := func() int {
		if err != nil {
			return 0
		}
		var v uint16
		v, err = p.GetAndIncU16()
		return int(v)
	}

	switch c.Kind {
	case Jump:
		c.NextFrame = u32()
	case AdjustX:
		c.X = int(u32())
	case AdjustXY, OffsetXY:
		c.X = u16()
		c.Y = u16()
	case CallA:
		c.Proc = u32()
	case Sound, OCharSound:
		c.Sound = u32()
	case OCharJump:
		c.OChar = u32()
		c.NextFrame = u32()
	case SlAdd, SlAni, SlAniSleep:
		c.FrameOffset = int(u32())
	case SwPal:
		c.PaletteFrame = u32()
	}
	if err != nil {
		return nil, err
	}
	c.Size = p.Offset() - start
	return c, nil
}

// Ends is true for commands after which an animation's stream stops.
func (c *AniCmd) Ends() bool {
	return c.Kind == End || c.Kind == Jump
}
