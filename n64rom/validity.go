package n64rom

import "badc0de.net/pkg/go-spritecodec/codec"

const (
	maxDim       = 512
	minOffset    = -256
	maxOffset    = 255
	maxImageType = 25
	maxImageSize = 512 * 512
	minImageSize = 4
)

// SubframeValidity is why a subframe was rejected, or SubframeValid.
type SubframeValidity string

const (
	SubframeValid           SubframeValidity = "valid"
	ImgOffsetPastSegmentEnd SubframeValidity = "img-offset-past-end-of-segment"
	ImgOffsetPastFileEnd    SubframeValidity = "img-offset-past-end-of-file"
	WidthTooBig             SubframeValidity = "width-too-big"
	HeightTooBig            SubframeValidity = "height-too-big"
	XOffsetOutOfRange       SubframeValidity = "x-offset-out-of-range"
	YOffsetOutOfRange       SubframeValidity = "y-offset-out-of-range"
)

// ImgValidity is why an image block was rejected, or ImgValid.
type ImgValidity string

const (
	ImgValid          ImgValidity = "valid"
	InvalidImgOffset  ImgValidity = "invalid-img-offset"
	ImgTypeOutOfRange ImgValidity = "img-type-out-of-range"
	ImgSizeTooBig     ImgValidity = "img-size-too-big"
	ImgSizeTooSmall   ImgValidity = "img-size-too-small"
)

// RawSubframe is a subframe record as stored: 16 big-endian bytes.
type RawSubframe struct {
	ImgOffset uint32
	Height    int
	Width     int
	YOffset   int
	XOffset   int
	Palette   uint32
}

// ValidateSubframe checks a subframe record against fixed plausibility
// bounds. The palette is optional and not checked.
func ValidateSubframe(fileLen int, seg Segment, sf RawSubframe) SubframeValidity {
	switch {
	case int(sf.ImgOffset) > seg.Size:
		return ImgOffsetPastSegmentEnd
	case int(sf.ImgOffset)+seg.Start > fileLen:
		return ImgOffsetPastFileEnd
	case sf.Width > maxDim:
		return WidthTooBig
	case sf.Height > maxDim:
		return HeightTooBig
	case sf.XOffset > maxOffset || sf.XOffset < minOffset:
		return XOffsetOutOfRange
	case sf.YOffset > maxOffset || sf.YOffset < minOffset:
		return YOffsetOutOfRange
	}
	return SubframeValid
}

// ValidateImg checks the block header at imgOffset in seg.
func ValidateImg(file []byte, seg Segment, imgOffset int) ImgValidity {
	at := seg.Start + imgOffset
	if imgOffset >= seg.Size || at >= len(file) || at < 0 {
		return InvalidImgOffset
	}
	if len(file)-at < 4 {
		return ImgSizeTooSmall
	}
	info := codec.Info(file[at:])
	switch {
	case info.Type > maxImageType:
		return ImgTypeOutOfRange
	case info.Size > maxImageSize:
		return ImgSizeTooBig
	case info.Size < minImageSize:
		return ImgSizeTooSmall
	}
	return ImgValid
}
