package bufptr

// This file contains the read-and-advance variants. None of them move the
// cursor when the read fails.

import (
	"encoding/binary"
	"math"
)

func (p *Ptr) GetAndInc() (uint8, error) {
	v, err := p.U8()
	if err == nil {
		p.off++
	}
	return v, err
}

func (p *Ptr) GetAndIncS8() (int8, error) {
	v, err := p.GetAndInc()
	return int8(v), err
}

func (p *Ptr) GetAndIncU16() (uint16, error) { return p.GetAndIncU16With(p.order) }
func (p *Ptr) GetAndIncU32() (uint32, error) { return p.GetAndIncU32With(p.order) }
func (p *Ptr) GetAndIncU64() (uint64, error) { return p.GetAndIncU64With(p.order) }

func (p *Ptr) GetAndIncS16() (int16, error) {
	v, err := p.GetAndIncU16()
	return int16(v), err
}

func (p *Ptr) GetAndIncS32() (int32, error) {
	v, err := p.GetAndIncU32()
	return int32(v), err
}

func (p *Ptr) GetAndIncF32() (float32, error) {
	v, err := p.GetAndIncU32()
	return math.Float32frombits(v), err
}

func (p *Ptr) GetAndIncU16With(order binary.ByteOrder) (uint16, error) {
	v, err := p.U16With(order)
	if err == nil {
		p.off += 2
	}
	return v, err
}

func (p *Ptr) GetAndIncU32With(order binary.ByteOrder) (uint32, error) {
	v, err := p.U32With(order)
	if err == nil {
		p.off += 4
	}
	return v, err
}

func (p *Ptr) GetAndIncU64With(order binary.ByteOrder) (uint64, error) {
	v, err := p.U64With(order)
	if err == nil {
		p.off += 8
	}
	return v, err
}

func (p *Ptr) GetAndIncS16With(order binary.ByteOrder) (int16, error) {
	v, err := p.GetAndIncU16With(order)
	return int16(v), err
}

func (p *Ptr) GetAndIncS32With(order binary.ByteOrder) (int32, error) {
	v, err := p.GetAndIncU32With(order)
	return int32(v), err
}

func (p *Ptr) GetAndIncU16LE() (uint16, error) { return p.GetAndIncU16With(binary.LittleEndian) }
func (p *Ptr) GetAndIncU16BE() (uint16, error) { return p.GetAndIncU16With(binary.BigEndian) }
func (p *Ptr) GetAndIncU32LE() (uint32, error) { return p.GetAndIncU32With(binary.LittleEndian) }
func (p *Ptr) GetAndIncU32BE() (uint32, error) { return p.GetAndIncU32With(binary.BigEndian) }
func (p *Ptr) GetAndIncS16LE() (int16, error)  { return p.GetAndIncS16With(binary.LittleEndian) }

// Put writes one byte at the cursor and advances.
func (p *Ptr) Put(v uint8) error {
	b, err := p.window(p.off, 1)
	if err != nil {
		return err
	}
	b[0] = v
	p.off++
	return nil
}

// PutU16 writes a 16-bit word in the default byte order and advances.
func (p *Ptr) PutU16(v uint16) error {
	b, err := p.window(p.off, 2)
	if err != nil {
		return err
	}
	p.order.PutUint16(b, v)
	p.off += 2
	return nil
}

// Fill writes value count times. It stops at the first byte that does not
// fit and returns the underrun.
func (p *Ptr) Fill(value uint8, count int) error {
	for i := 0; i < count; i++ {
		if err := p.Put(value); err != nil {
			return err
		}
	}
	return nil
}
