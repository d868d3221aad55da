package codec

// output is the write side of every decoder. Writes past the end of pix are
// dropped but still advance the offset, so a run that overshoots a declared
// size truncates instead of failing.
type output struct {
	pix []byte
	off int
}

func newOutput(n int) *output {
	return &output{pix: make([]byte, n)}
}

func (o *output) put(v byte) {
	if o.off < len(o.pix) {
		o.pix[o.off] = v
	}
	o.off++
}

func (o *output) fill(v byte, n int) {
	for ; n > 0; n-- {
		if o.off >= len(o.pix) {
			// nothing left to write; keep the offset honest anyway
			o.off += n
			return
		}
		o.pix[o.off] = v
		o.off++
	}
}

func (o *output) full() bool {
	return o.off >= len(o.pix)
}

// dictPair writes the dictionary pair starting at idx; swapped writes it in
// reverse order. Indexes past the dictionary read as zero.
func (o *output) dictPair(dict []byte, idx int, swapped bool) {
	a, b := dictAt(dict, idx), dictAt(dict, idx+1)
	if swapped {
		a, b = b, a
	}
	o.put(a)
	o.put(b)
}

func dictAt(dict []byte, i int) byte {
	if i < 0 || i >= len(dict) {
		return 0
	}
	return dict[i]
}
