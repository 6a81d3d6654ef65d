package ogg

// PacketLengths returns the lengths of the packets terminated on this
// page. A lacing value below 255 ends a packet; a trailing run of 255s
// belongs to a packet that continues on the next page and is not
// included. A continued page's first length includes only the bytes on
// this page.
func (p *Page) PacketLengths() []int {
	var lengths []int
	cur := 0
	for _, lv := range p.Segments {
		cur += int(lv)
		if lv < maxSegmentSize {
			lengths = append(lengths, cur)
			cur = 0
		}
	}
	return lengths
}

// Packets returns zero-copy views of the packets terminated on this page,
// in the same order as PacketLengths.
func (p *Page) Packets() [][]byte {
	lengths := p.PacketLengths()
	if len(lengths) == 0 {
		return nil
	}
	packets := make([][]byte, len(lengths))
	off := 0
	for i, n := range lengths {
		packets[i] = p.Payload[off : off+n : off+n]
		off += n
	}
	return packets
}

// Unterminated reports whether the last packet on this page continues on
// the next one.
func (p *Page) Unterminated() bool {
	n := len(p.Segments)
	return n > 0 && p.Segments[n-1] == maxSegmentSize
}
