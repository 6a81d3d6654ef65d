// Package checksum computes the CRC-32 carried in Ogg page headers:
// polynomial 0x04C11DB7, initial value 0, MSB-first, no final XOR. The
// checksum covers the whole page with its own 4-byte field zeroed.
package checksum

// FieldOffset is where the checksum sits inside a page header.
const FieldOffset = 22

const fieldSize = 4

var table [256]uint32

func init() {
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ 0x04C11DB7
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
}

// Update continues a running checksum over data.
func Update(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = (crc << 8) ^ table[byte(crc>>24)^b]
	}
	return crc
}

// Page returns the checksum of a framed page, treating the checksum
// field as zero. The input is not modified. Pages shorter than the
// fixed header are hashed as-is.
func Page(raw []byte) uint32 {
	if len(raw) < FieldOffset+fieldSize {
		return Update(0, raw)
	}
	crc := Update(0, raw[:FieldOffset])
	crc = Update(crc, []byte{0, 0, 0, 0})
	return Update(crc, raw[FieldOffset+fieldSize:])
}
