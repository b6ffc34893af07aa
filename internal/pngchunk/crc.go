package pngchunk

// crcPoly is the reflected form of the PNG/zlib CRC-32 polynomial.
const crcPoly = 0xEDB88320

// crcTable holds the CRC of every byte value. Read-only after init.
var crcTable = makeCRCTable()

func makeCRCTable() *[256]uint32 {
	var t [256]uint32
	for n := range t {
		c := uint32(n)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = crcPoly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		t[n] = c
	}
	return &t
}

// Update folds b into a running CRC. The running value is kept in its
// pre-inverted form, so start from 0xFFFFFFFF and invert the final result.
func Update(crc uint32, b []byte) uint32 {
	for _, v := range b {
		crc = crcTable[byte(crc)^v] ^ (crc >> 8)
	}
	return crc
}

// CRC32 returns the PNG CRC-32 of b.
func CRC32(b []byte) uint32 {
	return Update(0xFFFFFFFF, b) ^ 0xFFFFFFFF
}

// ChunkCRC returns the CRC stored in a chunk trailer: CRC-32 over the type
// tag followed by the data. It does not allocate the concatenation.
func ChunkCRC(typ [4]byte, data []byte) uint32 {
	crc := Update(0xFFFFFFFF, typ[:])
	crc = Update(crc, data)
	return crc ^ 0xFFFFFFFF
}
