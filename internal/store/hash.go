package store

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// imageDomainKey keys the artwork digest: the ASCII domain name,
// zero-padded to 32 bytes.
var imageDomainKey = [32]byte{
	'p', 'n', 'g', 'c', 'a', 'r', 'd', '.', 'l', 'i', 'b', 'r', 'a', 'r', 'y', '.',
	'i', 'm', 'a', 'g', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// ImageHash returns the hex BLAKE3 keyed digest identifying stored artwork.
func ImageHash(data []byte) string {
	hasher, err := blake3.NewKeyed(imageDomainKey[:])
	if err != nil {
		panic("store: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}
