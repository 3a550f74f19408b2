package container

import "encoding/binary"

// IndexAD encodes a chunk index as little-endian uint64 bytes, the
// associated-data format used throughout SHATTER and VAULT chunk
// encryption (spec §4.3 step 3c, §4.4 streaming encrypt).
func IndexAD(index uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, index)
	return buf
}
