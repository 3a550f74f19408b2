package shatter

// Chunk size tiers by plaintext size, grounded on
// modules/shatter/core/sharding.py's _calculate_chunk_size. Fixed and baked
// into the manifest rather than caller-configurable, so a manifest written
// by one version of this policy stays reassemblable indefinitely.
const (
	mib = 1 << 20
	gib = 1 << 30

	tier1Chunk = 1 * mib
	tier2Chunk = 5 * mib
	tier3Chunk = 20 * mib
	tier4Chunk = 50 * mib

	tier1Max = 100 * mib
	tier2Max = 1 * gib
	tier3Max = 10 * gib
)

// chunkSizeFor returns the fixed chunk size for a plaintext of the given
// size, per the tiered policy: <100MiB -> 1MiB, <1GiB -> 5MiB, <10GiB ->
// 20MiB, else 50MiB.
func chunkSizeFor(fileSize int64) int64 {
	switch {
	case fileSize < tier1Max:
		return tier1Chunk
	case fileSize < tier2Max:
		return tier2Chunk
	case fileSize < tier3Max:
		return tier3Chunk
	default:
		return tier4Chunk
	}
}

// chunkCount returns how many chunks a plaintext of fileSize bytes splits
// into under chunkSize, with the final chunk taking the remainder.
func chunkCount(fileSize, chunkSize int64) int {
	if fileSize == 0 {
		return 1
	}
	n := fileSize / chunkSize
	if fileSize%chunkSize != 0 {
		n++
	}
	return int(n)
}
