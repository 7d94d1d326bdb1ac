// Package fnvhash implements 32-bit FNV-1a with a caller-chosen offset basis.
//
// hash/fnv only exposes the canonical offset basis, so seeded variants are
// computed here. The byte loop is the reference FNV-1a definition and the
// results are stable across runs and platforms.
package fnvhash

const (
	// Prime is the 32-bit FNV prime.
	Prime uint32 = 0x01000193
	// OffsetBasis is the canonical 32-bit FNV-1a seed.
	OffsetBasis uint32 = 0x811c9dc5
	// SeedB and SeedC seed the second and third independent hashes used when
	// a string has to be spread over three coordinates.
	SeedB uint32 = 0x9747b28c
	SeedC uint32 = 0x5bd1e995
)

// Sum32a hashes s with FNV-1a starting from seed.
func Sum32a(s string, seed uint32) uint32 {
	h := seed
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= Prime
	}
	return h
}

// Unit maps a hash onto [0,1] by dividing by 2^32-1.
func Unit(h uint32) float64 {
	return float64(h) / 4294967295.0
}
