package filter

import (
	"hash/fnv"
	"math/bits"
)

// fingerprintBits is the width of the near-duplicate fingerprint.
const fingerprintBits = 64

// Fingerprint computes a 64-bit simhash over token frequencies.
//
// Each distinct token is hashed to 64 bits; for every bit position the
// token's frequency is added when the bit is set and subtracted when it
// is not. The fingerprint has bit i set iff the accumulated sum at
// position i is positive. Documents with mostly-shared token
// distributions land at small Hamming distances from each other.
func Fingerprint(freq map[string]int) uint64 {
	var votes [fingerprintBits]int

	for token, count := range freq {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token)) // fnv Write never fails
		sum := h.Sum64()

		for i := 0; i < fingerprintBits; i++ {
			if sum&(1<<uint(i)) != 0 {
				votes[i] += count
			} else {
				votes[i] -= count
			}
		}
	}

	var fp uint64
	for i := 0; i < fingerprintBits; i++ {
		if votes[i] > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

// Similarity returns 1 - hammingDistance/64 for two fingerprints.
// Identical fingerprints score 1.0; complementary ones score 0.0.
func Similarity(a, b uint64) float64 {
	distance := bits.OnesCount64(a ^ b)
	return 1.0 - float64(distance)/float64(fingerprintBits)
}
