// Package cache describes the static shape of a set-associative cache level:
// its geometry, replacement policy and write/coherence mode.
package cache

import "fmt"

// LineSize is the number of bytes in a cache line.
const LineSize = 64

// SetsForCapacity returns the number of sets a cache of sizeKB kilobytes has
// when organized in ways ways of lineSize-byte lines. The result is floored.
// No power-of-two requirement is applied.
func SetsForCapacity(sizeKB, lineSize, ways int) (int, error) {
	if ways <= 0 {
		return 0, fmt.Errorf("ways must be positive, got %d", ways)
	}

	if lineSize <= 0 {
		return 0, fmt.Errorf("line size must be positive, got %d", lineSize)
	}

	if sizeKB < 0 {
		return 0, fmt.Errorf("size must not be negative, got %d KB", sizeKB)
	}

	return sizeKB * 1024 / (lineSize * ways), nil
}

// CapacityKB is the inverse of SetsForCapacity for whole-KB caches.
func CapacityKB(sets, ways, lineSize int) int {
	return sets * ways * lineSize / 1024
}
