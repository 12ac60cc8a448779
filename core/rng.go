package core

import "math/rand/v2"

// defaultSeed is used when callers pass seed 0.
const defaultSeed uint64 = 1

// Stream identifiers keep permutation and convergence draws independent.
const (
	permuteStream  uint64 = 1
	convergeStream uint64 = 2
)

// deriveSeed mixes a parent seed and a stream identifier with a SplitMix64
// finalizer so neighbouring windows get uncorrelated streams.
func deriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// windowRNG returns the generator for one window and purpose. It depends
// only on the seed, window index and purpose, so the result is the same no
// matter which worker or order the windows are processed in.
func windowRNG(seed uint64, index int, purpose uint64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewPCG(deriveSeed(seed, purpose), deriveSeed(seed, uint64(index))))
}
