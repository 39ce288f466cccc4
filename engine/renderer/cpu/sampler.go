package cpu

import (
	"golang.org/x/exp/rand"
)

// sampler produces the random numbers of one pixel. Reseeding per pixel keeps
// the image independent of how tiles are scheduled across workers.
type sampler struct {
	rng *rand.Rand
}

func newSampler() *sampler {
	return &sampler{rng: rand.New(&rand.PCGSource{})}
}

// reset positions the stream at the start of the given pixel of the given frame.
func (s *sampler) reset(seed uint64, frame int, pixel int) {
	h := splitMix64(seed ^ splitMix64(uint64(frame)+0x9e3779b97f4a7c15))
	s.rng.Seed(splitMix64(h ^ uint64(pixel)))
}

// next returns a uniform number in [0, 1).
func (s *sampler) next() float32 {
	return s.rng.Float32()
}

func splitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
