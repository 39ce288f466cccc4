package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// RenderMetrics keeps a rolling average over the last AVG_COUNT frames.
type RenderMetrics struct {
	mu              sync.Mutex
	frameAVGCounter uint8
	msTimes         [AVG_COUNT]float64
	samples         uint8
	msAVG           float64
	frames          uint64
	pixels          uint64
	lastFrame       time.Duration
}

func NewRenderMetrics() *RenderMetrics {
	return &RenderMetrics{}
}

// Update records one rendered frame of the given pixel count.
func (m *RenderMetrics) Update(frameTime time.Duration, pixels int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameMS := float64(frameTime) / float64(time.Millisecond)
	m.msTimes[m.frameAVGCounter] = frameMS
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT
	if m.samples < AVG_COUNT {
		m.samples++
	}

	total := 0.0
	for i := uint8(0); i < m.samples; i++ {
		total += m.msTimes[i]
	}
	m.msAVG = total / float64(m.samples)

	m.frames++
	m.pixels += uint64(pixels)
	m.lastFrame = frameTime
}

// FrameTime returns the average frame time in milliseconds.
func (m *RenderMetrics) FrameTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.msAVG
}

func (m *RenderMetrics) Frames() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// PixelsPerSecond is computed from the most recent frame.
func (m *RenderMetrics) PixelsPerSecond(pixels int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastFrame <= 0 {
		return 0
	}
	return float64(pixels) / m.lastFrame.Seconds()
}
