package core

import (
	"bytes"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobSystemRunsEveryJob(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	require.NoError(t, err)
	assert.Equal(t, 4, js.Workers())

	var completed, failed, callbacks atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		fail := i%10 == 0
		js.Submit(JobTask{
			Priority: JOB_PRIORITY_NORMAL,
			OnStart: func() error {
				if fail {
					return errors.New("boom")
				}
				return nil
			},
			OnComplete: func() { completed.Add(1) },
			OnFailure:  func(error) { failed.Add(1) },
			OnCompletionCallback: func() {
				callbacks.Add(1)
				wg.Done()
			},
		})
	}
	wg.Wait()
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	assert.Equal(t, int32(90), completed.Load())
	assert.Equal(t, int32(10), failed.Load())
	assert.Equal(t, int32(100), callbacks.Load())
}

func TestJobSystemArguments(t *testing.T) {
	_, err := NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	var order []string
	first := func(SystemEventCode, interface{}, interface{}, EventContext) bool {
		order = append(order, "first")
		return false
	}
	second := func(_ SystemEventCode, _, _ interface{}, data EventContext) bool {
		order = append(order, "second:"+data.Path)
		return true
	}

	assert.True(t, bus.Register(EVENT_CODE_SCENE_CHANGED, "a", first))
	assert.False(t, bus.Register(EVENT_CODE_SCENE_CHANGED, "a", first))
	assert.True(t, bus.Register(EVENT_CODE_SCENE_CHANGED, "b", second))

	assert.True(t, bus.Fire(EVENT_CODE_SCENE_CHANGED, nil, EventContext{Path: "x.toml"}))
	assert.Equal(t, []string{"first", "second:x.toml"}, order)
	assert.False(t, bus.Fire(EVENT_CODE_FRAME_RENDERED, nil, EventContext{}))

	assert.True(t, bus.Unregister(EVENT_CODE_SCENE_CHANGED, "b"))
	assert.False(t, bus.Unregister(EVENT_CODE_SCENE_CHANGED, "b"))
	assert.False(t, bus.Fire(EVENT_CODE_SCENE_CHANGED, nil, EventContext{}))

	require.NoError(t, bus.Shutdown())
	order = nil
	bus.Fire(EVENT_CODE_SCENE_CHANGED, nil, EventContext{})
	assert.Empty(t, order)
}

func TestIdentifierPoolReusesSlots(t *testing.T) {
	p := NewIdentifierPool(2)
	a := p.AquireNewID("a")
	b := p.AquireNewID("b")
	assert.Equal(t, uint32(0), a)
	assert.Equal(t, uint32(1), b)
	assert.Equal(t, 2, p.Live())

	require.NoError(t, p.ReleaseID(a))
	assert.ErrorIs(t, p.ReleaseID(a), ErrReleased)
	assert.ErrorIs(t, p.ReleaseID(9), ErrIndexOutOfRange)

	assert.Equal(t, uint32(0), p.AquireNewID("c"))
	assert.ElementsMatch(t, []interface{}{"b", "c"}, p.Owners())
}

func TestRenderMetrics(t *testing.T) {
	m := NewRenderMetrics()
	assert.Equal(t, 0.0, m.PixelsPerSecond(100))

	m.Update(10*time.Millisecond, 100)
	m.Update(30*time.Millisecond, 100)
	assert.Equal(t, uint64(2), m.Frames())
	assert.InDelta(t, 20.0, m.FrameTime(), 1e-9)
	assert.InDelta(t, 100/0.03, m.PixelsPerSecond(100), 1e-6)
}

func TestClock(t *testing.T) {
	c := NewClock()
	c.Update()
	assert.Equal(t, time.Duration(0), c.Elapsed())

	c.Start()
	time.Sleep(2 * time.Millisecond)
	c.Stop()
	elapsed := c.Elapsed()
	assert.GreaterOrEqual(t, elapsed, 2*time.Millisecond)

	c.Update()
	assert.Equal(t, elapsed, c.Elapsed())
}

func TestLogLevels(t *testing.T) {
	lvl, err := ParseLogLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, lvl)
	_, err = ParseLogLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var buf bytes.Buffer
	previous := GetLogLevel()
	SetLogOutput(&buf)
	SetLogLevel(WarnLevel)
	t.Cleanup(func() {
		SetLogLevel(previous)
		SetLogOutput(os.Stderr)
	})

	LogInfo("hidden %d", 1)
	LogWarn("shown %d", 2)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")
}
