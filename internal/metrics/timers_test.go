package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tick returns a clock advancing one second per call.
func tick() func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestTimersLaps(t *testing.T) {
	ts := newTimersWithClock(tick())
	ts.Set("read")  // t=1
	ts.Set("parse") // read stops t=2, parse starts t=3
	ts.Set("build") // parse stops t=4, build starts t=5
	ts.Done()       // build stops t=6

	stages := ts.Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, []string{"read", "parse", "build"}, []string{stages[0].Name, stages[1].Name, stages[2].Name})
	assert.Equal(t, 1.0, stages[0].Seconds)
	assert.Equal(t, 1.0, stages[1].Seconds)
	assert.Equal(t, 1.0, stages[2].Seconds)
}

func TestTimersAddRunsIndependently(t *testing.T) {
	ts := newTimersWithClock(tick())
	ts.Add("total") // t=1
	ts.Set("read")  // t=2
	ts.Set("parse") // read stops t=3, parse starts t=4
	ts.Add("total") // total stops t=5

	stages := ts.Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, "total", stages[0].Name)
	assert.Equal(t, 4.0, stages[0].Seconds)
	assert.Equal(t, 1.0, stages[1].Seconds)
	assert.Equal(t, 0.0, stages[2].Seconds, "parse is still running")
}

func TestTimersStoppedTimerKeepsValue(t *testing.T) {
	ts := newTimersWithClock(tick())
	ts.Add("x") // t=1
	ts.Add("x") // t=2
	ts.Add("x")
	ts.Done()
	assert.Equal(t, 1.0, ts.Stages()[0].Seconds)
}
