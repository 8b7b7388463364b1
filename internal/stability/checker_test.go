package stability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerdict_String(t *testing.T) {
	tests := []struct {
		name    string
		verdict Verdict
		want    string
	}{
		{"stable", VerdictStable, "STABLE"},
		{"vanished", VerdictVanished, "VANISHED"},
		{"timed out", VerdictTimedOut, "TIMED_OUT_ASSUMED_STABLE"},
		{"unknown", Verdict(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.verdict.String())
		})
	}
}

func TestVerdict_Ready(t *testing.T) {
	assert.True(t, VerdictStable.Ready())
	assert.True(t, VerdictTimedOut.Ready())
	assert.False(t, VerdictVanished.Ready())
}

func TestNewChecker_ZeroValuesGetDefaults(t *testing.T) {
	c := NewChecker(0, 0)
	assert.Equal(t, DefaultPollInterval, c.interval)
	assert.Equal(t, DefaultTimeout, c.timeout)

	c = NewChecker(5*time.Millisecond, 100*time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, c.interval)
	assert.Equal(t, 100*time.Millisecond, c.timeout)
}

func TestCheck_StableFile(t *testing.T) {
	// Given: a fully written file
	path := filepath.Join(t.TempDir(), "cap.png")
	require.NoError(t, os.WriteFile(path, []byte("not-really-a-png"), 0o644))

	c := NewChecker(5*time.Millisecond, 500*time.Millisecond)

	// When: checking
	start := time.Now()
	verdict := c.Check(path)

	// Then: stable after the second confirming read, well before timeout
	assert.Equal(t, VerdictStable, verdict)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestCheck_MissingFileVanishes(t *testing.T) {
	c := NewChecker(5*time.Millisecond, 500*time.Millisecond)

	verdict := c.Check(filepath.Join(t.TempDir(), "never-existed.png"))

	assert.Equal(t, VerdictVanished, verdict)
}

func TestCheck_FileDeletedMidPoll(t *testing.T) {
	// Given: a file that disappears after the first poll
	path := filepath.Join(t.TempDir(), "temp.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	done := make(chan Verdict, 1)
	c := NewChecker(50*time.Millisecond, time.Second)
	go func() { done <- c.Check(path) }()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.Remove(path))

	// Then: vanished, never stable
	select {
	case verdict := <-done:
		// A single pre-delete read can't satisfy two consecutive equal
		// readings, so the only valid outcome is vanished.
		assert.Equal(t, VerdictVanished, verdict)
	case <-time.After(2 * time.Second):
		t.Fatal("check did not finish")
	}
}

func TestCheck_GrowingFileTimesOut(t *testing.T) {
	// Given: a file that keeps growing past the deadline
	path := filepath.Join(t.TempDir(), "growing.png")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		defer func() { _ = f.Close() }()
		for {
			select {
			case <-stop:
				return
			case <-time.After(5 * time.Millisecond):
				_, _ = f.Write([]byte("more"))
			}
		}
	}()

	c := NewChecker(10*time.Millisecond, 150*time.Millisecond)

	start := time.Now()
	verdict := c.Check(path)

	// Then: degraded success at the deadline, no indefinite block
	assert.Equal(t, VerdictTimedOut, verdict)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestCheck_ZeroByteFileNeverStable(t *testing.T) {
	// Given: an empty placeholder that never grows
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	c := NewChecker(10*time.Millisecond, 100*time.Millisecond)

	verdict := c.Check(path)

	// Then: equal zero readings must not count as stable
	assert.Equal(t, VerdictTimedOut, verdict)
}

func TestCheck_ChunkedWriteStabilizesAtFinalSize(t *testing.T) {
	// Given: a producer writing in two chunks with a gap
	path := filepath.Join(t.TempDir(), "cap1.png")
	require.NoError(t, os.WriteFile(path, make([]byte, 50), 0o644))

	go func() {
		time.Sleep(40 * time.Millisecond)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return
		}
		_, _ = f.Write(make([]byte, 450))
		_ = f.Close()
	}()

	// Poll slower than the write gap so the checker observes the growth
	c := NewChecker(100*time.Millisecond, 2*time.Second)

	verdict := c.Check(path)
	require.Equal(t, VerdictStable, verdict)

	// Then: stability was declared only after growth ceased
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(500), info.Size())
}

func TestCheck_ReturnsWithinPollBound(t *testing.T) {
	// For a file already at its final size, the checker needs exactly
	// two reads: one to record the size, one to confirm it.
	path := filepath.Join(t.TempDir(), "done.png")
	require.NoError(t, os.WriteFile(path, []byte("finished"), 0o644))

	interval := 20 * time.Millisecond
	c := NewChecker(interval, time.Second)

	start := time.Now()
	verdict := c.Check(path)
	elapsed := time.Since(start)

	assert.Equal(t, VerdictStable, verdict)
	assert.GreaterOrEqual(t, elapsed, interval)
	assert.Less(t, elapsed, 5*interval)
}
