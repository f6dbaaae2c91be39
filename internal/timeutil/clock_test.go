package timeutil

import (
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}

	before := time.Now()
	got := c.Now()
	if got.Before(before) {
		t.Errorf("Now() = %v, earlier than %v", got, before)
	}

	start := time.Now()
	c.Sleep(time.Millisecond)
	if time.Since(start) < time.Millisecond {
		t.Error("Sleep returned early")
	}
}

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewMockClock(start)

	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %v, want %v", c.Now(), start)
	}

	c.Advance(time.Minute)
	if want := start.Add(time.Minute); !c.Now().Equal(want) {
		t.Errorf("after Advance, Now() = %v, want %v", c.Now(), want)
	}

	c.Sleep(10 * time.Millisecond)
	c.Sleep(20 * time.Millisecond)
	if want := start.Add(time.Minute + 30*time.Millisecond); !c.Now().Equal(want) {
		t.Errorf("after Sleep, Now() = %v, want %v", c.Now(), want)
	}

	sleeps := c.Sleeps()
	if len(sleeps) != 2 || sleeps[0] != 10*time.Millisecond || sleeps[1] != 20*time.Millisecond {
		t.Errorf("Sleeps() = %v", sleeps)
	}

	c.Set(start)
	if !c.Now().Equal(start) {
		t.Errorf("after Set, Now() = %v, want %v", c.Now(), start)
	}
}
