package clock

import (
	"testing"
	"time"
)

func TestManual_FiresInDeadlineOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var got []string

	m.AfterFunc(300*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(100*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(100*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(250 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("fired = %v, want [a b]", got)
	}

	m.Advance(50 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("fired = %v, want [a b c]", got)
	}
	if m.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", m.Pending())
	}
}

func TestManual_NowDuringCallback(t *testing.T) {
	start := time.Unix(0, 0)
	m := NewManual(start)
	var at time.Time
	m.AfterFunc(40*time.Millisecond, func() { at = m.Now() })

	m.Advance(time.Second)

	if want := start.Add(40 * time.Millisecond); !at.Equal(want) {
		t.Errorf("Now() in callback = %v, want %v", at, want)
	}
	if want := start.Add(time.Second); !m.Now().Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", m.Now(), want)
	}
}

func TestManual_NestedScheduling(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	count := 0
	var tick func()
	tick = func() {
		count++
		m.AfterFunc(100*time.Millisecond, tick)
	}
	m.AfterFunc(100*time.Millisecond, tick)

	m.Advance(time.Second)

	if count != 10 {
		t.Errorf("ticks = %d, want 10", count)
	}
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	fired := false
	tm := m.AfterFunc(time.Second, func() { fired = true })

	if !tm.Stop() {
		t.Error("first Stop() should report true")
	}
	if tm.Stop() {
		t.Error("second Stop() should report false")
	}
	m.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestManual_StopAfterFire(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	tm := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)
	if tm.Stop() {
		t.Error("Stop() after firing should report false")
	}
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for real timer")
	}
}
