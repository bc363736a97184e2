package service

import "testing"

func TestWaitingPoolFIFO(t *testing.T) {
	p := newWaitingPool()
	p.push("a")
	p.push("b")
	p.push("c")

	alive := func(string) bool { return true }

	got, ok := p.popLive("z", alive)
	if !ok || got != "a" {
		t.Fatalf("first pop = %q, %v", got, ok)
	}
	got, ok = p.popLive("z", alive)
	if !ok || got != "b" {
		t.Fatalf("second pop = %q, %v", got, ok)
	}
}

func TestWaitingPoolSkipsSelf(t *testing.T) {
	p := newWaitingPool()
	p.push("a")
	p.push("b")

	got, ok := p.popLive("a", func(string) bool { return true })
	if !ok || got != "b" {
		t.Fatalf("pop skipping self = %q, %v", got, ok)
	}
	// the self entry was discarded, not requeued
	if p.contains("a") {
		t.Fatal("self entry still queued")
	}
}

func TestWaitingPoolPrunesDeadLazily(t *testing.T) {
	p := newWaitingPool()
	p.push("dead1")
	p.push("dead2")
	p.push("live")

	dead := map[string]bool{"dead1": true, "dead2": true}
	got, ok := p.popLive("z", func(id string) bool { return !dead[id] })
	if !ok || got != "live" {
		t.Fatalf("pop = %q, %v", got, ok)
	}
	if p.len() != 0 {
		t.Fatalf("stale entries kept: len=%d", p.len())
	}
}

func TestWaitingPoolExhausted(t *testing.T) {
	p := newWaitingPool()
	p.push("dead")

	if got, ok := p.popLive("z", func(string) bool { return false }); ok {
		t.Fatalf("pop on all-dead pool returned %q", got)
	}
	if p.len() != 0 {
		t.Fatal("dead entry survived the scan")
	}
}

func TestWaitingPoolRemove(t *testing.T) {
	p := newWaitingPool()
	p.push("a")
	p.push("b")
	p.push("a")

	p.remove("a")
	if p.contains("a") {
		t.Fatal("remove left an occurrence behind")
	}
	if p.len() != 1 {
		t.Fatalf("len = %d, want 1", p.len())
	}
}
