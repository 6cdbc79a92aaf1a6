package ratelimit

import "testing"

func TestAllowWithinLimit(t *testing.T) {
	l := NewLimiter(3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("request over the limit allowed, want denied")
	}
}

func TestAddressesAreIndependent(t *testing.T) {
	l := NewLimiter(1)
	defer l.Stop()

	if !l.Allow("10.0.0.1") {
		t.Fatal("first address denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatal("second address denied")
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("first address allowed over the limit")
	}
	if l.Tracked() != 2 {
		t.Fatalf("Tracked() = %d, want 2", l.Tracked())
	}
}

func TestZeroLimitFallsBackToDefault(t *testing.T) {
	l := NewLimiter(0)
	defer l.Stop()

	if l.perMinute != 60 {
		t.Fatalf("perMinute = %d, want 60", l.perMinute)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewLimiter(1)
	l.Stop()
	l.Stop()
}
