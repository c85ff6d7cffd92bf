package config

import (
	"testing"
	"time"

	kit "admetry/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	root := New()
	core := root.Prefix("CORE_")
	if got := core.key("MODE"); got != "CORE_MODE" {
		t.Fatalf("key() = %q, want %q", got, "CORE_MODE")
	}
	// nested prefix
	rollup := core.Prefix("ROLLUP_")
	if got := rollup.key("SYNC_ATTEMPTS"); got != "CORE_ROLLUP_SYNC_ATTEMPTS" {
		t.Fatalf("nested key() = %q, want %q", got, "CORE_ROLLUP_SYNC_ATTEMPTS")
	}
}

// Must* panics

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  admetry ")
	if got := c.MustString("NAME"); got != "admetry" {
		t.Fatalf("MustString = %q, want %q", got, "admetry")
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustInt(t *testing.T) {
	c := New().Prefix("SVC_")
	t.Setenv("SVC_ATTEMPTS", "  3 ")
	if got := c.MustInt("ATTEMPTS"); got != 3 {
		t.Fatalf("MustInt = %d, want %d", got, 3)
	}
	kit.MustPanic(t, func() { _ = c.MustInt("MISSING") })
	t.Setenv("SVC_BAD", "x")
	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
}

func TestRequire(t *testing.T) {
	c := New().Prefix("REQ_")
	t.Setenv("REQ_A", "x")
	t.Setenv("REQ_B", "y")
	kit.MustNotPanic(t, func() { c.Require("A", "B") })
	kit.MustPanic(t, func() { c.Require("A", "MISSING") })
}

// May* defaults

func TestMayDefaults(t *testing.T) {
	c := New().Prefix("DEF_")
	if got := c.MayString("NOPE", "fallback"); got != "fallback" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayInt("NOPE", 7); got != 7 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayFloat64("NOPE", 0.01); got != 0.01 {
		t.Fatalf("MayFloat64 = %v", got)
	}
	if got := c.MayBool("NOPE", true); !got {
		t.Fatalf("MayBool = %v", got)
	}
	if got := c.MayDuration("NOPE", 30*time.Second); got != 30*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
}

func TestMayParsesValues(t *testing.T) {
	c := New().Prefix("VAL_")
	t.Setenv("VAL_TOL", "0.05")
	if got := c.MayFloat64("TOL", 0.01); got != 0.05 {
		t.Fatalf("MayFloat64 = %v, want 0.05", got)
	}
	t.Setenv("VAL_BADTOL", "abc")
	if got := c.MayFloat64("BADTOL", 0.01); got != 0.01 {
		t.Fatalf("invalid float should fall back, got %v", got)
	}
	t.Setenv("VAL_TIMEOUT", "1m30s")
	if got := c.MayDuration("TIMEOUT", time.Second); got != 90*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
}

func TestMayTimezone(t *testing.T) {
	c := New().Prefix("TZ_")
	if got := c.MayTimezone("NOPE", time.UTC); got != time.UTC {
		t.Fatalf("missing key should return default")
	}
	t.Setenv("TZ_ZONE", "Asia/Tokyo")
	loc := c.MayTimezone("ZONE", time.UTC)
	if loc.String() != "Asia/Tokyo" {
		t.Fatalf("MayTimezone = %q", loc.String())
	}
	t.Setenv("TZ_BADZONE", "Mars/OlympusMons")
	kit.MustPanic(t, func() { _ = c.MayTimezone("BADZONE", time.UTC) })
}
