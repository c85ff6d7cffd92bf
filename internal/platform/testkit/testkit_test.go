package testkit

import "testing"

func TestMustPanicSeesPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
}

func TestMustNotPanicPassesQuietFn(t *testing.T) {
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	MustContain(t, "hello admetry world", "admetry")
}
