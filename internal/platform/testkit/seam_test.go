package testkit

import "testing"

var (
	addFn       = func(a, b int) int { return a + b }
	swapTargetI = 10
)

func TestSwapFunctionAndRestore(t *testing.T) {
	// run swap in a subtest so Cleanup runs before we validate restoration
	t.Run("swap-in-subtest", func(t *testing.T) {
		if got := addFn(1, 2); got != 3 {
			t.Fatalf("precondition failed, addFn(1,2)=%d want 3", got)
		}
		Swap(t, &addFn, func(a, b int) int { return 99 })
		if got := addFn(1, 2); got != 99 {
			t.Fatalf("swap did not take effect, got %d want 99", got)
		}
	})

	if got := addFn(1, 2); got != 3 {
		t.Fatalf("swap did not restore original, got %d want 3", got)
	}
}

func TestSwapNonFunctionType(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		if swapTargetI != 10 {
			t.Fatalf("precondition failed, got %d", swapTargetI)
		}
		Swap(t, &swapTargetI, 42)
		if swapTargetI != 42 {
			t.Fatalf("swap failed, got %d want 42", swapTargetI)
		}
	})
	if swapTargetI != 10 {
		t.Fatalf("swap did not restore original, got %d want 10", swapTargetI)
	}
}
