package conveyor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func assertNear(t *testing.T, p0 r3.Vec, p1 r3.Vec, epsilon float64) {
	t.Helper()
	if d := r3.Norm(r3.Sub(p1, p0)); d > epsilon {
		t.Fatalf("got %v, expected %v", p0, p1)
	}
}
