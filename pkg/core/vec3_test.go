package core

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(-4, 0.5, 2)

	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"add", a.Add(b), NewVec3(-3, 2.5, 5)},
		{"subtract", a.Subtract(b), NewVec3(5, 1.5, 1)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"multiply vec", a.MultiplyVec(b), NewVec3(-4, 1, 6)},
		{"divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.got, approx); diff != "" {
				t.Errorf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}

	if got := a.Dot(b); got != 3 {
		t.Errorf("Expected dot product 3, got %f", got)
	}
	if got := NewVec3(3, 4, 0).Length(); got != 5 {
		t.Errorf("Expected length 5, got %f", got)
	}
}

func TestVec3_OperandsUnchanged(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)
	_ = a.Add(b)
	_ = a.Multiply(3)
	_ = a.Normalize()

	if a != NewVec3(1, 2, 3) || b != NewVec3(4, 5, 6) {
		t.Errorf("Arithmetic mutated its operands: a=%v b=%v", a, b)
	}
}

func TestVec3_DivideByZeroPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"divide", func() { NewVec3(1, 2, 3).Divide(0) }},
		{"normalize zero vector", func() { Vec3{}.Normalize() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("Expected panic, got none")
				}
				err, ok := r.(error)
				if !ok {
					t.Fatalf("Expected error panic value, got %T", r)
				}
				if !errors.Is(err, ErrDivideByZero) {
					t.Errorf("Expected ErrDivideByZero, got %v", err)
				}
			}()
			tt.fn()
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := NewVec3(0, 3, 4).Normalize()
	if diff := cmp.Diff(NewVec3(0, 0.6, 0.8), n, approx); diff != "" {
		t.Errorf("unexpected normalized vector (-want +got):\n%s", diff)
	}
}

func TestVec3_NearZero(t *testing.T) {
	if !NewVec3(1e-9, -1e-9, 0).NearZero() {
		t.Error("Expected tiny vector to be near zero")
	}
	if NewVec3(1e-9, 1e-3, 0).NearZero() {
		t.Error("Expected vector with one large component not to be near zero")
	}
}

func TestReflect_AngleOfIncidence(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	sampler := NewRandomSampler(random)

	for i := 0; i < 1000; i++ {
		n := SampleUnitVector(sampler)
		v := SampleInCube(sampler).Multiply(10)
		r := Reflect(v, n)

		if math.Abs(r.Dot(n)+v.Dot(n)) > 1e-9 {
			t.Fatalf("dot(reflect(v,n),n)=%f, expected %f", r.Dot(n), -v.Dot(n))
		}
		if math.Abs(r.Length()-v.Length()) > 1e-9 {
			t.Fatalf("Reflection changed length: %f vs %f", r.Length(), v.Length())
		}
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	n := NewVec3(0, 1, 0)
	uv := NewVec3(1, -1, 0).Normalize()
	eta := 1.0 / 1.5

	r := Refract(uv, n, eta)

	if math.Abs(r.Length()-1) > 1e-9 {
		t.Errorf("Expected unit refracted direction, got length %f", r.Length())
	}

	sinIn := uv.Cross(n).Length()
	sinOut := r.Cross(n).Length()
	if math.Abs(sinOut-eta*sinIn) > 1e-9 {
		t.Errorf("Snell's law violated: sinOut=%f, expected %f", sinOut, eta*sinIn)
	}
	if r.Y >= 0 {
		t.Errorf("Refracted ray should continue below the surface, got %v", r)
	}
}

func TestRefract_IndexOneIsStraightThrough(t *testing.T) {
	n := NewVec3(0, 0, 1)
	uv := NewVec3(0.3, 0.2, -1).Normalize()

	if diff := cmp.Diff(uv, Refract(uv, n, 1.0), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("unexpected refraction (-want +got):\n%s", diff)
	}
}

func TestRay_At(t *testing.T) {
	r := NewRay(NewVec3(1, 1, 1), NewVec3(0, 2, 0))
	if got := r.At(1.5); got != NewVec3(1, 4, 1) {
		t.Errorf("Expected (1,4,1), got %v", got)
	}
}

func TestInterval_Contains(t *testing.T) {
	i := NewInterval(0.001, 10)

	tests := []struct {
		x    float64
		want bool
	}{
		{0, false},
		{0.001, true},
		{5, true},
		{10, true},
		{10.0001, false},
		{math.Inf(1), false},
	}
	for _, tt := range tests {
		if got := i.Contains(tt.x); got != tt.want {
			t.Errorf("Contains(%v) = %t, want %t", tt.x, got, tt.want)
		}
	}

	if !NewInterval(0.001, math.Inf(1)).Contains(1e300) {
		t.Error("Unbounded interval should contain large values")
	}
}

func TestGammaCorrect(t *testing.T) {
	got := NewVec3(0.25, 1, 0).GammaCorrect(2.0)
	if diff := cmp.Diff(NewVec3(0.5, 1, 0), got, approx); diff != "" {
		t.Errorf("unexpected gamma correction (-want +got):\n%s", diff)
	}
}
