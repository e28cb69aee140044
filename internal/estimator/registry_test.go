package estimator

import (
	"strings"
	"testing"

	"github.com/quantfold/histvol/internal/model"
)

type stubEstimator struct{ name string }

func (s *stubEstimator) Name() string { return s.name }
func (s *stubEstimator) Estimate(model.CleanedSeries) model.VolatilitySeries {
	return nil
}

func stubFactory(name string) Factory {
	return func(Config) (Estimator, error) {
		return &stubEstimator{name: name}, nil
	}
}

func TestRegistry_RegisterAndNew(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("stub", stubFactory("stub")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	est, err := r.New("stub", Config{LookbackWindow: 1, TradingDaysPerYear: 252})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if est.Name() != "stub" {
		t.Errorf("Name = %q, want %q", est.Name(), "stub")
	}
}

func TestRegistry_DuplicateNameFails(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("stub", stubFactory("stub")); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	err := r.Register("stub", stubFactory("stub"))
	if err == nil {
		t.Fatal("duplicate Register succeeded, want error")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("error = %q, want mention of already registered", err)
	}
}

func TestRegistry_UnknownNameFails(t *testing.T) {
	r := NewRegistry()
	if _, err := r.New("nope", Config{LookbackWindow: 1, TradingDaysPerYear: 252}); err == nil {
		t.Fatal("New with unregistered name succeeded, want error")
	}
}

func TestRegistry_EmptyNameRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("", stubFactory("")); err == nil {
		t.Error("empty name accepted, want error")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha"} {
		if err := r.Register(name, stubFactory(name)); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("Names = %v, want [alpha zeta]", names)
	}
}

func TestDefault_HasBuiltins(t *testing.T) {
	r := Default()
	want := []string{
		CloseToCloseAverageRealisedVariance,
		CloseToCloseStdDeviation,
		TickAverageRealisedVariance,
		YangZhang,
	}

	names := r.Names()
	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	cfg := Config{LookbackWindow: 30, TradingDaysPerYear: 252}
	for _, name := range names {
		est, err := r.New(name, cfg)
		if err != nil {
			t.Errorf("New(%q): %v", name, err)
			continue
		}
		if est.Name() != name {
			t.Errorf("estimator %q reports Name %q", name, est.Name())
		}
	}
}

func TestDefault_RejectsInvalidConfig(t *testing.T) {
	r := Default()
	if _, err := r.New(CloseToCloseStdDeviation, Config{LookbackWindow: 0, TradingDaysPerYear: 252}); err == nil {
		t.Error("invalid config accepted at construction, want error")
	}
}
