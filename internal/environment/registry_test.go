package environment

import (
	"errors"
	"testing"
)

func TestDefaultTargetIsRegistered(t *testing.T) {
	if _, err := Builtin().Lookup(DefaultTarget); err != nil {
		t.Fatalf("default target %s is not registered: %v", DefaultTarget, err)
	}
}

func TestLookupUnknownTarget(t *testing.T) {
	_, err := Builtin().Lookup(Target("staging"))
	if !errors.Is(err, ErrUnsupportedEnvironment) {
		t.Fatalf("expected ErrUnsupportedEnvironment, got %v", err)
	}
}

func TestNewRegistryCopiesRecords(t *testing.T) {
	records := map[Target]EnvironmentConfig{Development: developmentRecord()}
	registry := NewRegistry(records)

	records[Development] = EnvironmentConfig{}
	delete(records, Development)

	got, err := registry.Lookup(Development)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if got != developmentRecord() {
		t.Fatalf("registry was affected by caller mutation: %+v", got)
	}
}

func TestTargetsSorted(t *testing.T) {
	registry := NewRegistry(map[Target]EnvironmentConfig{
		Production:  developmentRecord(),
		"staging":   developmentRecord(),
		Development: developmentRecord(),
	})

	got := registry.Targets()
	want := []Target{Development, Production, "staging"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
