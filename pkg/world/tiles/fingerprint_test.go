package tiles

import "testing"

func TestFingerprintStable(t *testing.T) {
	if DefaultMapping().Fingerprint() != DefaultMapping().Fingerprint() {
		t.Fatal("default mapping fingerprint changes between builds")
	}

	a := NewTransitionMapping()
	a.Set(BiomeSand, BiomeGrass, 1, 10)
	a.Set(BiomeRock, BiomeDirt, 2, 20)
	b := NewTransitionMapping()
	b.Set(BiomeRock, BiomeDirt, 2, 20)
	b.Set(BiomeSand, BiomeGrass, 1, 10)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("build order changed the fingerprint")
	}
}

func TestFingerprintDetectsChanges(t *testing.T) {
	base := DefaultMapping().Fingerprint()
	tests := []struct {
		name string
		edit func(m *TransitionMapping)
	}{
		{"entry", func(m *TransitionMapping) { m.Set(BiomeSand, BiomeGrass, 3, 9999) }},
		{"pair", func(m *TransitionMapping) { m.Set(BiomeSand, BiomeJungle, 0, 1) }},
		{"stamp", func(m *TransitionMapping) { m.SetStamp(BiomeSand, BiomeGrass, 1, Stamp{4: 5}) }},
		{"priority", func(m *TransitionMapping) { m.SetPriority(BiomeDirt, BiomeGrass, BiomeRock) }},
	}
	for _, tt := range tests {
		m := DefaultMapping()
		tt.edit(m)
		if m.Fingerprint() == base {
			t.Errorf("%s edit left the fingerprint unchanged", tt.name)
		}
	}
}
