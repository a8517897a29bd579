package enigma

import "testing"

func TestCatalogWirings(t *testing.T) {
	for i, spec := range Rotors {
		if _, err := newRotor(spec, 0, 0); err != nil {
			t.Errorf("Rotors[%d] (%s): %v", i, spec.Name, err)
		}
	}
	for sel := range Reflectors {
		rf, err := newReflector(sel)
		if err != nil {
			t.Errorf("reflector %c: %v", sel, err)
			continue
		}
		for c := 0; c < AlphabetSize; c++ {
			if rf.reflect(c) == c {
				t.Errorf("reflector %c maps %c to itself", sel, 'A'+c)
			}
		}
	}
}

func TestNewRotorRejectsBadWiring(t *testing.T) {
	tests := []RotorSpec{
		{Name: "short", Wiring: "ABC", Notch: 'A'},
		{Name: "repeat", Wiring: "AACDEFGHIJKLMNOPQRSTUVWXYZ", Notch: 'A'},
		{Name: "notch", Wiring: "ABCDEFGHIJKLMNOPQRSTUVWXYZ", Notch: '?'},
	}
	for _, spec := range tests {
		if _, err := newRotor(spec, 0, 0); err == nil {
			t.Errorf("newRotor(%s) succeeded, want error", spec.Name)
		}
	}
}

func TestRotorForwardBackwardInverse(t *testing.T) {
	for _, spec := range Rotors {
		for pos := 0; pos < AlphabetSize; pos += 5 {
			for ring := 0; ring < AlphabetSize; ring += 7 {
				r, err := newRotor(spec, ring, pos)
				if err != nil {
					t.Fatal(err)
				}
				for c := 0; c < AlphabetSize; c++ {
					if got := r.backward(r.forward(c)); got != c {
						t.Fatalf("rotor %s pos %d ring %d: backward(forward(%d)) = %d", spec.Name, pos, ring, c, got)
					}
				}
			}
		}
	}
}

func TestRotorIndex(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"I", 0, true},
		{"ii", 1, true},
		{" III ", 2, true},
		{"2", 2, true},
		{"0", 0, true},
		{"3", 0, false},
		{"-1", 0, false},
		{"IV", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := RotorIndex(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("RotorIndex(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
	if got := RotorName(1); got != "II" {
		t.Errorf("RotorName(1) = %q", got)
	}
	if got := RotorName(9); got != "9" {
		t.Errorf("RotorName(9) = %q", got)
	}
}
