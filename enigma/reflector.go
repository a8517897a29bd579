package enigma

// Reflector is the fixed reversing wheel. It never rotates.
type Reflector struct {
	wiring [AlphabetSize]int
}

// ResolveReflector returns the catalog reflector a machine uses for
// selector: its upper-case form when known, DefaultReflector otherwise.
func ResolveReflector(selector byte) byte {
	if _, ok := Reflectors[upper(selector)]; ok {
		return upper(selector)
	}
	return DefaultReflector
}

func newReflector(selector byte) (Reflector, error) {
	var rf Reflector
	wiring := Reflectors[ResolveReflector(selector)]
	if len(wiring) != AlphabetSize {
		return rf, invalidf("reflector wiring has %d letters, want %d", len(wiring), AlphabetSize)
	}
	for i := 0; i < AlphabetSize; i++ {
		out, ok := letterOffset(wiring[i])
		if !ok {
			return rf, invalidf("reflector wiring contains %q", wiring[i])
		}
		rf.wiring[i] = out
	}
	for i, out := range rf.wiring {
		if rf.wiring[out] != i {
			return rf, invalidf("reflector wiring is not an involution at %c", 'A'+i)
		}
	}
	return rf, nil
}

func (rf *Reflector) reflect(c int) int {
	return rf.wiring[c]
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
