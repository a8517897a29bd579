package enigma

// Rotor is a single wheel: a fixed wiring, a notch, a ring setting fixed at
// construction and a position that advances under machine control.
type Rotor struct {
	wiring   [AlphabetSize]int
	inverse  [AlphabetSize]int
	notch    int
	position int
	ring     int
}

func newRotor(spec RotorSpec, ring, position int) (Rotor, error) {
	r := Rotor{ring: ring, position: position}
	if len(spec.Wiring) != AlphabetSize {
		return r, invalidf("rotor %s: wiring has %d letters, want %d", spec.Name, len(spec.Wiring), AlphabetSize)
	}
	notch, ok := letterOffset(spec.Notch)
	if !ok {
		return r, invalidf("rotor %s: notch %q is not a letter", spec.Name, spec.Notch)
	}
	r.notch = notch

	var seen [AlphabetSize]bool
	for in := 0; in < AlphabetSize; in++ {
		out, ok := letterOffset(spec.Wiring[in])
		if !ok || seen[out] {
			return r, invalidf("rotor %s: wiring is not a permutation of A-Z", spec.Name)
		}
		seen[out] = true
		r.wiring[in] = out
		r.inverse[out] = in
	}
	return r, nil
}

func (r *Rotor) offset() int {
	return (r.position - r.ring + AlphabetSize) % AlphabetSize
}

func (r *Rotor) atNotch() bool {
	return r.position == r.notch
}

func (r *Rotor) advance() {
	r.position = (r.position + 1) % AlphabetSize
}

// forward maps c on the right-to-left pass.
func (r *Rotor) forward(c int) int {
	off := r.offset()
	return (r.wiring[(c+off)%AlphabetSize] - off + AlphabetSize) % AlphabetSize
}

// backward is the inverse of forward at the same position.
func (r *Rotor) backward(c int) int {
	off := r.offset()
	return (r.inverse[(c+off)%AlphabetSize] - off + AlphabetSize) % AlphabetSize
}

