// Package enigma emulates the three-rotor Enigma cipher machine.
//
// A Machine is built from a Config and enciphers one letter per keystroke:
// the rotors step, the signal passes the plugboard, the rotors from right
// to left, the reflector, the rotors from left to right and the plugboard
// again. The transform is reciprocal, so a second Machine built from the
// same Config deciphers what the first one produced.
//
// A Machine is not safe for concurrent use. Every letter mutates the rotor
// positions, so independent messages need independent machines.
package enigma

import (
	"fmt"
	"strings"
)

// Slot indexes into the three rotor positions, left to right.
const (
	SlotLeft = iota
	SlotMiddle
	SlotRight
	NumSlots
)

// RotorSetting selects a catalog rotor and its ring and start letters.
type RotorSetting struct {
	Rotor int
	Ring  byte
	Start byte
}

// Config is everything needed to set up a Machine.
type Config struct {
	Rotors    [NumSlots]RotorSetting
	Reflector byte
	Plugboard string
}

// String summarises the configuration, e.g.
// "I-II-III B rings AAA start AAA plugs AB CD".
func (c Config) String() string {
	names := make([]string, NumSlots)
	rings := make([]byte, NumSlots)
	starts := make([]byte, NumSlots)
	for i, r := range c.Rotors {
		names[i] = RotorName(r.Rotor)
		rings[i] = upper(r.Ring)
		starts[i] = upper(r.Start)
	}
	s := fmt.Sprintf("%s %c rings %s start %s", strings.Join(names, "-"), ResolveReflector(c.Reflector), rings, starts)
	if pb, _ := ParsePlugboard(c.Plugboard); len(pb.pairs) > 0 {
		s += " plugs " + pb.String()
	}
	return s
}

// Machine is a configured Enigma. The zero value is not usable; call New.
type Machine struct {
	rotors    [NumSlots]Rotor
	reflector Reflector
	plugboard Plugboard
}

// New builds a machine with its rotors at the configured start letters.
// Unknown reflector selectors fall back to DefaultReflector and malformed
// plugboard tokens are skipped; a rotor index outside the catalog or a
// ring or start value that is not a letter is an error.
func New(cfg Config) (*Machine, error) {
	m := &Machine{}
	for slot, rs := range cfg.Rotors {
		if rs.Rotor < 0 || rs.Rotor >= len(Rotors) {
			return nil, invalidf("slot %d: rotor index %d outside catalog of %d", slot, rs.Rotor, len(Rotors))
		}
		ring, ok := letterOffset(rs.Ring)
		if !ok {
			return nil, invalidf("slot %d: ring setting %q is not a letter", slot, rs.Ring)
		}
		start, ok := letterOffset(rs.Start)
		if !ok {
			return nil, invalidf("slot %d: start position %q is not a letter", slot, rs.Start)
		}
		r, err := newRotor(Rotors[rs.Rotor], ring, start)
		if err != nil {
			return nil, err
		}
		m.rotors[slot] = r
	}

	rf, err := newReflector(cfg.Reflector)
	if err != nil {
		return nil, err
	}
	m.reflector = rf
	m.plugboard, _ = ParsePlugboard(cfg.Plugboard)
	return m, nil
}

// step advances the rotors for one keystroke. All notch checks read the
// positions from before this keystroke.
func (m *Machine) step() {
	rightAtNotch := m.rotors[SlotRight].atNotch()
	middleAtNotch := m.rotors[SlotMiddle].atNotch()

	if middleAtNotch {
		m.rotors[SlotLeft].advance()
	}
	// A middle rotor sitting on its notch steps again: the double step.
	if rightAtNotch || middleAtNotch {
		m.rotors[SlotMiddle].advance()
	}
	m.rotors[SlotRight].advance()
}

func (m *Machine) encipher(c int) int {
	c = m.plugboard.substitute(c)
	for slot := SlotRight; slot >= SlotLeft; slot-- {
		c = m.rotors[slot].forward(c)
	}
	c = m.reflector.reflect(c)
	for slot := SlotLeft; slot <= SlotRight; slot++ {
		c = m.rotors[slot].backward(c)
	}
	return m.plugboard.substitute(c)
}

// ProcessByte enciphers one ASCII letter, preserving its case. Any other
// byte is returned unchanged and does not step the rotors.
func (m *Machine) ProcessByte(b byte) byte {
	switch {
	case b >= 'A' && b <= 'Z':
		m.step()
		return 'A' + byte(m.encipher(int(b-'A')))
	case b >= 'a' && b <= 'z':
		m.step()
		return 'a' + byte(m.encipher(int(b-'a')))
	default:
		return b
	}
}

// ProcessRune is ProcessByte for runes. Runes outside ASCII pass through.
func (m *Machine) ProcessRune(r rune) rune {
	if r < 0 || r > 0x7f {
		return r
	}
	return rune(m.ProcessByte(byte(r)))
}

// ProcessText enciphers s one byte at a time. Enciphering and
// deciphering are the same operation. Bytes that are not ASCII letters,
// including invalid UTF-8, come out unchanged at the same offset.
func (m *Machine) ProcessText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b.WriteByte(m.ProcessByte(s[i]))
	}
	return b.String()
}

// XORKeyStream applies ProcessByte to each byte of src, writing to dst.
// It lets a Machine act as a cipher.Stream for cipher.StreamReader and
// cipher.StreamWriter. Bytes of multi-byte UTF-8 sequences are all >= 0x80
// and pass through, so valid UTF-8 stays valid.
func (m *Machine) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("enigma: output smaller than input")
	}
	for i, b := range src {
		dst[i] = m.ProcessByte(b)
	}
}

// Positions returns the rotor positions, left to right.
func (m *Machine) Positions() [NumSlots]int {
	var p [NumSlots]int
	for i := range m.rotors {
		p[i] = m.rotors[i].position
	}
	return p
}

// Window returns the letters showing in the rotor windows, left to right.
func (m *Machine) Window() string {
	w := make([]byte, NumSlots)
	for i := range m.rotors {
		w[i] = 'A' + byte(m.rotors[i].position)
	}
	return string(w)
}

// SetWindow turns the rotors so that window shows, e.g. "QEV". Ring
// settings are unchanged.
func (m *Machine) SetWindow(window string) error {
	if len(window) != NumSlots {
		return invalidf("window %q: want %d letters", window, NumSlots)
	}
	var p [NumSlots]int
	for i := 0; i < NumSlots; i++ {
		off, ok := letterOffset(window[i])
		if !ok {
			return invalidf("window %q: %q is not a letter", window, window[i])
		}
		p[i] = off
	}
	for i := range m.rotors {
		m.rotors[i].position = p[i]
	}
	return nil
}

// Plugboard returns the machine's plugboard.
func (m *Machine) Plugboard() Plugboard {
	return m.plugboard
}
