package enigma

import (
	"strconv"
	"strings"
)

// AlphabetSize is the number of letters on every wheel, reflector and plugboard.
const AlphabetSize = 26

// RotorSpec describes one entry of the rotor catalog.
type RotorSpec struct {
	Name   string
	Wiring string
	Notch  byte
}

// Rotors is the rotor catalog. Config.Rotors[i].Rotor indexes into it.
var Rotors = []RotorSpec{
	{Name: "I", Wiring: "EKMFLGDQVZNTOWYHXUSPAIBRCJ", Notch: 'Q'},
	{Name: "II", Wiring: "AJDKSIRUXBLHWTMCQGZNPYFVOE", Notch: 'E'},
	{Name: "III", Wiring: "BDFHJLCPRTXVZNYEIWGAKMUSQO", Notch: 'V'},
}

// DefaultReflector is used for any selector missing from Reflectors.
const DefaultReflector byte = 'B'

// Reflectors maps a reflector selector to its wiring.
var Reflectors = map[byte]string{
	'B': "YRUHQSLDPXNGOKMIEBFZCWVJAT",
}

// RotorIndex resolves a rotor by catalog name ("III") or by zero-based
// index ("2"). Names are case-insensitive.
func RotorIndex(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, r := range Rotors {
		if strings.EqualFold(r.Name, name) {
			return i, true
		}
	}
	idx, err := strconv.Atoi(name)
	if err != nil || idx < 0 || idx >= len(Rotors) {
		return 0, false
	}
	return idx, true
}

// RotorName returns the catalog name for idx, or its decimal form when
// idx is outside the catalog.
func RotorName(idx int) string {
	if idx < 0 || idx >= len(Rotors) {
		return strconv.Itoa(idx)
	}
	return Rotors[idx].Name
}
