package enigma

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// MaxPlugboardPairs is the number of pairs that fit on a 26-letter board.
const MaxPlugboardPairs = AlphabetSize / 2

// Plugboard swaps the letters of each connected pair. Unconnected letters
// map to themselves. The zero value is an empty board.
type Plugboard struct {
	swap  [AlphabetSize]int
	pairs []string
	ready bool
}

// ParsePlugboard builds a board from whitespace-separated two-letter tokens
// such as "AB CD". Parsing is permissive: tokens that are not exactly two
// letters, self-pairs and tokens reusing an already connected letter are
// skipped and returned in dropped. The first pair to claim a letter wins.
func ParsePlugboard(spec string) (p Plugboard, dropped []string) {
	p.reset()
	for _, tok := range strings.Fields(spec) {
		if len(tok) != 2 {
			dropped = append(dropped, tok)
			continue
		}
		a, okA := letterOffset(tok[0])
		b, okB := letterOffset(tok[1])
		if !okA || !okB || a == b || p.swap[a] != a || p.swap[b] != b {
			dropped = append(dropped, tok)
			continue
		}
		p.swap[a], p.swap[b] = b, a
		p.pairs = append(p.pairs, string([]byte{byte('A' + a), byte('A' + b)}))
	}
	return p, dropped
}

// ValidatePlugboard is the strict counterpart of ParsePlugboard: it reports
// every token ParsePlugboard would skip, combined into one error.
func ValidatePlugboard(spec string) error {
	var err error
	var used [AlphabetSize]bool
	for _, tok := range strings.Fields(spec) {
		if len(tok) != 2 {
			err = multierr.Append(err, fmt.Errorf("plugboard token %q: want exactly two letters", tok))
			continue
		}
		a, okA := letterOffset(tok[0])
		b, okB := letterOffset(tok[1])
		switch {
		case !okA || !okB:
			err = multierr.Append(err, fmt.Errorf("plugboard token %q: not letters", tok))
		case a == b:
			err = multierr.Append(err, fmt.Errorf("plugboard token %q: letter paired with itself", tok))
		case used[a] || used[b]:
			err = multierr.Append(err, fmt.Errorf("plugboard token %q: letter already connected", tok))
		default:
			used[a], used[b] = true, true
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}

func (p *Plugboard) reset() {
	for i := range p.swap {
		p.swap[i] = i
	}
	p.pairs = nil
	p.ready = true
}

func (p *Plugboard) substitute(c int) int {
	if !p.ready {
		return c
	}
	return p.swap[c]
}

// Swap returns the partner of letter c, or c itself when it is not
// connected. Non-letters are returned unchanged.
func (p Plugboard) Swap(c byte) byte {
	off, ok := letterOffset(c)
	if !ok {
		return c
	}
	out := byte(p.substitute(off))
	if c >= 'a' {
		return 'a' + out
	}
	return 'A' + out
}

// Pairs returns the connected pairs in upper case, in parse order.
func (p Plugboard) Pairs() []string {
	return append([]string(nil), p.pairs...)
}

// String renders the board in the same form ParsePlugboard accepts.
func (p Plugboard) String() string {
	return strings.Join(p.pairs, " ")
}
