// Package guid issues and parses the 128-bit identifiers that key every
// asset, material, and render object.
package guid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Guid is comparable and usable as a map key.
type Guid struct {
	id uuid.UUID
}

// Nil is the zero identifier. It never names a live object.
var Nil = Guid{}

const canonicalLen = 36

// FormatError reports a string that is not a canonical GUID.
type FormatError struct {
	Input string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("guid: malformed identifier %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("guid: malformed identifier %q", e.Input)
}

func (e *FormatError) Unwrap() error { return e.Err }

// New returns a fresh random identifier.
func New() Guid {
	return Guid{id: uuid.New()}
}

// Parse accepts only the canonical hyphenated 36 character form.
// uuid.Parse also takes urn: and braced forms; those are rejected so that
// String and Parse stay exact inverses.
func Parse(s string) (Guid, error) {
	if len(s) != canonicalLen {
		return Nil, &FormatError{Input: s}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return Nil, &FormatError{Input: s, Err: err}
	}
	return Guid{id: id}, nil
}

// MustParse panics on malformed input. Intended for constants in tests.
func MustParse(s string) Guid {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Guid) String() string {
	return g.id.String()
}

func (g Guid) IsNil() bool {
	return g == Nil
}

// Compare orders identifiers by their canonical string form.
func (g Guid) Compare(other Guid) int {
	return strings.Compare(g.String(), other.String())
}

// MarshalText writes Nil as the empty string so optional references
// serialize as "".
func (g Guid) MarshalText() ([]byte, error) {
	if g.IsNil() {
		return []byte{}, nil
	}
	return []byte(g.String()), nil
}

func (g *Guid) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*g = Nil
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
