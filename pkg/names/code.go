package names

import (
	"encoding/json"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
)

// Code is a nomenclatural code. Unspecified means the code is not known
// and widens the match filter instead of narrowing it.
type Code int

const (
	Unspecified Code = iota
	Zoological
	Botanical
	Bacterial
	Virus
	Cultivars
)

// NewCode converts a code string (name or abbreviation) to Code.
// Unknown values become Unspecified, it never fails.
func NewCode(s string) Code {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ZOOLOGICAL", "ICZN", "ZOO":
		return Zoological
	case "BOTANICAL", "ICN", "ICNAFP", "ICBN", "BOT":
		return Botanical
	case "BACTERIAL", "ICNP", "ICNB", "BACTERIA":
		return Bacterial
	case "VIRUS", "VIRAL", "ICTV", "ICVCN":
		return Virus
	case "CULTIVARS", "CULTIVAR", "ICNCP":
		return Cultivars
	default:
		return Unspecified
	}
}

// String returns the upper-case code name, or an empty string for
// Unspecified.
func (c Code) String() string {
	switch c {
	case Zoological:
		return "ZOOLOGICAL"
	case Botanical:
		return "BOTANICAL"
	case Bacterial:
		return "BACTERIAL"
	case Virus:
		return "VIRUS"
	case Cultivars:
		return "CULTIVARS"
	default:
		return ""
	}
}

// NomCode converts Code to the code used by GNparser. GNparser only
// distinguishes botanical and zoological rules, so everything else
// falls back to nomcode.Unknown.
func (c Code) NomCode() nomcode.Code {
	switch c {
	case Botanical, Cultivars:
		return nomcode.Botanical
	case Zoological:
		return nomcode.Zoological
	default:
		return nomcode.Unknown
	}
}

// Compatible reports if two codes do not rule each other out.
// Unspecified is compatible with any code.
func (c Code) Compatible(other Code) bool {
	return c == Unspecified || other == Unspecified || c == other
}

// MarshalJSON encodes Code as its string name.
func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes Code from its string name.
func (c *Code) UnmarshalJSON(bs []byte) error {
	var s string
	if err := json.Unmarshal(bs, &s); err != nil {
		return err
	}
	*c = NewCode(s)
	return nil
}
