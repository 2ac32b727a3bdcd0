package catalog

import "strings"

// NameKind tags which shape a Name has.
type NameKind int

const (
	NameNone NameKind = iota
	NameSingle
	NameChoice
)

func (k NameKind) String() string {
	switch k {
	case NameNone:
		return "none"
	case NameSingle:
		return "single"
	case NameChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// FallbackNames are drawn from when a bunny has no name of its own.
var FallbackNames = []string{"Bun", "Bunny", "Bnuuy"}

// Name is a bunny's display name: absent, one fixed name, or a set of
// candidates of which one is picked each time the photo is shown.
// Matching never looks at it.
type Name struct {
	kind    NameKind
	choices []string
}

// Picker is the randomness Resolve needs.
type Picker interface {
	IntN(n int) int
}

// NoName is the absent name.
func NoName() Name { return Name{} }

// SingleName is a fixed name. A blank name is NoName.
func SingleName(s string) Name {
	if strings.TrimSpace(s) == "" {
		return NoName()
	}
	return Name{kind: NameSingle, choices: []string{s}}
}

// ChoiceName is a set of candidate names. Blank candidates are dropped, and
// an empty set is NoName.
func ChoiceName(names ...string) Name {
	choices := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			choices = append(choices, n)
		}
	}
	if len(choices) == 0 {
		return NoName()
	}
	return Name{kind: NameChoice, choices: choices}
}

func (n Name) Kind() NameKind { return n.kind }

func (n Name) clone() Name {
	n.choices = append([]string(nil), n.choices...)
	return n
}

// Candidates lists the names Resolve can return, without the fallbacks.
func (n Name) Candidates() []string {
	return append([]string(nil), n.choices...)
}

// Resolve draws a concrete name.
func (n Name) Resolve(rng Picker) string {
	switch n.kind {
	case NameSingle:
		return n.choices[0]
	case NameChoice:
		return n.choices[rng.IntN(len(n.choices))]
	default:
		return FallbackNames[rng.IntN(len(FallbackNames))]
	}
}

func (n Name) String() string {
	switch n.kind {
	case NameSingle:
		return n.choices[0]
	case NameChoice:
		return strings.Join(n.choices, " / ")
	default:
		return ""
	}
}
