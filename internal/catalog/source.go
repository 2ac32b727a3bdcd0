package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
)

//go:embed buns.toml
var embeddedBuns []byte

// bunFile mirrors the on-disk TOML layout:
//
//	[[bun]]
//	filename = "biscuit.jpg"
//	name = "Biscuit"            # or ["Pip", "Squeak"], or omitted
//	hour = 97.5
//	minute = 90.0
//	focus = { x = 0.5, y = 0.3 }
//	source = { author = "...", url = "...", platform = "instagram" }
type bunFile struct {
	Buns []bunRecord `toml:"bun"`
}

type bunRecord struct {
	Filename string       `toml:"filename"`
	Name     any          `toml:"name,omitempty"`
	Hour     float64      `toml:"hour"`
	Minute   float64      `toml:"minute"`
	Focus    *focusRecord `toml:"focus,omitempty"`
	Source   *Attribution `toml:"source,omitempty"`
}

type focusRecord struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// FileSource reads a TOML catalog from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return ParseTOML(data)
}

func (s FileSource) Describe() string { return "file " + s.Path }

type embeddedSource struct{}

// Embedded is the catalog compiled into the binary.
func Embedded() Source { return embeddedSource{} }

func (embeddedSource) Load() ([]Entry, error) { return ParseTOML(embeddedBuns) }

func (embeddedSource) Describe() string { return "embedded buns.toml" }

type staticSource []Entry

// Static serves entries that are already in memory.
func Static(entries []Entry) Source { return staticSource(entries) }

func (s staticSource) Load() ([]Entry, error) { return []Entry(s), nil }

func (s staticSource) Describe() string { return fmt.Sprintf("%d static entries", len(s)) }

// ParseTOML decodes a catalog document. Unknown keys are rejected so typos in
// hand-edited files surface at startup.
func ParseTOML(data []byte) ([]Entry, error) {
	var doc bunFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding catalog toml: %w", err)
	}

	entries := make([]Entry, 0, len(doc.Buns))
	for i, rec := range doc.Buns {
		name, err := parseName(rec.Name)
		if err != nil {
			return nil, fmt.Errorf("bun #%d (%s): %w", i, rec.Filename, err)
		}
		e := Entry{
			Filename: rec.Filename,
			Name:     name,
			Angles:   clock.Angles{Hour: rec.Hour, Minute: rec.Minute},
			Source:   rec.Source,
		}
		if rec.Focus != nil {
			e.Focus = &FocusPoint{X: rec.Focus.X, Y: rec.Focus.Y}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// EncodeTOML writes entries back out in the layout ParseTOML reads.
func EncodeTOML(entries []Entry) ([]byte, error) {
	doc := bunFile{Buns: make([]bunRecord, len(entries))}
	for i, e := range entries {
		rec := bunRecord{
			Filename: e.Filename,
			Hour:     e.Angles.Hour,
			Minute:   e.Angles.Minute,
			Source:   e.Source,
		}
		switch e.Name.Kind() {
		case NameSingle:
			rec.Name = e.Name.Candidates()[0]
		case NameChoice:
			rec.Name = e.Name.Candidates()
		}
		if e.Focus != nil {
			rec.Focus = &focusRecord{X: e.Focus.X, Y: e.Focus.Y}
		}
		doc.Buns[i] = rec
	}
	return toml.Marshal(doc)
}

func parseName(raw any) (Name, error) {
	switch v := raw.(type) {
	case nil:
		return NoName(), nil
	case string:
		return SingleName(v), nil
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return Name{}, fmt.Errorf("name list holds %T, want string", item)
			}
			names = append(names, s)
		}
		return ChoiceName(names...), nil
	default:
		return Name{}, fmt.Errorf("name is %T, want string or list of strings", raw)
	}
}
