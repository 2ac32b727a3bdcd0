package catalog

import (
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaddyGuthridge/bnuuy-time-mvp/internal/clock"
)

// entry builds a realizable entry for a dial position.
func entry(filename string, hour, minute int) Entry {
	return Entry{
		Filename: filename,
		Angles:   clock.AngleOf(clock.Query{Hour: hour, Minute: minute}),
	}
}

func TestNew_KeepsOrderAndLooksUp(t *testing.T) {
	c, err := New([]Entry{
		entry("a.jpg", 0, 0),
		entry("b.jpg", 6, 30),
		entry("c.jpg", 9, 45),
	})
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	names := []string{}
	for _, e := range c.Entries() {
		names = append(names, e.Filename)
	}
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, names)

	got, ok := c.LookupByFilename("b.jpg")
	require.True(t, ok)
	assert.InDelta(t, 195, got.EarAngleHour(), 1e-9)
	assert.InDelta(t, 180, got.EarAngleMinute(), 1e-9)

	_, ok = c.LookupByFilename("missing.jpg")
	assert.False(t, ok)
}

func TestNew_NormalizesAngles(t *testing.T) {
	c, err := New([]Entry{
		{Filename: "wrapped.jpg", Angles: clock.Angles{Hour: 360, Minute: -360}},
		{Filename: "negative.jpg", Angles: clock.Angles{Hour: -67.5, Minute: 270}},
	})
	require.NoError(t, err)

	c.Angles(func(i int, a clock.Angles) {
		assert.GreaterOrEqual(t, a.Hour, 0.0)
		assert.Less(t, a.Hour, 360.0)
		assert.GreaterOrEqual(t, a.Minute, 0.0)
		assert.Less(t, a.Minute, 360.0)
	})
	assert.Equal(t, clock.Angles{Hour: 0, Minute: 0}, c.At(0).Angles)
	assert.Equal(t, clock.Angles{Hour: 292.5, Minute: 270}, c.At(1).Angles)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		entries  []Entry
		kind     ErrorKind
		sentinel error
	}{
		{"empty", nil, KindEmpty, ErrEmpty},
		{"missing filename", []Entry{entry("", 1, 0)}, KindMissingFilename, ErrMissingFilename},
		{"duplicate", []Entry{entry("x.jpg", 1, 0), entry("x.jpg", 2, 0)}, KindDuplicateFilename, ErrDuplicateFilename},
		{"nan", []Entry{{Filename: "nan.jpg", Angles: clock.Angles{Hour: math.NaN()}}}, KindInvalidAngle, ErrInvalidAngle},
		{"inf", []Entry{{Filename: "inf.jpg", Angles: clock.Angles{Minute: math.Inf(-1)}}}, KindInvalidAngle, ErrInvalidAngle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.entries)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
			assert.ErrorIs(t, err, tt.sentinel)

			var ce *CatalogError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.kind, ce.Kind)
		})
	}
}

func TestVerify_Unrealizable(t *testing.T) {
	entries := []Entry{
		entry("fine.jpg", 4, 20),
		{Filename: "odd.jpg", Angles: clock.Angles{Hour: 90, Minute: 180}},
	}

	// matching works on any angle pair
	c, err := New(entries)
	require.NoError(t, err)

	err = c.Verify()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnrealizable))
	assert.ErrorIs(t, err, ErrUnrealizable)
	assert.Contains(t, err.Error(), `"odd.jpg"`)

	// startup loading refuses it
	_, err = Load(Static(entries))
	assert.ErrorIs(t, err, ErrUnrealizable)

	_, err = Load(Static(entries[:1]))
	assert.NoError(t, err)
}

func TestCatalogError_Message(t *testing.T) {
	_, err := New([]Entry{entry("x.jpg", 1, 0), entry("x.jpg", 2, 0)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DUPLICATE_FILENAME")
	assert.Contains(t, err.Error(), `"x.jpg"`)
	assert.Contains(t, err.Error(), "entry #0")
}

func TestCatalog_DoesNotShareState(t *testing.T) {
	src := &Attribution{Author: "Maddy"}
	input := []Entry{entry("a.jpg", 3, 0)}
	input[0].Source = src
	input[0].Name = ChoiceName("Pip", "Squeak")

	c, err := New(input)
	require.NoError(t, err)

	src.Author = "changed"
	got, _ := c.LookupByFilename("a.jpg")
	assert.Equal(t, "Maddy", got.Source.Author)

	got.Source.Author = "also changed"
	again, _ := c.LookupByFilename("a.jpg")
	assert.Equal(t, "Maddy", again.Source.Author)
}

func TestLoad_WrapsSourceErrors(t *testing.T) {
	_, err := Load(FileSource{Path: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSource))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Embedded(t *testing.T) {
	c, err := Load(Embedded())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, c.Len(), 10)

	biscuit, ok := c.LookupByFilename("biscuit-loaf.jpg")
	require.True(t, ok)
	assert.Equal(t, NameSingle, biscuit.Name.Kind())
	require.NotNil(t, biscuit.Source)
	assert.Equal(t, "Maddy Guthridge", biscuit.Source.Author)

	pair, ok := c.LookupByFilename("pip-and-squeak.jpg")
	require.True(t, ok)
	assert.Equal(t, NameChoice, pair.Name.Kind())
	assert.Equal(t, []string{"Pip", "Squeak"}, pair.Name.Candidates())

	anon, ok := c.LookupByFilename("garden-visitor.jpg")
	require.True(t, ok)
	assert.Equal(t, NameNone, anon.Name.Kind())
	assert.Equal(t, FocusPoint{X: DefaultFocus, Y: DefaultFocus}, anon.FocusOrDefault())
}

func TestFileSource_RoundTrip(t *testing.T) {
	entries, err := Embedded().Load()
	require.NoError(t, err)

	data, err := EncodeTOML(entries)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "buns.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	reloaded, err := FileSource{Path: path}.Load()
	require.NoError(t, err)
	assert.Equal(t, entries, reloaded)
}

func TestParseTOML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad name type", "[[bun]]\nfilename = \"a.jpg\"\nname = 3\n"},
		{"bad name list", "[[bun]]\nfilename = \"a.jpg\"\nname = [\"a\", 2]\n"},
		{"unknown key", "[[bun]]\nfilename = \"a.jpg\"\nears = 2\n"},
		{"not toml", "[[bun"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTOML([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestName_Resolve(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	assert.Equal(t, "Biscuit", SingleName("Biscuit").Resolve(rng))

	choice := ChoiceName("Pip", "Squeak")
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[choice.Resolve(rng)] = true
	}
	assert.Equal(t, map[string]bool{"Pip": true, "Squeak": true}, seen)

	for i := 0; i < 50; i++ {
		assert.Contains(t, FallbackNames, NoName().Resolve(rng))
	}

	assert.Equal(t, NameNone, ChoiceName().Kind())
	assert.Equal(t, "Pip / Squeak", choice.String())
	assert.Equal(t, "", NoName().String())
}

func TestName_BlankIsNoName(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	assert.Equal(t, NameNone, SingleName("").Kind())
	assert.Equal(t, NameNone, SingleName("   ").Kind())
	assert.Equal(t, NameNone, ChoiceName("", " ").Kind())

	pip := ChoiceName("", "Pip", "  ")
	assert.Equal(t, NameChoice, pip.Kind())
	assert.Equal(t, []string{"Pip"}, pip.Candidates())
	assert.Equal(t, "Pip", pip.Resolve(rng))

	for i := 0; i < 20; i++ {
		assert.Contains(t, FallbackNames, SingleName("").Resolve(rng))
	}
}

func TestParseTOML_BlankNames(t *testing.T) {
	doc := `
[[bun]]
filename = "blank.jpg"
name = ""
hour = 0.0
minute = 0.0

[[bun]]
filename = "blanks.jpg"
name = ["", ""]
hour = 30.0
minute = 0.0

[[bun]]
filename = "mixed.jpg"
name = ["", "Squeak"]
hour = 60.0
minute = 0.0
`
	entries, err := ParseTOML([]byte(doc))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, NameNone, entries[0].Name.Kind())
	assert.Equal(t, NameNone, entries[1].Name.Kind())
	assert.Equal(t, []string{"Squeak"}, entries[2].Name.Candidates())
}
