package guid

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsUnique(t *testing.T) {
	seen := make(map[Guid]struct{})
	for i := 0; i < 1000; i++ {
		g := New()
		if _, ok := seen[g]; ok {
			t.Fatalf("duplicate guid %s after %d draws", g, i)
		}
		seen[g] = struct{}{}
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	g := New()
	parsed, err := Parse(g.String())
	require.NoError(t, err)
	assert.Equal(t, g, parsed)
	assert.Equal(t, g.String(), parsed.String())
}

func TestParseRejectsNonCanonical(t *testing.T) {
	g := New().String()
	inputs := []string{
		"",
		"not-a-guid",
		"{" + g + "}",
		"urn:uuid:" + g,
		strings.ReplaceAll(g, "-", ""),
		g[:35] + "z",
	}
	for _, in := range inputs {
		_, err := Parse(in)
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("Parse(%q): expected FormatError, got %v", in, err)
			continue
		}
		assert.Equal(t, in, fe.Input)
	}
}

func TestNilMarshalsToEmptyString(t *testing.T) {
	type holder struct {
		Texture Guid `json:"texture"`
	}
	data, err := json.Marshal(holder{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"texture":""}`, string(data))

	var back holder
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Texture.IsNil())
}

func TestUnmarshalTextRejectsGarbage(t *testing.T) {
	var g Guid
	err := json.Unmarshal([]byte(`"nope"`), &g)
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestCompareOrdersByString(t *testing.T) {
	a := MustParse("00000000-0000-4000-8000-000000000001")
	b := MustParse("00000000-0000-4000-8000-000000000002")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}
