package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAt(t *testing.T) {
	p := MustCompile(`\\.`, 0)
	text := []rune(`a\nb\tc`)

	m, ok := p.FindAt(text, 0)
	require.True(t, ok)
	assert.Equal(t, Match{Index: 1, Length: 2}, m)
	assert.Equal(t, 3, m.End())

	m, ok = p.FindAt(text, m.End())
	require.True(t, ok)
	assert.Equal(t, Match{Index: 4, Length: 2}, m)

	_, ok = p.FindAt(text, 6)
	assert.False(t, ok)
}

func TestFindAtUsesRuneOffsets(t *testing.T) {
	p := MustCompile(`b`, 0)
	m, ok := p.FindAt([]rune("ééb"), 0)
	require.True(t, ok)
	assert.Equal(t, Match{Index: 2, Length: 1}, m)
}

func TestFindAtOutOfRange(t *testing.T) {
	p := MustCompile(`x*`, 0)
	_, ok := p.FindAt([]rune("abc"), 4)
	assert.False(t, ok)
	_, ok = p.FindAt([]rune("abc"), -1)
	assert.False(t, ok)
	m, ok := p.FindAt([]rune("abc"), 3)
	require.True(t, ok, "empty match at end of text")
	assert.Equal(t, Match{Index: 3}, m)
}

func TestIgnoreCase(t *testing.T) {
	p := MustCompile(`abc`, IgnoreCase)
	m, ok := p.FindAt([]rune("xxABC"), 0)
	require.True(t, ok)
	assert.Equal(t, 2, m.Index)
	assert.Equal(t, "/abc/i", p.Source())
}

func TestCompileError(t *testing.T) {
	_, err := Compile(`[abc`, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pattern: compile "[abc"`)
}

func TestEqual(t *testing.T) {
	a := MustCompile(`\d+`, 0)
	b := MustCompile(`\d+`, 0)
	c := MustCompile(`\d+`, Multiline)
	var nilPattern *Pattern

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(a, nil))
	assert.True(t, Equal(nil, nilPattern))
	assert.True(t, IsNil(nilPattern))
}

func TestOptionsRoundTrip(t *testing.T) {
	o := IgnoreCase | Singleline | ExplicitCapture
	assert.Equal(t, "isn", o.String())
	parsed, err := ParseOptions(o.String())
	require.NoError(t, err)
	assert.Equal(t, o, parsed)

	_, err = ParseOptions("iq")
	assert.Error(t, err)
}

func TestCacheSharesPatterns(t *testing.T) {
	c := NewCache(0)
	a, err := c.Compile(`\w+`, 0)
	require.NoError(t, err)
	b, err := c.Compile(`\w+`, 0)
	require.NoError(t, err)
	assert.Same(t, a, b)

	d, err := c.Compile(`\w+`, IgnoreCase)
	require.NoError(t, err)
	assert.NotSame(t, a, d)
	assert.Equal(t, 2, c.Len())

	_, err = c.Compile(`(`, 0)
	assert.Error(t, err)
	assert.Equal(t, 2, c.Len())

	c.Flush()
	assert.Equal(t, 0, c.Len())
}
