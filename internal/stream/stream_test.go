package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lamp/pkg/lamperr"
)

func TestReadUnquotedString(t *testing.T) {
	s := New("hello world")
	tok, err := s.ReadUnquotedString()
	require.NoError(t, err)
	assert.Equal(t, "hello", tok)
	s.SkipWhitespace()
	tok, err = s.ReadUnquotedString()
	require.NoError(t, err)
	assert.Equal(t, "world", tok)
}

func TestReadStringQuotedRoundTrip(t *testing.T) {
	cases := []string{
		`hello world`,
		`with \"escaped\" quotes`,
		`back\\slash`,
	}
	for _, want := range cases {
		encoded := `"` + escapeForQuoting(want) + `"`
		s := New(encoded)
		got, err := s.ReadString()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func escapeForQuoting(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}

func TestReadStringUnterminated(t *testing.T) {
	s := New(`"unterminated`)
	_, err := s.ReadString()
	require.Error(t, err)
	var de *lamperr.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, lamperr.KindInvalidValue, de.Kind)
}

func TestReadIntAndOverflow(t *testing.T) {
	s := New("42 remainder")
	n, err := s.ReadInt()
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	s2 := New("99999999999999999999")
	_, err = s2.ReadInt()
	require.Error(t, err)
	var de *lamperr.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, lamperr.KindNumberOutOfRange, de.Kind)
}

func TestReadIntInvalid(t *testing.T) {
	s := New("notanumber")
	_, err := s.ReadInt()
	require.Error(t, err)
	var de *lamperr.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, lamperr.KindInvalidNumber, de.Kind)
}

func TestReadBoolean(t *testing.T) {
	s := New("TrUe")
	b, err := s.ReadBoolean()
	require.NoError(t, err)
	assert.True(t, b)

	s2 := New("nope")
	_, err = s2.ReadBoolean()
	require.Error(t, err)
}

func TestReadRemainingNeverFails(t *testing.T) {
	s := New("")
	assert.Equal(t, "", s.ReadRemaining())

	s2 := New("a b c")
	assert.Equal(t, "a b c", s2.ReadRemaining())
	assert.False(t, s2.HasRemaining())
}

func TestPositionForkAndRewind(t *testing.T) {
	s := New("one two three")
	_, _ = s.ReadUnquotedString()
	mark := s.Position()
	s.SkipWhitespace()
	_, _ = s.ReadUnquotedString()
	s.SetPosition(mark)
	assert.Equal(t, mark, s.Position())
	assert.Equal(t, " two three", s.Remaining())
}

func TestExpectedInputAtEOF(t *testing.T) {
	s := New("")
	_, err := s.ReadInt()
	require.Error(t, err)
	var de *lamperr.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, lamperr.KindExpectedInput, de.Kind)
}

func TestImmutableDoesNotMutateReceiver(t *testing.T) {
	s := New("alpha beta")
	im := FromStream(s)
	tok, next, err := im.ReadUnquotedString()
	require.NoError(t, err)
	assert.Equal(t, "alpha", tok)
	assert.Equal(t, 0, im.Position())
	assert.Equal(t, 5, next.Position())
	assert.Equal(t, 0, s.Position())
}
