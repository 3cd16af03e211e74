package stream

// Immutable wraps a Stream snapshot whose reads return a new Immutable
// rather than mutating the receiver. Because Stream itself is a small
// value type (a string plus an int cursor), "immutability" is achieved
// simply by copying the value before each read — there is no shared
// mutable state to protect. The dispatcher uses this for the read-ahead
// it performs while ranking candidate branches, so that comparing two
// candidates never disturbs either candidate's real cursor.
type Immutable struct {
	s Stream
}

// NewImmutable snapshots raw at its current form for read-only lookahead.
func NewImmutable(raw string) Immutable {
	return Immutable{s: Stream{input: raw}}
}

// FromStream snapshots the current position of a live Stream.
func FromStream(s *Stream) Immutable {
	return Immutable{s: Stream{input: s.input, pos: s.pos}}
}

// Position returns the snapshot's cursor offset.
func (i Immutable) Position() int { return i.s.pos }

// Remaining returns the unread suffix of the snapshot.
func (i Immutable) Remaining() string { return i.s.Remaining() }

// HasRemaining reports whether any non-whitespace input remains.
func (i Immutable) HasRemaining() bool { return i.s.HasRemaining() }

// Peek returns the next code point without advancing.
func (i Immutable) Peek() (rune, bool) { return i.s.Peek() }

// SkipWhitespace returns a new Immutable positioned past any run of
// whitespace, leaving the receiver untouched.
func (i Immutable) SkipWhitespace() Immutable {
	fork := i.s
	fork.SkipWhitespace()
	return Immutable{s: fork}
}

// ReadUnquotedString returns the next token and a new Immutable
// positioned after it, leaving the receiver untouched.
func (i Immutable) ReadUnquotedString() (string, Immutable, error) {
	fork := i.s
	tok, err := fork.ReadUnquotedString()
	return tok, Immutable{s: fork}, err
}

// ReadString is the quoted-aware counterpart of ReadUnquotedString.
func (i Immutable) ReadString() (string, Immutable, error) {
	fork := i.s
	tok, err := fork.ReadString()
	return tok, Immutable{s: fork}, err
}
