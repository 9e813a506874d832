// Package snapshot serializes the full competition state to a compact,
// schema-stable binary form.
//
// The format is CBOR with every record encoded as a fixed-order array (no
// field names, no type registry). Records are sorted by key so equal states
// always encode to equal bytes. The first element of the document is the
// format version; decoders reject versions they do not know.
package snapshot

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"

	"github.com/mcoot/apollo/internal/model"
)

// FormatVersion is the current document version
const FormatVersion uint = 1

// Errors
var (
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrMalformed          = errors.New("malformed snapshot")
	ErrInvalidText        = errors.New("snapshot text is not valid UTF-8")
)

// State is everything that survives a restart
type State struct {
	Teams    model.Teams
	Puzzles  model.Puzzles
	Sessions model.Sessions
}

// NewState returns an empty state with non-nil maps
func NewState() State {
	return State{
		Teams:    make(model.Teams),
		Puzzles:  make(model.Puzzles),
		Sessions: make(model.Sessions),
	}
}

type document struct {
	_        struct{} `cbor:",toarray"`
	Version  uint
	Teams    []teamRecord
	Puzzles  []puzzleRecord
	Sessions []sessionRecord
}

type teamRecord struct {
	_        struct{} `cbor:",toarray"`
	Username string
	Solved   []string
}

type puzzleRecord struct {
	_        struct{} `cbor:",toarray"`
	ID       string
	Solution string
	Value    uint32
}

type sessionRecord struct {
	_        struct{} `cbor:",toarray"`
	ID       string
	Username string
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: cbor enc mode: %v", err))
	}
	decMode, err = cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: cbor dec mode: %v", err))
	}
}

// Encode serializes a state. Every string must be valid UTF-8, since CBOR
// text strings that are not cannot be decoded again.
func Encode(s State) ([]byte, error) {
	if err := checkText(s); err != nil {
		return nil, err
	}

	doc := document{
		Version:  FormatVersion,
		Teams:    make([]teamRecord, 0, len(s.Teams)),
		Puzzles:  make([]puzzleRecord, 0, len(s.Puzzles)),
		Sessions: make([]sessionRecord, 0, len(s.Sessions)),
	}

	for name, solved := range s.Teams {
		ids := make([]string, 0, len(solved))
		for _, id := range solved.Sorted() {
			ids = append(ids, string(id))
		}
		doc.Teams = append(doc.Teams, teamRecord{Username: name, Solved: ids})
	}
	slices.SortFunc(doc.Teams, func(a, b teamRecord) int { return cmp.Compare(a.Username, b.Username) })

	for id, p := range s.Puzzles {
		doc.Puzzles = append(doc.Puzzles, puzzleRecord{ID: string(id), Solution: p.Solution, Value: uint32(p.Value)})
	}
	slices.SortFunc(doc.Puzzles, func(a, b puzzleRecord) int { return cmp.Compare(a.ID, b.ID) })

	for sid, name := range s.Sessions {
		doc.Sessions = append(doc.Sessions, sessionRecord{ID: string(sid), Username: name})
	}
	slices.SortFunc(doc.Sessions, func(a, b sessionRecord) int { return cmp.Compare(a.ID, b.ID) })

	data, err := encMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses bytes produced by Encode. The returned maps are never nil.
func Decode(data []byte) (State, error) {
	var doc document
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if doc.Version != FormatVersion {
		return State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	s := NewState()
	for _, t := range doc.Teams {
		if _, dup := s.Teams[t.Username]; dup {
			return State{}, fmt.Errorf("%w: duplicate team %q", ErrMalformed, t.Username)
		}
		solved := make(model.SolvedSet, len(t.Solved))
		for _, id := range t.Solved {
			solved[model.PuzzleID(id)] = struct{}{}
		}
		s.Teams[t.Username] = solved
	}
	for _, p := range doc.Puzzles {
		id := model.PuzzleID(p.ID)
		if _, dup := s.Puzzles[id]; dup {
			return State{}, fmt.Errorf("%w: duplicate puzzle %q", ErrMalformed, p.ID)
		}
		s.Puzzles[id] = model.Puzzle{Solution: p.Solution, Value: model.PuzzleValue(p.Value)}
	}
	for _, sess := range doc.Sessions {
		sid := model.SessionID(sess.ID)
		if _, dup := s.Sessions[sid]; dup {
			return State{}, fmt.Errorf("%w: duplicate session", ErrMalformed)
		}
		s.Sessions[sid] = sess.Username
	}
	return s, nil
}

func checkText(s State) error {
	for name, solved := range s.Teams {
		if !utf8.ValidString(name) {
			return fmt.Errorf("%w: team %q", ErrInvalidText, name)
		}
		for id := range solved {
			if !utf8.ValidString(string(id)) {
				return fmt.Errorf("%w: solved puzzle %q of team %q", ErrInvalidText, id, name)
			}
		}
	}
	for id, p := range s.Puzzles {
		if !utf8.ValidString(string(id)) {
			return fmt.Errorf("%w: puzzle %q", ErrInvalidText, id)
		}
		if !utf8.ValidString(p.Solution) {
			return fmt.Errorf("%w: solution of puzzle %q", ErrInvalidText, id)
		}
	}
	for sid, name := range s.Sessions {
		if !utf8.ValidString(string(sid)) || !utf8.ValidString(name) {
			return fmt.Errorf("%w: session of %q", ErrInvalidText, name)
		}
	}
	return nil
}
