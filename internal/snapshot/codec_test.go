package snapshot

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/apollo/internal/model"
)

func sampleState() State {
	s := NewState()
	s.Teams["alice"] = model.NewSolvedSet("p1", "p2")
	s.Teams["bob"] = model.NewSolvedSet()
	s.Puzzles["p1"] = model.Puzzle{Solution: "42", Value: 10}
	s.Puzzles["p2"] = model.Puzzle{Solution: "", Value: 0}
	s.Puzzles["p3"] = model.Puzzle{Solution: "x y z", Value: 4294967295}
	s.Sessions["sid-a"] = "alice"
	return s
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{"empty", NewState()},
		{"populated", sampleState()},
		{"teams without puzzles", State{
			Teams:    model.Teams{"carol": model.NewSolvedSet()},
			Puzzles:  model.Puzzles{},
			Sessions: model.Sessions{},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.state)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.state, got)
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	a, err := Encode(sampleState())
	require.NoError(t, err)
	b, err := Encode(sampleState())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDecodeNilMapsBecomeEmpty(t *testing.T) {
	data, err := Encode(State{})
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.NotNil(t, got.Teams)
	assert.NotNil(t, got.Puzzles)
	assert.NotNil(t, got.Sessions)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	data, err := cbor.Marshal(document{Version: 99})
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte{0xff, 0x00, 0x13})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeRejectsDuplicateTeams(t *testing.T) {
	data, err := cbor.Marshal(document{
		Version: FormatVersion,
		Teams: []teamRecord{
			{Username: "alice"},
			{Username: "alice"},
		},
	})
	require.NoError(t, err)

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestRoundTripNonASCII(t *testing.T) {
	s := NewState()
	s.Teams["équipe ärger"] = model.NewSolvedSet("rätsel")
	s.Puzzles["rätsel"] = model.Puzzle{Solution: "größe 🧩", Value: 3}
	s.Sessions["sid"] = "équipe ärger"

	data, err := Encode(s)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	tests := []struct {
		name  string
		state func(State)
	}{
		{"team name", func(s State) { s.Teams["team\xff"] = model.NewSolvedSet() }},
		{"solved id", func(s State) { s.Teams["alice"] = model.NewSolvedSet("p\xc3") }},
		{"puzzle id", func(s State) { s.Puzzles["p\xc3"] = model.Puzzle{Solution: "a"} }},
		{"solution", func(s State) { s.Puzzles["p1"] = model.Puzzle{Solution: "\xff\xfe"} }},
		{"session user", func(s State) { s.Sessions["sid"] = "bob\xff" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			tt.state(s)

			data, err := Encode(s)
			assert.ErrorIs(t, err, ErrInvalidText)
			assert.Nil(t, data)
		})
	}
}
