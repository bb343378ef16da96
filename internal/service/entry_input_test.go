package service

import (
	"strings"
	"testing"

	"github.com/AdamBeresnev/arena-bracket/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoster(t *testing.T) {
	entries := ParseRoster("  Alpha \n\nBravo\r\n   \nCharlie")
	assert.Equal(t, []EntryInput{{Name: "Alpha"}, {Name: "Bravo"}, {Name: "Charlie"}}, entries)
	assert.Empty(t, ParseRoster(" \n "))
}

func TestCleanEntries(t *testing.T) {
	names, err := cleanEntries([]EntryInput{{Name: " A "}, {Name: ""}, {Name: "B"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)

	_, err = cleanEntries([]EntryInput{{Name: "A"}, {Name: "A "}})
	assert.ErrorIs(t, err, bracket.ErrDuplicateTeam)

	_, err = cleanEntries([]EntryInput{{Name: strings.Repeat("x", 51)}})
	assert.ErrorIs(t, err, ErrEntryNameTooLong)
}
