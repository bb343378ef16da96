package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AdamBeresnev/arena-bracket/internal/bracket"
)

type EntryInput struct {
	Name string `json:"name"`
}

// ParseRoster turns a pasted roster, one entry per line, into entry inputs.
func ParseRoster(text string) []EntryInput {
	var entries []EntryInput
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			entries = append(entries, EntryInput{Name: name})
		}
	}
	return entries
}

// cleanEntries trims names and drops blank rows. Names must be unique
// within a tournament.
func cleanEntries(inputs []EntryInput) ([]string, error) {
	names := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > maxEntryNameLength {
			return nil, fmt.Errorf("%w: %q", ErrEntryNameTooLong, name)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", bracket.ErrDuplicateTeam, name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
