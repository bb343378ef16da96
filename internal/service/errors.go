package service

import "errors"

var (
	ErrNameRequired     = errors.New("tournament name is required")
	ErrEntryNameTooLong = errors.New("entry name exceeds 50 characters")
	ErrNotOwner         = errors.New("only the organizer can change this tournament")
	ErrEntryNotInRoster = errors.New("entry is not part of this tournament")
)

const maxEntryNameLength = 50
