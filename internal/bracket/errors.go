package bracket

import "errors"

var (
	// Generation
	ErrInsufficientParticipants = errors.New("at least two teams are required")
	ErrUnsupportedFormat        = errors.New("unsupported tournament format")
	ErrInvalidTeam              = errors.New("team identifier must not be empty")
	ErrDuplicateTeam            = errors.New("duplicate team identifier")

	// Result recording
	ErrMatchNotFound = errors.New("match not found")
	ErrInvalidWinner = errors.New("invalid winner")

	ErrInvalidSchedule = errors.New("invalid schedule")
)
