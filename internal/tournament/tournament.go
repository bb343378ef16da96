// Package tournament holds the persisted records that wrap a bracket
// schedule: the tournament itself and the entries taking part in it.
package tournament

import (
	"time"

	"github.com/AdamBeresnev/arena-bracket/internal/bracket"
	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
)

type Tournament struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	OwnerID   uuid.UUID      `db:"owner_id" json:"owner_id"`
	Name      string         `db:"name" json:"name"`
	Format    bracket.Format `db:"format" json:"format"`
	Status    Status         `db:"status" json:"status"`
	Version   int            `db:"version" json:"version"`
	ShareCode string         `db:"share_code" json:"share_code"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Entry is a participant. The bracket refers to it by TeamID.
type Entry struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`
	Name         string    `db:"name" json:"name"`
	Seed         int       `db:"seed" json:"seed"`
}

func (e Entry) TeamID() string {
	return e.ID.String()
}

// StatusFor derives the lifecycle status from the state of a schedule.
func StatusFor(s bracket.Schedule) Status {
	if bracket.IsComplete(s) {
		return StatusCompleted
	}
	for _, m := range s.Matches {
		if m.Winner != nil && !m.IsBye {
			return StatusStarted
		}
	}
	return StatusDraft
}
