package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/AdamBeresnev/arena-bracket/internal/bracket"
	"github.com/AdamBeresnev/arena-bracket/internal/live"
	"github.com/AdamBeresnev/arena-bracket/internal/store"
	"github.com/AdamBeresnev/arena-bracket/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Publisher fans bracket changes out to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, ev live.Event)
}

type MatchService struct {
	db        *sqlx.DB
	store     *store.TournamentStore
	publisher Publisher
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, publisher Publisher) *MatchService {
	return &MatchService{db: db, store: store, publisher: publisher}
}

type RecordResultInput struct {
	MatchID int       `json:"-"`
	Winner  uuid.UUID `json:"winner_id"`
	// Version, when set, must match the tournament's current version.
	Version *int `json:"version,omitempty"`
}

type ResultUpdate struct {
	TournamentID uuid.UUID         `json:"tournament_id"`
	Version      int               `json:"version"`
	Status       tournament.Status `json:"status"`
	Changed      []bracket.Match   `json:"changed"`
	Winner       *string           `json:"winner,omitempty"`
}

// RecordResult decides a match and persists every match the result touched.
// Concurrent writers are detected through the tournament version.
func (s *MatchService) RecordResult(ctx context.Context, ownerID, tournamentID uuid.UUID, in RecordResultInput) (*ResultUpdate, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	if in.Version != nil && *in.Version != t.Version {
		return nil, store.ErrVersionConflict
	}

	before, err := s.store.GetScheduleTx(ctx, tx, t.ID, t.Format)
	if err != nil {
		return nil, err
	}

	after, err := bracket.RecordResult(before, in.MatchID, in.Winner.String())
	if err != nil {
		return nil, fmt.Errorf("match %d: %w", in.MatchID, err)
	}

	changed := changedMatches(before, after)
	if err := s.store.UpdateMatches(ctx, tx, t.ID, changed); err != nil {
		return nil, fmt.Errorf("failed to update matches: %w", err)
	}

	status := tournament.StatusFor(after)
	if err := s.store.BumpVersion(ctx, tx, t.ID, t.Version, status); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	update := &ResultUpdate{
		TournamentID: t.ID,
		Version:      t.Version + 1,
		Status:       status,
		Changed:      changed,
	}
	if winner, ok := bracket.Winner(after); ok {
		update.Winner = &winner
	}

	zerolog.Ctx(ctx).Info().
		Str("tournament_id", t.ID.String()).
		Int("match_id", in.MatchID).
		Int("changed", len(changed)).
		Str("status", string(status)).
		Msg("result recorded")

	s.publish(ctx, update)
	return update, nil
}

// NextMatchForEntry finds the entry's next undecided match. A nil match
// means the entry has nothing left to play.
func (s *MatchService) NextMatchForEntry(ctx context.Context, tournamentID, entryID uuid.UUID) (*bracket.Match, error) {
	t, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	entry, err := s.store.GetEntry(ctx, t.ID, entryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotInRoster
	}
	if err != nil {
		return nil, err
	}

	schedule, err := s.store.GetSchedule(ctx, t.ID, t.Format)
	if err != nil {
		return nil, err
	}

	m, ok := bracket.NextMatch(schedule, entry.TeamID())
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MatchService) publish(ctx context.Context, update *ResultUpdate) {
	if s.publisher == nil {
		return
	}

	room := update.TournamentID.String()
	s.publisher.Publish(ctx, live.Event{Type: live.EventBracketUpdated, Room: room, Payload: update})
	if update.Status == tournament.StatusCompleted {
		s.publisher.Publish(ctx, live.Event{Type: live.EventCompleted, Room: room, Payload: update.Winner})
	}
}

func changedMatches(before, after bracket.Schedule) []bracket.Match {
	var changed []bracket.Match
	for i := range after.Matches {
		if !reflect.DeepEqual(before.Matches[i], after.Matches[i]) {
			changed = append(changed, after.Matches[i])
		}
	}
	return changed
}
