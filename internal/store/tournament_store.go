package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/AdamBeresnev/arena-bracket/internal/bracket"
	"github.com/AdamBeresnev/arena-bracket/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrVersionConflict is returned when a tournament changed between reading
// its schedule and writing the result back.
var ErrVersionConflict = errors.New("tournament was modified concurrently")

type TournamentStore struct {
	db *sqlx.DB
}

const (
	createTournamentQuery = `
		INSERT INTO tournaments (id, owner_id, name, format, status, version, share_code, created_at)
		VALUES (:id, :owner_id, :name, :format, :status, :version, :share_code, :created_at)
	`
	createEntriesQuery = `
		INSERT INTO entries (id, tournament_id, name, seed)
		VALUES (:id, :tournament_id, :name, :seed)
	`
	createMatchesQuery = `
		INSERT INTO matches (tournament_id, match_id, side, round, match_number, team_1, team_2, winner,
			next_match_id, loser_next_match_id, is_bye, skipped)
		VALUES (:tournament_id, :match_id, :side, :round, :match_number, :team_1, :team_2, :winner,
			:next_match_id, :loser_next_match_id, :is_bye, :skipped)
	`
	updateMatchQuery = `
		UPDATE matches SET
		team_1 = :team_1,
		team_2 = :team_2,
		winner = :winner,
		is_bye = :is_bye,
		skipped = :skipped
		WHERE tournament_id = :tournament_id AND match_id = :match_id
	`
	bumpVersionQuery = `
		UPDATE tournaments SET version = version + 1, status = ?
		WHERE id = ? AND version = ?
	`
	getTournamentQuery            = "SELECT * FROM tournaments WHERE id = ?"
	getTournamentByShareCodeQuery = "SELECT * FROM tournaments WHERE share_code = ?"
	getTournamentsByOwnerQuery    = "SELECT * FROM tournaments WHERE owner_id = ? ORDER BY created_at DESC"
	getEntriesQuery               = "SELECT * FROM entries WHERE tournament_id = ? ORDER BY seed ASC"
	getEntryQuery                 = "SELECT * FROM entries WHERE tournament_id = ? AND id = ?"
	getMatchesQuery               = "SELECT * FROM matches WHERE tournament_id = ? ORDER BY match_id ASC"
)

// matchRow is a schedule match keyed by the tournament it belongs to.
type matchRow struct {
	TournamentID uuid.UUID `db:"tournament_id"`
	bracket.Match
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament) error {
	_, err := tx.NamedExecContext(ctx, createTournamentQuery, t)
	return err
}

func (s *TournamentStore) CreateEntries(ctx context.Context, tx *sqlx.Tx, entries []tournament.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, createEntriesQuery, entries)
	return err
}

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, createMatchesQuery, toRows(tournamentID, matches))
	return err
}

// UpdateMatches writes back the mutable columns of each match. The
// structure of a schedule never changes after generation.
func (s *TournamentStore) UpdateMatches(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, matches []bracket.Match) error {
	stmt, err := tx.PrepareNamedContext(ctx, updateMatchQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range toRows(tournamentID, matches) {
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("update match %d: %w", row.ID, err)
		}
	}
	return nil
}

// BumpVersion moves the tournament to the next version and status, provided
// nobody else got there first.
func (s *TournamentStore) BumpVersion(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, expected int, status tournament.Status) error {
	res, err := tx.ExecContext(ctx, bumpVersionQuery, status, id, expected)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error) {
	return getTournament(ctx, s.db, getTournamentQuery, id)
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*tournament.Tournament, error) {
	return getTournament(ctx, tx, getTournamentQuery, id)
}

func (s *TournamentStore) GetTournamentByShareCode(ctx context.Context, code string) (*tournament.Tournament, error) {
	return getTournament(ctx, s.db, getTournamentByShareCodeQuery, code)
}

func (s *TournamentStore) GetTournamentsByOwner(ctx context.Context, ownerID uuid.UUID) ([]tournament.Tournament, error) {
	var tournaments []tournament.Tournament
	err := s.db.SelectContext(ctx, &tournaments, getTournamentsByOwnerQuery, ownerID)
	return tournaments, err
}

func (s *TournamentStore) GetEntries(ctx context.Context, tournamentID uuid.UUID) ([]tournament.Entry, error) {
	var entries []tournament.Entry
	err := s.db.SelectContext(ctx, &entries, getEntriesQuery, tournamentID)
	return entries, err
}

func (s *TournamentStore) GetEntry(ctx context.Context, tournamentID, entryID uuid.UUID) (*tournament.Entry, error) {
	var entry tournament.Entry
	if err := s.db.GetContext(ctx, &entry, getEntryQuery, tournamentID, entryID); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *TournamentStore) GetSchedule(ctx context.Context, tournamentID uuid.UUID, format bracket.Format) (bracket.Schedule, error) {
	return getSchedule(ctx, s.db, tournamentID, format)
}

func (s *TournamentStore) GetScheduleTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, format bracket.Format) (bracket.Schedule, error) {
	return getSchedule(ctx, tx, tournamentID, format)
}

func getTournament(ctx context.Context, q sqlx.QueryerContext, query string, arg any) (*tournament.Tournament, error) {
	var t tournament.Tournament
	if err := sqlx.GetContext(ctx, q, &t, query, arg); err != nil {
		return nil, err
	}
	return &t, nil
}

func getSchedule(ctx context.Context, q sqlx.QueryerContext, tournamentID uuid.UUID, format bracket.Format) (bracket.Schedule, error) {
	var rows []matchRow
	if err := sqlx.SelectContext(ctx, q, &rows, getMatchesQuery, tournamentID); err != nil {
		return bracket.Schedule{}, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	s := bracket.Schedule{Format: format, Matches: make([]bracket.Match, len(rows))}
	for i, row := range rows {
		s.Matches[i] = row.Match
	}
	if err := s.Validate(); err != nil {
		return bracket.Schedule{}, fmt.Errorf("load schedule %s: %w", tournamentID, err)
	}
	return s, nil
}

func toRows(tournamentID uuid.UUID, matches []bracket.Match) []matchRow {
	rows := make([]matchRow, len(matches))
	for i, m := range matches {
		rows[i] = matchRow{TournamentID: tournamentID, Match: m}
	}
	return rows
}
