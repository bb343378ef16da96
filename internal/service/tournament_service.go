package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/arena-bracket/internal/bracket"
	"github.com/AdamBeresnev/arena-bracket/internal/store"
	"github.com/AdamBeresnev/arena-bracket/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// Share codes avoid characters that are easy to misread.
const shareCodeAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"

type TournamentService struct {
	db              *sqlx.DB
	store           *store.TournamentStore
	shareCodeLength int
	seeding         []bracket.Option
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, shareCodeLength int) *TournamentService {
	return &TournamentService{db: db, store: store, shareCodeLength: shareCodeLength}
}

// WithSeeding sets bracket options applied to every shuffled draw.
func (s *TournamentService) WithSeeding(opts ...bracket.Option) *TournamentService {
	s.seeding = opts
	return s
}

type CreateTournamentInput struct {
	Name    string         `json:"name"`
	Format  bracket.Format `json:"format"`
	Entries []EntryInput   `json:"entries"`
	// Roster is an alternative to Entries: one name per line.
	Roster string `json:"roster"`
	// Seeded keeps the entry order as the seeding instead of drawing.
	Seeded bool `json:"seeded"`
}

type TournamentData struct {
	Tournament *tournament.Tournament `json:"tournament"`
	Entries    []tournament.Entry     `json:"entries"`
	Schedule   bracket.Schedule       `json:"-"`
	Layout     bracket.Layout         `json:"layout"`
	Standings  []bracket.Standing     `json:"standings"`
	Complete   bool                   `json:"complete"`
	Winner     *tournament.Entry      `json:"winner,omitempty"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, ownerID uuid.UUID, in CreateTournamentInput) (*tournament.Tournament, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !in.Format.Valid() {
		return nil, fmt.Errorf("%w: %q", bracket.ErrUnsupportedFormat, in.Format)
	}

	inputs := in.Entries
	if len(inputs) == 0 {
		inputs = ParseRoster(in.Roster)
	}
	names, err := cleanEntries(inputs)
	if err != nil {
		return nil, err
	}

	t := &tournament.Tournament{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Format:    in.Format,
		Status:    tournament.StatusDraft,
		CreatedAt: time.Now().UTC(),
	}
	t.ShareCode, err = gonanoid.Generate(shareCodeAlphabet, s.shareCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate share code: %w", err)
	}

	entries := make([]tournament.Entry, len(names))
	teams := make([]string, len(names))
	for i, n := range names {
		entries[i] = tournament.Entry{ID: uuid.New(), TournamentID: t.ID, Name: n, Seed: i + 1}
		teams[i] = entries[i].TeamID()
	}

	opts := s.seeding
	if in.Seeded {
		opts = append(opts[:len(opts):len(opts)], bracket.WithRosterSeeding())
	}
	schedule, err := bracket.Generate(teams, t.Format, opts...)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	if err := s.store.CreateEntries(ctx, tx, entries); err != nil {
		return nil, fmt.Errorf("create entries: %w", err)
	}
	if err := s.store.CreateMatches(ctx, tx, t.ID, schedule.Matches); err != nil {
		return nil, fmt.Errorf("create matches: %w", err)
	}

	return t, tx.Commit()
}

func (s *TournamentService) GetTournamentData(ctx context.Context, id uuid.UUID) (*TournamentData, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.loadData(ctx, t)
}

func (s *TournamentService) GetTournamentByShareCode(ctx context.Context, code string) (*TournamentData, error) {
	t, err := s.store.GetTournamentByShareCode(ctx, strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return s.loadData(ctx, t)
}

func (s *TournamentService) GetTournamentsForOrganizer(ctx context.Context, ownerID uuid.UUID) ([]tournament.Tournament, error) {
	return s.store.GetTournamentsByOwner(ctx, ownerID)
}

func (s *TournamentService) loadData(ctx context.Context, t *tournament.Tournament) (*TournamentData, error) {
	data := &TournamentData{Tournament: t}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.store.GetEntries(gctx, t.ID)
		data.Entries = entries
		return err
	})
	g.Go(func() error {
		schedule, err := s.store.GetSchedule(gctx, t.ID, t.Format)
		data.Schedule = schedule
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data.Layout = bracket.NewLayout(data.Schedule)
	data.Standings = bracket.Standings(data.Schedule)
	data.Complete = bracket.IsComplete(data.Schedule)
	if team, ok := bracket.Winner(data.Schedule); ok {
		data.Winner = findEntry(data.Entries, team)
	}
	return data, nil
}

func findEntry(entries []tournament.Entry, team string) *tournament.Entry {
	for i := range entries {
		if entries[i].TeamID() == team {
			return &entries[i]
		}
	}
	return nil
}
