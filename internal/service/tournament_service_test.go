package service

import (
	"context"
	"database/sql"
	"math/rand/v2"
	"testing"

	"github.com/AdamBeresnev/arena-bracket/internal/bracket"
	"github.com/AdamBeresnev/arena-bracket/internal/organizer"
	"github.com/AdamBeresnev/arena-bracket/internal/tournament"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTournament(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tour, err := f.tournaments.CreateTournament(ctx, organizer.GuestID, CreateTournamentInput{
		Name:   "  Friday Cup ",
		Format: bracket.DoubleElimination,
		Roster: "Alpha\nBravo\nCharlie\nDelta\nEcho",
	})
	require.NoError(t, err)
	assert.Equal(t, "Friday Cup", tour.Name)
	assert.Equal(t, tournament.StatusDraft, tour.Status)
	assert.Len(t, tour.ShareCode, 8)

	data, err := f.tournaments.GetTournamentData(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, data.Entries, 5)
	assert.Equal(t, "Alpha", data.Entries[0].Name)
	assert.Equal(t, 1, data.Entries[0].Seed)
	assert.Len(t, data.Schedule.Matches, 15)
	assert.Len(t, data.Layout.Finals, 2)
	assert.False(t, data.Complete)
	assert.Nil(t, data.Winner)

	shared, err := f.tournaments.GetTournamentByShareCode(ctx, " "+tour.ShareCode+" ")
	require.NoError(t, err)
	assert.Equal(t, tour.ID, shared.Tournament.ID)

	list, err := f.tournaments.GetTournamentsForOrganizer(ctx, organizer.GuestID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tour.ID, list[0].ID)
}

func TestCreateTournament_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		input CreateTournamentInput
		err   error
	}{
		{"Missing name", CreateTournamentInput{Name: " ", Format: bracket.RoundRobin, Roster: "A\nB"}, ErrNameRequired},
		{"Unknown format", CreateTournamentInput{Name: "Cup", Format: "swiss", Roster: "A\nB"}, bracket.ErrUnsupportedFormat},
		{"One entry", CreateTournamentInput{Name: "Cup", Format: bracket.SingleElimination, Roster: "A"}, bracket.ErrInsufficientParticipants},
		{"Duplicate entry", CreateTournamentInput{Name: "Cup", Format: bracket.SingleElimination, Roster: "A\nB\nA"}, bracket.ErrDuplicateTeam},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.tournaments.CreateTournament(ctx, organizer.GuestID, tc.input)
			assert.ErrorIs(t, err, tc.err)
		})
	}

	list, err := f.tournaments.GetTournamentsForOrganizer(ctx, organizer.GuestID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateTournament_SeededDrawIsReproducible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draw := func() []string {
		f.tournaments.WithSeeding(bracket.WithRand(rand.New(rand.NewPCG(1, 2))))
		tour, err := f.tournaments.CreateTournament(ctx, organizer.GuestID, CreateTournamentInput{
			Name:   "Draw",
			Format: bracket.SingleElimination,
			Roster: "A\nB\nC\nD\nE\nF",
		})
		require.NoError(t, err)

		data, err := f.tournaments.GetTournamentData(ctx, tour.ID)
		require.NoError(t, err)
		names := map[string]string{}
		for _, e := range data.Entries {
			names[e.TeamID()] = e.Name
		}
		var order []string
		for _, m := range data.Schedule.Matches {
			if m.Round == 1 && m.Team1 != nil {
				order = append(order, names[*m.Team1])
			}
		}
		return order
	}

	assert.Equal(t, draw(), draw())
}

func TestGetTournamentData_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.tournaments.GetTournamentData(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = f.tournaments.GetTournamentByShareCode(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetTournamentData_RoundRobinStandings(t *testing.T) {
	f := newFixture(t)
	tour, ids := f.create(t, bracket.RoundRobin, "A", "B", "C")

	// A-B, A-C, B-C
	f.record(t, tour, 0, ids["A"])
	f.record(t, tour, 1, ids["A"])
	f.record(t, tour, 2, ids["B"])

	data, err := f.tournaments.GetTournamentData(context.Background(), tour.ID)
	require.NoError(t, err)
	assert.True(t, data.Complete)
	require.NotNil(t, data.Winner)
	assert.Equal(t, "A", data.Winner.Name)
	require.Len(t, data.Standings, 3)
	assert.Equal(t, 2, data.Standings[0].Wins)
	assert.Len(t, data.Layout.Pool, 1)
}
