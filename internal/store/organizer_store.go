package store

import (
	"context"

	"github.com/AdamBeresnev/arena-bracket/internal/organizer"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type OrganizerStore struct {
	db *sqlx.DB
}

const (
	getOrganizerQuery           = "SELECT * FROM organizers WHERE id = ?"
	getOrganizerByProviderQuery = `
		SELECT * FROM organizers
		WHERE provider = ?
		AND provider_id = ?
	`
	createOrganizerQuery = `
		INSERT INTO organizers (id, email, username, provider, provider_id, avatar_url) VALUES
		(:id, :email, :username, :provider, :provider_id, :avatar_url)
	`
	updateOrganizerProfileQuery = `
		UPDATE organizers SET
		username = :username,
		avatar_url = :avatar_url
		WHERE id = :id
	`
)

func NewOrganizerStore(db *sqlx.DB) *OrganizerStore {
	return &OrganizerStore{db: db}
}

func (s *OrganizerStore) GetOrganizer(ctx context.Context, id uuid.UUID) (*organizer.Organizer, error) {
	var o organizer.Organizer
	if err := s.db.GetContext(ctx, &o, getOrganizerQuery, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrganizerStore) GetOrganizerByProvider(ctx context.Context, provider, providerID string) (*organizer.Organizer, error) {
	var o organizer.Organizer
	if err := s.db.GetContext(ctx, &o, getOrganizerByProviderQuery, provider, providerID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrganizerStore) CreateOrganizer(ctx context.Context, o *organizer.Organizer) error {
	_, err := s.db.NamedExecContext(ctx, createOrganizerQuery, o)
	return err
}

func (s *OrganizerStore) UpdateProfile(ctx context.Context, o *organizer.Organizer) error {
	_, err := s.db.NamedExecContext(ctx, updateOrganizerProfileQuery, o)
	return err
}
