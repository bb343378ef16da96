package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/AdamBeresnev/arena-bracket/internal/organizer"
	"github.com/AdamBeresnev/arena-bracket/internal/store"
	"github.com/AdamBeresnev/arena-bracket/internal/utils"
	"github.com/google/uuid"
	"github.com/markbates/goth"
)

type OrganizerService struct {
	store *store.OrganizerStore
}

func NewOrganizerService(store *store.OrganizerStore) *OrganizerService {
	return &OrganizerService{store: store}
}

// FindOrCreateByProvider maps an OAuth identity onto an organizer, keeping
// the display name and avatar in step with the provider.
func (s *OrganizerService) FindOrCreateByProvider(ctx context.Context, gothUser goth.User) (*organizer.Organizer, error) {
	username := utils.FirstNonEmpty(gothUser.NickName, gothUser.Name, gothUser.Email)

	o, err := s.store.GetOrganizerByProvider(ctx, gothUser.Provider, gothUser.UserID)
	if err == nil {
		if utils.OrZero(o.AvatarURL) != gothUser.AvatarURL || o.Username != username {
			o.Username = username
			o.AvatarURL = utils.StringOrNil(gothUser.AvatarURL)
			if err := s.store.UpdateProfile(ctx, o); err != nil {
				return nil, err
			}
		}
		return o, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	o = &organizer.Organizer{
		ID:         uuid.New(),
		Email:      gothUser.Email,
		Username:   username,
		Provider:   utils.Ptr(gothUser.Provider),
		ProviderID: utils.Ptr(gothUser.UserID),
		AvatarURL:  utils.StringOrNil(gothUser.AvatarURL),
	}
	if err := s.store.CreateOrganizer(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Guest returns the shared guest organizer.
func (s *OrganizerService) Guest(ctx context.Context) (*organizer.Organizer, error) {
	return s.store.GetOrganizer(ctx, organizer.GuestID)
}
