package organizer

import (
	"time"

	"github.com/google/uuid"
)

type ContextKey string

const OrganizerKey ContextKey = "organizer"

// GuestID is seeded by the migrations and owns tournaments created by
// visitors who did not sign in with a provider.
var GuestID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type Organizer struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Email      string    `db:"email" json:"email"`
	Username   string    `db:"username" json:"username"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	Provider   *string   `db:"provider" json:"provider,omitempty"`
	ProviderID *string   `db:"provider_id" json:"-"`
	AvatarURL  *string   `db:"avatar_url" json:"avatar_url,omitempty"`
}

func (o Organizer) IsGuest() bool {
	return o.ID == GuestID
}
