package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sirajyamin/blink-graphql/internal/models"
)

var ErrNotFound = errors.New("not found")

// UserFilter narrows a user listing. Zero values mean "no constraint".
type UserFilter struct {
	FirstName  string
	Email      string
	Role       string
	Status     string
	Experience string
	Verified   []string
	Skills     []string
	DateRange  string
}

// ListOptions carries pagination and sorting for user listings.
type ListOptions struct {
	Page      int
	Limit     int
	SortField string
	SortOrder string
}

// MessageFilter narrows a chat message listing.
type MessageFilter struct {
	User           string
	ConversationID string
	Limit          int64
}

// UserRepository is the identity store.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	Find(ctx context.Context, f UserFilter, opts ListOptions) ([]*models.User, error)
	Count(ctx context.Context, f UserFilter) (int64, error)
	FindBySkill(ctx context.Context, skillID string) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) (*models.User, error)
	SetOTP(ctx context.Context, id, code string, expiry, createdAt time.Time) error
	ClearOTP(ctx context.Context, id string) error
	AddVerifiedChannel(ctx context.Context, id, channel string) (*models.User, error)
	SetCredentials(ctx context.Context, id, salt, hash string) error
	Delete(ctx context.Context, id string) error
}

// MessageRepository is the message store.
type MessageRepository interface {
	Save(ctx context.Context, m *models.Message) error
	FindByParticipant(ctx context.Context, userID string) ([]*models.Message, error)
	Find(ctx context.Context, f MessageFilter) ([]*models.Message, error)
	SetConversationID(ctx context.Context, messageID, conversationID string) error
}
