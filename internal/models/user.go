package models

import "time"

// Verification channels a user can prove ownership of.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

const AccountActive = "active"

type User struct {
	ID             string     `bson:"_id,omitempty" json:"_id"`
	FirstName      string     `bson:"first_name,omitempty" json:"first_name"`
	LastName       string     `bson:"last_name,omitempty" json:"last_name"`
	Email          string     `bson:"email,omitempty" json:"email"`
	Phone          string     `bson:"phone,omitempty" json:"phone"`
	Age            int        `bson:"age,omitempty" json:"age"`
	Gender         string     `bson:"gender,omitempty" json:"gender"`
	Role           string     `bson:"role,omitempty" json:"role"`
	Status         string     `bson:"status,omitempty" json:"status"`
	AccountStatus  string     `bson:"account_status,omitempty" json:"account_status"`
	ProfilePicture string     `bson:"profile_picture,omitempty" json:"profile_picture"`
	Skills         []string   `bson:"skills,omitempty" json:"skills"`
	Experience     string     `bson:"experience,omitempty" json:"experience"`
	IsFeatured     bool       `bson:"is_featured" json:"is_featured"`
	Rating         float64    `bson:"rating" json:"rating"`
	Password       string     `bson:"password,omitempty" json:"-"`
	Salt           string     `bson:"salt,omitempty" json:"-"`
	Verified       []string   `bson:"verified" json:"verified"`
	OTP            string     `bson:"otp,omitempty" json:"-"`
	OTPExpiry      *time.Time `bson:"otp_expiry,omitempty" json:"-"`
	OTPCreatedAt   *time.Time `bson:"otp_created_at,omitempty" json:"-"`
	OTPAttempts    int        `bson:"verification_attempts" json:"-"`
	Online         bool       `bson:"online" json:"online"`
	LastSeen       *time.Time `bson:"last_seen,omitempty" json:"lastSeen"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at" json:"updated_at"`
}

// HasVerified reports whether the given channel is in the verified set.
func (u *User) HasVerified(channel string) bool {
	for _, c := range u.Verified {
		if c == channel {
			return true
		}
	}
	return false
}

// Public strips credential and verification state, leaving the profile
// fields a counterpart is allowed to see.
func (u *User) Public() *User {
	return &User{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Online:         u.Online,
		LastSeen:       u.LastSeen,
	}
}
