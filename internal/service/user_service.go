package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/sirajyamin/blink-graphql/internal/apperr"
	"github.com/sirajyamin/blink-graphql/internal/auth"
	"github.com/sirajyamin/blink-graphql/internal/events"
	"github.com/sirajyamin/blink-graphql/internal/models"
	"github.com/sirajyamin/blink-graphql/internal/notifier"
	"github.com/sirajyamin/blink-graphql/internal/repository"
)

const (
	otpTTL      = time.Hour
	resendDelay = 60 * time.Second

	// placeholderOTP is persisted when an unverified user attempts a
	// credential login; the login short-circuits into the verification
	// flow instead of failing.
	placeholderOTP = "000000"
)

// GenerateOTP returns a random numeric code of the given length.
func GenerateOTP(length int) string {
	const charset = "0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}

type CreateUserInput struct {
	FirstName      string
	LastName       string
	Email          string
	Password       string
	Phone          string
	Role           string
	ProfilePicture string
	Status         string
}

type UpdateUserInput struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Password       string
	Role           string
	ProfilePicture string
	Status         string
	AccountStatus  string
	Skills         []string
}

// UserService owns the identity lifecycle: registration, the OTP
// verification state machine, credential logins and profile CRUD.
type UserService struct {
	users  repository.UserRepository
	mail   notifier.Sender
	tokens *auth.Manager
	events *events.Publisher
	log    *zap.SugaredLogger
}

func NewUserService(users repository.UserRepository, mail notifier.Sender, tokens *auth.Manager, pub *events.Publisher, log *zap.SugaredLogger) *UserService {
	return &UserService{users: users, mail: mail, tokens: tokens, events: pub, log: log}
}

// findByChannel resolves a user by email when given, else by phone, and
// reports which channel matched.
func (s *UserService) findByChannel(ctx context.Context, email, phone string) (*models.User, string, error) {
	if email != "" {
		u, err := s.users.FindByEmail(ctx, email)
		return u, models.ChannelEmail, err
	}
	u, err := s.users.FindByPhone(ctx, phone)
	return u, models.ChannelPhone, err
}

func notFoundAs(err error, kind apperr.Kind, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.New(kind, msg)
	}
	return err
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.Response, error) {
	if in.Phone != "" {
		if _, err := s.users.FindByPhone(ctx, in.Phone); err == nil {
			return nil, apperr.New(apperr.AlreadyExists, "Phone number already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if in.Email != "" {
		if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
			return nil, apperr.New(apperr.AlreadyExists, "Email already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	u := &models.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		Role:           in.Role,
		ProfilePicture: in.ProfilePicture,
		Status:         in.Status,
		AccountStatus:  models.AccountActive,
		Verified:       []string{},
	}

	if in.Password != "" {
		salt, err := auth.GenerateSalt()
		if err != nil {
			return nil, err
		}
		u.Salt = salt
		u.Password = auth.HashPassword(salt, in.Password)
	}

	now := time.Now().UTC()
	expiry := now.Add(otpTTL)
	u.OTP = GenerateOTP(6)
	u.OTPExpiry = &expiry
	u.OTPCreatedAt = &now

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.UserCreated, created.ID, map[string]string{
		"id": created.ID, "email": created.Email, "phone": created.Phone,
	})
	s.log.Debugw("user created", "id", created.ID)

	return &models.Response{Success: true, Message: "User created successfully."}, nil
}

// RequestVerification issues a fresh code for the given channel and, for
// email, dispatches it.
func (s *UserService) RequestVerification(ctx context.Context, email, phone string) (*models.Response, error) {
	u, channel, err := s.findByChannel(ctx, email, phone)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}
	if u.HasVerified(channel) {
		return nil, apperr.Newf(apperr.AlreadyVerified, "%s already verified", channel)
	}

	code := GenerateOTP(6)
	now := time.Now().UTC()
	if err := s.users.SetOTP(ctx, u.ID, code, now.Add(otpTTL), now); err != nil {
		return nil, err
	}

	if channel == models.ChannelEmail {
		if err := s.mail.SendOTP(ctx, email, "Verify Email", code); err != nil {
			s.log.Warnw("verification email failed", "email", email, "err", err)
			return nil, apperr.New(apperr.DeliveryFailed, "Failed to send verification email")
		}
	}

	return &models.Response{Success: true, Message: channel + " verification sent successfully"}, nil
}

// VerifyOTP consumes a code: on match and within expiry the channel joins
// the verified set, the code state is cleared and a token is issued.
func (s *UserService) VerifyOTP(ctx context.Context, email, phone, code string) (*models.LoginResult, error) {
	if code == "" {
		return nil, apperr.New(apperr.Validation, "OTP is required")
	}

	u, channel, err := s.findByChannel(ctx, email, phone)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}
	if u.HasVerified(channel) {
		return nil, apperr.Newf(apperr.AlreadyVerified, "%s already verified", channel)
	}
	if u.OTP == "" || u.OTP != code {
		return nil, apperr.New(apperr.InvalidCode, "Invalid OTP")
	}
	if u.OTPExpiry == nil || time.Now().After(*u.OTPExpiry) {
		return nil, apperr.New(apperr.CodeExpired, "OTP expired")
	}

	updated, err := s.users.AddVerifiedChannel(ctx, u.ID, channel)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}

	token, err := s.tokens.Generate(updated)
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.UserVerified, updated.ID, map[string]string{
		"id": updated.ID, "channel": channel,
	})

	return &models.LoginResult{
		Success: true,
		Message: channel + " verified successfully",
		Data:    &models.LoginData{Verified: updated.Verified, Token: &token},
	}, nil
}

// VerifyEmail is the email-only variant; it answers with the bare token.
func (s *UserService) VerifyEmail(ctx context.Context, email, code string) (*models.TokenResult, error) {
	res, err := s.VerifyOTP(ctx, email, "", code)
	if err != nil {
		return nil, err
	}
	token := ""
	if res.Data != nil && res.Data.Token != nil {
		token = *res.Data.Token
	}
	return &models.TokenResult{Success: true, Message: res.Message, Data: token}, nil
}

// fullyVerified reports whether every contact channel the user has on
// file is already in the verified set.
func fullyVerified(u *models.User) bool {
	if len(u.Verified) == 0 {
		return false
	}
	if u.Email != "" && !u.HasVerified(models.ChannelEmail) {
		return false
	}
	if u.Phone != "" && !u.HasVerified(models.ChannelPhone) {
		return false
	}
	return true
}

// ResendVerification regenerates a code, throttled to one issue per
// minute per user. The delay check reads the previous issuance time; two
// concurrent calls can both pass it, which is accepted.
func (s *UserService) ResendVerification(ctx context.Context, email string) (*models.Response, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}
	if fullyVerified(u) {
		return nil, apperr.New(apperr.AlreadyVerified, "User already verified")
	}
	if u.OTPCreatedAt != nil && time.Since(*u.OTPCreatedAt) < resendDelay {
		return nil, apperr.New(apperr.TooSoon, "Please wait before requesting a new OTP")
	}

	code := GenerateOTP(6)
	now := time.Now().UTC()
	if err := s.users.SetOTP(ctx, u.ID, code, now.Add(otpTTL), now); err != nil {
		return nil, err
	}
	if err := s.mail.SendOTP(ctx, email, "Verify Email", code); err != nil {
		s.log.Warnw("resend email failed", "email", email, "err", err)
		return nil, apperr.New(apperr.DeliveryFailed, "Failed to send verification email")
	}

	return &models.Response{Success: true, Message: "New OTP sent successfully"}, nil
}

// IssueToken is the credential login. An unverified user is never an
// error here: the login short-circuits into the verification flow with a
// nil token.
func (s *UserService) IssueToken(ctx context.Context, email, phone, password string) (*models.LoginResult, error) {
	u, _, err := s.findByChannel(ctx, email, phone)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}

	if password != "" {
		if !auth.VerifyPassword(u.Salt, u.Password, password) {
			return nil, apperr.New(apperr.InvalidCredential, "Incorrect password")
		}
	}

	if len(u.Verified) == 0 {
		now := time.Now().UTC()
		if err := s.users.SetOTP(ctx, u.ID, placeholderOTP, now.Add(otpTTL), now); err != nil {
			return nil, err
		}
		return &models.LoginResult{
			Success: true,
			Message: "Please verify your account",
			Data:    &models.LoginData{Verified: []string{}, Token: nil},
		}, nil
	}

	token, err := s.tokens.Generate(u)
	if err != nil {
		return nil, err
	}
	return &models.LoginResult{
		Success: true,
		Message: "Login successful",
		Data:    &models.LoginData{Verified: u.Verified, Token: &token},
	}, nil
}

func (s *UserService) ForgotPassword(ctx context.Context, email string) (*models.Response, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}

	// An outstanding code with more than five minutes left is reused.
	if u.OTPExpiry != nil && u.OTPExpiry.After(time.Now().Add(5*time.Minute)) {
		return &models.Response{Success: true, Message: "OTP sent already"}, nil
	}

	code := GenerateOTP(6)
	now := time.Now().UTC()
	if err := s.users.SetOTP(ctx, u.ID, code, now.Add(otpTTL), now); err != nil {
		return nil, err
	}
	if err := s.mail.SendOTP(ctx, email, "Reset Password", code); err != nil {
		s.log.Warnw("reset email failed", "email", email, "err", err)
		return nil, apperr.New(apperr.DeliveryFailed, "Failed to send reset email")
	}

	return &models.Response{Success: true, Message: "OTP sent successfully"}, nil
}

func (s *UserService) ResetPassword(ctx context.Context, email, code, password string) (*models.TokenResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}
	if u.OTP == "" || u.OTP != code {
		return nil, apperr.New(apperr.InvalidCode, "Invalid OTP")
	}
	if u.OTPExpiry == nil || time.Now().After(*u.OTPExpiry) {
		return nil, apperr.New(apperr.CodeExpired, "OTP expired")
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := s.users.SetCredentials(ctx, u.ID, salt, auth.HashPassword(salt, password)); err != nil {
		return nil, err
	}
	if err := s.users.ClearOTP(ctx, u.ID); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(u)
	if err != nil {
		return nil, err
	}
	return &models.TokenResult{Success: true, Message: "Password reset successfully", Data: token}, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (*models.Response, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}
	if !auth.VerifyPassword(u.Salt, u.Password, oldPassword) {
		return nil, apperr.New(apperr.InvalidCredential, "Incorrect Password")
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := s.users.SetCredentials(ctx, u.ID, salt, auth.HashPassword(salt, newPassword)); err != nil {
		return nil, err
	}

	return &models.Response{Success: true, Message: "Password Changed Successfully"}, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.UserResult, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}
	return &models.UserResult{Success: true, Message: "User fetched successfully", Data: u}, nil
}

func (s *UserService) GetAll(ctx context.Context, f repository.UserFilter, opt repository.ListOptions) (*models.UserListResult, error) {
	if opt.Page < 1 {
		opt.Page = 1
	}

	users, err := s.users.Find(ctx, f, opt)
	if err != nil {
		return nil, err
	}
	total, err := s.users.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	totalPages := 1
	if opt.Limit > 0 {
		totalPages = int((total + int64(opt.Limit) - 1) / int64(opt.Limit))
	}

	return &models.UserListResult{
		Success: true,
		Message: "Users fetched successfully",
		Data:    users,
		PageInfo: &models.PageInfo{
			TotalRecords:    int(total),
			TotalPages:      totalPages,
			CurrentPage:     opt.Page,
			HasNextPage:     opt.Page < totalPages,
			HasPreviousPage: opt.Page > 1,
		},
	}, nil
}

func (s *UserService) GetBySkill(ctx context.Context, skillID string) (*models.UserListResult, error) {
	users, err := s.users.FindBySkill(ctx, skillID)
	if err != nil {
		return nil, err
	}
	return &models.UserListResult{Success: true, Message: "Users fetched successfully", Data: users}, nil
}

func (s *UserService) Update(ctx context.Context, in UpdateUserInput) (*models.UserResult, error) {
	u, err := s.users.FindByID(ctx, in.ID)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}

	if in.Email != "" {
		if other, err := s.users.FindByEmail(ctx, in.Email); err == nil && other.ID != u.ID {
			return nil, apperr.New(apperr.AlreadyExists, "Email already exists")
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if in.Phone != "" {
		if other, err := s.users.FindByPhone(ctx, in.Phone); err == nil && other.ID != u.ID {
			return nil, apperr.New(apperr.AlreadyExists, "Phone number already exists")
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	// Changing a contact channel drops it from the verified set; the new
	// value must be proven again.
	if in.Email != "" && in.Email != u.Email {
		u.Verified = removeChannel(u.Verified, models.ChannelEmail)
		u.Email = in.Email
	}
	if in.Phone != "" && in.Phone != u.Phone {
		u.Verified = removeChannel(u.Verified, models.ChannelPhone)
		u.Phone = in.Phone
	}

	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.ProfilePicture != "" {
		u.ProfilePicture = in.ProfilePicture
	}
	if in.Status != "" {
		u.Status = in.Status
	}
	if in.AccountStatus != "" {
		u.AccountStatus = in.AccountStatus
	}
	if in.Skills != nil {
		u.Skills = in.Skills
	}
	if in.Password != "" {
		salt, err := auth.GenerateSalt()
		if err != nil {
			return nil, err
		}
		u.Salt = salt
		u.Password = auth.HashPassword(salt, in.Password)
	}

	updated, err := s.users.Update(ctx, u)
	if err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}
	return &models.UserResult{Success: true, Message: "User updated successfully", Data: updated}, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*models.Response, error) {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return nil, notFoundAs(err, apperr.NotFound, "User not found")
	}
	s.events.Publish(ctx, events.UserDeleted, id, map[string]string{"id": id})
	return &models.Response{Success: true, Message: "User deleted successfully"}, nil
}

func removeChannel(verified []string, channel string) []string {
	out := verified[:0]
	for _, c := range verified {
		if c != channel {
			out = append(out, c)
		}
	}
	return out
}
