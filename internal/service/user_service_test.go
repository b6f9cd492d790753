package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sirajyamin/blink-graphql/internal/apperr"
	"github.com/sirajyamin/blink-graphql/internal/auth"
	"github.com/sirajyamin/blink-graphql/internal/models"
	"github.com/sirajyamin/blink-graphql/internal/repository"
	"github.com/sirajyamin/blink-graphql/internal/service"
)

func newUserService() (*service.UserService, *memUserRepo, *fakeSender, *auth.Manager) {
	users := newMemUserRepo()
	mail := &fakeSender{}
	tokens := auth.NewManager("test-secret")
	svc := service.NewUserService(users, mail, tokens, nil, zap.NewNop().Sugar())
	return svc, users, mail, tokens
}

func mustCreate(t *testing.T, svc *service.UserService, users *memUserRepo, email, phone, password string) *models.User {
	t.Helper()
	res, err := svc.Create(context.Background(), service.CreateUserInput{
		FirstName: "Asha",
		LastName:  "Nair",
		Email:     email,
		Phone:     phone,
		Password:  password,
		Role:      "user",
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	var u *models.User
	if email != "" {
		u, err = users.FindByEmail(context.Background(), email)
	} else {
		u, err = users.FindByPhone(context.Background(), phone)
	}
	require.NoError(t, err)
	return u
}

func TestGenerateOTP(t *testing.T) {
	code := service.GenerateOTP(6)
	require.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}

func TestCreateLoginVerifyFlow(t *testing.T) {
	svc, users, _, tokens := newUserService()
	ctx := context.Background()

	u := mustCreate(t, svc, users, "asha@example.com", "", "hunter2aa")
	assert.Empty(t, u.Verified)
	assert.Equal(t, models.AccountActive, u.AccountStatus)
	assert.Len(t, users.users[u.ID].OTP, 6)

	// Credential login before verification short-circuits with a nil
	// token and parks a placeholder code.
	login, err := svc.IssueToken(ctx, "asha@example.com", "", "hunter2aa")
	require.NoError(t, err)
	assert.Equal(t, "Please verify your account", login.Message)
	require.NotNil(t, login.Data)
	assert.Nil(t, login.Data.Token)
	assert.Empty(t, login.Data.Verified)
	assert.Equal(t, "000000", users.users[u.ID].OTP)

	verified, err := svc.VerifyOTP(ctx, "asha@example.com", "", "000000")
	require.NoError(t, err)
	require.NotNil(t, verified.Data)
	require.NotNil(t, verified.Data.Token)
	assert.Equal(t, []string{models.ChannelEmail}, verified.Data.Verified)

	claims, err := tokens.Verify(*verified.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)

	// Code state is consumed on success.
	assert.Empty(t, users.users[u.ID].OTP)

	login, err = svc.IssueToken(ctx, "asha@example.com", "", "hunter2aa")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", login.Message)
	require.NotNil(t, login.Data.Token)
}

func TestCreateRejectsDuplicates(t *testing.T) {
	svc, users, _, _ := newUserService()
	mustCreate(t, svc, users, "dup@example.com", "+911234500001", "hunter2aa")

	_, err := svc.Create(context.Background(), service.CreateUserInput{
		Email: "dup@example.com", Password: "hunter2aa", Role: "user",
	})
	assert.True(t, apperr.IsKind(err, apperr.AlreadyExists))

	_, err = svc.Create(context.Background(), service.CreateUserInput{
		Phone: "+911234500001", Password: "hunter2aa", Role: "user",
	})
	assert.True(t, apperr.IsKind(err, apperr.AlreadyExists))
}

func TestIssueTokenFailures(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	mustCreate(t, svc, users, "login@example.com", "", "hunter2aa")

	_, err := svc.IssueToken(ctx, "login@example.com", "", "wrong-pass")
	assert.True(t, apperr.IsKind(err, apperr.InvalidCredential))

	_, err = svc.IssueToken(ctx, "nobody@example.com", "", "hunter2aa")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestVerifyOTPValidation(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	u := mustCreate(t, svc, users, "codes@example.com", "", "hunter2aa")

	_, err := svc.VerifyOTP(ctx, "codes@example.com", "", "")
	assert.True(t, apperr.IsKind(err, apperr.Validation))

	_, err = svc.VerifyOTP(ctx, "codes@example.com", "", "999999x")
	assert.True(t, apperr.IsKind(err, apperr.InvalidCode))

	// The match check runs before the expiry check, so a wrong code on an
	// expired record still reads as invalid, not expired.
	past := time.Now().Add(-time.Minute)
	users.users[u.ID].OTPExpiry = &past
	_, err = svc.VerifyOTP(ctx, "codes@example.com", "", "999999x")
	assert.True(t, apperr.IsKind(err, apperr.InvalidCode))

	_, err = svc.VerifyOTP(ctx, "codes@example.com", "", users.users[u.ID].OTP)
	assert.True(t, apperr.IsKind(err, apperr.CodeExpired))

	future := time.Now().Add(time.Hour)
	users.users[u.ID].OTPExpiry = &future
	_, err = svc.VerifyOTP(ctx, "codes@example.com", "", users.users[u.ID].OTP)
	require.NoError(t, err)

	_, err = svc.VerifyOTP(ctx, "codes@example.com", "", "123456")
	assert.True(t, apperr.IsKind(err, apperr.AlreadyVerified))
}

func TestVerifyEmailReturnsToken(t *testing.T) {
	svc, users, _, tokens := newUserService()
	ctx := context.Background()
	u := mustCreate(t, svc, users, "plain@example.com", "", "hunter2aa")

	res, err := svc.VerifyEmail(ctx, "plain@example.com", users.users[u.ID].OTP)
	require.NoError(t, err)
	require.True(t, res.Success)
	_, err = tokens.Verify(res.Data)
	require.NoError(t, err)
}

func TestRequestVerification(t *testing.T) {
	svc, users, mail, _ := newUserService()
	ctx := context.Background()
	u := mustCreate(t, svc, users, "req@example.com", "+911234500099", "hunter2aa")

	res, err := svc.RequestVerification(ctx, "req@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "email verification sent successfully", res.Message)
	last, ok := mail.last()
	require.True(t, ok)
	assert.Equal(t, "req@example.com", last.To)
	assert.Equal(t, users.users[u.ID].OTP, last.Code)

	// Phone verification issues a code without an email dispatch.
	before := mail.count()
	res, err = svc.RequestVerification(ctx, "", "+911234500099")
	require.NoError(t, err)
	assert.Equal(t, "phone verification sent successfully", res.Message)
	assert.Equal(t, before, mail.count())

	_, err = svc.RequestVerification(ctx, "ghost@example.com", "")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	users.users[u.ID].Verified = []string{models.ChannelEmail}
	_, err = svc.RequestVerification(ctx, "req@example.com", "")
	assert.True(t, apperr.IsKind(err, apperr.AlreadyVerified))
}

func TestRequestVerificationDeliveryFailure(t *testing.T) {
	svc, users, mail, _ := newUserService()
	mustCreate(t, svc, users, "down@example.com", "", "hunter2aa")

	mail.fail = true
	_, err := svc.RequestVerification(context.Background(), "down@example.com", "")
	assert.True(t, apperr.IsKind(err, apperr.DeliveryFailed))
}

func TestResendVerificationThrottle(t *testing.T) {
	svc, users, mail, _ := newUserService()
	ctx := context.Background()
	u := mustCreate(t, svc, users, "resend@example.com", "", "hunter2aa")

	// Registration just issued a code, so an immediate resend is refused.
	_, err := svc.ResendVerification(ctx, "resend@example.com")
	assert.True(t, apperr.IsKind(err, apperr.TooSoon))

	past := time.Now().Add(-2 * time.Minute)
	users.users[u.ID].OTPCreatedAt = &past
	res, err := svc.ResendVerification(ctx, "resend@example.com")
	require.NoError(t, err)
	assert.Equal(t, "New OTP sent successfully", res.Message)
	last, ok := mail.last()
	require.True(t, ok)
	assert.Equal(t, users.users[u.ID].OTP, last.Code)

	users.users[u.ID].Verified = []string{models.ChannelEmail}
	_, err = svc.ResendVerification(ctx, "resend@example.com")
	assert.True(t, apperr.IsKind(err, apperr.AlreadyVerified))
}

func TestForgotPasswordReusesOutstandingCode(t *testing.T) {
	svc, users, mail, _ := newUserService()
	ctx := context.Background()
	u := mustCreate(t, svc, users, "forgot@example.com", "", "hunter2aa")

	// The registration code still has most of an hour left; no new code.
	before := users.users[u.ID].OTP
	res, err := svc.ForgotPassword(ctx, "forgot@example.com")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent already", res.Message)
	assert.Equal(t, before, users.users[u.ID].OTP)
	assert.Equal(t, 0, mail.count())

	soon := time.Now().Add(2 * time.Minute)
	users.users[u.ID].OTPExpiry = &soon
	res, err = svc.ForgotPassword(ctx, "forgot@example.com")
	require.NoError(t, err)
	assert.Equal(t, "OTP sent successfully", res.Message)
	assert.NotEqual(t, before, users.users[u.ID].OTP)
	last, ok := mail.last()
	require.True(t, ok)
	assert.Equal(t, "Reset Password", last.Subject)
}

func TestResetPassword(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	u := mustCreate(t, svc, users, "reset@example.com", "", "oldpass123")
	users.users[u.ID].Verified = []string{models.ChannelEmail}

	_, err := svc.ResetPassword(ctx, "reset@example.com", "badcode", "newpass123")
	assert.True(t, apperr.IsKind(err, apperr.InvalidCode))

	res, err := svc.ResetPassword(ctx, "reset@example.com", users.users[u.ID].OTP, "newpass123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Data)
	assert.Empty(t, users.users[u.ID].OTP)

	_, err = svc.IssueToken(ctx, "reset@example.com", "", "oldpass123")
	assert.True(t, apperr.IsKind(err, apperr.InvalidCredential))
	login, err := svc.IssueToken(ctx, "reset@example.com", "", "newpass123")
	require.NoError(t, err)
	require.NotNil(t, login.Data.Token)
}

func TestChangePassword(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	u := mustCreate(t, svc, users, "change@example.com", "", "oldpass123")
	users.users[u.ID].Verified = []string{models.ChannelEmail}

	_, err := svc.ChangePassword(ctx, u.ID, "wrong", "newpass123")
	assert.True(t, apperr.IsKind(err, apperr.InvalidCredential))

	res, err := svc.ChangePassword(ctx, u.ID, "oldpass123", "newpass123")
	require.NoError(t, err)
	assert.True(t, res.Success)

	login, err := svc.IssueToken(ctx, "change@example.com", "", "newpass123")
	require.NoError(t, err)
	require.NotNil(t, login.Data.Token)
}

func TestGetAllPagination(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		_, err := users.Create(ctx, &models.User{
			FirstName: "Member",
			Email:     "member" + service.GenerateOTP(8) + "@example.com",
			Role:      "user",
		})
		require.NoError(t, err)
	}

	res, err := svc.GetAll(ctx, repository.UserFilter{Role: "user"}, repository.ListOptions{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Data, 10)
	require.NotNil(t, res.PageInfo)
	assert.Equal(t, 25, res.PageInfo.TotalRecords)
	assert.Equal(t, 3, res.PageInfo.TotalPages)
	assert.Equal(t, 2, res.PageInfo.CurrentPage)
	assert.True(t, res.PageInfo.HasNextPage)
	assert.True(t, res.PageInfo.HasPreviousPage)

	res, err = svc.GetAll(ctx, repository.UserFilter{Role: "user"}, repository.ListOptions{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Data, 5)
	assert.False(t, res.PageInfo.HasNextPage)
}

func TestGetBySkillOrdering(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	seed := []*models.User{
		{FirstName: "Low", Skills: []string{"s1"}, Rating: 2.0},
		{FirstName: "High", Skills: []string{"s1"}, Rating: 4.5},
		{FirstName: "Star", Skills: []string{"s1"}, Rating: 3.0, IsFeatured: true},
		{FirstName: "Other", Skills: []string{"s2"}, Rating: 5.0},
	}
	for _, u := range seed {
		_, err := users.Create(ctx, u)
		require.NoError(t, err)
	}

	res, err := svc.GetBySkill(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, res.Data, 3)
	assert.Equal(t, "Star", res.Data[0].FirstName)
	assert.Equal(t, "High", res.Data[1].FirstName)
	assert.Equal(t, "Low", res.Data[2].FirstName)
}

func TestUpdateUnverifiesChangedChannel(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	u := mustCreate(t, svc, users, "old@example.com", "+911234500010", "hunter2aa")
	users.users[u.ID].Verified = []string{models.ChannelEmail, models.ChannelPhone}

	res, err := svc.Update(ctx, service.UpdateUserInput{ID: u.ID, Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", res.Data.Email)
	assert.Equal(t, []string{models.ChannelPhone}, res.Data.Verified)
}

func TestUpdateRejectsTakenChannel(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	mustCreate(t, svc, users, "taken@example.com", "", "hunter2aa")
	u := mustCreate(t, svc, users, "mine@example.com", "", "hunter2aa")

	_, err := svc.Update(ctx, service.UpdateUserInput{ID: u.ID, Email: "taken@example.com"})
	assert.True(t, apperr.IsKind(err, apperr.AlreadyExists))

	// Re-submitting your own address is not a conflict.
	_, err = svc.Update(ctx, service.UpdateUserInput{ID: u.ID, Email: "mine@example.com"})
	require.NoError(t, err)
}

func TestDelete(t *testing.T) {
	svc, users, _, _ := newUserService()
	ctx := context.Background()
	u := mustCreate(t, svc, users, "gone@example.com", "", "hunter2aa")

	res, err := svc.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = svc.Delete(ctx, u.ID)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}
