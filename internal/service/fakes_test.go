package service_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirajyamin/blink-graphql/internal/models"
	"github.com/sirajyamin/blink-graphql/internal/repository"
)

// In-memory stand-ins for the mongo repositories, enough fidelity for
// the service semantics under test.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Verified = append([]string(nil), u.Verified...)
	c.Skills = append([]string(nil), u.Skills...)
	return &c
}

func (r *memUserRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("u%03d", r.seq)
	}
	if u.Verified == nil {
		u.Verified = []string{}
	}
	u.CreatedAt = time.Now().UTC().Add(time.Duration(r.seq) * time.Millisecond)
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *memUserRepo) findBy(match func(*models.User) bool) (*models.User, error) {
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findBy(func(u *models.User) bool { return u.ID == id })
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findBy(func(u *models.User) bool { return u.Email != "" && u.Email == email })
}

func (r *memUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findBy(func(u *models.User) bool { return u.Phone != "" && u.Phone == phone })
}

func matchesFilter(u *models.User, f repository.UserFilter) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.Experience != "" && u.Experience != f.Experience {
		return false
	}
	if f.FirstName != "" && !strings.Contains(strings.ToLower(u.FirstName), strings.ToLower(f.FirstName)) {
		return false
	}
	if f.Email != "" && !strings.Contains(strings.ToLower(u.Email), strings.ToLower(f.Email)) {
		return false
	}
	if len(f.Verified) > 0 && !overlaps(u.Verified, f.Verified) {
		return false
	}
	if len(f.Skills) > 0 && !overlaps(u.Skills, f.Skills) {
		return false
	}
	return true
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (r *memUserRepo) matching(f repository.UserFilter) []*models.User {
	out := []*models.User{}
	for _, u := range r.users {
		if matchesFilter(u, f) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *memUserRepo) Find(_ context.Context, f repository.UserFilter, opt repository.ListOptions) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.matching(f)
	if opt.SortOrder == "desc" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if opt.Limit > 0 {
		start := 0
		if opt.Page > 1 {
			start = (opt.Page - 1) * opt.Limit
		}
		if start > len(out) {
			start = len(out)
		}
		end := start + opt.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (r *memUserRepo) Count(_ context.Context, f repository.UserFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matching(f))), nil
}

func (r *memUserRepo) FindBySkill(_ context.Context, skillID string) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.users {
		for _, s := range u.Skills {
			if s == skillID {
				out = append(out, cloneUser(u))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsFeatured != out[j].IsFeatured {
			return out[i].IsFeatured
		}
		return out[i].Rating > out[j].Rating
	})
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *memUserRepo) SetOTP(_ context.Context, id, code string, expiry, createdAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.OTP = code
	u.OTPExpiry = &expiry
	u.OTPCreatedAt = &createdAt
	u.OTPAttempts = 0
	return nil
}

func (r *memUserRepo) ClearOTP(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.OTP = ""
	u.OTPExpiry = nil
	u.OTPCreatedAt = nil
	u.OTPAttempts = 0
	return nil
}

func (r *memUserRepo) AddVerifiedChannel(_ context.Context, id, channel string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !u.HasVerified(channel) {
		u.Verified = append(u.Verified, channel)
	}
	u.OTP = ""
	u.OTPExpiry = nil
	u.OTPCreatedAt = nil
	u.OTPAttempts = 0
	return cloneUser(u), nil
}

func (r *memUserRepo) SetCredentials(_ context.Context, id, salt, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Salt = salt
	u.Password = hash
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memMessageRepo struct {
	mu   sync.Mutex
	msgs []*models.Message
	seq  int
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{}
}

func cloneMessage(m *models.Message) *models.Message {
	c := *m
	if m.Offer != nil {
		o := *m.Offer
		c.Offer = &o
	}
	return &c
}

func (r *memMessageRepo) Save(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if m.ID == "" {
		m.ID = fmt.Sprintf("m%03d", r.seq)
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC().Add(time.Duration(r.seq) * time.Millisecond)
	}
	r.msgs = append(r.msgs, cloneMessage(m))
	return nil
}

func (r *memMessageRepo) sortedCopy(match func(*models.Message) bool) []*models.Message {
	out := []*models.Message{}
	for _, m := range r.msgs {
		if match(m) {
			out = append(out, cloneMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *memMessageRepo) FindByParticipant(_ context.Context, userID string) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedCopy(func(m *models.Message) bool {
		return m.Sender == userID || m.Recipient == userID
	}), nil
}

func (r *memMessageRepo) Find(_ context.Context, f repository.MessageFilter) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.sortedCopy(func(m *models.Message) bool {
		if f.User != "" && m.Sender != f.User && m.Recipient != f.User {
			return false
		}
		if f.ConversationID != "" && m.ConversationID != f.ConversationID {
			return false
		}
		return true
	})
	if f.Limit > 0 && int64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memMessageRepo) SetConversationID(_ context.Context, messageID, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m.ID == messageID {
			m.ConversationID = conversationID
			return nil
		}
	}
	return repository.ErrNotFound
}

type sentMail struct {
	To      string
	Subject string
	Code    string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeSender) SendOTP(_ context.Context, toEmail, subject, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{To: toEmail, Subject: subject, Code: code})
	return nil
}

func (f *fakeSender) last() (sentMail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMail{}, false
	}
	return f.sent[len(f.sent)-1], true
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
