package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/events"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/repositories"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

type fakeUsers struct {
	users     map[string]*models.User
	passwords map[string]string
	createErr error
	// delay, when set, makes Authenticate wait for ctx
	delay bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{}, passwords: map[string]string{}}
}

func (f *fakeUsers) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if f.delay {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	user, ok := f.users[email]
	if !ok || f.passwords[email] != password {
		return nil, repositories.ErrInvalidCredentials
	}
	return user, nil
}

func (f *fakeUsers) Create(ctx context.Context, email, password string, profile models.Profile) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[email]; ok {
		return nil, repositories.ErrUserAlreadyExists
	}
	user := &models.User{ID: "id-" + profile.Username, Email: email, Username: profile.Username, Role: profile.Role}
	f.users[email] = user
	f.passwords[email] = password
	return user, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUsers) SetPassword(ctx context.Context, id, password string) error {
	for email, u := range f.users {
		if u.ID == id {
			f.passwords[email] = password
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeRepository struct {
	users  *fakeUsers
	mailer *fakeMailer
	closed bool
}

func (r *fakeRepository) User() repositories.UserRepository { return r.users }
func (r *fakeRepository) Mailer() repositories.Mailer        { return r.mailer }
func (r *fakeRepository) Ping(ctx context.Context) error     { return nil }
func (r *fakeRepository) Close() error {
	r.closed = true
	return nil
}

type authFixture struct {
	service   AuthClient
	repo      *fakeRepository
	cache     *cache.CacheManager
	publisher *events.MockEventPublisher
	redis     *miniredis.Miniredis
}

func discardSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthFixture(t *testing.T, config AuthServiceConfig) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cm := cache.NewCacheManager(client)
	repo := &fakeRepository{users: newFakeUsers(), mailer: &fakeMailer{}}
	publisher := events.NewMockEventPublisher(discardSlog())
	service := NewAuthService(repo, cache.NewSessionStore(cm.Sessions, time.Hour), cm.ResetTokens, publisher, discardSlog(), config)

	return &authFixture{service: service, repo: repo, cache: cm, publisher: publisher, redis: mr}
}

func TestAuthService_SignUpThenSignIn(t *testing.T) {
	f := newAuthFixture(t, AuthServiceConfig{})
	ctx := context.Background()

	require.NoError(t, f.service.SignUp(ctx, "ada@example.com", "secret1", models.Profile{Username: "ada", Role: models.RoleTeacher}))
	assert.Len(t, f.publisher.EventsOfType(events.EventSignedUp), 1)

	err := f.service.SignUp(ctx, "ada@example.com", "secret1", models.Profile{Username: "ada", Role: models.RoleTeacher})
	assert.Equal(t, repositories.FailureUserAlreadyExists, repositories.KindOf(err))

	session, err := f.service.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, session.User.Role)
	assert.Len(t, f.publisher.EventsOfType(events.EventSignedIn), 1)

	user, err := f.service.CurrentUser(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.User, *user)

	require.NoError(t, f.service.SignOut(ctx, session.ID))
	_, err = f.service.CurrentUser(ctx, session.ID)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
	assert.Len(t, f.publisher.EventsOfType(events.EventSignedOut), 1)

	require.NoError(t, f.service.SignOut(ctx, session.ID))
	assert.Len(t, f.publisher.EventsOfType(events.EventSignedOut), 1)
}

func TestAuthService_SignInFailure(t *testing.T) {
	f := newAuthFixture(t, AuthServiceConfig{})

	_, err := f.service.SignIn(context.Background(), "nobody@example.com", "secret1")
	assert.Equal(t, repositories.FailureInvalidCredentials, repositories.KindOf(err))
	assert.Empty(t, f.publisher.GetPublishedEvents())
}

func TestAuthService_SessionExpires(t *testing.T) {
	f := newAuthFixture(t, AuthServiceConfig{})
	ctx := context.Background()
	require.NoError(t, f.service.SignUp(ctx, "bo@example.com", "secret1", models.Profile{Username: "bo", Role: models.RoleStudent}))

	session, err := f.service.SignIn(ctx, "bo@example.com", "secret1")
	require.NoError(t, err)

	f.redis.FastForward(2 * time.Hour)
	_, err = f.service.CurrentUser(ctx, session.ID)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
}

func TestAuthService_Timeout(t *testing.T) {
	f := newAuthFixture(t, AuthServiceConfig{Timeout: 20 * time.Millisecond})
	f.repo.users.delay = true

	_, err := f.service.SignIn(context.Background(), "ada@example.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, repositories.FailureUnknown, repositories.KindOf(err))
	assert.Equal(t, msgAuthTimeout, err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAuthService_ResetPassword(t *testing.T) {
	f := newAuthFixture(t, AuthServiceConfig{ResetURL: "https://id.example.com/forget/portal?lang=en"})
	ctx := utils.WithClientID(context.Background(), "client-9")
	require.NoError(t, f.service.SignUp(ctx, "ada@example.com", "secret1", models.Profile{Username: "ada", Role: models.RoleStudent}))

	require.NoError(t, f.service.ResetPassword(ctx, "ada@example.com"))
	require.Len(t, f.repo.mailer.sent, 1)
	mail := f.repo.mailer.sent[0]
	assert.Equal(t, "ada@example.com", mail.to)
	assert.Equal(t, resetMailSubject, mail.subject)

	var link string
	for _, line := range strings.Split(mail.body, "\n") {
		if strings.HasPrefix(line, "https://") {
			link = line
		}
	}
	require.NotEmpty(t, link)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "en", u.Query().Get("lang"))
	token := u.Query().Get("token")
	require.NotEmpty(t, token)

	userID, err := f.redis.Get(cache.ResetTokenCacheConfig.Prefix + token)
	require.NoError(t, err)
	assert.Equal(t, "id-ada", userID)

	resets := f.publisher.EventsOfType(events.EventPasswordResetRequested)
	require.Len(t, resets, 1)
	payload := resets[0].Data.(events.PasswordResetEvent)
	assert.True(t, payload.Known)
	assert.Equal(t, "client-9", payload.ClientID)
}

func TestAuthService_ResetPasswordUnknownEmail(t *testing.T) {
	f := newAuthFixture(t, AuthServiceConfig{})

	require.NoError(t, f.service.ResetPassword(context.Background(), "ghost@example.com"))
	assert.Empty(t, f.repo.mailer.sent)

	resets := f.publisher.EventsOfType(events.EventPasswordResetRequested)
	require.Len(t, resets, 1)
	assert.False(t, resets[0].Data.(events.PasswordResetEvent).Known)
}

func TestAuthService_ResetPasswordMailFailure(t *testing.T) {
	f := newAuthFixture(t, AuthServiceConfig{})
	ctx := context.Background()
	require.NoError(t, f.service.SignUp(ctx, "ada@example.com", "secret1", models.Profile{Username: "ada", Role: models.RoleStudent}))
	f.repo.mailer.err = errors.New("smtp down")

	err := f.service.ResetPassword(ctx, "ada@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Empty(t, f.redis.Keys())
	assert.Empty(t, f.publisher.EventsOfType(events.EventPasswordResetRequested))
}

func requestResetToken(t *testing.T, f *authFixture, email string) string {
	t.Helper()
	require.NoError(t, f.service.ResetPassword(context.Background(), email))
	require.NotEmpty(t, f.repo.mailer.sent)
	body := f.repo.mailer.sent[len(f.repo.mailer.sent)-1].body
	for _, line := range strings.Split(body, "\n") {
		if u, err := url.Parse(line); err == nil && u.Query().Get("token") != "" {
			return u.Query().Get("token")
		}
	}
	t.Fatalf("no reset link in %q", body)
	return ""
}

func TestAuthService_ConfirmReset(t *testing.T) {
	f := newAuthFixture(t, AuthServiceConfig{ResetURL: "https://portal.example.com/auth/reset/confirm"})
	ctx := context.Background()
	require.NoError(t, f.service.SignUp(ctx, "ada@example.com", "secret1", models.Profile{Username: "ada", Role: models.RoleStudent}))
	token := requestResetToken(t, f, "ada@example.com")

	require.NoError(t, f.service.ConfirmReset(ctx, token, "secret2"))

	_, err := f.service.SignIn(ctx, "ada@example.com", "secret1")
	assert.Equal(t, repositories.FailureInvalidCredentials, repositories.KindOf(err))
	_, err = f.service.SignIn(ctx, "ada@example.com", "secret2")
	require.NoError(t, err)

	completed := f.publisher.EventsOfType(events.EventPasswordResetCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, "id-ada", completed[0].Data.(events.UserEvent).UserID)

	err = f.service.ConfirmReset(ctx, token, "secret3")
	assert.ErrorIs(t, err, repositories.ErrResetTokenInvalid)
	assert.Equal(t, "secret2", f.repo.users.passwords["ada@example.com"])
}

func TestAuthService_ConfirmResetRejectsBadTokens(t *testing.T) {
	f := newAuthFixture(t, AuthServiceConfig{ResetURL: "https://portal.example.com/auth/reset/confirm"})
	ctx := context.Background()

	err := f.service.ConfirmReset(ctx, "never-issued", "secret2")
	assert.Equal(t, repositories.FailureResetTokenInvalid, repositories.KindOf(err))

	require.NoError(t, f.service.SignUp(ctx, "ada@example.com", "secret1", models.Profile{Username: "ada", Role: models.RoleStudent}))
	expired := requestResetToken(t, f, "ada@example.com")
	f.redis.FastForward(cache.ResetTokenCacheConfig.TTL + time.Second)
	assert.ErrorIs(t, f.service.ConfirmReset(ctx, expired, "secret2"), repositories.ErrResetTokenInvalid)

	orphan := requestResetToken(t, f, "ada@example.com")
	delete(f.repo.users.users, "ada@example.com")
	assert.ErrorIs(t, f.service.ConfirmReset(ctx, orphan, "secret2"), repositories.ErrResetTokenInvalid)

	assert.Empty(t, f.publisher.EventsOfType(events.EventPasswordResetCompleted))
}

func TestAuthService_LogsMaskEmails(t *testing.T) {
	var buf bytes.Buffer
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cm := cache.NewCacheManager(client)
	repo := &fakeRepository{users: newFakeUsers(), mailer: &fakeMailer{}}
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	service := NewAuthService(repo, cache.NewSessionStore(cm.Sessions, time.Hour), cm.ResetTokens, events.NewMockEventPublisher(discardSlog()), logger, AuthServiceConfig{})
	ctx := context.Background()

	_, err := service.SignIn(ctx, "ada@example.com", "secret1")
	require.Error(t, err)
	require.NoError(t, service.ResetPassword(ctx, "ghost@example.com"))

	out := buf.String()
	assert.Contains(t, out, "a***@example.com")
	assert.Contains(t, out, "g***@example.com")
	assert.NotContains(t, out, "ada@example.com")
	assert.NotContains(t, out, "ghost@example.com")
}

func TestResetLink(t *testing.T) {
	link, err := resetLink("", "tok")
	require.NoError(t, err)
	assert.Equal(t, "tok", link)

	link, err = resetLink("https://id.example.com/forget/app", "tok")
	require.NoError(t, err)
	assert.Equal(t, "https://id.example.com/forget/app?token=tok", link)

	_, err = resetLink("://bad", "tok")
	assert.Error(t, err)
}
