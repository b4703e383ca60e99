package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pokertable/pokertable/internal/dependencies/mocks"
	"github.com/pokertable/pokertable/internal/storage/memory"
	"github.com/pokertable/pokertable/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

// Guest account tests

func (s *ServiceSuite) TestCreateGuestAccount() {
	session, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Account.DisplayName)
	s.True(session.Account.IsGuest)
	s.Equal(session.Account.Identity, session.Identity)
}

func (s *ServiceSuite) TestGuestAccountIsPersisted() {
	session, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	account, err := s.storage.GetAccount(s.ctx, session.Identity)
	s.Require().NoError(err)
	s.Equal("Alice", account.DisplayName)
}

func (s *ServiceSuite) TestGuestAccountsGetDistinctIdentities() {
	first, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)
	second, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEqual(first.Identity, second.Identity)
}

// Registration tests

func (s *ServiceSuite) TestRegisterAccount() {
	session, err := s.service.RegisterAccount(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Account.DisplayName)
	s.False(session.Account.IsGuest)

	ra, err := s.storage.GetRegisteredAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.Identity, ra.Identity)
	s.NotEqual("password123", ra.PasswordHash)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.RegisterAccount(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.RegisterAccount(s.ctx, "alice", "different", "Other Alice")
	s.ErrorIs(err, ErrUsernameExists)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	registered, err := s.service.RegisterAccount(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	session, err := s.service.Login(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(registered.Identity, session.Identity)
	s.NotEqual(registered.Token, session.Token)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.RegisterAccount(s.ctx, "alice", "password123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUsername() {
	_, err := s.service.Login(s.ctx, "nobody", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateSession() {
	session, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Identity, validated.Identity)
}

func (s *ServiceSuite) TestValidateUnknownToken() {
	_, err := s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionExpires() {
	session, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSession() {
	session, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	s.service.InvalidateSession(session.Token)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestGetAccountFromToken() {
	session, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	account, err := s.service.GetAccount(session.Token)
	s.Require().NoError(err)
	s.Equal("Alice", account.DisplayName)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	expired, err := s.service.CreateGuestAccount(s.ctx, "Alice")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)
	fresh, err := s.service.CreateGuestAccount(s.ctx, "Bob")
	s.Require().NoError(err)

	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(expired.Token)
	s.ErrorIs(err, ErrInvalidSession)

	_, err = s.service.ValidateSession(fresh.Token)
	s.Require().NoError(err)
}
