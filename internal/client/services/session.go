// Package services contains application services for the storekeeper client.
// This file defines the session service: the single source of truth for the
// authentication state, mediating every credential-bearing exchange with the
// REST API and persisting the session across restarts.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/storekeeper/internal/client/api"
	"github.com/dmitrijs2005/storekeeper/internal/client/models"
	"github.com/dmitrijs2005/storekeeper/internal/client/repositories/state"
	"github.com/dmitrijs2005/storekeeper/internal/common"
	"github.com/dmitrijs2005/storekeeper/internal/dbx"
	"github.com/dmitrijs2005/storekeeper/internal/logging"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticating  Status = "authenticating"
	StatusAuthenticated   Status = "authenticated"
)

// SessionService owns the token/user pair and mediates the auth flows.
//
// Contract:
//   - Restore: rehydrate a previously persisted session without touching
//     the network. An orphaned half (token without user or vice versa) is
//     discarded.
//   - Login: token endpoint, then current-user fetch; only when both
//     succeed is the pair committed to memory and storage, atomically.
//   - Register: create the account, then log in with the same credentials.
//   - Logout: clear the session everywhere; remember-me preferences stay.
//   - UpdateProfile / ChangePassword / UploadAvatar: require an established
//     session and fail fast without any network call when there is none.
//
// Failed operations never mutate the committed session; they only set the
// last-error text. Nothing here retries automatically: a retry is a user
// re-submission.
type SessionService interface {
	Restore(ctx context.Context) error
	Login(ctx context.Context, username string, password []byte, remember bool) error
	Register(ctx context.Context, data models.RegistrationData) error
	Logout(ctx context.Context) error
	RefreshUser(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error
	ChangePassword(ctx context.Context, current, next []byte) error
	UploadAvatar(ctx context.Context, filename string, content io.Reader) error

	Status() Status
	User() *models.User
	Token() string
	LastError() string

	SavedUsername(ctx context.Context) (string, error)
	Language(ctx context.Context) (string, error)
	SetLanguage(ctx context.Context, code string) error

	Close(ctx context.Context) error
}

// sessionService is the concrete SessionService backed by a remote Client
// and a local sqlite database.
type sessionService struct {
	client api.Client
	db     *sql.DB
	logger logging.Logger

	mu        sync.Mutex
	token     string
	user      *models.User
	status    Status
	lastError string
}

// NewSessionService constructs a SessionService bound to the given API
// client and local database.
func NewSessionService(client api.Client, db *sql.DB, logger logging.Logger) SessionService {
	return &sessionService{
		client: client,
		db:     db,
		logger: logger,
		status: StatusUnauthenticated,
	}
}

func (s *sessionService) getStateRepo() state.Repository {
	return state.NewSQLiteRepository(s.db)
}

// failureMessage converts an operation error into the human-readable text
// surfaced to the UI. Server-provided detail wins; everything else gets a
// generic message by classification.
func failureMessage(err error) string {
	if apiErr, ok := api.AsError(err); ok {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		switch apiErr.Kind {
		case api.KindConnectivity:
			return "Cannot connect to the server"
		case api.KindServer:
			return "Server error, please try again later"
		default:
			return "Request failed"
		}
	}
	return err.Error()
}

// begin marks an in-flight authentication attempt and clears stale errors.
func (s *sessionService) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAuthenticating
	s.lastError = ""
}

// settle recomputes the stable status from the committed pair. The session
// is authenticated exactly when both token and user are present.
func (s *sessionService) settleLocked() {
	if s.token != "" && s.user != nil {
		s.status = StatusAuthenticated
	} else {
		s.status = StatusUnauthenticated
	}
}

func (s *sessionService) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = failureMessage(err)
	s.settleLocked()
}

func (s *sessionService) commit(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.lastError = ""
	s.settleLocked()
}

// persistSession writes token and user in a single transaction so a crash
// can never leave one half behind.
func (s *sessionService) persistSession(ctx context.Context, token string, user *models.User) error {
	data, err := user.Marshal()
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, state.KeyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, state.KeyUser, data)
	})
}

func (s *sessionService) clearSession(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, state.KeyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, state.KeyUser)
	})
}

// Restore rehydrates the session persisted by a previous run. No network
// call and no token-expiry check: a stored token is trusted until the
// server rejects it.
func (s *sessionService) Restore(ctx context.Context) error {
	repo := s.getStateRepo()

	tokenBytes, err := repo.Get(ctx, state.KeyToken)
	if err != nil {
		return err
	}
	userBytes, err := repo.Get(ctx, state.KeyUser)
	if err != nil {
		return err
	}

	if len(tokenBytes) == 0 || len(userBytes) == 0 {
		if len(tokenBytes) != 0 || len(userBytes) != 0 {
			// half-written pair violates the invariant, drop it
			if s.logger != nil {
				s.logger.Warn(ctx, "discarding orphaned session state")
			}
			return s.clearSession(ctx)
		}
		return nil
	}

	user, err := models.UnmarshalUser(userBytes)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn(ctx, "discarding unreadable session state", "error", err)
		}
		return s.clearSession(ctx)
	}

	s.commit(string(tokenBytes), user)
	return nil
}

// Login authenticates against the token endpoint and fetches the user
// record. The pair is persisted only when both calls succeed; a failure
// at any point leaves the committed session untouched and sets LastError.
func (s *sessionService) Login(ctx context.Context, username string, password []byte, remember bool) error {
	s.begin()

	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		s.fail(err)
		return err
	}

	user, err := s.client.CurrentUser(ctx, token)
	if err != nil {
		s.fail(err)
		return err
	}

	if err := s.persistSession(ctx, token, user); err != nil {
		s.fail(err)
		return err
	}

	if err := s.saveRemember(ctx, username, remember); err != nil {
		// a broken convenience preference must not fail the login
		if s.logger != nil {
			s.logger.Warn(ctx, "failed to save remembered username", "error", err)
		}
	}

	s.commit(token, user)
	if s.logger != nil {
		s.logger.Info(ctx, "login succeeded", "username", user.Username)
	}
	return nil
}

func (s *sessionService) saveRemember(ctx context.Context, username string, remember bool) error {
	repo := s.getStateRepo()
	if remember {
		return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			repo := state.NewSQLiteRepository(tx)
			if err := repo.Set(ctx, state.KeyRememberMe, []byte("true")); err != nil {
				return err
			}
			return repo.Set(ctx, state.KeySavedUsername, []byte(username))
		})
	}
	if err := repo.Delete(ctx, state.KeyRememberMe); err != nil {
		return err
	}
	return repo.Delete(ctx, state.KeySavedUsername)
}

// Register creates the account and, on success, immediately logs in with
// the same credentials. Registration itself never establishes a session.
func (s *sessionService) Register(ctx context.Context, data models.RegistrationData) error {
	s.begin()

	if _, err := s.client.Register(ctx, data); err != nil {
		s.fail(err)
		return err
	}

	return s.Login(ctx, data.Username, []byte(data.Password), false)
}

// Logout clears the session from memory and storage. Remember-me
// preferences survive for login-form convenience. Idempotent.
func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.clearSession(ctx); err != nil {
		return err
	}
	s.commit("", nil)
	if s.logger != nil {
		s.logger.Info(ctx, "logged out")
	}
	return nil
}

func (s *sessionService) requireToken(op string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		s.lastError = "You must be logged in to " + op
		return "", common.ErrorNotLoggedIn
	}
	return s.token, nil
}

// RefreshUser re-fetches the canonical user record for the current token
// and replaces the stored copy.
func (s *sessionService) RefreshUser(ctx context.Context) (*models.User, error) {
	token, err := s.requireToken("view your profile")
	if err != nil {
		return nil, err
	}

	user, err := s.client.CurrentUser(ctx, token)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	if err := s.persistSession(ctx, token, user); err != nil {
		s.fail(err)
		return nil, err
	}

	s.commit(token, user)
	return user, nil
}

// UpdateProfile sends the edited fields and adopts the server's canonical
// response wholesale; stale local fields are never merged over it.
func (s *sessionService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	token, err := s.requireToken("update your profile")
	if err != nil {
		return err
	}

	user, err := s.client.UpdateProfile(ctx, token, upd)
	if err != nil {
		s.fail(err)
		return err
	}

	if err := s.persistSession(ctx, token, user); err != nil {
		s.fail(err)
		return err
	}

	s.commit(token, user)
	if s.logger != nil {
		s.logger.Info(ctx, "profile updated", "username", user.Username)
	}
	return nil
}

// ChangePassword verifies the current password server-side. Success does
// not change the session beyond clearing the transient error state.
func (s *sessionService) ChangePassword(ctx context.Context, current, next []byte) error {
	token, err := s.requireToken("change your password")
	if err != nil {
		return err
	}

	if err := s.client.ChangePassword(ctx, token, current, next); err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// UploadAvatar uploads the picture and merges the returned reference into
// the stored user record without touching other fields.
func (s *sessionService) UploadAvatar(ctx context.Context, filename string, content io.Reader) error {
	token, err := s.requireToken("upload a profile picture")
	if err != nil {
		return err
	}

	picture, err := s.client.UploadProfilePicture(ctx, token, filename, content)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	current := s.user
	s.mu.Unlock()
	if current == nil {
		return common.ErrorNotLoggedIn
	}

	updated := *current
	updated.ProfilePicture = picture

	if err := s.persistSession(ctx, token, &updated); err != nil {
		s.fail(err)
		return err
	}

	s.commit(token, &updated)
	return nil
}

func (s *sessionService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User returns a copy of the current user record, or nil.
func (s *sessionService) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *sessionService) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *sessionService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// SavedUsername returns the remembered identifier for login-form prefill,
// or "" when the preference is off.
func (s *sessionService) SavedUsername(ctx context.Context) (string, error) {
	repo := s.getStateRepo()

	flag, err := repo.Get(ctx, state.KeyRememberMe)
	if err != nil {
		return "", err
	}
	if string(flag) != "true" {
		return "", nil
	}

	name, err := repo.Get(ctx, state.KeySavedUsername)
	if err != nil {
		return "", err
	}
	return string(name), nil
}

// Language returns the persisted UI locale code, or "" when none is set.
func (s *sessionService) Language(ctx context.Context) (string, error) {
	v, err := s.getStateRepo().Get(ctx, state.KeyLanguage)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *sessionService) SetLanguage(ctx context.Context, code string) error {
	return s.getStateRepo().Set(ctx, state.KeyLanguage, []byte(code))
}

// Close releases resources held by the underlying client.
func (s *sessionService) Close(ctx context.Context) error {
	return s.client.Close()
}
