// Package api implements the HTTP client for the back-office REST API.
package api

import (
	"context"
	"io"

	"github.com/dmitrijs2005/storekeeper/internal/client/models"
)

// Client is the transport-level surface the session service talks to.
//
// Contract:
//   - Login: exchange credentials for a bearer token (form-encoded POST).
//   - Register: create a new account; does not establish a session.
//   - CurrentUser: fetch the canonical user record for a token.
//   - UpdateProfile: replace the editable identity fields.
//   - ChangePassword: verify the current password server-side and set a new one.
//   - UploadProfilePicture: multipart upload; returns the stored picture path.
//   - Close: release underlying transport resources.
//
// All methods must honor context cancellation/timeouts. Failures are
// returned as *Error with a classification Kind; no raw transport error
// escapes this layer.
type Client interface {
	Close() error
	Login(ctx context.Context, username string, password []byte) (string, error)
	Register(ctx context.Context, data models.RegistrationData) (*models.User, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, upd models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, token string, current, next []byte) error
	UploadProfilePicture(ctx context.Context, token string, filename string, content io.Reader) (string, error)
}
