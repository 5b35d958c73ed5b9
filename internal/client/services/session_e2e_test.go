package services

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/storekeeper/internal/apitest"
	"github.com/dmitrijs2005/storekeeper/internal/client/api"
	"github.com/dmitrijs2005/storekeeper/internal/client/models"
)

// TestSessionService_EndToEnd drives the whole client stack against an
// in-process imitation of the backend: real HTTP client, real sqlite
// persistence, fake server.
func TestSessionService_EndToEnd(t *testing.T) {
	backend := apitest.NewServer("e2e-secret")
	backend.AddUser(models.User{
		Username: "alice", Email: "a@x.com",
		FirstName: "A", LastName: "L", Role: "user",
	}, "correct")

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client, err := api.NewHTTPClient(srv.URL, api.Options{})
	require.NoError(t, err)

	db := setupDB(t)
	svc := NewSessionService(client, db, nil)
	ctx := context.Background()

	t.Run("wrong password is rejected with the server detail", func(t *testing.T) {
		err := svc.Login(ctx, "alice", []byte("wrong"), false)
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", svc.LastError())
		assert.Equal(t, StatusUnauthenticated, svc.Status())
	})

	t.Run("correct password establishes a session", func(t *testing.T) {
		require.NoError(t, svc.Login(ctx, "alice", []byte("correct"), true))
		assert.Equal(t, StatusAuthenticated, svc.Status())
		assert.Equal(t, "alice", svc.User().Username)
		assert.NotEmpty(t, svc.Token())
	})

	t.Run("profile update adopts the server response", func(t *testing.T) {
		require.NoError(t, svc.UpdateProfile(ctx, models.ProfileUpdate{
			Username: "alice", Email: "a@x.com", FirstName: "Alice", LastName: "Liddell",
		}))
		assert.Equal(t, "Alice Liddell", svc.User().FullName())
	})

	t.Run("avatar upload merges the returned path", func(t *testing.T) {
		require.NoError(t, svc.UploadAvatar(ctx, "me.png", strings.NewReader("png-bytes")))
		assert.Contains(t, svc.User().ProfilePicture, "/uploads/profile_pictures/")
	})

	t.Run("session survives a restart", func(t *testing.T) {
		svc2 := NewSessionService(client, db, nil)
		require.NoError(t, svc2.Restore(ctx))
		assert.Equal(t, StatusAuthenticated, svc2.Status())
		assert.Equal(t, "Alice Liddell", svc2.User().FullName())
	})

	t.Run("password change takes effect on the next login", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, []byte("correct"), []byte("rotated")))
		require.NoError(t, svc.Logout(ctx))

		err := svc.Login(ctx, "alice", []byte("correct"), false)
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", svc.LastError())

		require.NoError(t, svc.Login(ctx, "alice", []byte("rotated"), false))
		assert.Equal(t, StatusAuthenticated, svc.Status())
	})

	t.Run("registration logs the new account in", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx))
		require.NoError(t, svc.Register(ctx, models.RegistrationData{
			Username: "bob", Email: "b@x.com", Password: "hunter2", Role: "user",
		}))
		assert.Equal(t, StatusAuthenticated, svc.Status())
		assert.Equal(t, "bob", svc.User().Username)
	})
}
