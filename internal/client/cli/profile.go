package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/storekeeper/internal/client/models"
	"github.com/dmitrijs2005/storekeeper/internal/common"
)

// ShowProfile re-fetches and prints the current user record. When the
// refresh fails (server down, stale token) the cached copy is shown instead.
func (a *App) ShowProfile(ctx context.Context) error {
	user, err := a.session.RefreshUser(ctx)
	if err != nil {
		user = a.session.User()
		if user == nil {
			printlnFn(a.session.LastError())
			return err
		}
	}

	printlnFn(a.msg("label.username")+":", user.Username)
	printlnFn(a.msg("label.email")+":", user.Email)
	printlnFn(a.msg("label.name")+":", user.FullName())
	printlnFn(a.msg("label.role")+":", user.Role)
	if user.ProfilePicture != "" {
		printlnFn(a.msg("label.picture")+":", user.ProfilePicture)
	}
	return nil
}

// UpdateProfile prompts for the editable identity fields, defaulting each to
// its current value, and submits the result.
func (a *App) UpdateProfile(ctx context.Context) error {
	current := a.session.User()
	if current == nil {
		printlnFn(a.msg("status.unauthenticated"))
		return nil
	}

	printlnFn(a.msg("msg.keep_current"))

	username, err := getTextWithDefault(a.reader, a.msg("prompt.username"), current.Username, os.Stdout)
	if err != nil {
		return err
	}
	email, err := getTextWithDefault(a.reader, a.msg("prompt.email"), current.Email, os.Stdout)
	if err != nil {
		return err
	}
	firstName, err := getTextWithDefault(a.reader, a.msg("prompt.first_name"), current.FirstName, os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getTextWithDefault(a.reader, a.msg("prompt.last_name"), current.LastName, os.Stdout)
	if err != nil {
		return err
	}

	upd := models.ProfileUpdate{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := a.session.UpdateProfile(ctx, upd); err != nil {
		printlnFn(a.session.LastError())
		return err
	}

	printlnFn(a.msg("msg.profile_updated"))
	return nil
}

// ChangePassword prompts for the current and new passwords and submits the
// change. All password buffers are wiped before returning.
func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.msg("prompt.current_password"), os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword(a.msg("prompt.new_password"), os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	confirm, err := getPassword(a.msg("prompt.password_confirm"), os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(next) != string(confirm) {
		printlnFn(a.msg("msg.passwords_mismatch"))
		return nil
	}

	if err := a.session.ChangePassword(ctx, current, next); err != nil {
		printlnFn(a.session.LastError())
		return err
	}

	printlnFn(a.msg("msg.password_changed"))
	return nil
}

// UploadAvatar prompts for an image path and uploads it as the profile
// picture.
func (a *App) UploadAvatar(ctx context.Context) error {
	path, err := getSimpleText(a.reader, a.msg("prompt.avatar_path"), os.Stdout)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	defer f.Close()

	if err := a.session.UploadAvatar(ctx, filepath.Base(path), f); err != nil {
		printlnFn(a.session.LastError())
		return err
	}

	printlnFn(a.msg("msg.avatar_updated", a.session.User().ProfilePicture))
	return nil
}
