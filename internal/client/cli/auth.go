package cli

import (
	"context"
	"os"

	"github.com/dmitrijs2005/storekeeper/internal/client/models"
	"github.com/dmitrijs2005/storekeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getTextWithDefault = GetTextWithDefault
var getPassword = GetPassword
var getYesNo = GetYesNo

// Login prompts for credentials and authenticates. When a username was
// remembered by a previous login it is offered as the prompt default. On
// failure the session's last-error text is shown; the password bytes are
// wiped before returning.
func (a *App) Login(ctx context.Context) error {
	saved, err := a.session.SavedUsername(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to read saved username", "error", err)
		saved = ""
	}

	username, err := getTextWithDefault(a.reader, a.msg("prompt.username"), saved, os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(a.msg("prompt.password"), os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if username == "" || len(password) == 0 {
		printlnFn(a.msg("msg.required_fields"))
		return nil
	}

	remember, err := getYesNo(a.reader, a.msg("prompt.remember"), os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, username, password, remember); err != nil {
		printlnFn(a.session.LastError())
		return err
	}

	printlnFn(a.msg("msg.login_success", a.session.User().Username))
	return nil
}

// Register prompts for the new account's fields and creates it. A successful
// registration logs the user in right away.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, a.msg("prompt.username"), os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, a.msg("prompt.email"), os.Stdout)
	if err != nil {
		return err
	}
	firstName, err := getSimpleText(a.reader, a.msg("prompt.first_name"), os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, a.msg("prompt.last_name"), os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(a.msg("prompt.password"), os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.msg("prompt.password_confirm"), os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if username == "" || len(password) == 0 {
		printlnFn(a.msg("msg.required_fields"))
		return nil
	}
	if string(password) != string(confirm) {
		printlnFn(a.msg("msg.passwords_mismatch"))
		return nil
	}

	data := models.RegistrationData{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Password:  string(password),
		Role:      "user",
	}

	if err := a.session.Register(ctx, data); err != nil {
		printlnFn(a.session.LastError())
		return err
	}

	printlnFn(a.msg("msg.register_success", a.session.User().Username))
	return nil
}

// Logout ends the current session. Safe to call when not logged in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		printlnFn(a.session.LastError())
		return err
	}
	printlnFn(a.msg("msg.logout_success"))
	return nil
}
