package cli

import (
	"context"
	"os"
	"strings"
)

// SwitchLanguage changes the UI locale and persists the preference. When no
// code is given the available locales are listed and the user is prompted.
func (a *App) SwitchLanguage(ctx context.Context, code string) error {
	if code == "" {
		printlnFn(a.msg("label.languages")+":", strings.Join(a.tr.Languages(), ", "))
		var err error
		code, err = getSimpleText(a.reader, a.msg("prompt.language"), os.Stdout)
		if err != nil {
			return err
		}
	}

	if err := a.tr.SetLanguage(code); err != nil {
		printlnFn(err.Error())
		return err
	}

	if err := a.session.SetLanguage(ctx, code); err != nil {
		a.logger.Warn(ctx, "failed to persist language", "error", err)
	}

	printlnFn(a.msg("msg.language_changed", code))
	return nil
}
