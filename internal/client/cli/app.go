package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/storekeeper/internal/client/api"
	"github.com/dmitrijs2005/storekeeper/internal/client/config"
	"github.com/dmitrijs2005/storekeeper/internal/client/i18n"
	"github.com/dmitrijs2005/storekeeper/internal/client/services"
	"github.com/dmitrijs2005/storekeeper/internal/client/storage"
	"github.com/dmitrijs2005/storekeeper/internal/filex"
	"github.com/dmitrijs2005/storekeeper/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the session service, the translator, and the REPL together.
type App struct {
	config  *config.Config
	session services.SessionService
	tr      *i18n.Translator
	logger  logging.Logger
	reader  *bufio.Reader
}

// NewApp opens the local database, constructs the API client, and restores
// any session persisted by a previous run.
func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx := context.Background()

	dbPath := c.DatabasePath
	if filepath.Dir(dbPath) == "." {
		// a bare file name goes into the app's data directory
		dir, err := filex.EnsureSubDir(".storekeeper")
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(dir, dbPath)
	}

	db, err := storage.InitDatabase(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	apiClient, err := api.NewHTTPClient(c.APIBaseURL, api.Options{
		HTTPClient: &http.Client{Timeout: c.RequestTimeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	session := services.NewSessionService(apiClient, db, logger)
	if err := session.Restore(ctx); err != nil {
		logger.Warn(ctx, "failed to restore session", "error", err)
	}

	lang, err := session.Language(ctx)
	if err != nil || lang == "" {
		lang = c.Language
	}
	tr, err := i18n.New(lang)
	if err != nil {
		return nil, err
	}

	return &App{
		config:  c,
		session: session,
		tr:      tr,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the interactive loop and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.session.Close(ctx) }()

	printlnFn(a.msg("msg.welcome"))
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.session.Status() == services.StatusAuthenticated
}

func (a *App) msg(id string, args ...any) string {
	if len(args) == 0 {
		return a.tr.T(id)
	}
	return a.tr.Tf(id, args...)
}

func (a *App) getStatus() string {
	if u := a.session.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Username)
	}
	return ""
}

func (a *App) printHelp() {
	ids := []string{"help.profile", "help.update", "help.passwd", "help.avatar", "help.logout"}
	if !a.isLoggedIn() {
		ids = []string{"help.login", "help.register"}
	}
	ids = append(ids, "help.lang", "help.help", "help.exit")
	for _, id := range ids {
		printlnFn(a.msg(id))
	}
}
