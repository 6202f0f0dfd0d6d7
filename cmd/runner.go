package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskly/internal/auth"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/notify"
	"github.com/desertthunder/taskly/internal/repositories"
	"github.com/desertthunder/taskly/internal/services"
	"github.com/desertthunder/taskly/internal/shared"
	"github.com/urfave/cli/v3"
)

// Session is the sign-in boundary the commands depend on. [*auth.Manager] satisfies it.
type Session interface {
	auth.Provider
	Restore(ctx context.Context) (*models.User, error)
	Token(ctx context.Context) (string, error)
}

var _ Session = (*auth.Manager)(nil)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database, session and task service are built on first use so that commands like
// "setup config" work without a valid configuration.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	session    Session
	tasks      services.TaskService
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Session    Session              // overrides the database-backed session
	Tasks      services.TaskService // overrides the HTTP task service
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		session:    opts.Session,
		tasks:      opts.Tasks,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, tasksCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Load reads the configuration named by --config and applies --debug. A missing file leaves
// the defaults in place.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	r.configPath = path

	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return ctx, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, err
	}
	r.config = config
	r.logger.Debug("loaded config", "path", path)
	return ctx, nil
}

// SetLogger replaces the logger used by the runner and everything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database handle, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// database opens the configured database and brings its schema up to date.
func (r *Runner) database(ctx context.Context) (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

// authSession returns the session manager, building it from config on first use.
func (r *Runner) authSession(ctx context.Context) (Session, error) {
	if r.session != nil {
		return r.session, nil
	}

	if err := r.config.Validate(); err != nil {
		return nil, err
	}
	if r.config.Auth.APIKey == "" {
		return nil, fmt.Errorf("%w: auth.api_key", shared.ErrMissingConfig)
	}

	db, err := r.database(ctx)
	if err != nil {
		return nil, err
	}

	identity := auth.NewIdentityClient(r.config.Auth.APIKey, r.config.Auth.IdentityURL, r.config.Auth.TokenURL, r.httpClient)

	var google auth.GoogleSignIn
	if g := r.config.Auth.Google; g.Enabled() {
		google = auth.NewGoogleFlow(auth.GoogleOptions{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  g.RedirectURI,
			Addr:         r.config.Server.Addr(),
			OnAuthURL: func(url string) {
				r.writePlain("Open this URL in your browser to continue:\n%s\n", url)
			},
			Logger: shared.WithLogger(r.logger, "component", "google"),
		})
	}

	sessions := repositories.NewSessionRepository(db)
	r.session = auth.NewManager(identity, google, sessions, shared.WithLogger(r.logger, "component", "auth"))
	return r.session, nil
}

// signedIn restores the persisted session, failing when nobody is signed in.
func (r *Runner) signedIn(ctx context.Context) (Session, *models.User, error) {
	session, err := r.authSession(ctx)
	if err != nil {
		return nil, nil, err
	}

	user, err := session.Restore(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return nil, nil, fmt.Errorf("%w: run 'taskly auth login' first", shared.ErrNotAuthenticated)
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to restore session: %w", err)
	}
	return session, user, nil
}

// taskService returns the remote task service, authenticated as the session's user when
// api.send_token is set.
func (r *Runner) taskService(ctx context.Context, session Session) (services.TaskService, error) {
	if r.tasks != nil {
		return r.tasks, nil
	}

	client := r.httpClient
	if r.config.API.SendToken {
		if _, err := session.Token(ctx); err != nil {
			return nil, err
		}
		client = services.NewTokenClient(ctx, session.Token, services.DefaultTokenReuse)
	}

	svc := services.NewHTTPTaskService(r.config.API.BaseURL, client)
	svc.SetRateLimit(r.config.API.RateLimit)
	return svc, nil
}

func (r *Runner) newCenter() *notify.Center {
	return notify.NewCenter(notify.Options{
		TTL:    r.config.UI.NotificationTTL(),
		Logger: shared.WithLogger(r.logger, "component", "notify"),
	})
}

// printNotifications echoes every notification center message to the output.
func (r *Runner) printNotifications(center *notify.Center) {
	center.Subscribe(func(n notify.Notification, ok bool) {
		if ok {
			r.writeStatus(n.Kind, n.Message)
		}
	})
}

func (r *Runner) writeStatus(kind notify.Kind, message string) error {
	mark := "✓"
	if kind == notify.Error {
		mark = "✗"
	}
	return r.writePlain("%s %s\n", mark, message)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
