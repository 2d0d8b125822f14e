package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillswap/internal/repositories"
	"github.com/desertthunder/skillswap/internal/services"
	"github.com/desertthunder/skillswap/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader

	// readPassword reads a line without echo; it is swapped out in tests.
	readPassword func() (string, error)

	db     *sql.DB
	jar    *services.Jar
	client *services.Client
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client // Transport and timeout for backend calls; its cookie jar is replaced
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
	r.readPassword = r.readTerminalPassword
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, postsCommand, profileCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and any client it has already built.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.client != nil {
		r.client.SetLogger(l)
	}
}

// backendURL parses the configured backend base URL.
func (r *Runner) backendURL() (*url.URL, error) {
	u, err := url.Parse(r.config.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: backend.base_url must be an absolute URL, got %q", shared.ErrInvalidConfig, r.config.Backend.BaseURL)
	}
	return u, nil
}

// session opens the cookie database and returns a backend client whose jar carries the stored session.
//
// The client is built once per runner.
func (r *Runner) session() (*services.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	base, err := r.backendURL()
	if err != nil {
		return nil, err
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	jar, err := services.NewJar(repositories.NewCookieRepository(db), r.logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := jar.Load(base); err != nil {
		r.logger.Warn("failed to restore session cookies", "error", err)
	}

	httpClient := &http.Client{
		Transport: r.httpClient.Transport,
		Timeout:   r.httpClient.Timeout,
		Jar:       jar,
	}

	r.db, r.jar = db, jar
	r.client = services.NewClient(base.String(), httpClient)
	r.client.SetLogger(r.logger)
	return r.client, nil
}

// Close releases the cookie database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.jar, r.client = nil, nil, nil
	return err
}

func (r *Runner) readTerminalPassword() (string, error) {
	f, ok := r.input.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("%w: --password is required when stdin is not a terminal", shared.ErrMissingArgument)
	}
	raw, err := term.ReadPassword(int(f.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// promptPassword writes prompt and reads a password without echo.
func (r *Runner) promptPassword(prompt string) (string, error) {
	r.writePlain("%s", prompt)
	password, err := r.readPassword()
	r.writePlain("\n")
	return password, err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
