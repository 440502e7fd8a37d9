package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrx/internal/services"
	"github.com/desertthunder/lyrx/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Playback and catalog services are built from the loaded config on first use
// unless they were supplied through [RunnerOpts].
type Runner struct {
	config     *shared.Config
	configPath string
	playback   services.PlaybackService
	catalog    services.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Playback   services.PlaybackService
	Catalog    services.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
		playback:   opts.Playback,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, onceCommand, searchCommand, lyricsCommand, authCommand, setupCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file named by --config, applies environment
// overrides and the log level. A missing file keeps the current config.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath
	}
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else if cmd.IsSet("config") {
		r.logger.Warn("config file not found, using defaults", "path", path)
	}

	r.config.ApplyEnv()

	level := r.config.Log.Level
	if cmd.Bool("debug") {
		level = "debug"
	}
	if err := shared.SetLogLevelString(r.logger, level); err != nil {
		return ctx, err
	}

	r.logger.Debug("config loaded", "path", r.configPath)
	return ctx, nil
}

// playbackService returns the injected playback service or builds an
// authenticated Spotify client from the config.
func (r *Runner) playbackService(ctx context.Context) (services.PlaybackService, error) {
	if r.playback != nil {
		return r.playback, nil
	}

	creds := r.config.Credentials.Spotify
	srv := services.NewSpotifyService(services.SpotifyOpts{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURI:  creds.RedirectURI,
		BaseURL:      r.config.Playback.APIURL,
		Timeout:      r.config.HTTP.Timeout(),
		UserAgent:    r.config.HTTP.UserAgent,
		Transport:    r.httpClient.Transport,
	})

	if err := srv.Authenticate(ctx, map[string]string{"access_token": creds.AccessToken}); err != nil {
		return nil, fmt.Errorf("%w (run 'lyrx auth spotify' or set %s)", err, shared.EnvSpotifyToken)
	}

	r.playback = srv
	return srv, nil
}

// catalogService returns the injected catalog or builds a Genius client from the config.
func (r *Runner) catalogService() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	srv, err := services.NewGeniusService(services.GeniusOpts{
		AccessToken: r.config.Credentials.Genius.AccessToken,
		APIURL:      r.config.Catalog.APIURL,
		WebURL:      r.config.Catalog.WebURL,
		Timeout:     r.config.HTTP.Timeout(),
		RateLimit:   r.config.Catalog.RateLimit,
		UserAgent:   r.config.HTTP.UserAgent,
		Transport:   r.httpClient.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set credentials.genius.access_token or %s)", err, shared.EnvGeniusToken)
	}

	r.catalog = srv
	return srv, nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
