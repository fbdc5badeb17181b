// Command procview browses MedShield process documents: a server-rendered
// web UI, an interactive terminal UI, and batch export tooling, all on top
// of the compliance API client.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sternrassler/medshield-admin/pkg/client"
	"github.com/Sternrassler/medshield-admin/pkg/config"
	"github.com/Sternrassler/medshield-admin/pkg/logging"
	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// globalFlags override configuration values when set.
type globalFlags struct {
	configPath string
	apiURL     string
	token      string
	redisURL   string
	logLevel   string
	logPretty  bool
	logFile    string
}

// app holds what every subcommand shares once PersistentPreRunE ran.
type app struct {
	cfg     config.Config
	client  *client.Client
	redis   *redis.Client
	logger  zerolog.Logger
	logFile io.Closer
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	a := &app{}

	root := &cobra.Command{
		Use:     "procview",
		Short:   "Browse MedShield process documents",
		Version: version,
		Long: `procview browses the clustered process documents of the MedShield
compliance API, filtered by lifecycle phase and role.

  serve    server-rendered web UI
  browse   interactive terminal UI
  export   fetch every page of a filter set as JSON
  matrix   print cluster counts per phase and role`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, flags)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML config file")
	pf.StringVar(&flags.apiURL, "api-url", "", "Compliance API base URL (overrides config)")
	pf.StringVar(&flags.token, "token", "", "Bearer token (overrides config and MEDSHIELD_TOKEN)")
	pf.StringVar(&flags.redisURL, "redis", "", "Redis address host:port (enables the response cache)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.logPretty, "log-pretty", false, "Human-readable log output")
	pf.StringVar(&flags.logFile, "log-file", "", "Write logs to this file instead of stderr")

	root.AddCommand(
		newServeCmd(a),
		newBrowseCmd(a),
		newExportCmd(a),
		newMatrixCmd(a),
		newCacheCmd(a),
	)
	return root
}

// setup loads the configuration, applies flag overrides, configures
// logging and creates the API client.
func (a *app) setup(cmd *cobra.Command, flags globalFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return codeError(2, "%v", err)
	}

	changed := cmd.Flags().Changed
	if changed("api-url") {
		cfg.APIBaseURL = flags.apiURL
	}
	if changed("token") {
		cfg.Token = flags.token
	}
	if changed("redis") {
		cfg.RedisURL = flags.redisURL
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-pretty") {
		cfg.Log.Pretty = flags.logPretty
	}
	if changed("log-file") {
		cfg.Log.File = flags.logFile
	}

	if err := cfg.Validate(); err != nil {
		return codeError(2, "invalid configuration: %v", err)
	}
	a.cfg = cfg

	if err := a.setupLogging(cmd); err != nil {
		return err
	}

	if cfg.RedisURL != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL, DB: cfg.RedisDB})
		pingCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			rdb.Close()
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisURL, err)
		}
		a.redis = rdb
		a.logger.Debug().Str("addr", cfg.RedisURL).Msg("Connected to Redis")
	}

	c, err := client.New(client.Config{
		BaseURL:     cfg.APIBaseURL,
		Redis:       a.redis,
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.RequestTimeout,
		MaxAttempts: 1,
	})
	if err != nil {
		return codeError(2, "create client: %v", err)
	}
	a.client = c
	return nil
}

// setupLogging sends logs to stderr, to the configured file, or nowhere
// for the terminal UI without a log file.
func (a *app) setupLogging(cmd *cobra.Command) error {
	var out io.Writer = cmd.ErrOrStderr()
	level := logging.LogLevel(a.cfg.Log.Level)

	switch {
	case a.cfg.Log.File != "":
		f, err := logging.OpenFile(a.cfg.Log.File)
		if err != nil {
			return err
		}
		a.logFile = f
		out = f
	case cmd.Name() == "browse":
		level = "disabled"
	}

	logging.Setup(logging.Config{
		Level:   level,
		Pretty:  a.cfg.Log.Pretty,
		Output:  out,
		Service: "procview",
	})
	a.logger = logging.NewLogger("cli")
	return nil
}

func (a *app) close() error {
	if a.client != nil {
		a.client.Close()
	}
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}

// tokenContext returns ctx carrying the configured bearer token.
func (a *app) tokenContext(ctx context.Context) context.Context {
	if a.cfg.Token == "" {
		return ctx
	}
	return client.WithToken(ctx, a.cfg.Token)
}

// filterFlags binds the filter criteria to cmd's flags.
func filterFlags(cmd *cobra.Command, f *model.FilterCriteria, withPhaseRole bool) {
	fs := cmd.Flags()
	if withPhaseRole {
		fs.StringVar(&f.Phase, "phase", "", "Lifecycle phase (required)")
		fs.StringVar(&f.Role, "role", "", "Role (required)")
	}
	fs.StringVar(&f.Subject, "subject", "", "Subject filter")
	fs.StringVar(&f.Category, "category", "", "Category filter")
	fs.StringVar(&f.Standard, "standard", "", "Standard filter")
	fs.StringVar(&f.Priority, "priority", "", "Priority filter (Shall, Should)")
}
