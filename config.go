package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Seednode/teamswap/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	allowEmptySwap bool
	bind           string
	port           int
	prefix         string
	profile        bool
	statePath      string
	tlsCert        string
	tlsKey         string
	toolsFile      string
	verbose        bool
	version        bool

	logger *zap.Logger
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.statePath == "" {
		return errors.New("--state cannot be empty")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(logDate)
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build()
}

// bindEnv lets every flag in fs be set from a TEAMSWAP_* variable.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TEAMSWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "teamswap",
		Short:         "Randomly swap paired team assignments, with per-row locks and local persistence.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cfg.logger = logger

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cfg.logger != nil {
				_ = cfg.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.BoolVar(&cfg.allowEmptySwap, "allow-empty-swap", false, "let built-in tools swap rows with a blank side (env: TEAMSWAP_ALLOW_EMPTY_SWAP)")
	pfs.StringVar(&cfg.statePath, "state", storage.DefaultPath(), "sqlite file holding tool state, or :memory: (env: TEAMSWAP_STATE)")
	pfs.StringVar(&cfg.toolsFile, "tools", "", "yaml file with additional tool definitions (env: TEAMSWAP_TOOLS)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: TEAMSWAP_VERBOSE)")

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "127.0.0.1", "address to bind to (env: TEAMSWAP_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: TEAMSWAP_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: TEAMSWAP_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: TEAMSWAP_PROFILE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: TEAMSWAP_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: TEAMSWAP_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: TEAMSWAP_VERSION)")

	bindEnv(v, pfs)
	bindEnv(v, fs)

	cmd.AddCommand(
		newToolsCmd(cfg),
		newShowCmd(cfg),
		newSetCmd(cfg),
		newLockCmd(cfg),
		newShuffleCmd(cfg),
		newCopyCmd(cfg),
		newClearCmd(cfg),
		newResetCountCmd(cfg),
		newTUICmd(cfg),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("teamswap v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
