package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siondream/localise"
	"github.com/siondream/localise/internal/config"
)

// app carries what every command needs; tests swap fs and the writers.
type app struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper
}

func newRootCmd(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	a := &app{fs: fs, stdout: stdout, stderr: stderr, v: viper.New()}

	cmd := &cobra.Command{
		Use:   "localise",
		Short: "Synchronise per-language CSV string tables with the keys used in source",
		Long: `localise scans sourceDir for translatable keys using the configured regular
expressions, then rewrites <lang>.csv in targetDir for every configured language:
new keys are added with the key itself as value, keys no longer found are removed,
and existing translations are kept.

The config file may also be given with the LOCALISE_CONFIG environment variable.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "config file to use for localisation template generation")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().Bool("check", false, "report locale files that would change and fail instead of writing them")

	a.v.SetEnvPrefix("LOCALISE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlag("config", pf.Lookup("config"))
	_ = a.v.BindPFlag("log-level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("check", cmd.Flags().Lookup("check"))

	cmd.AddCommand(a.newExtractCmd())
	return cmd
}

func (a *app) loadConfig() (localise.Config, error) {
	path := a.v.GetString("config")
	if path == "" {
		return localise.Config{}, &localise.Error{
			Kind: localise.KindConfig,
			Err:  errors.New("missing required option -c/--config"),
		}
	}
	return config.Load(a.fs, path)
}

func (a *app) reporter() (localise.Reporter, error) {
	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	out := zerolog.ConsoleWriter{
		Out:           a.stderr,
		NoColor:       true,
		PartsExclude:  []string{zerolog.TimestampFieldName},
		FieldsExclude: []string{"kind"},
	}
	return localise.NewLogReporter(zerolog.New(out).Level(level)), nil
}

func (a *app) runSync() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	r, err := a.reporter()
	if err != nil {
		return err
	}
	var opts []localise.SyncOption
	if a.v.GetBool("check") {
		opts = append(opts, localise.WithCheck())
	}
	return localise.Sync(a.fs, cfg, r, opts...)
}
