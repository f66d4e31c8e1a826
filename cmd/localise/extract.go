package main

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/siondream/localise"
)

const (
	formatKeys = "keys"
	formatYAML = "yaml"
)

func (a *app) newExtractCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Print the keys found in sourceDir without touching locale files",
		Long: `extract runs the scan half of a sync and prints the unique keys in ascending order,
one per line (--format keys) or as a YAML list (--format yaml).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runExtract(format, out)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatKeys, "output format: keys or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func (a *app) runExtract(format, out string) error {
	if format != formatKeys && format != formatYAML {
		return fmt.Errorf("extract: unknown format %q (want %s or %s)", format, formatKeys, formatYAML)
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	r, err := a.reporter()
	if err != nil {
		return err
	}
	keys, err := localise.Extract(a.fs, cfg, r)
	if err != nil {
		return err
	}
	data, err := renderKeys(keys.Sorted(), format)
	if err != nil {
		return err
	}
	if out != "" {
		if err := afero.WriteFile(a.fs, out, data, 0o644); err != nil {
			return &localise.Error{Kind: localise.KindWrite, Path: out, Err: err}
		}
		return nil
	}
	_, err = a.stdout.Write(data)
	return err
}

func renderKeys(keys []string, format string) ([]byte, error) {
	if format == formatYAML {
		out, err := yaml.Marshal(keys)
		if err != nil {
			return nil, fmt.Errorf("marshal YAML: %w", err)
		}
		return out, nil
	}
	s := strings.Join(keys, "\n")
	if s != "" {
		s += "\n"
	}
	return []byte(s), nil
}
