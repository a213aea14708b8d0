// root.go: hdatadump command line
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "cbor"
	Config  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "cbor"}

// NewRootCommand creates the root command for hdatadump.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hdatadump",
		Short: "Inspect hdata tables of a fixture host",
		Long: `hdatadump loads a host fixture (YAML, JSON or TOML) into an in-memory
host and walks its hdata lists through the typed accessor layer.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log hdata access to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|cbor)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "dispatcher configuration file")

	cmd.AddCommand(NewDumpCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
