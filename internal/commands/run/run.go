// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package run implements the chefctl run command: a convergence run of the
// local chef-client executable.
package run

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tombee/chefctl/internal/chef/clientrun"
	"github.com/tombee/chefctl/internal/cli"
	"github.com/tombee/chefctl/internal/commands/shared"
	"github.com/tombee/chefctl/internal/config"
)

// NewCommand creates the run command
func NewCommand() *cobra.Command {
	var opts struct {
		force         bool
		runList       []string
		keyFile       string
		validationKey string
		server        string
		environment   string
		logLevel      string
		nodeName      string
		dryRun        bool
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run chef-client on this host",
		Long: `Trigger a convergence run of the local chef-client executable.

Unless --force is given, the run is skipped when the skip-file
(chef.client.skipfile, default /etc/chef/no_chef_run) is present.

Examples:
  chefctl run
  chefctl run --force
  chefctl run --run-list 'role[global]' --run-list 'recipe[awesome::server]'
  chefctl run --environment testing --log-level debug --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := config.Load(shared.GetConfigPath())
			if err != nil {
				return err
			}

			runOpts := clientrun.RunOptions{
				Force:         opts.force,
				KeyFile:       opts.keyFile,
				ValidationKey: opts.validationKey,
				Server:        opts.server,
				Environment:   opts.environment,
				LogLevel:      opts.logLevel,
				NodeName:      opts.nodeName,
			}
			if cmd.Flags().Changed("run-list") {
				runOpts.RunList = opts.runList
			}
			// Supplying --dry-run at all requests a why-run; the flag value
			// itself is not consulted.
			if cmd.Flags().Changed("dry-run") {
				runOpts.DryRun = &opts.dryRun
			}

			facade := clientrun.New(resolver, clientrun.ShellRunner{}, slog.Default())
			lines, err := facade.Run(cmd.Context(), runOpts)
			if err != nil {
				return handleRunError(cmd, err)
			}

			return cli.PrintResult(cmd, lines)
		},
	}

	cmd.Flags().BoolVar(&opts.force, "force", false, "Run unconditionally, ignoring the skip-file")
	cmd.Flags().StringArrayVar(&opts.runList, "run-list", nil, "Run-list entry overriding the node's run-list (repeatable)")
	cmd.Flags().StringVar(&opts.keyFile, "key-file", "", "Alternative client key path")
	cmd.Flags().StringVar(&opts.validationKey, "validation-key", "", "validation.pem path for automatic client registration")
	cmd.Flags().StringVar(&opts.server, "server", "", "Override the chef_server_url from client.rb")
	cmd.Flags().StringVar(&opts.environment, "environment", "", "Chef environment to converge in")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "chef-client logging verbosity")
	cmd.Flags().StringVar(&opts.nodeName, "node-name", "", "Override the node name used to authenticate")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Why-run: log what would change without changing it")

	return cmd
}

// handleRunError maps the facade's descriptive outcomes onto the CLI
// contract: the skip-file message and the missing-executable message are
// printed verbatim on stdout because other tooling matches on them.
func handleRunError(cmd *cobra.Command, err error) error {
	var skipErr *clientrun.SkipfileError
	if errors.As(err, &skipErr) {
		cmd.Println(skipErr.Error())
		return nil
	}

	if errors.Is(err, clientrun.ErrExecutableNotFound) {
		cmd.Println(err.Error())
		return shared.ExitSilently(shared.ExitNotFound)
	}

	return err
}
