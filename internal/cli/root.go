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

package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tombee/chefctl/internal/commands/shared"
	"github.com/tombee/chefctl/internal/log"
)

// SetVersion sets the build information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for chefctl
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chefctl",
		Short: "chefctl - Chef server inventory and chef-client runs",
		Long: `chefctl queries a Chef server's inventory (nodes, roles, clients,
data bags, search) and triggers convergence runs of the local chef-client
executable.

Server address and credentials are resolved from the settings file
(chef.api.host, chef.api.port, chef.api.key, chef.api.user) with
CHEF_API_* environment overrides.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := log.FromEnv()
			if shared.GetVerbose() {
				cfg.Level = "debug"
			}
			slog.SetDefault(log.New(cfg))
		},
	}

	v, c, b := shared.GetVersion()
	cmd.Version = fmt.Sprintf("%s (commit %s, built %s)", v, c, b)

	verbose, json, query, config := shared.RegisterFlagPointers()

	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(query, "query", "", "Filter output through a jq expression")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to settings file (default: ~/.config/chefctl/config.yaml)")

	return cmd
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
