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

package main

import (
	"github.com/tombee/chefctl/internal/cli"
	"github.com/tombee/chefctl/internal/commands/inventory"
	"github.com/tombee/chefctl/internal/commands/run"
	versioncmd "github.com/tombee/chefctl/internal/commands/version"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	// Set version information from build-time ldflags
	cli.SetVersion(version, commit, buildDate)

	// Create root command and add subcommands
	rootCmd := cli.NewRootCommand()

	// Inventory listing commands
	rootCmd.AddCommand(inventory.NewListNodesCommand())
	rootCmd.AddCommand(inventory.NewListRolesCommand())
	rootCmd.AddCommand(inventory.NewListClientsCommand())
	rootCmd.AddCommand(inventory.NewListDataCommand())

	// Single-object fetch commands
	rootCmd.AddCommand(inventory.NewNodeCommand())
	rootCmd.AddCommand(inventory.NewRoleCommand())
	rootCmd.AddCommand(inventory.NewClientCommand())
	rootCmd.AddCommand(inventory.NewDataCommand())

	// Delete commands
	rootCmd.AddCommand(inventory.NewDeleteNodeCommand())
	rootCmd.AddCommand(inventory.NewDeleteRoleCommand())
	rootCmd.AddCommand(inventory.NewDeleteClientCommand())

	// Search
	rootCmd.AddCommand(inventory.NewSearchCommand())

	// Convergence run and chef-client version
	rootCmd.AddCommand(run.NewCommand())
	rootCmd.AddCommand(versioncmd.NewCommand())

	// Custom help command with JSON support
	rootCmd.SetHelpCommand(cli.NewHelpCommand(rootCmd))

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		cli.HandleExitError(err)
	}
}
