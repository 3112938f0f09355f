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

package version

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tombee/chefctl/internal/chef/clientrun"
	"github.com/tombee/chefctl/internal/cli"
	"github.com/tombee/chefctl/internal/commands/shared"
	"github.com/tombee/chefctl/internal/config"
)

// NewCommand creates the version command. It reports the installed
// chef-client version; chefctl's own build information is available through
// the root command's --version flag.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the installed chef-client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := config.Load(shared.GetConfigPath())
			if err != nil {
				return err
			}

			facade := clientrun.New(resolver, clientrun.ShellRunner{}, slog.Default())
			v, err := facade.Version(cmd.Context())
			if err != nil {
				if errors.Is(err, clientrun.ErrExecutableNotFound) {
					// Printed verbatim on stdout; tooling matches on it.
					cmd.Println(err.Error())
					return shared.ExitSilently(shared.ExitNotFound)
				}
				return err
			}

			return cli.PrintResult(cmd, v)
		},
	}
}
