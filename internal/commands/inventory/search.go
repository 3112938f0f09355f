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

package inventory

import (
	"github.com/spf13/cobra"

	"github.com/tombee/chefctl/internal/chef/api"
	"github.com/tombee/chefctl/internal/cli"
)

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	var (
		start int
		rows  int
		sort  string
	)

	cmd := &cobra.Command{
		Use:   "search INDEX QUERY",
		Short: "Query a Chef search index",
		Long: `Query a Chef search index and print the raw search result.

The query is inserted into the request path verbatim; pre-encode any
characters that are special in URLs.

Examples:
  chefctl search node '*:*'
  chefctl search node 'roles:web' --start 5 --rows 10 --sort 'name DESC'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			opts := api.SearchOptions{Start: start, Sort: sort}
			if cmd.Flags().Changed("rows") {
				opts.Rows = &rows
			}

			result, err := client.Search(cmd.Context(), args[0], args[1], opts)
			if err != nil {
				return err
			}
			return cli.PrintResult(cmd, result)
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "Result number from which to start")
	cmd.Flags().IntVar(&rows, "rows", 0, "Number of rows to return (unlimited when omitted)")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort expression, such as 'name DESC'")

	return cmd
}
