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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tombee/chefctl/internal/commands/shared"
	"github.com/tombee/chefctl/internal/jq"
)

// PrintResult renders a command result to the command's stdout.
//
// Key lists and run output print as plain lines; structured objects print as
// indented JSON. The --json flag forces JSON for everything, and --query
// filters the result through a jq expression first.
func PrintResult(cmd *cobra.Command, result interface{}) error {
	if query := shared.GetQuery(); query != "" {
		filtered, err := jq.New(0).Apply(cmd.Context(), query, result)
		if err != nil {
			return shared.NewUsageError("invalid --query expression", err)
		}
		result = filtered
	}

	if shared.GetJSON() {
		return printJSON(cmd, result)
	}

	switch v := result.(type) {
	case nil:
		return nil
	case string:
		cmd.Println(v)
		return nil
	case []string:
		for _, line := range v {
			cmd.Println(line)
		}
		return nil
	default:
		return printJSON(cmd, result)
	}
}

func printJSON(cmd *cobra.Command, result interface{}) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
