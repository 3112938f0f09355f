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

// Package inventory implements the Chef server inventory commands: listing,
// fetching, deleting, and searching nodes, roles, clients, and data bags.
//
// Underscored aliases (list_nodes, delete_node, ...) keep the operation
// names other tooling invokes by name stable.
package inventory

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tombee/chefctl/internal/chef/api"
	"github.com/tombee/chefctl/internal/cli"
	"github.com/tombee/chefctl/internal/commands/shared"
	"github.com/tombee/chefctl/internal/config"
)

// newClient builds the API client from the resolved settings file.
func newClient() (*api.Client, error) {
	resolver, err := config.Load(shared.GetConfigPath())
	if err != nil {
		return nil, err
	}
	return api.NewFromResolver(resolver, slog.Default())
}

// listCommand builds a key-listing command for one inventory resource.
func listCommand(use, alias, short string, call func(*api.Client, context.Context) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: []string{alias},
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			keys, err := call(client, cmd.Context())
			if err != nil {
				return err
			}
			return cli.PrintResult(cmd, keys)
		},
	}
}

// NewListNodesCommand creates the list-nodes command
func NewListNodesCommand() *cobra.Command {
	return listCommand("list-nodes", "list_nodes", "List nodes registered on the Chef server",
		func(c *api.Client, ctx context.Context) ([]string, error) { return c.ListNodes(ctx) })
}

// NewListRolesCommand creates the list-roles command
func NewListRolesCommand() *cobra.Command {
	return listCommand("list-roles", "list_roles", "List roles registered on the Chef server",
		func(c *api.Client, ctx context.Context) ([]string, error) { return c.ListRoles(ctx) })
}

// NewListClientsCommand creates the list-clients command
func NewListClientsCommand() *cobra.Command {
	return listCommand("list-clients", "list_clients", "List API clients registered on the Chef server",
		func(c *api.Client, ctx context.Context) ([]string, error) { return c.ListClients(ctx) })
}

// NewListDataCommand creates the list-data command
func NewListDataCommand() *cobra.Command {
	return listCommand("list-data", "list_data", "List data bags on the Chef server",
		func(c *api.Client, ctx context.Context) ([]string, error) { return c.ListDataBags(ctx) })
}

// getCommand builds a single-object fetch command for one inventory resource.
func getCommand(use, short string, call func(*api.Client, context.Context, string) (map[string]interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			obj, err := call(client, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cli.PrintResult(cmd, obj)
		},
	}
}

// NewNodeCommand creates the node command
func NewNodeCommand() *cobra.Command {
	return getCommand("node", "Show a single node",
		func(c *api.Client, ctx context.Context, name string) (map[string]interface{}, error) {
			return c.Node(ctx, name)
		})
}

// NewRoleCommand creates the role command
func NewRoleCommand() *cobra.Command {
	return getCommand("role", "Show a single role",
		func(c *api.Client, ctx context.Context, name string) (map[string]interface{}, error) {
			return c.Role(ctx, name)
		})
}

// NewClientCommand creates the client command
func NewClientCommand() *cobra.Command {
	return getCommand("client", "Show a single API client",
		func(c *api.Client, ctx context.Context, name string) (map[string]interface{}, error) {
			return c.APIClient(ctx, name)
		})
}

// NewDataCommand creates the data command
func NewDataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "data NAME [ITEM]",
		Short: "Show a data bag, or a specific item within it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			var obj map[string]interface{}
			if len(args) == 2 {
				obj, err = client.DataBagItem(cmd.Context(), args[0], args[1])
			} else {
				obj, err = client.DataBag(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return cli.PrintResult(cmd, obj)
		},
	}
}

// deleteCommand builds a delete command for one inventory resource.
func deleteCommand(use, alias, short string, call func(*api.Client, context.Context, string) (map[string]interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:     use + " NAME",
		Aliases: []string{alias},
		Short:   short,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			resp, err := call(client, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cli.PrintResult(cmd, resp)
		},
	}
}

// NewDeleteNodeCommand creates the delete-node command
func NewDeleteNodeCommand() *cobra.Command {
	return deleteCommand("delete-node", "delete_node", "Delete a node",
		func(c *api.Client, ctx context.Context, name string) (map[string]interface{}, error) {
			return c.DeleteNode(ctx, name)
		})
}

// NewDeleteRoleCommand creates the delete-role command
func NewDeleteRoleCommand() *cobra.Command {
	return deleteCommand("delete-role", "delete_role", "Delete a role",
		func(c *api.Client, ctx context.Context, name string) (map[string]interface{}, error) {
			return c.DeleteRole(ctx, name)
		})
}

// NewDeleteClientCommand creates the delete-client command
func NewDeleteClientCommand() *cobra.Command {
	return deleteCommand("delete-client", "delete_client", "Delete an API client",
		func(c *api.Client, ctx context.Context, name string) (map[string]interface{}, error) {
			return c.DeleteClient(ctx, name)
		})
}
