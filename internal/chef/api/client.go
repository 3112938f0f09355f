// Package api provides read and delete access to a Chef server's inventory:
// nodes, roles, clients, data bags, and search.
//
// Endpoint paths reproduce the Chef server REST contract literally. Resource
// names and search queries are inserted into paths verbatim, without percent
// encoding; callers pre-encode special characters. Changing that would change
// the bytes existing callers see on the wire.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/tombee/chefctl/internal/chef/transport"
	"github.com/tombee/chefctl/internal/config"
	chefctllog "github.com/tombee/chefctl/internal/log"
)

// Client issues requests against a Chef server through a Transport.
type Client struct {
	transport transport.Transport
	logger    *slog.Logger
}

// New creates a client over an existing transport.
func New(tr transport.Transport, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		transport: tr,
		logger:    chefctllog.WithComponent(logger, "chef-api"),
	}
}

// NewFromResolver builds a client from resolved configuration options.
// The server address comes from chef.api.host and chef.api.port, credentials
// from chef.api.user and chef.api.key. Returns an error when no usable
// transport can be constructed; callers check once at construction instead of
// per call.
func NewFromResolver(resolver config.Resolver, logger *slog.Logger) (*Client, error) {
	host := resolver.Option(config.KeyAPIHost, config.DefaultAPIHost)
	port := resolver.Option(config.KeyAPIPort, config.DefaultAPIPort)
	user := resolver.Option(config.KeyAPIUser, "")
	key := resolver.Option(config.KeyAPIKey, "")

	cfg := &transport.HTTPConfig{
		BaseURL:     fmt.Sprintf("http://%s:%s", host, port),
		Credentials: &transport.Credentials{User: user, Key: key},
	}

	// Requests block until the server answers unless a timeout is configured.
	if v := resolver.Option(config.KeyAPITimeout, ""); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", config.KeyAPITimeout, v, err)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	tr, err := transport.NewHTTPTransport(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build chef API client: %w", err)
	}

	client := New(tr, logger)
	client.logger.Debug("chef API transport configured",
		slog.String("base_url", cfg.BaseURL),
		slog.String("user", user),
		slog.String("key", chefctllog.SanitizeAPIKey(key)))
	return client, nil
}

// ListNodes returns the names of nodes registered on the Chef server.
func (c *Client) ListNodes(ctx context.Context) ([]string, error) {
	return c.listKeys(ctx, "/nodes")
}

// ListRoles returns the names of roles registered on the Chef server.
func (c *Client) ListRoles(ctx context.Context) ([]string, error) {
	return c.listKeys(ctx, "/roles")
}

// ListClients returns the names of API clients registered on the Chef server.
func (c *Client) ListClients(ctx context.Context) ([]string, error) {
	return c.listKeys(ctx, "/clients")
}

// ListDataBags returns the names of data bags on the Chef server.
func (c *Client) ListDataBags(ctx context.Context) ([]string, error) {
	return c.listKeys(ctx, "/data")
}

// Node returns a single node object.
func (c *Client) Node(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.getObject(ctx, fmt.Sprintf("/nodes/%s", name))
}

// Role returns a single role object.
func (c *Client) Role(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.getObject(ctx, fmt.Sprintf("/roles/%s", name))
}

// APIClient returns a single client object.
func (c *Client) APIClient(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.getObject(ctx, fmt.Sprintf("/clients/%s", name))
}

// DataBag returns a named data bag.
func (c *Client) DataBag(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.getObject(ctx, fmt.Sprintf("/data/%s", name))
}

// DataBagItem returns a specific item within a named data bag.
func (c *Client) DataBagItem(ctx context.Context, name, item string) (map[string]interface{}, error) {
	return c.getObject(ctx, fmt.Sprintf("/data/%s/%s", name, item))
}

// DeleteNode deletes a node and returns the server response.
func (c *Client) DeleteNode(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.delete(ctx, fmt.Sprintf("/nodes/%s", name))
}

// DeleteRole deletes a role and returns the server response.
func (c *Client) DeleteRole(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.delete(ctx, fmt.Sprintf("/roles/%s", name))
}

// DeleteClient deletes an API client and returns the server response.
func (c *Client) DeleteClient(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.delete(ctx, fmt.Sprintf("/clients/%s", name))
}

// SearchOptions control result windowing for Search.
type SearchOptions struct {
	// Start is the result number from which to start. Always sent.
	Start int

	// Rows limits the number of rows returned. Sent only when non-nil.
	Rows *int

	// Sort is a sort expression such as "name DESC". Sent only when non-empty.
	Sort string
}

// Search queries a Chef search index and returns the raw search result.
// Query fragments are appended in a fixed order: q, start, rows, sort.
func (c *Client) Search(ctx context.Context, index, query string, opts SearchOptions) (map[string]interface{}, error) {
	endpoint := fmt.Sprintf("/search/%s?q=%s&start=%d", index, query, opts.Start)

	if opts.Rows != nil {
		endpoint += fmt.Sprintf("&rows=%d", *opts.Rows)
	}
	if opts.Sort != "" {
		endpoint += fmt.Sprintf("&sort=%s", opts.Sort)
	}

	return c.getObject(ctx, endpoint)
}

// listKeys issues a GET and returns the sorted key set of the JSON object body.
func (c *Client) listKeys(ctx context.Context, endpoint string) ([]string, error) {
	obj, err := c.getObject(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (c *Client) getObject(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	return c.call(ctx, "GET", endpoint)
}

func (c *Client) delete(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	return c.call(ctx, "DELETE", endpoint)
}

// call executes a single request and parses the JSON object body.
func (c *Client) call(ctx context.Context, method, endpoint string) (map[string]interface{}, error) {
	start := time.Now()

	resp, err := c.transport.Execute(ctx, &transport.Request{
		Method: method,
		Path:   endpoint,
	})
	if err != nil {
		c.logger.Debug("chef API request failed",
			slog.String("method", method),
			slog.String(chefctllog.EndpointKey, endpoint),
			slog.Any("error", err))
		return nil, err
	}

	c.logger.Debug("chef API request",
		slog.String("method", method),
		slog.String(chefctllog.EndpointKey, endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Int64(chefctllog.DurationKey, time.Since(start).Milliseconds()))

	if len(resp.Body) == 0 {
		return map[string]interface{}{}, nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(resp.Body, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse chef server response for %s: %w", endpoint, err)
	}

	return obj, nil
}
