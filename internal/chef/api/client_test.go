package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/chefctl/internal/chef/transport"
	"github.com/tombee/chefctl/internal/config"
)

// fakeTransport records requests and serves canned responses.
type fakeTransport struct {
	requests  []transport.Request
	responses map[string][]byte
	err       error
}

func (f *fakeTransport) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	f.requests = append(f.requests, *req)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.responses[req.Path]
	if !ok {
		body = []byte(`{}`)
	}
	return &transport.Response{StatusCode: 200, Body: body}, nil
}

func (f *fakeTransport) Name() string { return "fake" }

func TestListOperations(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		call     func(c *Client) ([]string, error)
	}{
		{"nodes", "/nodes", func(c *Client) ([]string, error) { return c.ListNodes(context.Background()) }},
		{"roles", "/roles", func(c *Client) ([]string, error) { return c.ListRoles(context.Background()) }},
		{"clients", "/clients", func(c *Client) ([]string, error) { return c.ListClients(context.Background()) }},
		{"data bags", "/data", func(c *Client) ([]string, error) { return c.ListDataBags(context.Background()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{responses: map[string][]byte{
				tt.endpoint: []byte(`{"web1":"u","db1":"u","app1":"u"}`),
			}}
			c := New(ft, nil)

			keys, err := tt.call(c)
			require.NoError(t, err)

			require.Len(t, ft.requests, 1)
			assert.Equal(t, "GET", ft.requests[0].Method)
			assert.Equal(t, tt.endpoint, ft.requests[0].Path)
			assert.Equal(t, []string{"app1", "db1", "web1"}, keys)
		})
	}
}

func TestGetOperationsIssueSingleGET(t *testing.T) {
	ft := &fakeTransport{responses: map[string][]byte{
		"/nodes/web1": []byte(`{"name":"web1","chef_environment":"production"}`),
	}}
	c := New(ft, nil)

	node, err := c.Node(context.Background(), "web1")
	require.NoError(t, err)

	require.Len(t, ft.requests, 1)
	assert.Equal(t, "GET", ft.requests[0].Method)
	assert.Equal(t, "/nodes/web1", ft.requests[0].Path)
	assert.Equal(t, "web1", node["name"])
	assert.Equal(t, "production", node["chef_environment"])
}

func TestGetEndpointShapes(t *testing.T) {
	tests := []struct {
		name string
		call func(c *Client) (map[string]interface{}, error)
		want string
	}{
		{"role", func(c *Client) (map[string]interface{}, error) { return c.Role(context.Background(), "global") }, "/roles/global"},
		{"client", func(c *Client) (map[string]interface{}, error) { return c.APIClient(context.Background(), "web1") }, "/clients/web1"},
		{"data bag", func(c *Client) (map[string]interface{}, error) { return c.DataBag(context.Background(), "users") }, "/data/users"},
		{"data bag item", func(c *Client) (map[string]interface{}, error) {
			return c.DataBagItem(context.Background(), "users", "alice")
		}, "/data/users/alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{}
			c := New(ft, nil)

			_, err := tt.call(c)
			require.NoError(t, err)

			require.Len(t, ft.requests, 1)
			assert.Equal(t, tt.want, ft.requests[0].Path)
		})
	}
}

func TestDeleteOperations(t *testing.T) {
	tests := []struct {
		name string
		call func(c *Client) (map[string]interface{}, error)
		want string
	}{
		{"node", func(c *Client) (map[string]interface{}, error) { return c.DeleteNode(context.Background(), "web1") }, "/nodes/web1"},
		{"role", func(c *Client) (map[string]interface{}, error) { return c.DeleteRole(context.Background(), "global") }, "/roles/global"},
		{"client", func(c *Client) (map[string]interface{}, error) { return c.DeleteClient(context.Background(), "web1") }, "/clients/web1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{}
			c := New(ft, nil)

			_, err := tt.call(c)
			require.NoError(t, err)

			require.Len(t, ft.requests, 1)
			assert.Equal(t, "DELETE", ft.requests[0].Method)
			assert.Equal(t, tt.want, ft.requests[0].Path)
		})
	}
}

func TestSearchDefaultEndpoint(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft, nil)

	_, err := c.Search(context.Background(), "node", "key:pattern", SearchOptions{})
	require.NoError(t, err)

	require.Len(t, ft.requests, 1)
	assert.Equal(t, "/search/node?q=key:pattern&start=0", ft.requests[0].Path)
}

func TestSearchFragmentOrder(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft, nil)

	rows := 10
	_, err := c.Search(context.Background(), "node", "key:pattern", SearchOptions{
		Start: 5,
		Rows:  &rows,
		Sort:  "name DESC",
	})
	require.NoError(t, err)

	require.Len(t, ft.requests, 1)
	assert.Equal(t, "/search/node?q=key:pattern&start=5&rows=10&sort=name DESC", ft.requests[0].Path)
}

func TestSearchRowsWithoutSort(t *testing.T) {
	ft := &fakeTransport{}
	c := New(ft, nil)

	rows := 3
	_, err := c.Search(context.Background(), "role", "*:*", SearchOptions{Rows: &rows})
	require.NoError(t, err)

	assert.Equal(t, "/search/role?q=*:*&start=0&rows=3", ft.requests[0].Path)
}

func TestTransportErrorPropagates(t *testing.T) {
	ft := &fakeTransport{err: &transport.Error{Type: transport.ErrorTypeConnection, Message: "connection refused"}}
	c := New(ft, nil)

	_, err := c.ListNodes(context.Background())
	var terr *transport.Error
	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.IsType(transport.ErrorTypeConnection))
}

func TestNewFromResolver(t *testing.T) {
	c, err := NewFromResolver(config.Static{
		config.KeyAPIHost: "chef.example.com",
		config.KeyAPIPort: "4000",
		config.KeyAPIUser: "admin",
		config.KeyAPIKey:  "secret",
	}, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNewFromResolverDefaults(t *testing.T) {
	// Host and port fall back to localhost:4000.
	c, err := NewFromResolver(config.Static{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNewFromResolverBadTimeout(t *testing.T) {
	_, err := NewFromResolver(config.Static{config.KeyAPITimeout: "soon"}, nil)
	assert.Error(t, err)
}

func TestNewFromResolverBadHost(t *testing.T) {
	// A host that breaks URL construction yields a constructor error,
	// so commands fail once up front instead of on every call.
	_, err := NewFromResolver(config.Static{config.KeyAPIHost: "bad host\n"}, nil)
	assert.Error(t, err)
}
