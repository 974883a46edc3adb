package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knowgraph/cmd/knowgraph/commands"
	"go.trai.ch/knowgraph/internal/app"
	"go.trai.ch/knowgraph/internal/build"
	"go.trai.ch/knowgraph/internal/core/domain"
)

type postGraphArgs struct {
	name    string
	depth   int
	refresh bool
}

type mockApp struct {
	graph       *domain.Graph
	buildCalls  []bool
	postCalls   []postGraphArgs
	parseCalls  []string
	serveOpts   []app.ServeOptions
	serveErr    error
	cleanErr    error
	cleaned     bool
	tracing     bool
	logJSON     []bool
	parseResult domain.ParseResult
}

func (m *mockApp) ParseBlogPost(_ context.Context, name string, _ bool) domain.ParseResult {
	m.parseCalls = append(m.parseCalls, name)
	return m.parseResult
}

func (m *mockApp) BuildKnowledgeGraph(_ context.Context, forceRefresh bool) *domain.Graph {
	m.buildCalls = append(m.buildCalls, forceRefresh)
	return m.graph
}

func (m *mockApp) PostGraph(_ context.Context, name string, depth int, forceRefresh bool) *domain.Graph {
	m.postCalls = append(m.postCalls, postGraphArgs{name: name, depth: depth, refresh: forceRefresh})
	return m.graph
}

func (m *mockApp) Serve(_ context.Context, opts app.ServeOptions) error {
	m.serveOpts = append(m.serveOpts, opts)
	return m.serveErr
}

func (m *mockApp) Clean(context.Context) error {
	m.cleaned = true
	return m.cleanErr
}

func (m *mockApp) EnableTracing() { m.tracing = true }

func (m *mockApp) SetLogJSON(enable bool) { m.logJSON = append(m.logJSON, enable) }

func newMock() *mockApp {
	return &mockApp{
		graph: &domain.Graph{
			Nodes:   []domain.Node{{ID: "0001_a", Label: "A", Type: domain.NodePost}},
			Edges:   []domain.Edge{},
			Metrics: &domain.Metrics{TotalPosts: 1, OrphanPosts: []string{"0001_a"}},
		},
		parseResult: domain.ParseResult{
			SourcePost:    "0001_a",
			InternalLinks: []domain.Link{{Target: "0002_b", Type: domain.LinkInternal}},
			ExternalLinks: []domain.Link{},
			ParseErrors:   []string{},
		},
	}
}

func execute(t *testing.T, m *mockApp, args ...string) (string, string, error) {
	t.Helper()

	cli := commands.New(m)
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	cli.SetOutput(stdout, stderr)
	cli.SetArgs(args)

	err := cli.Execute(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("prints the graph as json", func(t *testing.T) {
		m := newMock()

		stdout, stderr, err := execute(t, m, "build")

		require.NoError(t, err)
		assert.Equal(t, []bool{false}, m.buildCalls)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
		assert.Len(t, decoded["nodes"], 1)
		assert.Contains(t, stderr, "1 nodes, 0 edges")
	})

	t.Run("refresh flag forces a rebuild", func(t *testing.T) {
		m := newMock()

		_, _, err := execute(t, m, "build", "--refresh")

		require.NoError(t, err)
		assert.Equal(t, []bool{true}, m.buildCalls)
	})

	t.Run("degraded graph reports its errors", func(t *testing.T) {
		m := newMock()
		m.graph = domain.EmptyGraph(domain.ErrNoPostsLoaded)

		stdout, stderr, err := execute(t, m, "build")

		require.NoError(t, err)
		assert.Contains(t, stdout, domain.ErrNoPostsLoaded.Error())
		assert.Contains(t, stderr, "0 nodes, 0 edges, 1 error")
	})
}

func TestCommands_Post(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		m := newMock()

		_, _, err := execute(t, m, "post", "0001_A", "--depth", "3", "-r")

		require.NoError(t, err)
		assert.Equal(t, []postGraphArgs{{name: "0001_A", depth: 3, refresh: true}}, m.postCalls)
	})

	t.Run("defaults to depth one", func(t *testing.T) {
		m := newMock()

		_, _, err := execute(t, m, "post", "0001_a")

		require.NoError(t, err)
		assert.Equal(t, []postGraphArgs{{name: "0001_a", depth: 1}}, m.postCalls)
	})

	t.Run("rejects a non positive depth", func(t *testing.T) {
		m := newMock()

		_, _, err := execute(t, m, "post", "0001_a", "--depth", "0")

		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrInvalidDepth.Error())
		assert.Empty(t, m.postCalls)
	})

	t.Run("requires a post", func(t *testing.T) {
		m := newMock()

		_, _, err := execute(t, m, "post")

		require.Error(t, err)
		assert.Empty(t, m.postCalls)
	})
}

func TestCommands_Parse(t *testing.T) {
	m := newMock()

	stdout, stderr, err := execute(t, m, "parse", "0001_a")

	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a"}, m.parseCalls)

	var decoded domain.ParseResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, m.parseResult, decoded)
	assert.Contains(t, stderr, "0001_a: 1 internal, 0 external links")
}

func TestCommands_Serve(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		m := newMock()

		_, _, err := execute(t, m, "serve", "--addr", ":9090", "--watch")

		require.NoError(t, err)
		assert.Equal(t, []app.ServeOptions{{Addr: ":9090", Watch: true}}, m.serveOpts)
	})

	t.Run("returns error on serve failure", func(t *testing.T) {
		m := newMock()
		m.serveErr = errors.New("simulated error")

		_, _, err := execute(t, m, "serve")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Clean(t *testing.T) {
	m := newMock()

	_, _, err := execute(t, m, "clean")

	require.NoError(t, err)
	assert.True(t, m.cleaned)
}

func TestCommands_PersistentFlags(t *testing.T) {
	t.Run("json logs and tracing", func(t *testing.T) {
		m := newMock()

		_, _, err := execute(t, m, "build", "--log-format", "json", "--trace")

		require.NoError(t, err)
		assert.Equal(t, []bool{true}, m.logJSON)
		assert.True(t, m.tracing)
	})

	t.Run("pretty logs by default", func(t *testing.T) {
		m := newMock()

		_, _, err := execute(t, m, "build")

		require.NoError(t, err)
		assert.Equal(t, []bool{false}, m.logJSON)
		assert.False(t, m.tracing)
	})

	t.Run("unknown log format", func(t *testing.T) {
		m := newMock()

		_, _, err := execute(t, m, "build", "--log-format", "xml")

		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrInvalidLogFormat.Error())
		assert.Empty(t, m.buildCalls)
	})
}

func TestCommands_Version(t *testing.T) {
	stdout, _, err := execute(t, newMock(), "version")

	require.NoError(t, err)
	assert.Contains(t, stdout, build.Version)
	assert.Contains(t, stdout, build.Commit)
}
