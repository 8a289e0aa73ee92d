package mcp

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/exemplar-mcp/internal/cache"
	"github.com/usestring/exemplar-mcp/internal/config"
	"github.com/usestring/exemplar-mcp/internal/inference"
	"github.com/usestring/exemplar-mcp/internal/mcp/tools"
	"github.com/usestring/exemplar-mcp/internal/query"
	"github.com/usestring/exemplar-mcp/internal/store"
	"github.com/usestring/exemplar-mcp/pkg/document"
	"github.com/usestring/exemplar-mcp/pkg/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		LinkMarker:           "___NODE",
		MaxDepth:             64,
		IgnoreFields:         config.DefaultIgnoreFields,
		DetectDates:          true,
		MaxDocumentsPerCall:  100,
		MaxDocumentsPerType:  100,
		CompactMaxArrayItems: 2,
		CompactMaxStringLen:  120,
		CompactMaxDepth:      4,
	}
	st := store.New(cfg.MaxDocumentsPerType)
	c, err := cache.NewResultCache(8)
	require.NoError(t, err)

	srv, err := NewServer(&tools.Deps{
		Config:    cfg,
		Store:     st,
		Inference: inference.NewEngine(st, c, cfg),
		Query:     query.NewEngine(),
	}, WithBuiltinTools(), WithBuiltinPrompts())
	require.NoError(t, err)
	return srv
}

func addDocs(t *testing.T, srv *Server, typeName, content string) {
	t.Helper()
	values, err := document.ParseJSONValues([]byte(content))
	require.NoError(t, err)
	docs := document.Flatten(values)
	_, err = srv.Deps().Store.Add(typeName, docs)
	require.NoError(t, err)
}

func connectInMemory(t *testing.T, srv *Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	ss, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "client", Version: "0.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		cs.Close()
		ss.Close()
	})
	return cs
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{})
	assert.Error(t, err)
}

func TestServer_CustomRegistration(t *testing.T) {
	called := false
	srv := newTestServer(t)
	_, err := NewServer(srv.Deps(), WithCustomRegistration(func(s *sdkmcp.Server) {
		called = true
	}))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestServer_ReadExampleResource(t *testing.T) {
	srv := newTestServer(t)
	addDocs(t, srv, "Post", `[{"title":"a","tags":["x","y","z"]},{"title":"b","views":1}]`)
	cs := connectInMemory(t, srv)

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "exemplar://example/Post"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, tools.MimeJSON, res.Contents[0].MIMEType)

	var out types.InferExampleOutput
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &out))
	assert.Equal(t, "Post", out.TypeName)
	assert.Equal(t, 2, out.Documents)
	assert.Equal(t, map[string]any{
		"title": "a",
		"tags":  []any{"x"},
		"views": 1.0,
	}, out.Example)
	assert.Equal(t, []string{"title", "tags", "views"}, out.FieldOrder)

	text := res.Contents[0].Text
	assert.Less(t, strings.Index(text, `"title"`), strings.Index(text, `"tags"`))
	assert.Less(t, strings.Index(text, `"tags"`), strings.Index(text, `"views"`))
}

func TestServer_ReadExampleResource_NotFound(t *testing.T) {
	cs := connectInMemory(t, newTestServer(t))

	_, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "exemplar://example/Nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestServer_Prompts(t *testing.T) {
	cs := connectInMemory(t, newTestServer(t))
	ctx := context.Background()

	listed, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(listed.Prompts))
	for _, p := range listed.Prompts {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"exemplar_guide", "design_type_from_documents"}, names)

	guide, err := cs.GetPrompt(ctx, &sdkmcp.GetPromptParams{Name: "exemplar_guide"})
	require.NoError(t, err)
	require.Len(t, guide.Messages, 1)
	text := guide.Messages[0].Content.(*sdkmcp.TextContent).Text
	assert.Contains(t, text, "`___NODE`")
	assert.Contains(t, text, "`id`, `parent`, `children`, `internal`")

	design, err := cs.GetPrompt(ctx, &sdkmcp.GetPromptParams{
		Name:      "design_type_from_documents",
		Arguments: map[string]string{"type_name": "Post", "language": "Go"},
	})
	require.NoError(t, err)
	text = design.Messages[0].Content.(*sdkmcp.TextContent).Text
	assert.Contains(t, text, `exemplar_infer_example(type_name: "Post")`)
	assert.Contains(t, text, "in Go.")

	_, err = cs.GetPrompt(ctx, &sdkmcp.GetPromptParams{Name: "design_type_from_documents"})
	assert.Error(t, err)
}

func TestServer_HTTPHandler(t *testing.T) {
	srv := newTestServer(t)
	addDocs(t, srv, "Post", `{"title":"a"}`)

	ts := httptest.NewServer(srv.HTTPHandler())
	defer ts.Close()

	ctx := context.Background()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "client", Version: "0.0.0"}, nil)
	cs, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.URL}, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "exemplar_list_types",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var listed types.ListTypesOutput
	require.NoError(t, json.Unmarshal(data, &listed))
	assert.Equal(t, 1, listed.Total)
}
