package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/exemplar-mcp/internal/inference"
	"github.com/usestring/exemplar-mcp/internal/mcp/tools"
)

// Resource URI scheme: exemplar://
// Supported URIs:
//   exemplar://example/{type}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: tools.ExampleResourceScheme + "{type}",
		Name:        "Inferred Example",
		Description: "Full, uncompacted inference result for a stored type: example value, conflicts and truncated fields. The infer tool already returns a compacted example; only fetch this when you need every array item and full strings.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceExample)
}

func (s *Server) handleResourceExample(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	typeName, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	out, err := s.deps.Inference.InferType(ctx, inference.Request{TypeName: typeName})
	if errors.Is(err, inference.ErrUnknownType) {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, tools.WrapError(err)
	}
	return toResourceResult(req.Params.URI, out)
}

// parseResourceURI extracts the type name from an exemplar://example/ URI.
func parseResourceURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, tools.ExampleResourceScheme) {
		return "", tools.ErrInvalidInput("invalid URI: expected " + tools.ExampleResourceScheme + "{type}")
	}
	name, err := url.PathUnescape(strings.TrimPrefix(uri, tools.ExampleResourceScheme))
	if err != nil {
		return "", tools.ErrInvalidInput(fmt.Sprintf("invalid type name in URI: %v", err))
	}
	if name == "" {
		return "", tools.ErrInvalidInput("example URI requires a type name")
	}
	return name, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
