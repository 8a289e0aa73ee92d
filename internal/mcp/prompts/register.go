package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Tool usage guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "exemplar_guide",
		Description: "Short guide to the exemplar tools: how documents are decoded, how examples are merged and how to read conflicts.",
	}, HandleGuide(cfg))

	// Prompt 2: Design a type from sample documents
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "design_type_from_documents",
		Description: "RECOMMENDED: Turn stored sample documents into a type definition. Walks through coverage, example inference and conflict resolution.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "type_name",
				Description: "Stored type to design (see exemplar_list_types)",
				Required:    true,
			},
			{
				Name:        "language",
				Description: "Target language for the type definition (e.g., 'Go', 'TypeScript', 'GraphQL SDL')",
				Required:    false,
			},
		},
	}, HandleDesignType(cfg))
}
