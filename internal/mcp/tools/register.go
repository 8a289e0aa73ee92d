package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: exemplar_add_documents
	AddTool(srv, &sdkmcp.Tool{
		Name:        "exemplar_add_documents",
		Description: "Decode a payload (JSON, NDJSON, YAML, XML, HTML JSON-LD, CSV or form data) and store its documents under a type name. Use select (jq) to reach documents inside wrapper payloads and record_path (XPath) for XML/HTML records. Returns {batch_id, type_name, added, total, generation, warnings, hint}. Call repeatedly to accumulate samples; set replace=true to start over.",
	}, ToolAddDocuments(d))

	// Tool 2: exemplar_infer_example
	AddTool(srv, &sdkmcp.Tool{
		Name:        "exemplar_infer_example",
		Description: "Merge all documents of a type (or inline content) into one representative example value: every field seen in any document with one value each, numbers widened to a float when any sample is fractional, nested objects merged recursively. Fields whose values disagree on type are left out and listed in conflicts with one example per type. Returns {example, field_order, conflicts, truncated, summary, hint, resource}. Keys of example arrive sorted alphabetically; field_order lists the top-level fields in the order the documents first show them. The example is compacted by default; read the resource or set compact=false for the full value.",
	}, ToolInferExample(d))

	// Tool 3: exemplar_field_coverage
	AddTool(srv, &sdkmcp.Tool{
		Name:        "exemplar_field_coverage",
		Description: "Report how many stored documents of a type carry a typed value at each field selector (objects inside arrays share the array's selector). Use min_frequency to hide rare fields and selector to sample documents lacking a field. Returns {type_name, documents, fields: [{selector, documents, frequency}], omitted}.",
	}, ToolFieldCoverage(d))

	// Tool 4: exemplar_list_types
	AddTool(srv, &sdkmcp.Tool{
		Name:        "exemplar_list_types",
		Description: "List stored document collections with their document counts, field counts and generations.",
	}, ToolListTypes(d))

	// Tool 5: exemplar_reset_type
	AddTool(srv, &sdkmcp.Tool{
		Name:        "exemplar_reset_type",
		Description: "Drop every stored document of a type.",
	}, ToolResetType(d))
}
