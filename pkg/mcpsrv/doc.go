// Package mcpsrv provides an extensible MCP server for example inference.
//
// The server stores sample documents per type name and merges them into a
// single representative example value on request. Custom tools can reuse
// the same store and inference engine.
//
// # Basic Usage
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    TypeName string `json:"type_name"`
//	}
//
//	type MyOutput struct {
//	    Fields int `json:"fields"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "count_fields"},
//	        func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	            return func(ctx context.Context, req *mcp.CallToolRequest, in MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	                fields, _, _ := d.Store.Coverage(in.TypeName)
//	                return nil, MyOutput{Fields: len(fields)}, nil
//	            }
//	        }),
//	)
//
// # Configuration
//
// Settings load from the environment; options override them:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/exemplar-mcp.log"),
//	)
package mcpsrv
