// ABOUTME: MCP prompts for attachment workflows.
// ABOUTME: Guides an agent through storing files and inserting their references.

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "attach-files",
		Description: "Attach local files to the active document and insert their references",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "paths",
				Description: "Comma-separated absolute file paths",
				Required:    true,
			},
		},
	}, s.getAttachFilesPrompt)
}

func (s *Server) getAttachFilesPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	paths, ok := req.Params.Arguments["paths"]
	if !ok || paths == "" {
		paths = "[paths]"
	}

	template := fmt.Sprintf(`Attach these files to the active document: %s

Each drop_paths call stores only the first supported file, so call it once per path.
For every successful call, insert the returned fragment into the document where it belongs.
Images come back as embeds, other files as links named after the file.
If a call reports that no document is open, call get_context and ask the user which document or workspace to use.`, paths)

	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: template,
				},
			},
		},
	}, nil
}
