package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchKnowledgeTool defines the search_knowledge MCP tool.
var searchKnowledgeTool = mcp.NewTool("search_knowledge",
	mcp.WithDescription("Search the loan FAQ knowledge base semantically. Returns matching questions with answers and similarity scores."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 3)"),
	),
)

// askAdvisorTool defines the ask_advisor MCP tool.
var askAdvisorTool = mcp.NewTool("ask_advisor",
	mcp.WithDescription("Ask the loan advisor a single question. Runs the full answer pipeline (FAQ retrieval plus web augmentation) without conversation state."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The question to ask"),
	),
)
