package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmehta/loan-advisor/internal/llm"
	"github.com/rmehta/loan-advisor/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol server on stdio. Exposes the FAQ
catalog search and a stateless ask_advisor tool to MCP clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}
		gateway := llm.NewGateway(provider)

		searcher := createSearcherFromConfig(cfg)

		store, err := loadKnowledge(cmd.Context(), cfg, embedder, nil)
		if err != nil {
			return err
		}

		// ask_advisor is stateless, so it runs on the history engine: no
		// slot prompts, just the answer pipeline.
		_, rag := buildOrchestrators(cfg, gateway, store, searcher, embedder)

		srv := mcp.NewServer(store, rag, cfg.Thresholds.TopK, cfg.Thresholds.Retrieval)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
