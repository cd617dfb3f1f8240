package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rmehta/loan-advisor/internal/conversation"
	"github.com/rmehta/loan-advisor/internal/db"
	"github.com/rmehta/loan-advisor/internal/llm"
	"github.com/rmehta/loan-advisor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the loan advisor HTTP server",
	Long:  `Starts the loan advisor server with the chat API, session persistence, and a WebSocket endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
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

		fmt.Fprintf(os.Stderr, "Loading FAQ catalog from %s...\n", cfg.KnowledgePath)
		store, err := loadKnowledge(cmd.Context(), cfg, embedder, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  %d entries embedded\n", store.Count())

		dbPath := filepath.Join(cfg.DataDir, "loanadvisor.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		chat, rag := buildOrchestrators(cfg, gateway, store, searcher, embedder)

		srv := server.New(server.Config{Port: cfg.Port, AllowAll: true}, database)

		handler := conversation.NewHandler(chat, rag, conversation.NewStore(database), cfg)
		conversation.RegisterRoutes(srv.Router(), handler)
		conversation.RegisterWebSocket(srv.Router(), handler)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "loanadvisor v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Model: %s\n", cfg.Model)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
