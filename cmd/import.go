package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rmehta/loan-advisor/internal/knowledge"
)

var importPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Embed the FAQ catalog and verify it loads cleanly",
	Long: `Reads the FAQ catalog CSV, embeds every question, and reports the
result. Use this to validate a new catalog before serving it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if importPath != "" {
			cfg.KnowledgePath = importPath
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		total, err := knowledge.CountRows(cfg.KnowledgePath)
		if err != nil {
			return fmt.Errorf("reading catalog: %w", err)
		}

		bar := progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Embedding FAQ entries"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetWriter(os.Stderr),
		)

		store, err := loadKnowledge(cmd.Context(), cfg, embedder, func() { bar.Add(1) })
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Imported %d FAQ entries from %s\n", store.Count(), cfg.KnowledgePath)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importPath, "file", "", "catalog CSV path (overrides config)")
	rootCmd.AddCommand(importCmd)
}
