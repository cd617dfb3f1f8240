package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rmehta/loan-advisor/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize loanadvisor configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the advisor and generates a .loanadvisor.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
