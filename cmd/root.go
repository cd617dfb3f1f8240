package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "loanadvisor",
	Short: "Conversational loan qualification advisor",
	Long: `Loan Advisor is a conversational agent for Indian loan products. It
collects an applicant's name, location, monthly income and timeline
through a guided dialogue, answers questions from a semantic FAQ
catalog, and augments answers with live web search results.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".loanadvisor.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
