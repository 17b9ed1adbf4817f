// README: Entry point; cobra command tree for the SwiftCab booking assistant.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "swiftcab",
	Short: "SwiftCab - conversational cab booking assistant",
	Long: `SwiftCab books a cab through a short conversation: it picks the trip
details out of what you type, asks for whatever is missing, quotes a fare
you can bargain over, and lets you edit the booking before it is final.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is normal outside local development.
		_ = godotenv.Load()
	},
	RunE: runChat,
}

func main() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(quotaCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "swiftcab:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./swiftcab.yaml)")
}
