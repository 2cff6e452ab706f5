package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shiftdesk",
	Short: "Shiftdesk - weekly shift scheduling",
	Long:  "Shiftdesk is the scheduling server behind the weekly availability and shift-assignment pages. It fronts the spreadsheet backend with sessions, validation, and a JSON API.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file (built-in defaults and SHIFTDESK_* env vars apply without one)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
