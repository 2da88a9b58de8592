package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev" // 编译时设置

func main() {
	rootCmd := &cobra.Command{
		Use:   "petstore",
		Short: "Petstore demo service built with decorapi",
		Long: `Serves the petstore controllers on fiber or echo and generates their
OpenAPI 3.0.0 document from the same declarations.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		NewServeCommand(),
		NewDocsCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
