package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quadmind/ingestwatch/internal/classify"
	"github.com/quadmind/ingestwatch/internal/cli"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <filename>...",
		Short: "Classify filenames into knowledge domains",
		Long: `Classify runs the filename keyword heuristics against each argument
and prints the resulting domain and confidence. Useful for checking how a
file will be bucketed before ingesting it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}
}

func runClassify(_ *cobra.Command, args []string) error {
	for _, name := range args {
		result := classify.Classify(name)
		domain := cli.DomainStyle(result.Domain).Render(result.Domain.String())
		fmt.Printf("%s\t%s (%.2f)\n", name, domain, result.Confidence)
	}
	return nil
}
