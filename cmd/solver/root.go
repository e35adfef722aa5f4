package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "solver",
	Short: "Explore 3x3 merge-puzzle states and report checksums",
	Long: `Depth-bounded DFS over 3x3 merge-puzzle boards with memoization.

Input format (file or stdin): one line with the search depth, three
lines with 3 space-separated cell values, and optionally one line with
the expected checksum used by verify.`,
	SilenceUsage: true,
}
