package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enixame/spring-challenge-2025/internal/fixture"
	"github.com/enixame/spring-challenge-2025/internal/solver"
)

var verifyShared bool

func init() {
	verifyCmd := &cobra.Command{
		Use:   "verify <file|dir> [...]",
		Short: "Run fixture files and compare against expected checksums",
		Long: `Run every given fixture file (directories are expanded to their
*.txt files) and compare the computed checksum against the expected
line. Exits non-zero if any fixture fails.

Examples:
  solver verify internal/solver/testdata
  solver verify case1.txt case2.txt
  solver verify --shared-cache internal/solver/testdata`,
		Args: cobra.MinimumNArgs(1),
		RunE: runVerify,
	}

	verifyCmd.Flags().BoolVar(&verifyShared, "shared-cache", false, "Reuse one memo table across all fixtures")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	files, err := collectFixtureFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no fixture files found")
	}

	var shared *solver.MemoTable
	if verifyShared {
		shared = solver.NewMemoTable(solver.DefaultMemoSize, solver.DefaultMemoBuckets)
	}

	failures := 0
	for _, path := range files {
		scenario, err := fixture.LoadFile(path)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			failures++
			continue
		}
		if !scenario.HasExpected {
			fmt.Printf("SKIP %s: no expected checksum line\n", path)
			continue
		}

		memo := shared
		if memo == nil {
			memo = solver.NewMemoTable(solver.DefaultMemoSize, solver.DefaultMemoBuckets)
		}
		engine := solver.NewEngine(memo)
		checksum, err := engine.Explore(scenario.Board, scenario.Depth)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			failures++
			continue
		}
		if checksum != scenario.Expected {
			fmt.Printf("FAIL %s: got %d, expected %d\n", path, checksum, scenario.Expected)
			failures++
			continue
		}
		stats := engine.Stats()
		fmt.Printf("PASS %s: checksum=%d nodes=%d elapsed=%s\n", path, checksum, stats.Nodes, stats.Elapsed)
	}

	fmt.Printf("%d/%d fixtures passed\n", len(files)-failures, len(files))
	if failures > 0 {
		return fmt.Errorf("%d fixture(s) failed", failures)
	}
	return nil
}

func collectFixtureFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
				continue
			}
			files = append(files, filepath.Join(arg, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
