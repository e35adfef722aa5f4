package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/enixame/spring-challenge-2025/internal/fixture"
	"github.com/enixame/spring-challenge-2025/internal/solver"
)

var (
	runExpect    bool
	runShowStats bool
)

func init() {
	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Solve one scenario from a file or stdin",
		Long: `Solve one scenario and print the checksum.

Examples:
  solver run scenario.txt
  solver run < scenario.txt
  solver run --expect --stats scenario.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}

	runCmd.Flags().BoolVar(&runExpect, "expect", false, "Compare against the scenario's expected checksum line")
	runCmd.Flags().BoolVar(&runShowStats, "stats", false, "Print search statistics")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	var scenario fixture.Scenario
	var err error
	if len(args) == 1 {
		scenario, err = fixture.LoadFile(args[0])
	} else {
		scenario, err = fixture.Parse(os.Stdin)
	}
	if err != nil {
		return err
	}

	engine := solver.NewEngine(nil)
	checksum, err := engine.Explore(scenario.Board, scenario.Depth)
	if err != nil {
		return err
	}

	fmt.Println(checksum)
	if runShowStats {
		stats := engine.Stats()
		fmt.Printf("nodes=%d terminals=%d cache_hits=%d elapsed=%s\n",
			stats.Nodes, stats.Terminals, stats.CacheHits, stats.Elapsed)
	}
	if runExpect {
		if !scenario.HasExpected {
			return fmt.Errorf("scenario has no expected checksum line")
		}
		if checksum != scenario.Expected {
			return fmt.Errorf("checksum mismatch: got %d, expected %d", checksum, scenario.Expected)
		}
		fmt.Println("OK")
	}
	return nil
}
