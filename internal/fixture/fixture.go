package fixture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/enixame/spring-challenge-2025/internal/board"
)

// Scenario is one parsed input: a depth line, three board rows, and an
// optional trailing expected-checksum line used by the verify harness.
type Scenario struct {
	Depth       int
	Board       board.Board
	Expected    uint64
	HasExpected bool
}

// Parse reads the textual scenario format from r. The solver core only
// ever sees the validated depth and board; the expected line is
// harness-side data.
func Parse(r io.Reader) (Scenario, error) {
	scanner := bufio.NewScanner(r)

	depthLine, err := nextLine(scanner, "depth")
	if err != nil {
		return Scenario{}, err
	}
	depth, err := strconv.Atoi(depthLine)
	if err != nil {
		return Scenario{}, fmt.Errorf("%w: depth %q is not an integer", board.ErrInvalidInput, depthLine)
	}
	if depth < 0 {
		return Scenario{}, fmt.Errorf("%w: negative depth %d", board.ErrInvalidInput, depth)
	}

	rows := make([][]int, 0, board.Size)
	for i := 0; i < board.Size; i++ {
		rowLine, err := nextLine(scanner, fmt.Sprintf("row %d", i))
		if err != nil {
			return Scenario{}, err
		}
		fields := strings.Fields(rowLine)
		row := make([]int, 0, len(fields))
		for _, field := range fields {
			value, err := strconv.Atoi(field)
			if err != nil {
				return Scenario{}, fmt.Errorf("%w: row %d value %q is not an integer", board.ErrInvalidInput, i, field)
			}
			row = append(row, value)
		}
		rows = append(rows, row)
	}
	parsed, err := board.FromRows(rows)
	if err != nil {
		return Scenario{}, err
	}

	scenario := Scenario{Depth: depth, Board: parsed}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		expected, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return Scenario{}, fmt.Errorf("%w: expected checksum %q is not an integer", board.ErrInvalidInput, line)
		}
		scenario.Expected = expected
		scenario.HasExpected = true
		break
	}
	if err := scanner.Err(); err != nil {
		return Scenario{}, err
	}
	return scenario, nil
}

func LoadFile(path string) (Scenario, error) {
	file, err := os.Open(path)
	if err != nil {
		return Scenario{}, err
	}
	defer file.Close()
	scenario, err := Parse(file)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return scenario, nil
}

func nextLine(scanner *bufio.Scanner, what string) (string, error) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: missing %s line", board.ErrInvalidInput, what)
}
