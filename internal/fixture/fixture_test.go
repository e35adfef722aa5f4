package fixture

import (
	"errors"
	"strings"
	"testing"

	"github.com/enixame/spring-challenge-2025/internal/board"
)

func TestParseWithExpected(t *testing.T) {
	input := "5\n0 0 0\n0 0 0\n0 0 0\n50441886\n"
	scenario, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scenario.Depth != 5 {
		t.Fatalf("depth mismatch: got %d", scenario.Depth)
	}
	if scenario.Board.Fingerprint() != 0 {
		t.Fatalf("expected all-zero board, got %s", scenario.Board)
	}
	if !scenario.HasExpected || scenario.Expected != 50441886 {
		t.Fatalf("expected checksum not parsed: %+v", scenario)
	}
}

func TestParseWithoutExpected(t *testing.T) {
	input := "3\n1 2 3\n4 5 6\n0 0 0\n"
	scenario, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scenario.HasExpected {
		t.Fatalf("expected no checksum line")
	}
	if got := scenario.Board.String(); got != "1 2 3/4 5 6/0 0 0" {
		t.Fatalf("board mismatch: %q", got)
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	input := "\n2\n\n0 0 0\n0 1 0\n0 0 0\n\n222222222\n"
	scenario, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if scenario.Depth != 2 || !scenario.HasExpected {
		t.Fatalf("unexpected scenario: %+v", scenario)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"non-integer depth", "five\n0 0 0\n0 0 0\n0 0 0\n"},
		{"negative depth", "-1\n0 0 0\n0 0 0\n0 0 0\n"},
		{"missing row", "2\n0 0 0\n0 0 0\n"},
		{"short row", "2\n0 0\n0 0 0\n0 0 0\n"},
		{"long row", "2\n0 0 0 0\n0 0 0\n0 0 0\n"},
		{"non-integer cell", "2\n0 x 0\n0 0 0\n0 0 0\n"},
		{"out of domain cell", "2\n0 9 0\n0 0 0\n0 0 0\n"},
		{"bad expected", "2\n0 0 0\n0 0 0\n0 0 0\nnope\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.input)); !errors.Is(err, board.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("testdata/does_not_exist.txt"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
