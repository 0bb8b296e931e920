// File path: internal/ncprog/validate_test.go
package ncprog

import (
	"strings"
	"testing"
)

func TestValidateRepairsMissingMarkers(t *testing.T) {
	code := "G00 X22.0 Z2.0\nG01 Z-30.0 F0.1"
	repaired, warnings := Validate(code)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	lines := strings.Split(repaired, "\n")
	if lines[0] != "O0001" {
		t.Fatalf("expected prepended program number, got %q", lines[0])
	}
	if lines[len(lines)-1] != "M30" {
		t.Fatalf("expected appended end code, got %q", lines[len(lines)-1])
	}
}

func TestValidateIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"G00 X10.0",
		"O1234\nG01 Z-5.0 F0.05\nM30",
		"N10 G50 S3000\nN20 M03",
	}
	for _, input := range inputs {
		repaired, _ := Validate(input)
		again, warnings := Validate(repaired)
		if len(warnings) != 0 {
			t.Fatalf("second pass on %q produced warnings: %v", input, warnings)
		}
		if again != repaired {
			t.Fatalf("second pass changed code:\nfirst:  %q\nsecond: %q", repaired, again)
		}
	}
}

func TestValidateEmptyInput(t *testing.T) {
	repaired, warnings := Validate("")
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	lines := strings.Split(repaired, "\n")
	numberIdx, endIdx := -1, -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "O") && numberIdx == -1 {
			numberIdx = i
		}
		if strings.Contains(strings.ToUpper(line), "M30") {
			endIdx = i
		}
	}
	if numberIdx == -1 || endIdx == -1 {
		t.Fatalf("repaired empty input missing markers: %q", repaired)
	}
	if numberIdx >= endIdx {
		t.Fatalf("program number must precede end code: %q", repaired)
	}
}

func TestValidateCautionTokensAdvisoryOnly(t *testing.T) {
	code := "O0002\nG92 S3000\nG10 P1 X0\nM30"
	repaired, warnings := Validate(code)
	if repaired != code {
		t.Fatalf("advisory pass must not mutate code, got %q", repaired)
	}
	var sawG10, sawG92 bool
	for _, w := range warnings {
		if strings.Contains(w, "G10") {
			sawG10 = true
		}
		if strings.Contains(w, "G92") {
			sawG92 = true
		}
	}
	if !sawG10 || !sawG92 {
		t.Fatalf("expected advisories for both caution tokens, got %v", warnings)
	}
}

func TestExtractProgramNumber(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"O0001\nG00 X10.0\nM30", "O0001"},
		{"(comment)\nO1234 G50\nM30", "O1234"},
		{"G00 X10.0\nM30", ""},
	}
	for _, tc := range cases {
		if got := ExtractProgramNumber(tc.code); got != tc.want {
			t.Fatalf("ExtractProgramNumber(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestParseBlock(t *testing.T) {
	block := ParseBlock(4, "N40 G96 S1200 M03")
	if block.IsComment {
		t.Fatalf("expected command block")
	}
	if len(block.GCodes) != 1 || block.GCodes[0] != "G96" {
		t.Fatalf("unexpected g codes: %v", block.GCodes)
	}
	if len(block.MCodes) != 1 || block.MCodes[0] != "M03" {
		t.Fatalf("unexpected m codes: %v", block.MCodes)
	}

	comment := ParseBlock(1, "(FACE CUT)")
	if !comment.IsComment || len(comment.GCodes) != 0 {
		t.Fatalf("comment line misparsed: %+v", comment)
	}
}
