// File path: internal/ncprog/validate.go
package ncprog

import (
	"fmt"
	"strings"
)

const (
	programNumberMarker  = "O"
	defaultProgramNumber = "O0001"
	primaryEndToken      = "M30"
	secondaryEndToken    = "M02"
)

// cautionTokens alter the machine coordinate system and always warrant a
// manual review before the program is loaded.
var cautionTokens = []string{"G10", "G92"}

const (
	warnMissingProgramNumber = "プログラム番号（O番号）がありません"
	warnMissingEndCode       = "プログラム終了コード（M30）がありません"
)

// Validate performs the structural sanity pass over generated NC code. It
// never fails: missing structural markers are repaired in place and every
// repair or advisory finding is reported as a warning. Running Validate on
// its own output yields the same code and no warnings.
func Validate(code string) (string, []string) {
	var warnings []string
	lines := strings.Split(strings.TrimSpace(code), "\n")

	hasProgramNumber := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), programNumberMarker) {
			hasProgramNumber = true
			break
		}
	}
	if !hasProgramNumber {
		warnings = append(warnings, warnMissingProgramNumber)
		lines = append([]string{defaultProgramNumber}, lines...)
	}

	hasEnd := false
	for _, line := range lines {
		upper := strings.ToUpper(line)
		if strings.Contains(upper, primaryEndToken) || strings.Contains(upper, secondaryEndToken) {
			hasEnd = true
			break
		}
	}
	if !hasEnd {
		warnings = append(warnings, warnMissingEndCode)
		lines = append(lines, primaryEndToken)
	}

	for _, line := range lines {
		upper := strings.ToUpper(line)
		for _, token := range cautionTokens {
			if strings.Contains(upper, token) {
				warnings = append(warnings, fmt.Sprintf("注意: %s コードが含まれています。確認してください。", token))
			}
		}
	}

	return strings.Join(lines, "\n"), warnings
}
