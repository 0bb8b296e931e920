// File path: internal/generator/fallback.go
package generator

import (
	"fmt"
	"strings"
)

// FallbackProgram is the deterministic template substituted when the
// synthesis collaborator is unavailable. It is parameterized only by the
// caller's cutting conditions, so the pipeline always yields syntactically
// plausible NC text with zero external dependencies.
func FallbackProgram(cincomModel string, cond MachiningConditions) string {
	tool := orDefault(cond.ToolNumber, "T0101")
	speed := orDefaultInt(cond.SpindleSpeed, 1000)
	feed := orDefaultFloat(cond.FeedRate, 0.1)

	var b strings.Builder
	b.WriteString("O0001\n")
	fmt.Fprintf(&b, "(CINCOM %s - 自動生成プログラム)\n", cincomModel)
	b.WriteString("(生成AI未接続のためテンプレートを使用)\n")
	b.WriteString("\n")
	b.WriteString("N10 G28 U0 W0\n")
	b.WriteString("N20 G50 S3000\n")
	fmt.Fprintf(&b, "N30 %s\n", tool)
	fmt.Fprintf(&b, "N40 G96 S%d M03\n", speed)
	b.WriteString("N50 G00 X22.0 Z2.0 M08\n")
	fmt.Fprintf(&b, "N60 G01 Z0 F%g\n", feed)
	b.WriteString("N70 X20.0\n")
	b.WriteString("N80 Z-30.0\n")
	b.WriteString("N90 G00 X22.0 Z2.0\n")
	b.WriteString("N100 G28 U0 W0 M09\n")
	b.WriteString("N110 M01\n")
	b.WriteString("\n")
	b.WriteString("M30\n")
	return b.String()
}
