// File path: internal/knowledge/prompt.go
package knowledge

import (
	"fmt"
	"strings"
)

// NoSamplesPlaceholder renders in the synthesis prompt when retrieval found
// no usable reference samples.
const NoSamplesPlaceholder = "参照サンプルなし"

// FormatSamples renders retrieved samples into the reference block embedded
// in the synthesis prompt, in retrieval order.
func FormatSamples(details []SampleDetail) string {
	if len(details) == 0 {
		return NoSamplesPlaceholder
	}
	parts := make([]string, 0, len(details))
	for _, detail := range details {
		meta := detail.Metadata
		name := meta.Name
		if name == "" {
			name = meta.ID
		}
		var b strings.Builder
		fmt.Fprintf(&b, "\n### サンプル: %s\n", name)
		fmt.Fprintf(&b, "- 加工タイプ: %s\n", orNA(meta.ProcessType))
		fmt.Fprintf(&b, "- 材質: %s\n", orNA(meta.Material))
		fmt.Fprintf(&b, "- 主軸回転数: %s rpm\n", intOrNA(meta.SpindleSpeed))
		fmt.Fprintf(&b, "- 送り速度: %s mm/rev\n", floatOrNA(meta.FeedRate))
		fmt.Fprintf(&b, "\n```nc\n%s\n```\n", strings.TrimSpace(detail.Code))
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n")
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}

func intOrNA(value int) string {
	if value <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", value)
}

func floatOrNA(value float64) string {
	if value <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%g", value)
}
