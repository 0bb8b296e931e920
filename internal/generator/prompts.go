// File path: internal/generator/prompts.go
package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

const analysisPrompt = `あなたはCINCOM NC旋盤のエキスパートプログラマーです。
提供された図面画像を解析し、以下の情報をJSON形式で抽出してください。

## 抽出項目
1. process_type: 加工タイプ（roughing/finishing/threading/drilling/grooving/facing/boring のいずれか）
2. features: 検出された形状特徴のリスト（外径、内径、テーパー、R面取り、ねじ、溝 等）
3. dimensions: 主要寸法の辞書
   - diameter_start: 開始直径 (mm)
   - diameter_end: 終了直径 (mm)
   - length: 加工長さ (mm)
   - taper_angle: テーパー角度 (度) ※ある場合
   - radius: R寸法 (mm) ※ある場合
4. tolerances: 公差情報（検出できる場合）
5. surface_finish: 表面粗さ指示（検出できる場合）

## 出力形式
JSONのみを出力してください（説明不要）:

` + "```json" + `
{
  "process_type": "...",
  "features": ["...", "..."],
  "dimensions": {
    "diameter_start": 0.0,
    "diameter_end": 0.0,
    "length": 0.0
  },
  "tolerances": null,
  "surface_finish": null
}
` + "```" + `
`

func buildGenerationPrompt(cincomModel string, analysis *DrawingAnalysis, proc ProcessInfo, cond MachiningConditions, samples string) string {
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		analysisJSON = []byte("{}")
	}
	coolant := "不使用"
	if cond.coolantEnabled() {
		coolant = "使用"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "あなたはCINCOM NC旋盤のエキスパートプログラマーです。\n")
	fmt.Fprintf(&b, "以下の情報を基に、CINCOM %s用のNCプログラムを生成してください。\n\n", cincomModel)
	fmt.Fprintf(&b, "## 図面解析結果\n```json\n%s\n```\n\n", analysisJSON)
	fmt.Fprintf(&b, "## 行程情報\n")
	fmt.Fprintf(&b, "- 行程名: %s\n", orDefault(proc.ProcessName, "N/A"))
	fmt.Fprintf(&b, "- 加工タイプ: %s\n", orDefault(proc.ProcessType, "N/A"))
	fmt.Fprintf(&b, "- 備考: %s\n\n", orDefault(proc.Notes, "なし"))
	fmt.Fprintf(&b, "## 加工条件\n")
	fmt.Fprintf(&b, "- 材質: %s\n", orDefault(cond.Material, "N/A"))
	fmt.Fprintf(&b, "- 主軸回転数: %d rpm\n", orDefaultInt(cond.SpindleSpeed, 1000))
	fmt.Fprintf(&b, "- 送り速度: %g mm/rev\n", orDefaultFloat(cond.FeedRate, 0.1))
	fmt.Fprintf(&b, "- 切込み量: %g mm\n", orDefaultFloat(cond.DepthOfCut, 0.5))
	fmt.Fprintf(&b, "- クーラント: %s\n", coolant)
	fmt.Fprintf(&b, "- 工具番号: %s\n", orDefault(cond.ToolNumber, "T0101"))
	fmt.Fprintf(&b, "- 工具タイプ: %s\n", orDefault(cond.ToolType, "N/A"))
	fmt.Fprintf(&b, "- ワーク座標系: %s\n\n", orDefault(cond.CoordinateSystem, "G54"))
	fmt.Fprintf(&b, "## 参考サンプルプログラム\n%s\n\n", samples)
	fmt.Fprintf(&b, "## 要件\n")
	fmt.Fprintf(&b, "1. FANUC系Gコード準拠\n")
	fmt.Fprintf(&b, "2. プログラム番号は O0001 から開始\n")
	fmt.Fprintf(&b, "3. 安全なアプローチ/リトラクト動作を含める\n")
	fmt.Fprintf(&b, "4. 適切なコメントを日本語で付与\n")
	fmt.Fprintf(&b, "5. G28によるリファレンス点復帰を含める\n")
	fmt.Fprintf(&b, "6. M30でプログラム終了\n\n")
	fmt.Fprintf(&b, "## 出力\n")
	fmt.Fprintf(&b, "NCプログラムのコードのみを出力してください。説明は不要です。\n")
	fmt.Fprintf(&b, "コードブロック（```nc ... ```）で囲んでください。\n")
	return b.String()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func orDefaultInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func orDefaultFloat(value, fallback float64) float64 {
	if value <= 0 {
		return fallback
	}
	return value
}
