// internal/menu/styles.go
//
// 選單配色：以綁定輸出的 lipgloss.Renderer 建立樣式，非終端機輸出時自動退為純文字。
package menu

import "github.com/charmbracelet/lipgloss"

var (
	salmonPink = lipgloss.Color("#FFB3BA")
	mintGreen  = lipgloss.Color("#A8E6CF")
	mutedGray  = lipgloss.Color("#6B7280")
)

type styles struct {
	title  lipgloss.Style
	rule   lipgloss.Style
	ok     lipgloss.Style
	errMsg lipgloss.Style
	prompt lipgloss.Style
}

// newStyles 以輸出目標建立樣式；非終端機（例如測試用 buffer）時不輸出色碼。
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Foreground(salmonPink).Bold(true),
		rule:   r.NewStyle().Foreground(mutedGray),
		ok:     r.NewStyle().Foreground(mintGreen),
		errMsg: r.NewStyle().Foreground(salmonPink),
		prompt: r.NewStyle().Bold(true),
	}
}
