package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	BrandOrange = lipgloss.Color("#FF9900")
	Black       = lipgloss.Color("#000000")
	Gray900     = lipgloss.Color("#111827")
	Gray800     = lipgloss.Color("#1F2937")
	Gray700     = lipgloss.Color("#374151")
	DimGray     = lipgloss.Color("#6B7280")
	LightGray   = lipgloss.Color("#9CA3AF")
	White       = lipgloss.Color("#F9FAFB")
	Green       = lipgloss.Color("#10B981")
	Red         = lipgloss.Color("#EF4444")
	Blue        = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(BrandOrange)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	LogoStyle = lipgloss.NewStyle().
			Foreground(Black).
			Background(BrandOrange).
			Bold(true).
			Padding(0, 1)
)

// Category pills
var (
	PillStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Gray900).
			Padding(0, 1).
			MarginRight(1)

	ActivePillStyle = lipgloss.NewStyle().
			Foreground(Black).
			Background(BrandOrange).
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	TabStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(BrandOrange).
			Underline(true).
			Bold(true).
			Padding(0, 1)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(Gray700).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BrandOrange).
			Padding(1, 2).
			Background(Gray800)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)

	BannerStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Gray900).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(BrandOrange)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Timeline styles
var (
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(BrandOrange)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(Black).
			Background(BrandOrange).
			Padding(0, 1)

	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Red).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(Gray700).
			Padding(0, 1)
)

// Filter and highlight styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(BrandOrange).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(BrandOrange).
				Bold(true)
)

// MaskedThumb stands in for thumbnails while safe mode is on
const MaskedThumb = "▒▒▒▒ hidden ▒▒▒▒"

// RenderProgressBar renders a progress bar of width cells
func RenderProgressBar(percent float64, width int) string {
	if width < 3 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	filled = max(0, min(filled, width))

	return ProgressFullStyle.Render(strings.Repeat("━", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("─", width-filled))
}

// Highlight renders the runes of s at byte offsets idx in the match style
func Highlight(s string, idx []int, base lipgloss.Style) string {
	if len(idx) == 0 {
		return base.Render(s)
	}
	hit := make(map[int]bool, len(idx))
	for _, i := range idx {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}
