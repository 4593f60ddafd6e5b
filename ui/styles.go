package ui

import "github.com/charmbracelet/lipgloss"

// 16-color ANSI Dracula palette
var (
	DraculaForeground = lipgloss.AdaptiveColor{Light: "0", Dark: "255"}
	DraculaPurple     = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	DraculaPink       = lipgloss.AdaptiveColor{Light: "13", Dark: "13"}
	DraculaCyan       = lipgloss.AdaptiveColor{Light: "6", Dark: "14"}
	DraculaGreen      = lipgloss.AdaptiveColor{Light: "2", Dark: "10"}
	DraculaComment    = lipgloss.AdaptiveColor{Light: "8", Dark: "7"}
	DraculaOrange     = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	DraculaRed        = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	FireflyGold       = lipgloss.AdaptiveColor{Light: "3", Dark: "11"}

	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true)
	HeaderSubtitleStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Italic(true)

	// Category tab bar
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Underline(true).
			Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(DraculaComment).
				Padding(0, 1)

	// Range selector
	PanelLabelStyle = lipgloss.NewStyle().
			Foreground(DraculaCyan).
			Bold(true)
	FieldStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(DraculaComment).
			Padding(0, 1)
	FieldFocusedStyle = FieldStyle.
				BorderForeground(DraculaPink)
	SliderTrackStyle = lipgloss.NewStyle().
				Foreground(DraculaComment)
	SliderHandleStyle = lipgloss.NewStyle().
				Foreground(DraculaCyan).
				Bold(true)
	SliderHandleFocusedStyle = lipgloss.NewStyle().
					Foreground(DraculaPink).
					Bold(true)
	SelectedRangeStyle = lipgloss.NewStyle().
				Foreground(DraculaGreen).
				Bold(true)

	// Result list
	TitleStyle = lipgloss.NewStyle().
			Foreground(DraculaPink).
			Bold(true).
			Padding(0, 1)
	FireflyBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(FireflyGold).
				Bold(true).
				Padding(0, 1)
	PriceStyle = lipgloss.NewStyle().
			Foreground(DraculaGreen).
			Bold(true)
	StoreStyle = lipgloss.NewStyle().
			Foreground(DraculaOrange)
	DimStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)
	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(DraculaComment).
			Padding(1, 2)

	// Detail view styles
	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(DraculaPink).
				Bold(true)
	DetailLabelStyle = lipgloss.NewStyle().
				Foreground(DraculaCyan).
				Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(DraculaComment)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(DraculaRed).
			Bold(true).
			Padding(0, 2)
)
