package tui

import "github.com/charmbracelet/lipgloss"

// Brand palette of the storefront.
var (
	Teal      = lipgloss.Color("#0d9488")
	TealLight = lipgloss.Color("#ccfbf1")
	Slate     = lipgloss.Color("#334155")
	Muted     = lipgloss.Color("#94a3b8")
	Amber     = lipgloss.Color("#f59e0b")
	Border    = lipgloss.Color("#cbd5e1")
)

// cardWidth is the outer width of one grid card including its border.
const cardWidth = 30

// Styles groups the lipgloss styles of the browser.
type Styles struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Search       lipgloss.Style
	SearchActive lipgloss.Style
	Chip         lipgloss.Style
	ChipActive   lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardName     lipgloss.Style
	Category     lipgloss.Style
	TopSeller    lipgloss.Style
	Skeleton     lipgloss.Style
	Lightbox     lipgloss.Style
	Thumb        lipgloss.Style
	ThumbActive  lipgloss.Style
	Muted        lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the light storefront theme.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1).
		Width(cardWidth - 2)

	chip := lipgloss.NewStyle().Padding(0, 1).Foreground(Slate)

	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(Teal),
		Subtitle:     lipgloss.NewStyle().Foreground(Muted),
		Search:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1),
		SearchActive: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Teal).Padding(0, 1),
		Chip:         chip,
		ChipActive:   chip.Background(Teal).Foreground(lipgloss.Color("#ffffff")).Bold(true),
		Card:         card,
		CardSelected: card.BorderForeground(Teal).BorderStyle(lipgloss.ThickBorder()),
		CardName:     lipgloss.NewStyle().Bold(true).Foreground(Slate),
		Category:     lipgloss.NewStyle().Foreground(Teal).Background(TealLight).Padding(0, 1),
		TopSeller:    lipgloss.NewStyle().Foreground(Amber).Bold(true),
		Skeleton:     card.Foreground(Border),
		Lightbox:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(Teal).Padding(1, 2),
		Thumb:        lipgloss.NewStyle().Foreground(Muted).Padding(0, 1),
		ThumbActive:  lipgloss.NewStyle().Foreground(Teal).Bold(true).Underline(true).Padding(0, 1),
		Muted:        lipgloss.NewStyle().Foreground(Muted),
		Help:         lipgloss.NewStyle().Foreground(Muted).Italic(true),
	}
}
