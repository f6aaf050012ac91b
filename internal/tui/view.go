package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/UTarts/cardiff-healthcare/internal/catalog"
)

// cardHeight is the rendered height of one card including its border.
const cardHeight = 8

// View renders the page.
func (m Model) View() string {
	snap := m.view.Snapshot()

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Cardiff Healthcare · Our Products"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render("Quality medicines for every need"))
	sb.WriteString("\n\n")

	if snap.Lightbox != nil {
		sb.WriteString(m.renderLightbox(snap.Lightbox))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Help.Render("[←/→] Image  [1-9] Jump  [i] Inquire  [Esc] Close"))
		return sb.String()
	}

	sb.WriteString(m.renderToolbar(snap))
	sb.WriteString("\n\n")

	switch {
	case snap.Loading:
		sb.WriteString(m.spinner.View() + " Loading products...\n")
		sb.WriteString(m.renderSkeletons(snap.Skeletons))
	case len(snap.Cards) == 0:
		sb.WriteString(m.styles.Muted.Render("No products found."))
	default:
		sb.WriteString(m.renderGrid(snap.Cards))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("Showing %d of %d products", len(snap.Cards), snap.Total)))
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("[/] Search  [Tab] Category  [s] Sort  [Enter] Details  [q] Quit"))
	return sb.String()
}

func (m Model) renderToolbar(snap catalog.Snapshot) string {
	searchStyle := m.styles.Search
	if m.searchFocused {
		searchStyle = m.styles.SearchActive
	}

	sort := "A-Z"
	if snap.Criteria.Sort == catalog.SortDesc {
		sort = "Z-A"
	}

	var chips []string
	for _, c := range snap.Categories {
		style := m.styles.Chip
		if c == snap.Criteria.Category {
			style = m.styles.ChipActive
		}
		chips = append(chips, style.Render(c))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Center,
		searchStyle.Render(m.search.View()),
		"  ",
		m.styles.Muted.Render("Sort: ")+sort,
	)
	return top + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) renderSkeletons(n int) string {
	cols := m.columns()
	block := strings.TrimRight(strings.Repeat(strings.Repeat("░", cardWidth-6)+"\n", cardHeight-2), "\n")

	var rows []string
	for start := 0; start < n; start += cols {
		var row []string
		for i := start; i < min(start+cols, n); i++ {
			row = append(row, m.styles.Skeleton.Render(block))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderGrid lays cards out in rows and shows the rows around the cursor
// that fit the terminal height.
func (m Model) renderGrid(cards []catalog.Card) string {
	cols := m.columns()

	var rows []string
	for start := 0; start < len(cards); start += cols {
		var row []string
		for i := start; i < min(start+cols, len(cards)); i++ {
			row = append(row, m.renderCard(cards[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	first, last := m.visibleRows(len(rows))
	grid := lipgloss.JoinVertical(lipgloss.Left, rows[first:last]...)
	if last-first < len(rows) {
		grid += "\n" + m.styles.Muted.Render(fmt.Sprintf("rows %d-%d of %d (↑/↓ to scroll)", first+1, last, len(rows)))
	}
	return grid
}

// visibleRows returns the half-open range of grid rows that fit the
// terminal height and contain the cursor.
func (m Model) visibleRows(total int) (int, int) {
	fit := max(1, (m.height-10)/cardHeight)
	first := 0
	if cursorRow := m.cursor / m.columns(); cursorRow >= fit {
		first = cursorRow - fit + 1
	}
	return first, min(total, first+fit)
}

func (m Model) renderCard(c catalog.Card, selected bool) string {
	style := m.styles.Card
	if selected {
		style = m.styles.CardSelected
	}

	inner := cardWidth - 6
	lines := []string{
		m.styles.CardName.Render(truncate(c.Name, inner)),
		m.styles.Category.Render(c.Category),
		truncate(c.Composition, inner),
		m.styles.Muted.Render(truncate(c.Uses, inner)),
		m.styles.Muted.Render(truncate(c.PackSize, inner)),
	}
	if c.IsTopSeller {
		lines = append(lines, m.styles.TopSeller.Render("★ Top seller"))
	} else {
		lines = append(lines, "")
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderLightbox(lb *catalog.Lightbox) string {
	p := lb.Product
	width := min(m.width-6, 80)

	var sb strings.Builder
	sb.WriteString(m.styles.CardName.Render(p.Name) + "  " + m.styles.Category.Render(p.CategoryLabel()) + "\n\n")
	sb.WriteString(m.styles.Muted.Render("Image: ") + lb.MainImage + "\n")

	var thumbs []string
	for _, t := range lb.Thumbnails {
		style := m.styles.Thumb
		if t.Active {
			style = m.styles.ThumbActive
		}
		thumbs = append(thumbs, style.Render(fmt.Sprintf("[%d]", t.Index+1)))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, thumbs...) + "\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(m.styles.Muted.Render(label+": ") + value + "\n")
	}
	field("Composition", p.Composition)
	field("Uses", p.Uses)
	field("Pack size", p.PackSize)
	if p.Description != "" {
		sb.WriteString("\n" + lipgloss.NewStyle().Width(width-4).Render(p.Description) + "\n")
	}

	sb.WriteString("\n" + m.styles.ChipActive.Render("Inquire about "+lb.Inquire.Prefill))
	return m.styles.Lightbox.Width(width).Render(sb.String())
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
