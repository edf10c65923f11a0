package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"corkboard/internal/models"
)

// Layout constants. Lists are fixed-width columns; card boxes fill the list
// width minus the border.
const (
	ListWidth    = 28
	listGap      = 1
	gutterWidth  = 2
	cardInner    = ListWidth - 4
	titleMaxLen  = cardInner - 2
	headerRows   = 2 // list name row + drop-at-top row
	boardTopRows = 1 // board title row
)

// Theme carries the colors the reconciler styles nodes with. Constructed
// from config once per session.
type Theme struct {
	Accent     string
	Subtle     string
	CardBorder string
	HoverColor string
	DangerBg   string
	LockColor  string
}

// DefaultTheme returns the stock color scheme.
func DefaultTheme() Theme {
	return Theme{
		Accent:     "#7D56F4",
		Subtle:     "#6C6C6C",
		CardBorder: "#4A4A4A",
		HoverColor: "#F4C957",
		DangerBg:   "#8B2D2D",
		LockColor:  "#C4A000",
	}
}

func (t Theme) cardStyle(highlight bool) lipgloss.Style {
	border := t.CardBorder
	if highlight {
		border = t.HoverColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(cardInner + 2).
		Padding(0, 1)
}

func (t Theme) listHeaderStyle(highlight bool) lipgloss.Style {
	fg := t.Accent
	if highlight {
		fg = t.HoverColor
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(fg)).
		Width(ListWidth)
}

func (t Theme) subtleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Subtle)).Italic(true)
}

// renderCardBody builds the inner lines of a card box: title (with lock
// indicator), optional cover line, optional label chips.
func (t Theme) renderCardBody(card models.Card, labels []models.Label, coverLoaded bool) string {
	title := card.Title
	if len(title) > titleMaxLen {
		title = title[:titleMaxLen] + "…"
	}
	if card.Locked {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color(t.LockColor)).Render("🔒 ") + title
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render(title)}

	if card.CoverURL != "" {
		if coverLoaded {
			cover := card.CoverURL
			if len(cover) > cardInner {
				cover = cover[:cardInner-1] + "…"
			}
			lines = append(lines, t.subtleStyle().Render(cover))
		} else {
			lines = append(lines, t.subtleStyle().Render("▒ image"))
		}
	}

	if chips := t.renderLabelChips(card.LabelMask, labels); chips != "" {
		lines = append(lines, chips)
	}

	return strings.Join(lines, "\n")
}

// renderLabelChips renders one chip per set label bit. Bit i corresponds to
// label slot i; a slot with an empty name is deleted and skipped even when a
// stale mask still has its bit set.
func (t Theme) renderLabelChips(mask models.LabelMask, labels []models.Label) string {
	var chips []string
	for _, label := range labels {
		if label.Deleted() || !mask.Has(label.Index) {
			continue
		}
		chips = append(chips, lipgloss.NewStyle().
			Background(lipgloss.Color(label.Color)).
			Padding(0, 1).
			Render(label.Name))
	}
	return strings.Join(chips, " ")
}

// renderAttachmentRow builds an open-card attachment line. Attachments
// without a URL are still uploading.
func (t Theme) renderAttachmentRow(att models.Attachment) string {
	if att.Uploading() {
		return t.subtleStyle().Render("⇡ " + att.Name + " (uploading…)")
	}
	return "🔗 " + att.Name + "  " + t.subtleStyle().Render(att.URL)
}
