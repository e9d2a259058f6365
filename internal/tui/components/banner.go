package components

import (
	"fmt"
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// BannerModel shows the latest alert above the page.
type BannerModel struct {
	theme   themes.Theme
	alert   alert.Alert
	visible bool
}

// NewBanner creates a hidden banner.
func NewBanner(theme themes.Theme) BannerModel {
	return BannerModel{theme: theme}
}

// Show replaces the banner content.
func (b *BannerModel) Show(a alert.Alert) {
	b.alert = a
	b.visible = true
}

// Visible reports whether a banner is shown.
func (b BannerModel) Visible() bool {
	return b.visible
}

// Alert returns the banner content.
func (b BannerModel) Alert() alert.Alert {
	return b.alert
}

// Counting reports whether the banner's countdown is still running at now.
func (b BannerModel) Counting(now time.Time) bool {
	return b.visible && b.alert.Remaining(now) > 0
}

// Dismiss hides the banner unless its countdown is still running. It
// reports whether the banner was hidden.
func (b *BannerModel) Dismiss(now time.Time) bool {
	if !b.visible || !b.alert.CanClose(now) {
		return false
	}
	b.visible = false
	return true
}

// View renders the banner at width, or nothing when hidden.
func (b BannerModel) View(now time.Time, width int) string {
	if !b.visible {
		return ""
	}

	accent, icon := b.theme.Success, "✓"
	switch b.alert.Kind {
	case alert.KindError:
		accent, icon = b.theme.Error, "✗"
	case alert.KindInfo:
		accent, icon = b.theme.Info, "ℹ"
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(icon + " " + b.alert.Header)
	body := b.alert.Body
	if left := b.alert.Remaining(now); left > 0 {
		secs := int(left.Round(time.Second) / time.Second)
		body += "\n" + b.theme.Faint.Render(fmt.Sprintf("(%s in %ds)", b.alert.Button, secs))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(max(20, width-2)).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}
