package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/charmbracelet/lipgloss"
)

// Presenter shows banners as boxes on the terminal and asks questions on
// the input. It implements alert.Presenter.
type Presenter struct {
	writer io.Writer
	reader *LineReader
	now    func() time.Time
	// Yes answers every confirmation with the confirm action.
	Yes bool
}

// NewPresenter creates a presenter reading answers from reader.
func NewPresenter(reader io.Reader, writer io.Writer) *Presenter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Presenter{
		writer: writer,
		reader: NewLineReader(reader),
		now:    time.Now,
	}
}

// Show implements alert.Presenter.
func (p *Presenter) Show(a alert.Alert) {
	if _, err := fmt.Fprintln(p.writer, RenderAlert(a, p.now())); err != nil {
		slog.Warn("Failed to write banner", "error", err)
	}
}

// RenderAlert renders a banner. A banner with a countdown states how long it
// stays up.
func RenderAlert(a alert.Alert, now time.Time) string {
	accent, icon := PositiveColor, SuccessIcon
	switch a.Kind {
	case alert.KindError:
		accent, icon = NegativeColor, ErrorIcon
	case alert.KindInfo:
		accent, icon = InfoColor, InfoIcon
	}

	body := a.Body
	if remaining := a.Remaining(now); remaining > 0 {
		body += "\n" + SubtleStyle.Render(fmt.Sprintf("(%s in %ds)", a.Button, int(remaining.Round(time.Second)/time.Second)))
	}
	return RenderBox(icon+" "+a.Header, body, accent)
}

// Confirm implements alert.Presenter. Anything but an explicit yes declines.
func (p *Presenter) Confirm(ctx context.Context, d alert.Dialog) (bool, error) {
	if _, err := fmt.Fprintln(p.writer, RenderBox(WarningIcon+" "+d.Header, d.Body, WarningColor)); err != nil {
		return false, fmt.Errorf("failed to write dialog: %w", err)
	}
	if p.Yes {
		return true, nil
	}

	answer, err := p.ask(ctx, fmt.Sprintf("%s? [y/N]", d.ConfirmLabel))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "j", "ja":
		return true, nil
	default:
		return false, nil
	}
}

// Choose implements alert.Presenter. Options are numbered from 1; an empty
// answer cancels.
func (p *Presenter) Choose(ctx context.Context, pr alert.Prompt) (int, error) {
	lines := make([]string, 0, len(pr.Options)+1)
	lines = append(lines, pr.Body, "")
	for i, opt := range pr.Options {
		lines = append(lines, fmt.Sprintf("  [%d] %s", i+1, opt))
	}
	if _, err := fmt.Fprintln(p.writer, RenderBox(pr.Header, lipgloss.JoinVertical(lipgloss.Left, lines...), PrimaryColor)); err != nil {
		return 0, fmt.Errorf("failed to write prompt: %w", err)
	}

	for {
		answer, err := p.ask(ctx, "Choice")
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return 0, alert.ErrCanceled
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 1 && n <= len(pr.Options) {
			return n - 1, nil
		}
		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (p *Presenter) ask(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := p.reader.ReadLine(ctx)
	switch {
	case errors.Is(err, ErrInputCancelled):
		return "", alert.ErrCanceled
	case errors.Is(err, io.EOF):
		return "", fmt.Errorf("input terminated: %w", alert.ErrCanceled)
	case err != nil:
		return "", err
	}
	return answer, nil
}
