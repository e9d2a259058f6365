package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenter_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "german yes", input: "ja\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty declines", input: "\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPresenter(strings.NewReader(tt.input), &out)

			ok, err := p.Confirm(context.Background(), alert.Dialog{
				Header:       "Delete Bank",
				Body:         "Are you sure?",
				ConfirmLabel: "Delete Bank",
				CancelLabel:  "Cancel",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "Are you sure?")
			assert.Contains(t, out.String(), "[y/N]")
		})
	}
}

func TestPresenter_ConfirmYes(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(strings.NewReader(""), &out)
	p.Yes = true

	ok, err := p.Confirm(context.Background(), alert.Dialog{Header: "Delete", Body: "Sure?"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotContains(t, out.String(), "[y/N]")
}

func TestPresenter_ConfirmEOF(t *testing.T) {
	p := NewPresenter(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.Confirm(context.Background(), alert.Dialog{Header: "Delete"})
	require.ErrorIs(t, err, alert.ErrCanceled)
}

func TestPresenter_Choose(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(strings.NewReader("7\nabc\n2\n"), &out)

	idx, err := p.Choose(context.Background(), alert.Prompt{
		Header:  "Amounts differ",
		Body:    "How should the transaction be added?",
		Options: []string{"New amount", "Old amount", "Only add"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "[3] Only add")
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid choice"))
}

func TestPresenter_ChooseEmptyCancels(t *testing.T) {
	p := NewPresenter(strings.NewReader("\n"), &bytes.Buffer{})

	_, err := p.Choose(context.Background(), alert.Prompt{Options: []string{"a"}})
	require.ErrorIs(t, err, alert.ErrCanceled)
}

func TestPresenter_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPresenter(strings.NewReader("y\n"), &bytes.Buffer{})

	_, err := p.Confirm(ctx, alert.Dialog{Header: "Delete"})
	require.ErrorIs(t, err, alert.ErrCanceled)
}

func TestRenderAlert(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	a := alert.Alert{
		Kind:      alert.KindSuccess,
		Header:    "Account deleted",
		Body:      "Goodbye",
		Button:    "Close",
		Countdown: 5 * time.Second,
		ShownAt:   start,
	}

	out := RenderAlert(a, start.Add(2*time.Second))
	assert.Contains(t, out, "Account deleted")
	assert.Contains(t, out, "Goodbye")
	assert.Contains(t, out, "(Close in 3s)")

	out = RenderAlert(a, start.Add(time.Minute))
	assert.NotContains(t, out, "Close in")

	out = RenderAlert(alert.Error("Error", "Broken"), start)
	assert.Contains(t, out, ErrorIcon+" Error")
}
