package components

import (
	"testing"
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/render"
	tuitesting "github.com/Veraticus/bankdash/internal/tui/testing"
	"github.com/Veraticus/bankdash/internal/tui/themes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows() []render.Row {
	return []render.Row{
		{ID: 1, Counterparty: "Netflix", Date: "15.01.2024", Amount: render.Money{Text: "-15.99 $", Tone: format.ToneNegative}, Selected: true},
		{ID: 2, Counterparty: "Salary", Date: "01.01.2024", Amount: render.Money{Text: "3000.00 $"}, Hidden: true, ContractName: "Employer"},
	}
}

func TestTransactionList(t *testing.T) {
	l := NewTransactionList(themes.Default)
	assert.Contains(t, tuitesting.StripANSI(l.View()), "No transactions.")

	l.SetRows(rows())
	assert.Equal(t, 2, l.Len())

	out := tuitesting.StripANSI(l.View())
	assert.True(t, tuitesting.ContainsInOrder(out, "Netflix", "Salary"))
	assert.Contains(t, out, MarkSelected)
	assert.Contains(t, out, MarkHidden)
	assert.Contains(t, out, "Employer")

	l, _ = l.Update(tuitesting.Key("down"))
	cur, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, int64(2), cur.ID)

	l.SetRows(rows()[:1])
	cur, ok = l.Current()
	require.True(t, ok)
	assert.Equal(t, int64(1), cur.ID, "cursor is clamped to the remaining rows")
}

func cards() []render.ContractCard {
	return []render.ContractCard{
		{ID: 1, Name: "Gym", Current: render.Money{Text: "-30.00 $"}, DateLabel: "Last payment date", Date: "01.02.2024"},
		{ID: 2, Name: "Old phone", Closed: true, DateLabel: "End date", Date: "01.01.2023",
			History: []render.HistoryEntry{{Old: render.Money{Text: "-20.00 $"}, New: render.Money{Text: "-25.00 $"}, ChangedAt: "01.06.2022"}}},
	}
}

func TestContractList(t *testing.T) {
	l := NewContractList(themes.Default, "Open contracts", "Closed contracts", "No history")
	l.SetCards(cards())

	out := tuitesting.StripANSI(l.View())
	assert.True(t, tuitesting.ContainsInOrder(out, "Open contracts", "Gym", "Closed contracts", "Old phone"))
	assert.Contains(t, out, "No history")

	l.Move(5)
	cur, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, "Old phone", cur.Name)
	assert.Contains(t, tuitesting.StripANSI(l.View()), "-25.00 $")

	l.Move(-5)
	assert.Equal(t, 0, l.Cursor())
}

func TestBanner(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBanner(themes.Default)
	assert.Empty(t, b.View(now, 80))

	a := alert.Success("Deleted", "Your account was deleted.")
	a.Button = "Close"
	a.Countdown = 5 * time.Second
	a.ShownAt = now
	b.Show(a)

	assert.Contains(t, tuitesting.StripANSI(b.View(now.Add(2*time.Second), 80)), "(Close in 3s)")
	assert.False(t, b.Dismiss(now.Add(4*time.Second)))
	assert.True(t, b.Visible())
	assert.True(t, b.Dismiss(now.Add(5*time.Second)))
	assert.False(t, b.Visible())
}

func TestConfirmDialog(t *testing.T) {
	d := alert.Dialog{Header: "Delete", Body: "Sure?", ConfirmLabel: "Delete", CancelLabel: "Cancel"}

	t.Run("enter defaults to cancel", func(t *testing.T) {
		m := NewConfirmDialog(d, themes.Default)
		m, _ = m.Update(tuitesting.Key("enter"))
		assert.True(t, m.Done())
		assert.False(t, m.Confirmed())
	})

	t.Run("y confirms", func(t *testing.T) {
		m := NewConfirmDialog(d, themes.Default)
		m, _ = m.Update(tuitesting.Key("y"))
		assert.True(t, m.Confirmed())
	})

	t.Run("left then enter confirms", func(t *testing.T) {
		m := NewConfirmDialog(d, themes.Default)
		m, _ = m.Update(tuitesting.Key("left"))
		m, _ = m.Update(tuitesting.Key("enter"))
		assert.True(t, m.Confirmed())
	})

	t.Run("esc cancels", func(t *testing.T) {
		m := NewConfirmDialog(d, themes.Default)
		m, _ = m.Update(tuitesting.Key("esc"))
		assert.True(t, m.Done())
		assert.False(t, m.Confirmed())
	})
}

func TestChoiceDialog(t *testing.T) {
	p := alert.Prompt{Header: "Amount differs", Options: []string{"New amount", "Historical", "Just attach"}}

	m := NewChoiceDialog(p, themes.Default)
	assert.True(t, tuitesting.ContainsInOrder(tuitesting.StripANSI(m.View()), "1. New amount", "2. Historical", "3. Just attach"))

	m, _ = m.Update(tuitesting.Key("down"))
	m, _ = m.Update(tuitesting.Key("enter"))
	i, ok := m.Choice()
	require.True(t, ok)
	assert.Equal(t, 1, i)

	m = NewChoiceDialog(p, themes.Default)
	m, _ = m.Update(tuitesting.Key("3"))
	i, ok = m.Choice()
	require.True(t, ok)
	assert.Equal(t, 2, i)

	m = NewChoiceDialog(p, themes.Default)
	m, _ = m.Update(tuitesting.Key("9"))
	assert.False(t, m.Done(), "out of range digits are ignored")
	m, _ = m.Update(tuitesting.Key("esc"))
	_, ok = m.Choice()
	assert.False(t, ok)
}
