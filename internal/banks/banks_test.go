package banks

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/model"
	"github.com/Veraticus/bankdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T, b *testutil.Backend, banks ...model.Bank) *Tree {
	t.Helper()
	client, err := api.NewClient(b.URL())
	require.NoError(t, err)
	return New(client, banks...)
}

func ids(banks []model.Bank) []int64 {
	out := make([]int64, len(banks))
	for i, b := range banks {
		out[i] = b.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestMerge_KeepsOrderAndSkipsKnownBanks(t *testing.T) {
	tree := newTree(t, testutil.NewBackend(t), model.Bank{ID: 2, Name: "Sparkasse"}, model.Bank{ID: 1, Name: "DKB"})

	added := tree.Merge([]model.Bank{
		{ID: 1, Name: "renamed"},
		{ID: 3, Name: "ING"},
		{ID: 3, Name: "ING"},
	})

	assert.Equal(t, 1, added)
	assert.Equal(t, []int64{2, 1, 3}, ids(tree.Banks()))
	assert.Equal(t, "DKB", tree.Banks()[1].Name)
}

func TestExpand(t *testing.T) {
	tree := newTree(t, testutil.NewBackend(t), model.Bank{ID: 1, Name: "DKB"}, model.Bank{ID: 2, Name: "ING"})

	tree.Expand(ptr[int64](2))
	nodes := tree.Nodes()
	require.Len(t, nodes, 2)
	assert.False(t, nodes[0].Expanded)
	assert.Empty(t, nodes[0].Sub)
	assert.True(t, nodes[1].Expanded)
	assert.Equal(t, "/bank/2", nodes[1].Path)
	assert.Equal(t, []Entry{
		{Label: "Contract", Path: "/bank/contract"},
		{Label: "Transaction", Path: "/bank/transaction"},
	}, nodes[1].Sub)

	bank, ok := tree.Expanded()
	require.True(t, ok)
	assert.Equal(t, "ING", bank.Name)

	tree.Expand(ptr[int64](99))
	_, ok = tree.Expanded()
	assert.False(t, ok)

	tree.Expand(ptr[int64](1))
	tree.Expand(nil)
	_, ok = tree.Expanded()
	assert.False(t, ok)
}

func TestAdd(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodPost, "/add-bank", http.StatusOK, map[string]any{
		"success": "Bank added",
		"header":  "Success",
		"banks":   []model.Bank{{ID: 1, Name: "DKB"}, {ID: 7, Name: "ING"}},
	})
	tree := newTree(t, b, model.Bank{ID: 1, Name: "DKB"})

	res, err := tree.Add(context.Background(), api.AddBankForm{Name: "  ING ", AmountColumn: ptr(3)})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Added)
	assert.Equal(t, "Bank added", res.Envelope.SuccessText())
	assert.Equal(t, []int64{1, 7}, ids(tree.Banks()))

	reqs := b.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "ING", reqs[0].Form.Get("name"))
	assert.Equal(t, "3", reqs[0].Form.Get("amount_column"))
}

func TestAdd_ErrorStillMergesBanks(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodPost, "/add-bank", http.StatusOK, map[string]any{
		"error":  "Bank already exists",
		"header": "Error",
		"banks":  []model.Bank{{ID: 4, Name: "N26"}},
	})
	tree := newTree(t, b)

	_, err := tree.Add(context.Background(), api.AddBankForm{Name: "N26"})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Bank already exists", appErr.Message)
	assert.Equal(t, []int64{4}, ids(tree.Banks()))
}

func TestAdd_EmptyName(t *testing.T) {
	b := testutil.NewBackend(t)
	tree := newTree(t, b)

	_, err := tree.Add(context.Background(), api.AddBankForm{Name: "   "})
	require.ErrorIs(t, err, ErrEmptyName)
	assert.Empty(t, b.Requests())
}

func TestUpload(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		refresh bool
	}{
		{name: "english header", header: "Successfully read the CSV file", refresh: true},
		{name: "german header", header: "CSV-Datei erfolgreich gelesen", refresh: true},
		{name: "other header", header: "Nothing new", refresh: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			b.JSON(http.MethodPost, "/upload_csv", http.StatusOK, testutil.Success(tt.header, "12 transactions"))
			tree := newTree(t, b)

			env, refresh, err := tree.Upload(context.Background(), strings.NewReader("date;amount\n"))
			require.NoError(t, err)
			assert.Equal(t, tt.refresh, refresh)
			assert.Equal(t, "12 transactions", env.SuccessText())

			reqs := b.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "date;amount\n", string(reqs[0].Body))
		})
	}
}

func TestUpload_TooLarge(t *testing.T) {
	b := testutil.NewBackend(t)
	tree := newTree(t, b)

	_, _, err := tree.Upload(context.Background(), bytes.NewReader(make([]byte, api.MaxCSVSize+1)))
	require.ErrorIs(t, err, ErrCSVTooLarge)
	assert.Empty(t, b.Requests())

	a, ok := alert.FromError(err, i18n.For(i18n.English))
	require.True(t, ok)
	assert.Contains(t, a.Body, "512 KiB")
}

func TestDelete(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/delete_bank", http.StatusOK, testutil.Success("Deleted", "Bank deleted"))
	tree := newTree(t, b, model.Bank{ID: 1, Name: "DKB"}, model.Bank{ID: 2, Name: "ING"})
	tree.Expand(ptr[int64](1))
	p := testutil.NewPresenter(true, 0)

	env, err := tree.Delete(context.Background(), p, i18n.For(i18n.English))
	require.NoError(t, err)

	assert.Equal(t, "Bank deleted", env.SuccessText())
	assert.Equal(t, []int64{2}, ids(tree.Banks()))
	require.Len(t, p.Dialogs(), 1)
	assert.Equal(t, "Delete Bank", p.Dialogs()[0].Header)
	_, ok := tree.Expanded()
	assert.False(t, ok)
}

func TestDelete_Declined(t *testing.T) {
	b := testutil.NewBackend(t)
	tree := newTree(t, b, model.Bank{ID: 1, Name: "DKB"})

	_, err := tree.Delete(context.Background(), testutil.NewPresenter(false, 0), i18n.For(i18n.English))
	require.ErrorIs(t, err, alert.ErrCanceled)
	assert.Empty(t, b.Requests())

	p := testutil.NewPresenter(true, 0)
	p.ConfirmErr = errors.New("stdin closed")
	_, err = tree.Delete(context.Background(), p, i18n.For(i18n.English))
	require.EqualError(t, err, "stdin closed")
	assert.Len(t, tree.Banks(), 1)
}
