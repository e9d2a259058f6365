package engine

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/contracts"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/loader"
	"github.com/Veraticus/bankdash/internal/model"
	"github.com/Veraticus/bankdash/internal/table"
	"github.com/Veraticus/bankdash/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, b *testutil.Backend, p alert.Presenter) *Session {
	t.Helper()
	client, err := api.NewClient(b.URL())
	require.NoError(t, err)
	return New(context.Background(), client, testutil.NewStateStore(t), p)
}

func transactionsPage(t *testing.T, rows ...model.TransactionWithContract) string {
	t.Helper()
	return fmt.Sprintf(`<div id="transactions"><script id="transactions-data" type="application/json">%s</script></div>`,
		testutil.Island(t, rows))
}

func TestNavigate_TransactionsPage(t *testing.T) {
	streaming := testutil.NewContract(3, "Streaming", "-12.99")
	b := testutil.NewBackend(t)
	b.HTML("/bank/transaction", transactionsPage(t,
		testutil.NewRow(1, "Netflix", "-12.99", "2024-01-15").WithContract(streaming).Build(),
		testutil.NewRow(2, "Bakery", "-3.50", "2024-01-16").Build(),
	))
	p := testutil.NewPresenter(true, 0)
	s := newSession(t, b, p)

	page, err := s.Navigate(context.Background(), "/bank/transaction")
	require.NoError(t, err)

	assert.Equal(t, loader.RouteTransactions, page.Route)
	assert.Equal(t, 2, s.Table.Len())
	require.Len(t, s.Table.Contracts(), 1)
	assert.Equal(t, streaming.ID, s.Table.Contracts()[0].ID)
	assert.Empty(t, p.Shown())
}

func TestNavigate_TransactionsWithoutIslandFetchesData(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/transaction", `<div id="transactions"></div>`)
	b.Raw(http.MethodGet, "/bank/transaction/data", http.StatusOK,
		string(testutil.Island(t, []model.TransactionWithContract{testutil.NewRow(9, "Rent", "-800", "2024-02-01").Build()})))
	s := newSession(t, b, testutil.NewPresenter(true, 0))

	_, err := s.Navigate(context.Background(), "/bank/transaction")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Table.Len())
}

func TestNavigate_ContractsPageFetchesWithoutIsland(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/contract", `<div id="contracts"></div>`)
	b.JSON(http.MethodGet, "/bank/contract/data", http.StatusOK, []model.ContractWithHistory{
		{Contract: testutil.NewContract(1, "Gym", "-30")},
	})
	s := newSession(t, b, testutil.NewPresenter(true, 0))

	_, err := s.Navigate(context.Background(), "/bank/contract")
	require.NoError(t, err)
	assert.Equal(t, []string{"Gym"}, s.Contracts.Names())
}

func TestNavigate_BankPageExpandsBank(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/{id}", `<div><script id="graph-data">[{"name": "Giro", "x": ["2024-01-01"], "y": [10]}]</script></div>`)
	s := newSession(t, b, testutil.NewPresenter(true, 0))
	s.Banks.Merge([]model.Bank{{ID: 7, Name: "DKB"}})

	_, err := s.Navigate(context.Background(), "/bank/7")
	require.NoError(t, err)

	bank, ok := s.Banks.Expanded()
	require.True(t, ok)
	assert.Equal(t, "DKB", bank.Name)
	require.Len(t, s.Dashboard.Graph(), 1)
	assert.Equal(t, "Giro", s.Dashboard.Graph()[0].Name)
}

func TestNavigate_ShowsResponseIsland(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/add-bank", `<form></form><script id="response-data">{"success": "Bank added", "header": "Done"}</script>`)
	p := testutil.NewPresenter(true, 0)
	s := newSession(t, b, p)

	_, err := s.Navigate(context.Background(), "/add-bank")
	require.NoError(t, err)

	require.Len(t, p.Shown(), 1)
	assert.Equal(t, alert.KindSuccess, p.Shown()[0].Kind)
	assert.Equal(t, "Done", p.Shown()[0].Header)
}

func TestNavigate_SessionInvalidShowsLoginBanner(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/dashboard", `<p>Please login again</p>`)
	p := testutil.NewPresenter(true, 0)
	s := newSession(t, b, p)

	page, err := s.Navigate(context.Background(), "/dashboard")
	require.ErrorIs(t, err, common.ErrSessionInvalid)
	assert.Equal(t, loader.ErrorPath, page.Redirect)
	require.Len(t, p.Shown(), 1)
	assert.Equal(t, "Please login again.", p.Shown()[0].Body)
}

func loadedSession(t *testing.T, b *testutil.Backend, p alert.Presenter) *Session {
	t.Helper()
	b.HTML("/bank/transaction", transactionsPage(t,
		testutil.NewRow(1, "Netflix", "-15.99", "2024-01-15").Build(),
		testutil.NewRow(2, "Netflix", "-12.99", "2023-12-15").WithContract(testutil.NewContract(3, "Streaming", "-12.99")).Build(),
	))
	s := newSession(t, b, p)
	_, err := s.Navigate(context.Background(), "/bank/transaction")
	require.NoError(t, err)
	return s
}

func TestAddContract_AsksForResolution(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/bank/transaction/update_contract_amount/{tx}/{c}", http.StatusOK, testutil.Success("Contract", "Amount updated"))
	p := testutil.NewPresenter(true, 0)
	s := loadedSession(t, b, p)

	require.NoError(t, s.AddContract(context.Background(), 1, 3, table.ResolutionNone))

	require.Len(t, p.Prompts(), 1)
	assert.Len(t, p.Prompts()[0].Options, 3)
	assert.Contains(t, b.Paths(), "GET /bank/transaction/update_contract_amount/1/3")
	require.Len(t, p.Shown(), 1)
	assert.Equal(t, "Amount updated", p.Shown()[0].Body)
}

func TestAddContract_AmountChangeReloadsContracts(t *testing.T) {
	tests := []struct {
		name     string
		res      table.Resolution
		endpoint string
		reloaded model.ContractWithHistory
	}{
		{
			name:     "new amount",
			res:      table.ResolutionNewAmount,
			endpoint: "/bank/transaction/update_contract_amount/{tx}/{c}",
			reloaded: model.ContractWithHistory{
				Contract: testutil.NewContract(3, "Streaming", "-15.99"),
				History: []model.ContractHistory{{
					ChangedAt: "2024-01-15",
					OldAmount: decimal.RequireFromString("-12.99"),
					NewAmount: decimal.RequireFromString("-15.99"),
				}},
			},
		},
		{
			name:     "historical amount",
			res:      table.ResolutionHistoricalAmount,
			endpoint: "/bank/transaction/set_old_amount/{tx}/{c}",
			reloaded: model.ContractWithHistory{
				Contract: testutil.NewContract(3, "Streaming", "-12.99"),
				History: []model.ContractHistory{{
					ChangedAt: "2024-01-15",
					OldAmount: decimal.RequireFromString("-15.99"),
					NewAmount: decimal.RequireFromString("-12.99"),
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			b.JSON(http.MethodGet, tt.endpoint, http.StatusOK, testutil.Success("Contract", "Amount updated"))
			b.JSON(http.MethodGet, "/bank/contract/data", http.StatusOK, []model.ContractWithHistory{tt.reloaded})
			s := loadedSession(t, b, testutil.NewPresenter(true, 0))

			require.NoError(t, s.AddContract(context.Background(), 1, 3, tt.res))

			assert.Contains(t, b.Paths(), "GET /bank/contract/data")
			got, ok := s.Contracts.Get(3)
			require.True(t, ok)
			assert.True(t, tt.reloaded.Contract.CurrentAmount.Equal(got.Contract.CurrentAmount))
			require.Len(t, got.History, 1)
			assert.True(t, tt.reloaded.History[0].OldAmount.Equal(got.History[0].OldAmount))
		})
	}
}

func TestAddContract_MatchingAmountSkipsReload(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/bank/transaction/add_contract/{tx}/{c}", http.StatusOK, testutil.Success("Contract", "Linked"))
	s := loadedSession(t, b, testutil.NewPresenter(true, 0))

	require.NoError(t, s.AddContract(context.Background(), 2, 3, table.ResolutionNewAmount))

	assert.Contains(t, b.Paths(), "GET /bank/transaction/add_contract/2/3")
	assert.NotContains(t, b.Paths(), "GET /bank/contract/data")
}

func TestAddContract_CanceledChoiceMakesNoRequest(t *testing.T) {
	b := testutil.NewBackend(t)
	p := testutil.NewPresenter(true, 0)
	p.ChooseErr = alert.ErrCanceled
	s := loadedSession(t, b, p)

	err := s.AddContract(context.Background(), 1, 3, table.ResolutionNone)
	require.ErrorIs(t, err, alert.ErrCanceled)
	assert.NotContains(t, b.Paths(), "GET /bank/transaction/update_contract_amount/1/3")
	assert.Empty(t, p.Shown())
}

func TestHide_NothingSelected(t *testing.T) {
	b := testutil.NewBackend(t)
	p := testutil.NewPresenter(true, 0)
	s := loadedSession(t, b, p)

	err := s.Hide(context.Background())
	require.ErrorIs(t, err, table.ErrNoSelection)
	require.Len(t, p.Shown(), 1)
	assert.Equal(t, "Nothing selected.", p.Shown()[0].Body)
}

func TestHide_ReportsBackendError(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodPost, "/bank/transaction/hide", http.StatusOK, testutil.Failure("Hide failed", "Transaction is locked"))
	p := testutil.NewPresenter(true, 0)
	s := loadedSession(t, b, p)
	s.Table.Toggle(1)

	err := s.Hide(context.Background())
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Len(t, p.Shown(), 1)
	assert.Equal(t, alert.KindError, p.Shown()[0].Kind)
	assert.Equal(t, "Hide failed", p.Shown()[0].Header)
	assert.Equal(t, "Transaction is locked", p.Shown()[0].Body)
}

func contractsSession(t *testing.T, b *testutil.Backend, p alert.Presenter) *Session {
	t.Helper()
	s := newSession(t, b, p)
	require.NoError(t, s.Contracts.Load(testutil.Island(t, []model.ContractWithHistory{
		{Contract: testutil.NewContract(1, "Gym", "-30")},
		{Contract: testutil.NewContract(2, "Gym Berlin", "-30")},
	})))
	return s
}

func TestMergeContracts(t *testing.T) {
	t.Run("needs two", func(t *testing.T) {
		b := testutil.NewBackend(t)
		p := testutil.NewPresenter(true, 0)
		s := contractsSession(t, b, p)
		s.Contracts.Toggle(1)

		err := s.MergeContracts(context.Background())
		require.ErrorIs(t, err, contracts.ErrMergeNeedsTwo)
		assert.Empty(t, p.Dialogs())
		assert.Empty(t, b.Requests())
		require.Len(t, p.Shown(), 1)
		assert.Equal(t, "Please select at least 2 contracts to merge.", p.Shown()[0].Body)
	})

	t.Run("declined", func(t *testing.T) {
		b := testutil.NewBackend(t)
		p := testutil.NewPresenter(false, 0)
		s := contractsSession(t, b, p)
		s.Contracts.Toggle(1)
		s.Contracts.Toggle(2)

		err := s.MergeContracts(context.Background())
		require.ErrorIs(t, err, alert.ErrCanceled)
		require.Len(t, p.Dialogs(), 1)
		assert.Empty(t, b.Requests())
	})

	t.Run("confirmed", func(t *testing.T) {
		b := testutil.NewBackend(t)
		b.JSON(http.MethodPost, "/bank/contract/merge", http.StatusOK, testutil.Success("Merged", "2 contracts merged"))
		b.JSON(http.MethodGet, "/bank/contract/data", http.StatusOK, []model.ContractWithHistory{
			{Contract: testutil.NewContract(1, "Gym", "-30")},
		})
		p := testutil.NewPresenter(true, 0)
		s := contractsSession(t, b, p)
		s.Contracts.Toggle(1)
		s.Contracts.Toggle(2)

		require.NoError(t, s.MergeContracts(context.Background()))
		assert.Equal(t, []string{"Gym"}, s.Contracts.Names())
		require.Len(t, p.Shown(), 1)
		assert.Equal(t, "2 contracts merged", p.Shown()[0].Body)

		reqs := b.Requests()
		require.NotEmpty(t, reqs)
		assert.JSONEq(t, `{"ids": [1, 2]}`, string(reqs[0].Body))
	})
}

func TestDeleteContracts_NothingSelected(t *testing.T) {
	b := testutil.NewBackend(t)
	p := testutil.NewPresenter(true, 0)
	s := contractsSession(t, b, p)

	err := s.DeleteContracts(context.Background())
	require.ErrorIs(t, err, contracts.ErrNoSelection)
	assert.Empty(t, p.Dialogs())
	require.Len(t, p.Shown(), 1)
}

func TestRenameContract_EmptyName(t *testing.T) {
	b := testutil.NewBackend(t)
	p := testutil.NewPresenter(true, 0)
	s := contractsSession(t, b, p)

	err := s.RenameContract(context.Background(), 1, "  ")
	require.ErrorIs(t, err, contracts.ErrEmptyName)
	require.Len(t, p.Shown(), 1)
	assert.Equal(t, "The contract name must not be empty.", p.Shown()[0].Body)
}

func TestDeleteBank_ReturnsToDashboard(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON(http.MethodGet, "/delete_bank", http.StatusOK, testutil.Success("Deleted", "Bank deleted"))
	b.HTML("/dashboard", `<div><script id="graph-data">[]</script></div>`)
	p := testutil.NewPresenter(true, 0)
	s := newSession(t, b, p)
	s.Banks.Merge([]model.Bank{{ID: 1, Name: "DKB"}})
	id := int64(1)
	s.Banks.Expand(&id)

	page, err := s.DeleteBank(context.Background())
	require.NoError(t, err)
	assert.Equal(t, loader.RouteDashboard, page.Route)
	assert.Equal(t, 0, s.Banks.Len())
	require.Len(t, p.Shown(), 1)
	assert.Equal(t, "Bank deleted", p.Shown()[0].Body)
}

func TestRefreshBanks(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/", `<div id="banks"><button class="bank-button" url="/bank/4">Volksbank</button></div>`)
	s := newSession(t, b, testutil.NewPresenter(true, 0))

	require.NoError(t, s.RefreshBanks(context.Background()))
	nodes := s.Banks.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "Volksbank", nodes[0].Label)
	assert.Equal(t, "/bank/4", nodes[0].Path)
}

func TestNavigate_MergesBankButtons(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/contract", `<div id="contracts"><button class="bank-button" url="/bank/2">DKB</button>`+
		`<script id="contracts-data" type="application/json">[]</script></div>`)
	s := newSession(t, b, testutil.NewPresenter(true, 0))

	_, err := s.Navigate(context.Background(), "/bank/contract")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Banks.Len())
}

// selectingBackend mimics the server keeping a current bank per user:
// /bank/{id} selects it and /dashboard clears it.
type selectingBackend struct {
	*testutil.Backend
	mu      sync.Mutex
	current string
}

func newSelectingBackend(t *testing.T, bankPage string) *selectingBackend {
	t.Helper()
	b := &selectingBackend{Backend: testutil.NewBackend(t)}
	b.Handle(http.MethodGet, "/bank/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.setCurrent(r.URL.Path)
		_, _ = w.Write([]byte(bankPage))
	})
	b.Handle(http.MethodGet, "/dashboard", func(w http.ResponseWriter, _ *http.Request) {
		b.setCurrent("")
		_, _ = w.Write([]byte(`<div><script id="graph-data">[]</script></div>`))
	})
	b.Raw(http.MethodGet, "/get/graph/data", http.StatusOK,
		`{"bank": {"id": 5, "name": "DKB"}, "graph_data": "[]", "performance_value": {"total_transactions": 4}}`)
	return b
}

func (b *selectingBackend) setCurrent(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = path
}

func (b *selectingBackend) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func TestUploadCSV_KeepsSelectedBank(t *testing.T) {
	b := newSelectingBackend(t, `<div><script id="graph-data">[]</script></div>`)
	b.JSON(http.MethodPost, "/upload_csv", http.StatusOK, testutil.Success("Successfully read the CSV file", "4 transactions"))
	p := testutil.NewPresenter(true, 0)
	s := newSession(t, b.Backend, p)

	_, err := s.Navigate(context.Background(), "/bank/5")
	require.NoError(t, err)
	require.NoError(t, s.UploadCSV(context.Background(), strings.NewReader("date;amount\n")))

	assert.Equal(t, "/bank/5", b.Current())
	assert.NotContains(t, b.Paths(), "GET /dashboard")
	assert.Contains(t, b.Paths(), "GET /get/graph/data")
	require.NotNil(t, s.Dashboard.Performance())
	assert.Equal(t, 4, s.Dashboard.Performance().TotalTransactions)
}

func TestNavigate_BankPageWithoutGraphKeepsSelectedBank(t *testing.T) {
	b := newSelectingBackend(t, `<div>DKB</div>`)
	s := newSession(t, b.Backend, testutil.NewPresenter(true, 0))

	_, err := s.Navigate(context.Background(), "/bank/5")
	require.NoError(t, err)

	assert.Equal(t, "/bank/5", b.Current())
	assert.Equal(t, []string{"GET /bank/5", "GET /get/graph/data"}, b.Paths())
	assert.True(t, s.Dashboard.BankScoped())
	assert.Equal(t, "<div>DKB</div>", s.Dashboard.Fragment())
}

func TestRefresh_AfterDashboardFetchesAllBanks(t *testing.T) {
	b := newSelectingBackend(t, `<div>DKB</div>`)
	s := newSession(t, b.Backend, testutil.NewPresenter(true, 0))

	_, err := s.Navigate(context.Background(), "/dashboard")
	require.NoError(t, err)
	assert.False(t, s.Dashboard.BankScoped())

	require.NoError(t, s.Dashboard.Refresh(context.Background()))
	assert.Contains(t, b.Paths()[1:], "GET /dashboard")
}

func TestFail_UsesSessionLanguage(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/dashboard", `<p>Please login again</p>`)
	client, err := api.NewClient(b.URL())
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Language = i18n.German
	p := testutil.NewPresenter(true, 0)
	s := NewWithConfig(context.Background(), client, testutil.NewStateStore(t), p, cfg)

	_, err = s.Navigate(context.Background(), "/dashboard")
	require.ErrorIs(t, err, common.ErrSessionInvalid)
	err = s.RenameContract(context.Background(), 1, " ")
	require.ErrorIs(t, err, contracts.ErrEmptyName)

	shown := p.Shown()
	require.Len(t, shown, 2)
	assert.Equal(t, "Fehler bei der Überprüfung der Anmeldung!", shown[0].Header)
	assert.Equal(t, "Bitte melden Sie sich erneut an.", shown[0].Body)
	assert.Equal(t, "Fehler", shown[1].Header)
	assert.Equal(t, "Der Vertragsname darf nicht leer sein.", shown[1].Body)
}
