package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/model"
	"github.com/Veraticus/bankdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args against a fresh state file.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeWithState(t, filepath.Join(t.TempDir(), "state.db"), stdin, args...)
}

// executeWithState runs the CLI with args against the state file at path.
func executeWithState(t *testing.T, path, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BANKDASH_STATE_PATH", path)
	t.Setenv("BANKDASH_UI_LANGUAGE", "English")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func transactionsFragment(t *testing.T, rows ...model.TransactionWithContract) string {
	t.Helper()
	return fmt.Sprintf(`<div id="transactions"><script id="transactions-data" type="application/json">%s</script></div>`,
		testutil.Island(t, rows))
}

func contractsFragment(t *testing.T, contracts ...model.ContractWithHistory) string {
	t.Helper()
	return fmt.Sprintf(`<div id="contracts"><script id="contracts-data" type="application/json">%s</script></div>`,
		testutil.Island(t, contracts))
}

func transactionsBackend(t *testing.T) *testutil.Backend {
	t.Helper()
	b := testutil.NewBackend(t)
	b.HTML("/bank/transaction", transactionsFragment(t,
		testutil.NewRow(1, "Netflix", "-15.99", "2024-01-15").Build(),
		testutil.NewRow(2, "Bakery", "-3.50", "2024-01-10").Build(),
	))
	return b
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []int64
		wantErr bool
	}{
		{name: "single", args: []string{"7"}, want: []int64{7}},
		{name: "several", args: []string{"1", "2", "30"}, want: []int64{1, 2, 30}},
		{name: "not a number", args: []string{"1", "x"}, wantErr: true},
		{name: "zero", args: []string{"0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bankdash dev")
}

func TestTransactionsList_Search(t *testing.T) {
	b := transactionsBackend(t)

	out, err := execute(t, "", "transactions", "list", "--server", b.URL(), "--search", "netf")
	require.NoError(t, err)
	assert.Contains(t, out, "Netflix")
	assert.NotContains(t, out, "Bakery")
}

func TestTransactionsList_OpensBank(t *testing.T) {
	b := transactionsBackend(t)
	b.HTML("/bank/{id}", `<div><script id="graph-data">[]</script></div>`)

	_, err := execute(t, "", "transactions", "list", "--server", b.URL(), "--bank", "3")
	require.NoError(t, err)
	assert.Contains(t, b.Paths(), "GET /bank/3")
	assert.Contains(t, b.Paths(), "GET /bank/transaction")
}

func TestTransactionsHide(t *testing.T) {
	b := transactionsBackend(t)
	b.JSON(http.MethodPost, "/bank/transaction/hide", http.StatusOK, testutil.Success("Hidden", "1 transaction hidden"))

	out, err := execute(t, "", "transactions", "hide", "1", "--server", b.URL())
	require.NoError(t, err)
	assert.Contains(t, out, "1 transaction hidden")

	var hide *testutil.Request
	for _, r := range b.Requests() {
		if r.Path == "/bank/transaction/hide" {
			hide = &r
		}
	}
	require.NotNil(t, hide)
	assert.JSONEq(t, `{"ids":[1]}`, string(hide.Body))
}

func TestTransactionsAddContract_BadResolution(t *testing.T) {
	_, err := execute(t, "", "transactions", "add-contract", "1", "2", "--resolution", "sometimes", "--server", "http://localhost:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown resolution")
}

func TestContractsRename_UnknownNameSuggests(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/contract", contractsFragment(t,
		model.ContractWithHistory{Contract: testutil.NewContract(1, "Netflix", "-15.99")},
		model.ContractWithHistory{Contract: testutil.NewContract(2, "Gym", "-30")},
	))

	_, err := execute(t, "", "contracts", "rename", "Netflx", "Streaming", "--server", b.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Netflix")
}

func TestContractsRename_ByName(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/contract", contractsFragment(t,
		model.ContractWithHistory{Contract: testutil.NewContract(2, "Gym", "-30")},
	))
	b.JSON(http.MethodGet, "/bank/contract/nameChanged/{id}/{name}", http.StatusOK, testutil.Success("Renamed", "Contract renamed"))

	_, err := execute(t, "", "contracts", "rename", "gym", "Fitness", "Club", "--server", b.URL())
	require.NoError(t, err)
	assert.Contains(t, b.Paths(), "GET /bank/contract/nameChanged/2/Fitness%20Club")
}

func TestContractsMerge_ConfirmedWithYes(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/contract", contractsFragment(t,
		model.ContractWithHistory{Contract: testutil.NewContract(1, "Gym", "-30")},
		model.ContractWithHistory{Contract: testutil.NewContract(2, "Gym Berlin", "-30")},
	))
	b.JSON(http.MethodPost, "/bank/contract/merge", http.StatusOK, testutil.Success("Merged", "2 contracts merged"))
	b.JSON(http.MethodGet, "/bank/contract/data", http.StatusOK, []model.ContractWithHistory{
		{Contract: testutil.NewContract(1, "Gym", "-30")},
	})

	out, err := execute(t, "", "contracts", "merge", "1", "2", "--yes", "--server", b.URL())
	require.NoError(t, err)
	assert.Contains(t, out, "2 contracts merged")
	assert.Contains(t, b.Paths(), "POST /bank/contract/merge")
}

func TestContractsMerge_UnknownID(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/contract", contractsFragment(t,
		model.ContractWithHistory{Contract: testutil.NewContract(1, "Gym", "-30")},
	))

	_, err := execute(t, "", "contracts", "merge", "1", "9", "--server", b.URL())
	require.Error(t, err)
	assert.NotContains(t, b.Paths(), "POST /bank/contract/merge")
}

func TestBankUpload_RejectsLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.csv")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("a"), api.MaxCSVSize+1), 0600))
	b := testutil.NewBackend(t)

	_, err := execute(t, "", "bank", "upload", path, "--server", b.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 512 KiB")
	assert.Empty(t, b.Requests())
}

func TestDashboard_RangeNeedsBothBounds(t *testing.T) {
	_, err := execute(t, "", "dashboard", "--from", "2024-01-01", "--server", "http://localhost:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from and --to")
}

func TestDashboard_BankStaysSelected(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/{id}", `<div>DKB</div>`)
	b.HTML("/dashboard", `<div><script id="graph-data">[]</script></div>`)
	b.Raw(http.MethodGet, "/get/graph/data", http.StatusOK,
		`{"bank": {"id": 5, "name": "DKB"}, "graph_data": "[]", "performance_value": {"total_transactions": 7}}`)

	out, err := execute(t, "", "dashboard", "--bank", "5", "--server", b.URL())
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /bank/5", "GET /get/graph/data"}, b.Paths())
	assert.Contains(t, out, "DKB")
	assert.Contains(t, out, "Total transactions")
}

func TestLogin_SessionUsedByLaterCommands(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Login("ada@example.com", "secret", "42")
	b.Authenticated("/bank/transaction", "42", transactionsFragment(t,
		testutil.NewRow(1, "Netflix", "-15.99", "2024-01-15").Build(),
	))
	b.HTML("/logout", "")
	path := filepath.Join(t.TempDir(), "state.db")

	out, err := executeWithState(t, path, "ada@example.com\nsecret\n", "login", "--server", b.URL())
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ada@example.com")

	out, err = executeWithState(t, path, "", "transactions", "list", "--server", b.URL())
	require.NoError(t, err)
	assert.Contains(t, out, "Netflix")

	_, err = executeWithState(t, path, "", "logout", "--server", b.URL())
	require.NoError(t, err)
	_, err = executeWithState(t, path, "", "transactions", "list", "--server", b.URL())
	require.Error(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Login("ada@example.com", "secret", "42")

	_, err := execute(t, "", "login", "--email", "ada@example.com", "--password", "guess", "--server", b.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), testutil.LoginError)
}

func TestRegister_ValidatesPassword(t *testing.T) {
	b := testutil.NewBackend(t)

	_, err := execute(t, "", "register", "--first-name", "Ada", "--last-name", "Lovelace",
		"--email", "ada@example.com", "--password", "weak", "--server", b.URL())
	require.Error(t, err)
	assert.Empty(t, b.Requests())
}

func TestMissingServer(t *testing.T) {
	t.Setenv("BANKDASH_SERVER_URL", "")
	_, err := execute(t, "", "logout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.url")
}
