package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/model"
)

// Paths of the backend endpoints.
const (
	PathDashboard       = "/dashboard"
	PathContracts       = "/bank/contract"
	PathContractData    = "/bank/contract/data"
	PathContractScan    = "/bank/contract/scan"
	PathContractMerge   = "/bank/contract/merge"
	PathContractDelete  = "/bank/contract/delete"
	PathTransactions    = "/bank/transaction"
	PathTransactionData = "/bank/transaction/data"
	PathTransactionHide = "/bank/transaction/hide"
	PathTransactionDrop = "/bank/transaction/remove"
	PathGraphData       = "/get/graph/data"
	PathDeleteAccount   = "/delete_account"
	PathDeleteBank      = "/delete_bank"
	PathAddBank         = "/add-bank"
	PathUploadCSV       = "/upload_csv"
	PathChangePassword  = "/change_password"
	PathLogout          = "/logout"
	PathSettings        = "/settings"
)

// SessionInvalidMarker is the text the backend renders into a fragment when the
// session cookie is no longer accepted.
const SessionInvalidMarker = "Please login again"

// idsRequest is the body of the bulk endpoints.
type idsRequest struct {
	IDs []int64 `json:"ids"`
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func (c *Client) envelopeCall(ctx context.Context, path string) (Envelope, error) {
	var env Envelope
	if err := c.getJSON(ctx, path, &env); err != nil {
		return Envelope{}, err
	}
	return env, env.Result()
}

func (c *Client) envelopePost(ctx context.Context, path string, ids []int64) (Envelope, error) {
	var env Envelope
	if err := c.postJSON(ctx, path, idsRequest{IDs: ids}, &env); err != nil {
		return Envelope{}, err
	}
	return env, env.Result()
}

// TransactionData fetches the transactions of the current bank as raw JSON.
func (c *Client) TransactionData(ctx context.Context) ([]byte, error) {
	return c.Raw(ctx, PathTransactionData)
}

// ContractData fetches the contracts of the current bank as raw JSON.
func (c *Client) ContractData(ctx context.Context) ([]byte, error) {
	return c.Raw(ctx, PathContractData)
}

// HideTransactions hides the given transactions in one request.
func (c *Client) HideTransactions(ctx context.Context, ids []int64) (Envelope, error) {
	return c.envelopePost(ctx, PathTransactionHide, ids)
}

// RemoveTransactions deletes the given transactions in one request.
func (c *Client) RemoveTransactions(ctx context.Context, ids []int64) (Envelope, error) {
	return c.envelopePost(ctx, PathTransactionDrop, ids)
}

// HideTransaction hides one transaction.
func (c *Client) HideTransaction(ctx context.Context, txID int64) (Envelope, error) {
	return c.envelopeCall(ctx, "/bank/transaction/hide/"+id(txID))
}

// ShowTransaction makes one hidden transaction visible again.
func (c *Client) ShowTransaction(ctx context.Context, txID int64) (Envelope, error) {
	return c.envelopeCall(ctx, "/bank/transaction/show/"+id(txID))
}

// AllowContract lets the contract scanner link the transaction again.
func (c *Client) AllowContract(ctx context.Context, txID int64) (Envelope, error) {
	return c.envelopeCall(ctx, "/bank/transaction/allow_contract/"+id(txID))
}

// DisallowContract excludes the transaction from contract linkage.
func (c *Client) DisallowContract(ctx context.Context, txID int64) (Envelope, error) {
	return c.envelopeCall(ctx, "/bank/transaction/not_allow_contract/"+id(txID))
}

// RemoveContract unlinks the transaction from its contract.
func (c *Client) RemoveContract(ctx context.Context, txID int64) (Envelope, error) {
	return c.envelopeCall(ctx, "/bank/transaction/remove_contract/"+id(txID))
}

// AddContract links the transaction to the contract without changing the contract amount.
func (c *Client) AddContract(ctx context.Context, txID, contractID int64) (Envelope, error) {
	return c.envelopeCall(ctx, "/bank/transaction/add_contract/"+id(txID)+"/"+id(contractID))
}

// UpdateContractAmount links the transaction and makes its amount the contract's current amount.
func (c *Client) UpdateContractAmount(ctx context.Context, txID, contractID int64) (Envelope, error) {
	return c.envelopeCall(ctx, "/bank/transaction/update_contract_amount/"+id(txID)+"/"+id(contractID))
}

// SetOldAmount links the transaction and records its amount as a historical contract amount.
func (c *Client) SetOldAmount(ctx context.Context, txID, contractID int64) (Envelope, error) {
	return c.envelopeCall(ctx, "/bank/transaction/set_old_amount/"+id(txID)+"/"+id(contractID))
}

// MergeContracts merges the given contracts into one.
func (c *Client) MergeContracts(ctx context.Context, ids []int64) (Envelope, error) {
	return c.envelopePost(ctx, PathContractMerge, ids)
}

// DeleteContracts deletes the given contracts.
func (c *Client) DeleteContracts(ctx context.Context, ids []int64) (Envelope, error) {
	return c.envelopePost(ctx, PathContractDelete, ids)
}

// ScanContracts asks the backend to detect new contracts from the transactions.
func (c *Client) ScanContracts(ctx context.Context) (Envelope, error) {
	return c.envelopeCall(ctx, PathContractScan)
}

// RenameContract changes a contract's display name.
func (c *Client) RenameContract(ctx context.Context, contractID int64, name string) (Envelope, error) {
	return c.envelopeCall(ctx, "/bank/contract/nameChanged/"+id(contractID)+"/"+url.PathEscape(name))
}

// SetLanguage stores the UI language on the user profile.
func (c *Client) SetLanguage(ctx context.Context, lang string) (Envelope, error) {
	return c.envelopeCall(ctx, "/user/set_language/"+url.PathEscape(lang))
}

// ChangePassword submits the change password form.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) (Envelope, error) {
	form := url.Values{}
	form.Set("old_password", oldPassword)
	form.Set("new_password", newPassword)
	form.Set("confirm_password", confirmPassword)

	var env Envelope
	if err := c.postForm(ctx, PathChangePassword, form, &env); err != nil {
		return Envelope{}, err
	}
	return env, env.Result()
}

// DeleteAccount deletes the logged in user.
func (c *Client) DeleteAccount(ctx context.Context) (Envelope, error) {
	return c.envelopeCall(ctx, PathDeleteAccount)
}

// DeleteBank deletes the currently selected bank.
func (c *Client) DeleteBank(ctx context.Context) (Envelope, error) {
	return c.envelopeCall(ctx, PathDeleteBank)
}

// AddBankForm is the add bank form. Column indices tell the backend how to
// read the bank's CSV exports.
type AddBankForm struct {
	CounterpartyColumn *int
	AmountColumn       *int
	BalanceAfterColumn *int
	DateColumn         *int
	Name               string
	Link               string
}

// AddBankResult is the response of the add bank form.
type AddBankResult struct {
	Envelope
	Banks []model.Bank `json:"banks"`
}

// AddBank submits the add bank form.
func (c *Client) AddBank(ctx context.Context, f AddBankForm) (AddBankResult, error) {
	form := url.Values{}
	form.Set("name", f.Name)
	if f.Link != "" {
		form.Set("link", f.Link)
	}
	setColumn := func(key string, v *int) {
		if v != nil {
			form.Set(key, strconv.Itoa(*v))
		}
	}
	setColumn("counterparty_column", f.CounterpartyColumn)
	setColumn("amount_column", f.AmountColumn)
	setColumn("bank_balance_after_column", f.BalanceAfterColumn)
	setColumn("date_column", f.DateColumn)

	var res AddBankResult
	if err := c.postForm(ctx, PathAddBank, form, &res); err != nil {
		return AddBankResult{}, err
	}
	return res, res.Result()
}

// MaxCSVSize is the largest statement the backend reads.
const MaxCSVSize = 512 << 10

// UploadCSV sends a CSV export of the current bank's statement as the raw
// request body.
func (c *Client) UploadCSV(ctx context.Context, csv io.Reader) (Envelope, error) {
	body, err := c.send(ctx, http.MethodPost, PathUploadCSV, csv, "text/csv")
	if err != nil {
		return Envelope{}, err
	}
	var env Envelope
	if err := decode(PathUploadCSV, body, &env); err != nil {
		return Envelope{}, err
	}
	return env, env.Result()
}

// GraphData decodes the graph payload. The backend sends the traces either
// as an array or as a JSON encoded string.
type GraphData []model.GraphTrace

// UnmarshalJSON implements json.Unmarshaler.
func (g *GraphData) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		if inner == "" {
			*g = nil
			return nil
		}
		data = []byte(inner)
	}
	var traces []model.GraphTrace
	if err := json.Unmarshal(data, &traces); err != nil {
		return err
	}
	*g = traces
	return nil
}

// Performance is the payload of the graph and date range endpoints.
type Performance struct {
	Bank             *model.Bank             `json:"bank,omitempty"`
	PerformanceValue *model.PerformanceValue `json:"performance_value"`
	Response         *Envelope               `json:"response,omitempty"`
	Envelope
	GraphData GraphData `json:"graph_data"`
}

func (p Performance) result() error {
	if p.Response != nil {
		if err := p.Response.Result(); err != nil {
			return err
		}
	}
	if p.Error != nil {
		return common.NewAppError(p.HeaderText(), *p.Error)
	}
	return nil
}

// GraphDataForCurrent fetches performance and graph data for the current bank or all banks.
func (c *Client) GraphDataForCurrent(ctx context.Context) (Performance, error) {
	var p Performance
	if err := c.getJSON(ctx, PathGraphData, &p); err != nil {
		return Performance{}, err
	}
	return p, p.result()
}

// UpdateDateRange recomputes performance and graph data for a date range.
func (c *Client) UpdateDateRange(ctx context.Context, start, end time.Time) (Performance, error) {
	if end.Before(start) {
		return Performance{}, fmt.Errorf("date range end %s is before start %s", format.ISODate(end), format.ISODate(start))
	}
	var p Performance
	path := "/update_date_range/" + format.ISODate(start) + "/" + format.ISODate(end)
	if err := c.getJSON(ctx, path, &p); err != nil {
		return Performance{}, err
	}
	return p, p.result()
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.send(ctx, http.MethodGet, PathLogout, nil, "")
	return err
}
