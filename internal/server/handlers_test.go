package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/kmehta/bahikhata/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ts := httptest.NewServer(New(st, "").Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func setupBooks(t *testing.T, base string) (companyID, cashID, salesID string) {
	t.Helper()
	var company ledger.Company
	resp := doJSON(t, http.MethodPost, base+"/api/v1/companies",
		map[string]string{"name": "Mehta Traders"}, &company)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cash, sales ledger.Ledger
	resp = doJSON(t, http.MethodPost, base+"/api/v1/companies/"+company.ID+"/ledgers",
		map[string]any{"name": "Cash", "group_name": "Cash-in-hand", "opening_balance": "500"}, &cash)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, http.MethodPost, base+"/api/v1/companies/"+company.ID+"/ledgers",
		map[string]any{"name": "Sales", "group_name": "Sales Accounts"}, &sales)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return company.ID, cash.ID, sales.ID
}

func TestVoucherLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	companyID, cashID, salesID := setupBooks(t, ts.URL)

	var v ledger.Voucher
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/companies/"+companyID+"/vouchers",
		map[string]any{
			"voucher_type": "receipt",
			"date":         "2026-04-01",
			"narration":    "Counter sale",
			"entries": []map[string]any{
				{"ledger_id": cashID, "debit": "200"},
				{"ledger_id": salesID, "credit": "200"},
			},
		}, &v)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "REC0001", v.Number)
	assert.Equal(t, ledger.StatusActive, v.Status)

	var cash ledger.Ledger
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/ledgers/"+cashID, nil, &cash)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "700", cash.CurrentBalance.String())

	// A ledger with postings cannot be deleted.
	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/v1/ledgers/"+salesID, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var updated ledger.Voucher
	resp = doJSON(t, http.MethodPut, ts.URL+"/api/v1/vouchers/"+v.ID,
		map[string]any{
			"date":      "2026-04-02",
			"narration": "Counter sale (corrected)",
			"entries": []map[string]any{
				{"ledger_id": cashID, "debit": "150"},
				{"ledger_id": salesID, "credit": "150"},
			},
		}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "REC0001", updated.Number, "number survives update")

	var cancelled ledger.Voucher
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/vouchers/"+v.ID+"/cancel",
		map[string]string{"actor": "kmehta"}, &cancelled)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ledger.StatusCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Narration, "[cancelled by kmehta")

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/vouchers/"+v.ID+"/cancel",
		map[string]string{"actor": "kmehta"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/v1/vouchers/"+v.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/vouchers/"+v.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVoucherValidationOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	companyID, cashID, salesID := setupBooks(t, ts.URL)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/companies/"+companyID+"/vouchers",
		map[string]any{
			"voucher_type": "receipt",
			"date":         "2026-04-01",
			"entries": []map[string]any{
				{"ledger_id": cashID, "debit": "200"},
				{"ledger_id": salesID, "credit": "150"},
			},
		}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Overdrawing cash is a semantic rejection, not a bad request.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/companies/"+companyID+"/vouchers",
		map[string]any{
			"voucher_type": "payment",
			"date":         "2026-04-01",
			"entries": []map[string]any{
				{"ledger_id": salesID, "debit": "900"},
				{"ledger_id": cashID, "credit": "900"},
			},
		}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestStatementAndDayBookOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	companyID, cashID, salesID := setupBooks(t, ts.URL)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/companies/"+companyID+"/vouchers",
		map[string]any{
			"voucher_type": "receipt",
			"date":         "2026-04-01",
			"entries": []map[string]any{
				{"ledger_id": cashID, "debit": "200"},
				{"ledger_id": salesID, "credit": "200"},
			},
		}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stmt ledger.Statement
	resp = doJSON(t, http.MethodGet,
		ts.URL+"/api/v1/ledgers/"+cashID+"/statement?from=2026-04-01&to=2026-04-30", nil, &stmt)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "500", stmt.OpeningBalance.String())
	assert.Equal(t, "700", stmt.ClosingBalance.String())
	require.Len(t, stmt.Rows, 1)
	assert.Equal(t, "To Sales", stmt.Rows[0].Particulars)

	var book []ledger.Voucher
	resp = doJSON(t, http.MethodGet,
		ts.URL+"/api/v1/companies/"+companyID+"/daybook?from=2026-04-01&to=2026-04-30", nil, &book)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, book, 1)
	assert.Len(t, book[0].Entries, 2)
}

func TestTransferCashOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	companyID, cashID, _ := setupBooks(t, ts.URL)

	var bank ledger.Ledger
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/companies/"+companyID+"/ledgers",
		map[string]any{"name": "Axis Bank", "group_name": "Bank Accounts"}, &bank)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var v ledger.Voucher
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/companies/"+companyID+"/transfer-cash",
		map[string]any{"from_ledger_id": cashID, "to_ledger_id": bank.ID, "amount": "300", "actor": "kmehta"}, &v)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, ledger.TypeContra, v.Type)
	assert.Equal(t, "CON0001", v.Number)
}

func TestBulkImportOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	var company ledger.Company
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/companies",
		map[string]string{"name": "Mehta Traders"}, &company)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var res struct {
		Ledgers  int `json:"ledgers"`
		Vouchers int `json:"vouchers"`
		Entries  int `json:"entries"`
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/companies/"+company.ID+"/import",
		map[string]any{
			"trial_balance": []map[string]any{
				{"name": "Cash", "group": "CASH/Bank", "debit": "1000"},
				{"name": "Capital", "group": "Capital A/c", "credit": "1000"},
			},
			"transactions": []map[string]any{
				{"voucher_number": "RC-1", "date": "2026-04-01", "voucher_type": "Receipt", "ledger_name": "Cash", "debit": "100"},
				{"ledger_name": "Capital", "credit": "100"},
			},
		}, &res)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 3, res.Ledgers)
	assert.Equal(t, 1, res.Vouchers)
	assert.Equal(t, 2, res.Entries)

	var drift struct {
		Repaired bool                  `json:"repaired"`
		Drifts   []ledger.BalanceDrift `json:"drifts"`
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/companies/"+company.ID+"/recompute?repair=true", nil, &drift)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, drift.Repaired)
	assert.Len(t, drift.Drifts, 2)
}
