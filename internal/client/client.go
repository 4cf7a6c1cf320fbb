package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kmehta/bahikhata/internal/ledger"
	"github.com/shopspring/decimal"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateCompany(ctx context.Context, name, fyStart, fyEnd string) (*ledger.Company, error) {
	body := map[string]any{"name": name}
	if fyStart != "" {
		body["fy_start"] = fyStart
	}
	if fyEnd != "" {
		body["fy_end"] = fyEnd
	}
	var result ledger.Company
	if err := c.post(ctx, "/api/v1/companies", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListCompanies(ctx context.Context) ([]ledger.Company, error) {
	var result []ledger.Company
	if err := c.get(ctx, "/api/v1/companies", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetCompany(ctx context.Context, id string) (*ledger.Company, error) {
	var result ledger.Company
	if err := c.get(ctx, "/api/v1/companies/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id, name, fyStart, fyEnd string) (*ledger.Company, error) {
	body := map[string]any{"name": name}
	if fyStart != "" {
		body["fy_start"] = fyStart
	}
	if fyEnd != "" {
		body["fy_end"] = fyEnd
	}
	var result ledger.Company
	if err := c.patch(ctx, "/api/v1/companies/"+url.PathEscape(id), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/companies/"+url.PathEscape(id))
}

func (c *Client) CreateLedger(ctx context.Context, companyID string, l *ledger.Ledger) (*ledger.Ledger, error) {
	body := map[string]any{
		"name":            l.Name,
		"group_name":      l.Group,
		"sub_group":       l.SubGroup,
		"opening_balance": l.OpeningBalance,
	}
	if l.AssignedOperatorID != "" {
		body["assigned_operator_id"] = l.AssignedOperatorID
	}
	var result ledger.Ledger
	if err := c.post(ctx, "/api/v1/companies/"+url.PathEscape(companyID)+"/ledgers", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListLedgers(ctx context.Context, companyID, group string) ([]ledger.Ledger, error) {
	params := url.Values{}
	if group != "" {
		params.Set("group", group)
	}
	var result []ledger.Ledger
	if err := c.get(ctx, "/api/v1/companies/"+url.PathEscape(companyID)+"/ledgers?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetLedger(ctx context.Context, id string) (*ledger.Ledger, error) {
	var result ledger.Ledger
	if err := c.get(ctx, "/api/v1/ledgers/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteLedger(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/ledgers/"+url.PathEscape(id))
}

// LedgerStatement fetches the statement for one ledger. Empty from/to
// default to all activity up to today. Dates are YYYY-MM-DD.
func (c *Client) LedgerStatement(ctx context.Context, ledgerID, from, to string) (*ledger.Statement, error) {
	params := url.Values{}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	var result ledger.Statement
	if err := c.get(ctx, "/api/v1/ledgers/"+url.PathEscape(ledgerID)+"/statement?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CreateVoucher(ctx context.Context, companyID string, typ ledger.VoucherType, date, narration, createdBy string, entries []ledger.EntryLine) (*ledger.Voucher, error) {
	body := map[string]any{
		"voucher_type": typ,
		"date":         date,
		"narration":    narration,
		"created_by":   createdBy,
		"entries":      entries,
	}
	var result ledger.Voucher
	if err := c.post(ctx, "/api/v1/companies/"+url.PathEscape(companyID)+"/vouchers", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListVouchers(ctx context.Context, companyID string, typ ledger.VoucherType) ([]ledger.Voucher, error) {
	params := url.Values{}
	if typ != "" {
		params.Set("type", string(typ))
	}
	var result []ledger.Voucher
	if err := c.get(ctx, "/api/v1/companies/"+url.PathEscape(companyID)+"/vouchers?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetVoucher(ctx context.Context, id string) (*ledger.Voucher, error) {
	var result ledger.Voucher
	if err := c.get(ctx, "/api/v1/vouchers/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateVoucher(ctx context.Context, id, date, narration string, entries []ledger.EntryLine) (*ledger.Voucher, error) {
	body := map[string]any{
		"date":      date,
		"narration": narration,
		"entries":   entries,
	}
	var result ledger.Voucher
	if err := c.put(ctx, "/api/v1/vouchers/"+url.PathEscape(id), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CancelVoucher(ctx context.Context, id, actor string) (*ledger.Voucher, error) {
	var result ledger.Voucher
	if err := c.post(ctx, "/api/v1/vouchers/"+url.PathEscape(id)+"/cancel", map[string]any{"actor": actor}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteVoucher(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/vouchers/"+url.PathEscape(id))
}

func (c *Client) DayBook(ctx context.Context, companyID, from, to string) ([]ledger.Voucher, error) {
	params := url.Values{}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	var result []ledger.Voucher
	if err := c.get(ctx, "/api/v1/companies/"+url.PathEscape(companyID)+"/daybook?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) TransferCash(ctx context.Context, companyID, fromLedgerID, toLedgerID string, amount decimal.Decimal, actor string) (*ledger.Voucher, error) {
	body := map[string]any{
		"from_ledger_id": fromLedgerID,
		"to_ledger_id":   toLedgerID,
		"amount":         amount,
		"actor":          actor,
	}
	var result ledger.Voucher
	if err := c.post(ctx, "/api/v1/companies/"+url.PathEscape(companyID)+"/transfer-cash", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type ImportResult struct {
	Ledgers  int `json:"ledgers"`
	Vouchers int `json:"vouchers"`
	Entries  int `json:"entries"`
}

// TransactionImportRow is the wire shape of one transaction-feed row;
// the date travels as YYYY-MM-DD.
type TransactionImportRow struct {
	VoucherNumber string          `json:"voucher_number,omitempty"`
	Date          string          `json:"date,omitempty"`
	Type          string          `json:"voucher_type,omitempty"`
	LedgerName    string          `json:"ledger_name"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Narration     string          `json:"narration,omitempty"`
}

func (c *Client) BulkImport(ctx context.Context, companyID string, tb []ledger.TrialBalanceRow, txns []TransactionImportRow) (*ImportResult, error) {
	body := map[string]any{
		"trial_balance": tb,
		"transactions":  txns,
	}
	var result ImportResult
	if err := c.post(ctx, "/api/v1/companies/"+url.PathEscape(companyID)+"/import", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type RecomputeResult struct {
	Repaired bool                  `json:"repaired"`
	Drifts   []ledger.BalanceDrift `json:"drifts"`
}

func (c *Client) RecomputeBalances(ctx context.Context, companyID string, repair bool) (*RecomputeResult, error) {
	path := "/api/v1/companies/" + url.PathEscape(companyID) + "/recompute"
	if repair {
		path += "?repair=true"
	}
	var result RecomputeResult
	if err := c.post(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/companies", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) del(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, nil)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, "POST", path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, "PUT", path, body, result)
}

func (c *Client) patch(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, "PATCH", path, body, result)
}

func (c *Client) send(ctx context.Context, method, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
