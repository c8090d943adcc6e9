// internal/server/handler.go
//
// Package server
// ─────────────────────────────────────────────
// 提供 HTTP RESTful 介面，作為 session 的另一個呼叫端（與互動選單並列）。
// 每個 handler 僅負責：
//  1. 接收與驗證 HTTP 請求
//  2. 呼叫 session 執行操作（持久化由 session 於成功變更後觸發）
//  3. 回傳標準化 JSON 回應
//
// 帳本為單執行緒模型，所有請求經 serialize 中介層逐一處理。
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"acmebank/internal/bank"
	"acmebank/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const persistWarning = "changes could not be saved"

// Server 為 HTTP 層核心結構：
// - sess：注入應用層（帳本與持久化）。
// - mu：序列化所有請求，維持帳本單執行緒的前提。
type Server struct {
	mu   sync.Mutex
	sess *session.Session
	log  *zap.Logger
}

// NewServer 建立新的 HTTP 伺服器；log 可為 nil。
func NewServer(sess *session.Session, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{sess: sess, log: log}
}

// accountResult 為存款／提款的輸出；保存失敗時附帶 warning。
type accountResult struct {
	bank.Account
	Warning string `json:"warning,omitempty"`
}

// customerView 為 GET /customers 的單筆輸出：客戶與名下帳戶。
type customerView struct {
	bank.Customer
	AccountDetails []bank.Account `json:"account_details"`
}

// listCustomers 處理 GET /customers → 列出所有客戶與帳戶。
func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	out := []customerView{}
	for c, accts := range s.sess.ListAll() {
		out = append(out, customerView{Customer: c, AccountDetails: accts})
	}
	writeJSON(w, http.StatusOK, out)
}

// createCustomer 處理 POST /customers → 新增客戶。
func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	id, err := s.sess.AddCustomer(req.FirstName, req.LastName, req.Email)
	warning, err := unsaved(err)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, withWarning(map[string]any{"customer_id": id}, warning))
}

// customerAccounts 處理 GET /customers/{id}/accounts → 依選擇序號順序列出帳戶。
func (s *Server) customerAccounts(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	accts, err := s.sess.Accounts(id)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, accts)
}

// createAccount 處理 POST /customers/{id}/accounts → 開立帳戶。
func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		AccountType    string          `json:"account_type"`
		InitialBalance decimal.Decimal `json:"initial_balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	number, err := s.sess.CreateAccount(id, req.AccountType, req.InitialBalance)
	warning, err := unsaved(err)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, withWarning(map[string]any{"account_number": number}, warning))
}

// deposit 處理 POST /customers/{id}/accounts/{selector}/deposit。
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.sess.Deposit)
}

// withdraw 處理 POST /customers/{id}/accounts/{selector}/withdraw。
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.sess.Withdraw)
}

// mutate 為存款／提款共用流程：解析路徑與金額 → 執行 → 回傳最新帳戶狀態。
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(int, int, decimal.Decimal) (bank.Account, error)) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	sel, ok := intParam(w, r, "selector")
	if !ok {
		return
	}
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	a, err := op(id, sel, req.Amount)
	warning, err := unsaved(err)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, accountResult{Account: a, Warning: warning})
}

// transfer 處理 POST /transfer；成功後同時回傳兩帳戶最新餘額。
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromCustomer int             `json:"from_customer"`
		FromAccount  int             `json:"from_account"`
		ToCustomer   int             `json:"to_customer"`
		ToAccount    int             `json:"to_account"`
		Amount       decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	from, to, err := s.sess.Transfer(req.FromCustomer, req.ToCustomer, req.FromAccount, req.ToAccount, req.Amount)
	warning, err := unsaved(err)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, withWarning(map[string]any{
		"message": "transfer success",
		"from":    from,
		"to":      to,
	}, warning))
}

// health 提供健康檢查端點：GET /health。
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor 將領域錯誤對應到 HTTP 狀態碼。
func statusFor(err error) int {
	switch {
	case errors.Is(err, bank.ErrCustomerNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, bank.ErrInvalidAmount),
		errors.Is(err, bank.ErrInvalidSelection),
		errors.Is(err, bank.ErrSameAccount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// unsaved 將 session.ErrPersist（變更已生效、僅保存失敗）轉為警告字串，
// 呼叫端照常回應成功與新配置的 ID；其他錯誤原樣回傳。
func unsaved(err error) (string, error) {
	if errors.Is(err, session.ErrPersist) {
		return persistWarning, nil
	}
	return "", err
}

func withWarning(m map[string]any, warning string) map[string]any {
	if warning != "" {
		m["warning"] = warning
	}
	return m
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
