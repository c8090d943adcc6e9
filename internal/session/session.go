// internal/session/session.go
//
// Package session 為應用層協調者：持有帳本，將使用者選擇的操作套用到帳本，
// 並在每次成功變更後觸發持久化。選單與 HTTP 皆為可替換的呼叫端。
package session

import (
	"errors"
	"fmt"
	"iter"

	"acmebank/internal/bank"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrPersist 代表變更已套用於記憶體，但寫入儲存失敗。
var ErrPersist = errors.New("persist ledger")

// Persister 將整個帳本寫入持久層。
type Persister interface {
	Save(l *bank.Ledger) error
}

// PersistFunc 讓一般函式滿足 Persister。
type PersistFunc func(l *bank.Ledger) error

func (f PersistFunc) Save(l *bank.Ledger) error { return f(l) }

// Session 持有唯一的記憶體帳本。非並發安全。
type Session struct {
	ledger *bank.Ledger
	store  Persister
	log    *zap.Logger
}

// New 建立 Session。store 可為 nil（不持久化），log 可為 nil。
func New(l *bank.Ledger, store Persister, log *zap.Logger) *Session {
	if l == nil {
		l = bank.NewLedger()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{ledger: l, store: store, log: log}
}

// AddCustomer 新增客戶並回傳配置到的 ID。
func (s *Session) AddCustomer(first, last, email string) (int, error) {
	c := s.ledger.AddCustomer(first, last, email)
	s.log.Info("customer added", zap.Int("customer_id", c.ID))
	return c.ID, s.persist()
}

// CreateAccount 為客戶開立帳戶並回傳帳號。
func (s *Session) CreateAccount(customerID int, accountType string, initial decimal.Decimal) (int, error) {
	a, err := s.ledger.OpenAccount(customerID, accountType, initial)
	if err != nil {
		return 0, err
	}
	s.log.Info("account created",
		zap.Int("customer_id", customerID),
		zap.Int("account_number", a.Number),
		zap.String("balance", a.Balance.String()))
	return a.Number, s.persist()
}

// Deposit 存入客戶第 selector 個帳戶（1-based）。
func (s *Session) Deposit(customerID, selector int, amount decimal.Decimal) (bank.Account, error) {
	a, err := s.ledger.Deposit(customerID, selector, amount)
	if err != nil {
		return bank.Account{}, err
	}
	s.log.Info("deposit",
		zap.Int("account_number", a.Number),
		zap.String("amount", amount.String()),
		zap.String("balance", a.Balance.String()))
	return a, s.persist()
}

// Withdraw 自客戶第 selector 個帳戶提款（1-based）。
func (s *Session) Withdraw(customerID, selector int, amount decimal.Decimal) (bank.Account, error) {
	a, err := s.ledger.Withdraw(customerID, selector, amount)
	if err != nil {
		return bank.Account{}, err
	}
	s.log.Info("withdraw",
		zap.Int("account_number", a.Number),
		zap.String("amount", amount.String()),
		zap.String("balance", a.Balance.String()))
	return a, s.persist()
}

// Transfer 由寄款客戶的 fromSel 帳戶轉帳至收款客戶的 toSel 帳戶。
func (s *Session) Transfer(senderID, recipientID, fromSel, toSel int, amount decimal.Decimal) (from, to bank.Account, err error) {
	from, to, err = s.ledger.Transfer(senderID, fromSel, recipientID, toSel, amount)
	if err != nil {
		return bank.Account{}, bank.Account{}, err
	}
	s.log.Info("transfer",
		zap.Int("from", from.Number),
		zap.Int("to", to.Number),
		zap.String("amount", amount.String()))
	return from, to, s.persist()
}

// Customer 依 ID 取得客戶。
func (s *Session) Customer(id int) (bank.Customer, error) {
	return s.ledger.Customer(id)
}

// Accounts 回傳客戶名下帳戶，索引 i 對應選擇序號 i+1。
func (s *Session) Accounts(customerID int) ([]bank.Account, error) {
	return s.ledger.CustomerAccounts(customerID)
}

// ListAll 回傳 (客戶, 名下帳戶) 的唯讀惰性序列。
func (s *Session) ListAll() iter.Seq2[bank.Customer, []bank.Account] {
	return s.ledger.ListAll()
}

func (s *Session) persist() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(s.ledger); err != nil {
		s.log.Error("persist failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
