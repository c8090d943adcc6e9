// internal/bank/ledger.go

// Package bank 定義核心商業邏輯：客戶、帳戶、存款、提款、轉帳與查詢。
// Ledger 為聚合根 (Aggregate Root)：統一持有所有客戶與帳戶，
// 客戶與帳戶之間只以 ID／帳號互相參照，由 Ledger 解析。
// 本層為單執行緒模型，不含鎖；並發呼叫端需自行序列化。
package bank

import (
	"iter"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// Ledger 管理全系統客戶與帳戶。
// - customers / accounts：依建立（或載入）順序保存。
// - custIdx / acctIdx：ID → 切片位置索引。
// - lastCustomerID / lastAccountNumber：只增不減的計數器，下一個 ID 為計數器 + 1。
type Ledger struct {
	customers []*Customer
	accounts  []*Account
	custIdx   map[int]int
	acctIdx   map[int]int

	lastCustomerID    int
	lastAccountNumber int
}

// NewLedger 建立空白帳本。
func NewLedger() *Ledger {
	return &Ledger{
		custIdx: make(map[int]int),
		acctIdx: make(map[int]int),
	}
}

// AddCustomer 以下一個序號建立客戶並回傳其快照。
func (l *Ledger) AddCustomer(first, last, email string) Customer {
	l.lastCustomerID++
	c := &Customer{ID: l.lastCustomerID, FirstName: first, LastName: last, Email: email}
	l.custIdx[c.ID] = len(l.customers)
	l.customers = append(l.customers, c)
	return c.snapshot()
}

// OpenAccount 為既有客戶開立帳戶；初始餘額不得為負。
// 帳戶同時加入全域清單與客戶自身的帳戶清單。
func (l *Ledger) OpenAccount(customerID int, accountType string, initial decimal.Decimal) (Account, error) {
	c, ok := l.customer(customerID)
	if !ok {
		return Account{}, ErrCustomerNotFound
	}
	if initial.IsNegative() {
		return Account{}, ErrInvalidAmount
	}
	l.lastAccountNumber++
	a := &Account{Number: l.lastAccountNumber, Type: accountType, CustomerID: c.ID, Balance: initial}
	l.link(c, a)
	return *a, nil
}

// RestoreCustomer 以既有 ID 放回一筆客戶（載入時使用），並推進計數器。
// ID 須介於 1 與 math.MaxInt-1 之間，否則下一個序號會溢位。
func (l *Ledger) RestoreCustomer(c Customer) error {
	if !validID(c.ID) {
		return ErrInvalidID
	}
	if _, dup := l.custIdx[c.ID]; dup {
		return ErrDuplicateID
	}
	restored := &Customer{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email}
	l.custIdx[c.ID] = len(l.customers)
	l.customers = append(l.customers, restored)
	l.lastCustomerID = max(l.lastCustomerID, c.ID)
	return nil
}

// RestoreAccount 以既有帳號放回一筆帳戶，連結至其客戶（載入時使用）。
// 客戶不存在回傳 ErrCustomerNotFound，呼叫端可據此略過該筆資料。
func (l *Ledger) RestoreAccount(a Account) error {
	if !validID(a.Number) {
		return ErrInvalidID
	}
	if _, dup := l.acctIdx[a.Number]; dup {
		return ErrDuplicateID
	}
	if a.Balance.IsNegative() {
		return ErrInvalidAmount
	}
	c, ok := l.customer(a.CustomerID)
	if !ok {
		return ErrCustomerNotFound
	}
	restored := a
	l.link(c, &restored)
	l.lastAccountNumber = max(l.lastAccountNumber, a.Number)
	return nil
}

// Customer 依 ID 取得客戶快照。
func (l *Ledger) Customer(id int) (Customer, error) {
	c, ok := l.customer(id)
	if !ok {
		return Customer{}, ErrCustomerNotFound
	}
	return c.snapshot(), nil
}

// Customers 回傳所有客戶快照（依建立順序）。
func (l *Ledger) Customers() []Customer {
	out := make([]Customer, 0, len(l.customers))
	for _, c := range l.customers {
		out = append(out, c.snapshot())
	}
	return out
}

// Accounts 回傳所有帳戶的值拷貝（依建立順序）。
func (l *Ledger) Accounts() []Account {
	out := make([]Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, *a)
	}
	return out
}

// CustomerAccounts 回傳客戶名下帳戶，順序即選擇序號（1-based）的順序。
func (l *Ledger) CustomerAccounts(customerID int) ([]Account, error) {
	c, ok := l.customer(customerID)
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return l.accountsOf(c), nil
}

// Select 以 1-based 序號選出客戶名下的帳戶。
func (l *Ledger) Select(customerID, selector int) (Account, error) {
	a, err := l.selectAccount(customerID, selector)
	if err != nil {
		return Account{}, err
	}
	return *a, nil
}

// Deposit 存入客戶名下第 selector 個帳戶，回傳更新後的帳戶快照。
func (l *Ledger) Deposit(customerID, selector int, amount decimal.Decimal) (Account, error) {
	a, err := l.selectAccount(customerID, selector)
	if err != nil {
		return Account{}, err
	}
	if err := a.Deposit(amount); err != nil {
		return Account{}, err
	}
	return *a, nil
}

// Withdraw 自客戶名下第 selector 個帳戶提款，回傳更新後的帳戶快照。
func (l *Ledger) Withdraw(customerID, selector int, amount decimal.Decimal) (Account, error) {
	a, err := l.selectAccount(customerID, selector)
	if err != nil {
		return Account{}, err
	}
	if err := a.Withdraw(amount); err != nil {
		return Account{}, err
	}
	return *a, nil
}

// Transfer 由寄款客戶第 fromSel 個帳戶轉帳至收款客戶第 toSel 個帳戶。
// 兩端帳戶皆解析成功後才會動到餘額；任一步失敗皆不改變狀態。
func (l *Ledger) Transfer(senderID, fromSel, recipientID, toSel int, amount decimal.Decimal) (from, to Account, err error) {
	src, err := l.selectAccount(senderID, fromSel)
	if err != nil {
		return Account{}, Account{}, err
	}
	dst, err := l.selectAccount(recipientID, toSel)
	if err != nil {
		return Account{}, Account{}, err
	}
	if err := Transfer(amount, src, dst); err != nil {
		return Account{}, Account{}, err
	}
	return *src, *dst, nil
}

// ListAll 回傳 (客戶, 名下帳戶) 的惰性序列。
// 每次迭代都重新讀取目前狀態，可重複使用；產出的皆為拷貝，呼叫端無法改寫帳本。
func (l *Ledger) ListAll() iter.Seq2[Customer, []Account] {
	return func(yield func(Customer, []Account) bool) {
		for _, c := range l.customers {
			if !yield(c.snapshot(), l.accountsOf(c)) {
				return
			}
		}
	}
}

// Len 回傳客戶數與帳戶數。
func (l *Ledger) Len() (customers, accounts int) {
	return len(l.customers), len(l.accounts)
}

func validID(id int) bool {
	return id > 0 && id < math.MaxInt
}

func (l *Ledger) customer(id int) (*Customer, bool) {
	i, ok := l.custIdx[id]
	if !ok {
		return nil, false
	}
	return l.customers[i], true
}

func (l *Ledger) selectAccount(customerID, selector int) (*Account, error) {
	c, ok := l.customer(customerID)
	if !ok {
		return nil, ErrCustomerNotFound
	}
	if selector < 1 || selector > len(c.Accounts) {
		return nil, ErrInvalidSelection
	}
	return l.accounts[l.acctIdx[c.Accounts[selector-1]]], nil
}

func (l *Ledger) accountsOf(c *Customer) []Account {
	out := make([]Account, 0, len(c.Accounts))
	for _, n := range c.Accounts {
		out = append(out, *l.accounts[l.acctIdx[n]])
	}
	return out
}

func (l *Ledger) link(c *Customer, a *Account) {
	l.acctIdx[a.Number] = len(l.accounts)
	l.accounts = append(l.accounts, a)
	c.Accounts = append(c.Accounts, a.Number)
}

// snapshot 回傳不共用底層切片的值拷貝。
func (c *Customer) snapshot() Customer {
	cp := *c
	cp.Accounts = slices.Clone(c.Accounts)
	return cp
}
