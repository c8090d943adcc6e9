// internal/bank/account.go

// Package bank 定義核心領域模型與業務規則。
// 本檔定義 Account 及其存款、提款、轉帳操作，不含任何儲存或介面細節。

package bank

import "github.com/shopspring/decimal"

// Account represents a bank account owned by exactly one customer.
// CustomerID 為非擁有 (non-owning) 的查詢鍵，透過 Ledger 解析，建立後不可變更。
type Account struct {
	Number     int             `json:"account_number"`
	Type       string          `json:"account_type"`
	CustomerID int             `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
}

// Deposit 存款：金額需 > 0，否則回傳 ErrInvalidAmount 且餘額不變。
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw 提款：金額需 > 0 且不得超過餘額（維持非負）。
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.Balance) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Transfer 先自 from 提款，成功後才存入 to。
// 提款失敗則整筆失敗、雙方餘額不變；
// 若存款失敗則將金額退回 from，不會有金額遺失。
func Transfer(amount decimal.Decimal, from, to *Account) error {
	if from.Number == to.Number {
		return ErrSameAccount
	}
	if err := from.Withdraw(amount); err != nil {
		return err
	}
	if err := to.Deposit(amount); err != nil {
		from.Balance = from.Balance.Add(amount)
		return err
	}
	return nil
}
