// internal/bank/customer.go

package bank

import "fmt"

// Customer represents a bank customer.
// Accounts 只保存帳號（依開戶順序），實體由 Ledger 統一持有。
type Customer struct {
	ID        int    `json:"customer_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Accounts  []int  `json:"accounts"`
}

func (c Customer) String() string {
	return fmt.Sprintf("%s %s (%s)", c.FirstName, c.LastName, c.Email)
}
