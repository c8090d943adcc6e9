// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 皆屬可重試錯誤：上層（選單或 HTTP handler）回報失敗後可讓使用者修正輸入再試。

package bank

import "errors"

var (
	// ErrInvalidAmount 代表金額非法（存提款 <= 0，或開戶初始餘額為負）。
	ErrInvalidAmount = errors.New("amount must be > 0")

	// ErrInsufficientFunds 代表餘額不足，導致提款或轉帳失敗。
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCustomerNotFound 代表客戶 ID 無法解析。
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvalidSelection 代表帳戶選擇序號超出該客戶帳戶範圍。
	ErrInvalidSelection = errors.New("invalid account selection")

	// ErrSameAccount 代表轉帳來源與目標帳戶相同。
	ErrSameAccount = errors.New("from and to are same")

	// ErrDuplicateID 代表還原資料時出現重複的客戶 ID 或帳號。
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidID 代表 ID 或帳號不是正整數，或已達 math.MaxInt（下一個序號會溢位）。
	ErrInvalidID = errors.New("id must be > 0")
)
