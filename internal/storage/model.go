// internal/storage/model.go
//
// 定義「資料持久化層 (storage layer)」的表格格式。
// 兩張 CSV 表：客戶表 (users.csv) 與帳戶表 (accounts.csv)，第一列固定為標題列。
package storage

import "fmt"

// 欄位順序即寫出順序，不可任意調整。
var (
	customerHeader = []string{"ID", "First Name", "Last Name", "Email"}
	accountHeader  = []string{"Account Number", "Account Type", "Customer ID", "Balance"}
)

const (
	customerFields = 4
	accountFields  = 4
)

// IntegrityWarning 描述載入時被略過的一筆紀錄（DataIntegrityWarning）。
// 載入不會因資料內容而失敗；所有被丟棄的列都以此回報給呼叫端。
type IntegrityWarning struct {
	File   string // 來源檔案路徑
	Line   int    // 1-based 行號；無法判定時為 0
	Reason string
	Err    error
}

func (w IntegrityWarning) Error() string {
	if w.Err != nil {
		return fmt.Sprintf("%s:%d: %s: %v", w.File, w.Line, w.Reason, w.Err)
	}
	return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Reason)
}

func (w IntegrityWarning) Unwrap() error { return w.Err }
