// internal/storage/csvstore.go
//
// 提供客戶表與帳戶表的 CSV 載入與保存。
// - 載入：檔案不存在視為空集合（首次執行）；格式錯誤或無法對應客戶的列一律略過並回報警告。
// - 保存：整表覆寫，先寫入 .tmp 檔，再以 rename() 取代原檔（原子寫入）。
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"acmebank/internal/bank"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CSVStore 綁定兩張表的檔案路徑。
type CSVStore struct {
	customersPath string
	accountsPath  string
	log           *zap.Logger
}

// NewCSVStore 建立 CSV 儲存層；log 可為 nil。
func NewCSVStore(customersPath, accountsPath string, log *zap.Logger) *CSVStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CSVStore{customersPath: customersPath, accountsPath: accountsPath, log: log}
}

// Paths 回傳客戶表與帳戶表路徑。
func (s *CSVStore) Paths() (customers, accounts string) {
	return s.customersPath, s.accountsPath
}

// Load 讀取兩張表並重建帳本。
// 帳戶依 Customer ID 連結到已載入的客戶；找不到客戶的帳戶被略過。
// 只有真正的 I/O 錯誤（例如權限不足）才會回傳 error。
func (s *CSVStore) Load() (*bank.Ledger, []IntegrityWarning, error) {
	l := bank.NewLedger()
	var warnings []IntegrityWarning

	err := readTable(s.customersPath, func(line int, rec []string) {
		if w, ok := s.restoreCustomer(l, line, rec); !ok {
			warnings = append(warnings, w)
		}
	}, &warnings)
	if err != nil {
		return nil, nil, err
	}

	err = readTable(s.accountsPath, func(line int, rec []string) {
		if w, ok := s.restoreAccount(l, line, rec); !ok {
			warnings = append(warnings, w)
		}
	}, &warnings)
	if err != nil {
		return nil, nil, err
	}

	for _, w := range warnings {
		s.log.Warn("dropped record",
			zap.String("file", w.File),
			zap.Int("line", w.Line),
			zap.String("reason", w.Reason),
			zap.Error(w.Err))
	}
	nc, na := l.Len()
	s.log.Info("ledger loaded",
		zap.Int("customers", nc),
		zap.Int("accounts", na),
		zap.Int("dropped", len(warnings)))
	return l, warnings, nil
}

// Save 將帳本完整寫回兩張表（含標題列）。
func (s *CSVStore) Save(l *bank.Ledger) error {
	customers := l.Customers()
	rows := make([][]string, 0, len(customers)+1)
	rows = append(rows, customerHeader)
	for _, c := range customers {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.FirstName, c.LastName, c.Email})
	}
	if err := writeTable(s.customersPath, rows); err != nil {
		return fmt.Errorf("save customers: %w", err)
	}

	accounts := l.Accounts()
	rows = make([][]string, 0, len(accounts)+1)
	rows = append(rows, accountHeader)
	for _, a := range accounts {
		rows = append(rows, []string{strconv.Itoa(a.Number), a.Type, strconv.Itoa(a.CustomerID), a.Balance.String()})
	}
	if err := writeTable(s.accountsPath, rows); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}

	s.log.Debug("ledger saved",
		zap.Int("customers", len(customers)),
		zap.Int("accounts", len(accounts)))
	return nil
}

func (s *CSVStore) restoreCustomer(l *bank.Ledger, line int, rec []string) (IntegrityWarning, bool) {
	w := IntegrityWarning{File: s.customersPath, Line: line}
	if len(rec) != customerFields {
		w.Reason = fmt.Sprintf("want %d fields, got %d", customerFields, len(rec))
		return w, false
	}
	id, err := parseID(rec[0])
	if err != nil {
		w.Reason, w.Err = "bad customer id", err
		return w, false
	}
	if err := l.RestoreCustomer(bank.Customer{ID: id, FirstName: rec[1], LastName: rec[2], Email: rec[3]}); err != nil {
		w.Reason, w.Err = "customer rejected", err
		return w, false
	}
	return w, true
}

func (s *CSVStore) restoreAccount(l *bank.Ledger, line int, rec []string) (IntegrityWarning, bool) {
	w := IntegrityWarning{File: s.accountsPath, Line: line}
	if len(rec) != accountFields {
		w.Reason = fmt.Sprintf("want %d fields, got %d", accountFields, len(rec))
		return w, false
	}
	number, err := parseID(rec[0])
	if err != nil {
		w.Reason, w.Err = "bad account number", err
		return w, false
	}
	customerID, err := parseID(rec[2])
	if err != nil {
		w.Reason, w.Err = "bad customer id", err
		return w, false
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(rec[3]))
	if err != nil {
		w.Reason, w.Err = "bad balance", err
		return w, false
	}
	a := bank.Account{Number: number, Type: rec[1], CustomerID: customerID, Balance: balance}
	if err := l.RestoreAccount(a); err != nil {
		w.Reason, w.Err = "account rejected", err
		return w, false
	}
	return w, true
}

func parseID(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// readTable 逐列讀取 CSV（略過標題列），每列交給 fn。
// 檔案不存在時直接回傳 nil；無法解析的列記為警告後繼續讀取。
func readTable(path string, fn func(line int, rec []string), warnings *[]IntegrityWarning) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return fmt.Errorf("read %s: %w", path, err)
			}
			header = false
			*warnings = append(*warnings, IntegrityWarning{File: path, Line: perr.Line, Reason: "malformed row", Err: perr.Err})
			continue
		}
		if header {
			header = false
			continue
		}
		line, _ := r.FieldPos(0)
		fn(line, rec)
	}
}

// writeTable 以原子方式整表覆寫：寫入 path+".tmp" 後 rename。
func writeTable(path string, rows [][]string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	// 行尾維持 \n：UseCRLF 會把欄位內單獨的 \r 改寫掉，無法原樣讀回。
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
