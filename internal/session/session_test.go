// internal/session/session_test.go
//
// Session 的整合測試：端到端情境、失敗不觸發保存、保存失敗的錯誤包裝，
// 以及搭配真實 CSVStore 的重啟流程。
package session

import (
	"errors"
	"path/filepath"
	"testing"

	"acmebank/internal/bank"
	"acmebank/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// countingStore 記錄 Save 次數，可選擇讓寫入失敗。
type countingStore struct {
	saves int
	err   error
}

func (c *countingStore) Save(*bank.Ledger) error {
	c.saves++
	return c.err
}

func TestScenario(t *testing.T) {
	store := &countingStore{}
	s := New(nil, store, nil)

	ann, err := s.AddCustomer("Ann", "Lee", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 1, ann)

	num, err := s.CreateAccount(ann, "checking", dec("100.0"))
	require.NoError(t, err)
	assert.Equal(t, 1, num)

	a, err := s.Withdraw(ann, 1, dec("40"))
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(dec("60")))

	a, err = s.Deposit(ann, 1, dec("10"))
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(dec("70")))

	bob, err := s.AddCustomer("Bob", "Ray", "b@x.com")
	require.NoError(t, err)
	num, err = s.CreateAccount(bob, "savings", dec("0"))
	require.NoError(t, err)
	assert.Equal(t, 2, num)

	from, to, err := s.Transfer(ann, bob, 1, 1, dec("70"))
	require.NoError(t, err)
	assert.True(t, from.Balance.IsZero())
	assert.True(t, to.Balance.Equal(dec("70")))

	// 每次成功變更各觸發一次持久化
	assert.Equal(t, 7, store.saves)
}

func TestFailuresDoNotPersist(t *testing.T) {
	store := &countingStore{}
	s := New(nil, store, nil)
	ann, _ := s.AddCustomer("Ann", "Lee", "a@x.com")
	_, _ = s.CreateAccount(ann, "checking", dec("50"))
	bob, _ := s.AddCustomer("Bob", "Ray", "b@x.com")
	_, _ = s.CreateAccount(bob, "checking", dec("5"))
	base := store.saves

	tests := []struct {
		name string
		op   func() error
		want error
	}{
		{"create for unknown customer", func() error { _, err := s.CreateAccount(99, "x", dec("1")); return err }, bank.ErrCustomerNotFound},
		{"create negative", func() error { _, err := s.CreateAccount(ann, "x", dec("-1")); return err }, bank.ErrInvalidAmount},
		{"deposit zero", func() error { _, err := s.Deposit(ann, 1, dec("0")); return err }, bank.ErrInvalidAmount},
		{"deposit bad selector", func() error { _, err := s.Deposit(ann, 2, dec("1")); return err }, bank.ErrInvalidSelection},
		{"deposit unknown customer", func() error { _, err := s.Deposit(7, 1, dec("1")); return err }, bank.ErrCustomerNotFound},
		{"withdraw negative", func() error { _, err := s.Withdraw(ann, 1, dec("-3")); return err }, bank.ErrInvalidAmount},
		{"withdraw too much", func() error { _, err := s.Withdraw(ann, 1, dec("50.01")); return err }, bank.ErrInsufficientFunds},
		{"transfer too much", func() error { _, _, err := s.Transfer(ann, bob, 1, 1, dec("51")); return err }, bank.ErrInsufficientFunds},
		{"transfer unknown recipient", func() error { _, _, err := s.Transfer(ann, 9, 1, 1, dec("1")); return err }, bank.ErrCustomerNotFound},
		{"transfer bad recipient selector", func() error { _, _, err := s.Transfer(ann, bob, 1, 0, dec("1")); return err }, bank.ErrInvalidSelection},
		{"transfer same account", func() error { _, _, err := s.Transfer(ann, ann, 1, 1, dec("1")); return err }, bank.ErrSameAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(), tt.want)
		})
	}

	assert.Equal(t, base, store.saves)
	accts, err := s.Accounts(ann)
	require.NoError(t, err)
	assert.True(t, accts[0].Balance.Equal(dec("50")))
	accts, err = s.Accounts(bob)
	require.NoError(t, err)
	assert.True(t, accts[0].Balance.Equal(dec("5")))
}

func TestPersistError(t *testing.T) {
	boom := errors.New("disk full")
	s := New(nil, PersistFunc(func(*bank.Ledger) error { return boom }), nil)

	id, err := s.AddCustomer("Ann", "Lee", "a@x.com")
	assert.ErrorIs(t, err, ErrPersist)
	assert.ErrorIs(t, err, boom)
	// 記憶體中的變更仍然存在
	c, err := s.Customer(id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", c.FirstName)
}

func TestListAll(t *testing.T) {
	s := New(nil, nil, nil)
	ann, _ := s.AddCustomer("Ann", "Lee", "a@x.com")
	bob, _ := s.AddCustomer("Bob", "Ray", "b@x.com")
	_, _ = s.CreateAccount(ann, "checking", dec("1"))
	_, _ = s.CreateAccount(bob, "savings", dec("2"))
	_, _ = s.CreateAccount(ann, "savings", dec("3"))

	type row struct {
		id      int
		numbers []int
	}
	collect := func() []row {
		var rows []row
		for c, accts := range s.ListAll() {
			r := row{id: c.ID}
			for _, a := range accts {
				r.numbers = append(r.numbers, a.Number)
			}
			rows = append(rows, r)
		}
		return rows
	}
	want := []row{{ann, []int{1, 3}}, {bob, []int{2}}}
	assert.Equal(t, want, collect())
	assert.Equal(t, want, collect())
}

func TestSessionWithCSVStore(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewCSVStore(filepath.Join(dir, "users.csv"), filepath.Join(dir, "accounts.csv"), nil)

	l, _, err := store.Load()
	require.NoError(t, err)
	s := New(l, store, nil)
	ann, err := s.AddCustomer("Ann", "Lee", "a@x.com")
	require.NoError(t, err)
	_, err = s.CreateAccount(ann, "checking", dec("100"))
	require.NoError(t, err)
	_, err = s.Withdraw(ann, 1, dec("40"))
	require.NoError(t, err)

	// 重新載入後狀態一致，新序號接續
	l2, warnings, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	s2 := New(l2, store, nil)
	accts, err := s2.Accounts(ann)
	require.NoError(t, err)
	require.Len(t, accts, 1)
	assert.True(t, accts[0].Balance.Equal(dec("60")))

	bob, err := s2.AddCustomer("Bob", "Ray", "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, bob)
}
