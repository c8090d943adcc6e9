// internal/menu/menu.go
//
// Package menu
// ─────────────────────────────────────────────
// 互動式文字選單（1–7），為 session 的呼叫端之一。
// 由 io.Reader 逐行讀取、寫入 io.Writer，因此可以腳本驅動（測試不需終端機）：
//
//	m := menu.New(sess, menu.WithInput(os.Stdin), menu.WithOutput(os.Stdout))
//	if err := m.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"acmebank/internal/bank"
	"acmebank/internal/session"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const rule = "==========================="

// Menu 為逐行互動的前端，操作皆轉交 Session。
type Menu struct {
	sess   *session.Session
	reader *bufio.Reader
	writer io.Writer
	st     styles
}

// Option configures a Menu.
type Option func(*Menu)

// WithInput sets the input reader (default is os.Stdin).
func WithInput(r io.Reader) Option {
	return func(m *Menu) {
		m.reader = bufio.NewReader(r)
	}
}

// WithOutput sets the output writer (default is os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(m *Menu) {
		m.writer = w
	}
}

// New 建立綁定 sess 的選單；未指定輸入輸出時使用 os.Stdin／os.Stdout。
func New(sess *session.Session, opts ...Option) *Menu {
	m := &Menu{sess: sess}
	for _, opt := range opts {
		opt(m)
	}
	if m.reader == nil {
		m.reader = bufio.NewReader(os.Stdin)
	}
	if m.writer == nil {
		m.writer = os.Stdout
	}
	m.st = newStyles(lipgloss.NewRenderer(m.writer))
	return m
}

// Run 反覆顯示選單直到使用者選擇離開、輸入結束（EOF）或 ctx 取消。
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.showMenu()

		choice, err := m.prompt("Enter your choice: ")
		if err != nil {
			return eofOK(err)
		}

		switch choice {
		case "1":
			err = m.addCustomer()
		case "2":
			err = m.createAccount()
		case "3":
			err = m.deposit()
		case "4":
			err = m.withdraw()
		case "5":
			err = m.transfer()
		case "6":
			m.display()
		case "7":
			m.println(m.st.rule.Render(rule))
			m.println(m.st.title.Render("Goodbye Have A Great Day"))
			m.println(m.st.rule.Render(rule))
			return nil
		default:
			m.fail("Invalid choice. Please enter a number from 1 to 7.")
		}
		if err != nil {
			return eofOK(err)
		}
	}
}

func (m *Menu) showMenu() {
	m.println(m.st.rule.Render(rule))
	m.println()
	m.println(m.st.title.Render("ACME Bank"))
	m.println("1. Add Customer")
	m.println("2. Create Account")
	m.println("3. Deposit Money")
	m.println("4. Withdraw Money")
	m.println("5. Transfer Money")
	m.println("6. Display Transaction Data")
	m.println("7. Exit")
	m.println(m.st.rule.Render(rule))
}

func (m *Menu) addCustomer() error {
	first, err := m.prompt("Enter first name: ")
	if err != nil {
		return err
	}
	last, err := m.prompt("Enter last name: ")
	if err != nil {
		return err
	}
	email, err := m.prompt("Enter email: ")
	if err != nil {
		return err
	}
	id, err := m.sess.AddCustomer(first, last, email)
	m.report(err, fmt.Sprintf("Customer added with ID %d", id))
	return nil
}

func (m *Menu) createAccount() error {
	customerID, err := m.promptInt("Enter customer ID: ")
	if err != nil {
		return err
	}
	accountType, err := m.prompt("Enter account type: ")
	if err != nil {
		return err
	}
	initial, err := m.promptAmount("Enter initial balance: ")
	if err != nil {
		return err
	}
	number, err := m.sess.CreateAccount(customerID, accountType, initial)
	switch {
	case errors.Is(err, bank.ErrCustomerNotFound):
		m.fail("Customer not found.")
	case errors.Is(err, bank.ErrInvalidAmount):
		m.fail("Initial balance cannot be negative.")
	default:
		m.report(err, fmt.Sprintf("Account created with number %d", number))
	}
	return nil
}

func (m *Menu) deposit() error {
	customerID, err := m.promptInt("Enter customer ID: ")
	if err != nil {
		return err
	}
	accts, ok := m.listAccounts(customerID)
	if !ok {
		return nil
	}
	for {
		sel, err := m.selectAccount("Select an account (enter the number): ", len(accts))
		if err != nil {
			return err
		}
		amount, err := m.promptAmount("Enter deposit amount: ")
		if err != nil {
			return err
		}
		a, err := m.sess.Deposit(customerID, sel, amount)
		if errors.Is(err, bank.ErrInvalidAmount) {
			m.fail("Invalid deposit amount. Please enter a valid amount.")
			continue
		}
		m.report(err, fmt.Sprintf("Deposited %s into Account %d.", money(amount), a.Number))
		return nil
	}
}

func (m *Menu) withdraw() error {
	customerID, err := m.promptInt("Enter customer ID: ")
	if err != nil {
		return err
	}
	accts, ok := m.listAccounts(customerID)
	if !ok {
		return nil
	}
	for {
		sel, err := m.selectAccount("Select an account (enter the number): ", len(accts))
		if err != nil {
			return err
		}
		amount, err := m.promptAmount("Enter withdrawal amount: ")
		if err != nil {
			return err
		}
		a, err := m.sess.Withdraw(customerID, sel, amount)
		switch {
		case errors.Is(err, bank.ErrInvalidAmount):
			m.fail("Invalid withdrawal amount. Please enter a valid amount.")
			continue
		case errors.Is(err, bank.ErrInsufficientFunds):
			m.fail("Insufficient funds. Please enter a valid amount.")
			continue
		}
		m.report(err, fmt.Sprintf("Withdrew %s from Account %d.", money(amount), a.Number))
		return nil
	}
}

func (m *Menu) transfer() error {
	senderID, err := m.promptInt("Enter your customer ID: ")
	if err != nil {
		return err
	}
	recipientID, err := m.promptInt("Enter recipient's customer ID: ")
	if err != nil {
		return err
	}
	sender, err := m.sess.Customer(senderID)
	if err != nil {
		m.fail("Customer not found.")
		return nil
	}
	recipient, err := m.sess.Customer(recipientID)
	if err != nil {
		m.fail("Customer not found.")
		return nil
	}

	m.println(fmt.Sprintf("Accounts for %s:", sender))
	fromAccts, ok := m.listAccounts(senderID)
	if !ok {
		return nil
	}
	for {
		fromSel, err := m.selectAccount("Select an account to transfer from (enter the number): ", len(fromAccts))
		if err != nil {
			return err
		}
		amount, err := m.promptAmount("Enter transfer amount: ")
		if err != nil {
			return err
		}
		// 先檢查金額，避免在選擇收款帳戶後才失敗
		src := fromAccts[fromSel-1]
		if !amount.IsPositive() || amount.GreaterThan(src.Balance) {
			m.fail("Invalid transfer amount. Please enter a valid amount.")
			continue
		}

		m.println(fmt.Sprintf("Accounts for %s:", recipient))
		toAccts, ok := m.listAccounts(recipientID)
		if !ok {
			return nil
		}
		toSel, err := m.selectAccount("Select an account to transfer to (enter the number): ", len(toAccts))
		if err != nil {
			return err
		}

		from, to, err := m.sess.Transfer(senderID, recipientID, fromSel, toSel, amount)
		switch {
		case errors.Is(err, bank.ErrSameAccount):
			m.fail("Cannot transfer to the same account.")
			continue
		case errors.Is(err, bank.ErrInvalidAmount), errors.Is(err, bank.ErrInsufficientFunds):
			m.fail("Invalid transfer amount. Please enter a valid amount.")
			continue
		}
		m.report(err, fmt.Sprintf("Transferred %s from Account %d to Account %d.", money(amount), from.Number, to.Number))
		return nil
	}
}

func (m *Menu) display() {
	for c, accts := range m.sess.ListAll() {
		m.println(fmt.Sprintf("%s:", c))
		for _, a := range accts {
			m.println(fmt.Sprintf("Account %d (%s): %s", a.Number, a.Type, money(a.Balance)))
		}
	}
}

// listAccounts 列出客戶帳戶；客戶不存在或沒有帳戶時回傳 false。
func (m *Menu) listAccounts(customerID int) ([]bank.Account, bool) {
	accts, err := m.sess.Accounts(customerID)
	if err != nil {
		m.fail("Customer not found.")
		return nil, false
	}
	if len(accts) == 0 {
		m.fail("No accounts found for this customer.")
		return nil, false
	}
	for i, a := range accts {
		m.println(fmt.Sprintf("%d. Account %d (%s): %s", i+1, a.Number, a.Type, money(a.Balance)))
	}
	return accts, true
}

func (m *Menu) selectAccount(label string, n int) (int, error) {
	for {
		sel, err := m.promptInt(label)
		if err != nil {
			return 0, err
		}
		if sel >= 1 && sel <= n {
			return sel, nil
		}
		m.fail("Invalid account selection. Please enter a valid account number.")
	}
}

// report 輸出成功訊息；若僅持久化失敗，變更仍有效但提示使用者。
func (m *Menu) report(err error, success string) {
	switch {
	case err == nil:
		m.println(m.st.ok.Render(success))
	case errors.Is(err, session.ErrPersist):
		m.println(m.st.ok.Render(success))
		m.fail(fmt.Sprintf("Warning: changes could not be saved: %v", err))
	default:
		m.fail(err.Error())
	}
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.writer, m.st.prompt.Render(label))
	line, err := m.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (m *Menu) promptInt(label string) (int, error) {
	for {
		s, err := m.prompt(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil {
			return n, nil
		}
		m.fail("Please enter a whole number.")
	}
}

func (m *Menu) promptAmount(label string) (decimal.Decimal, error) {
	for {
		s, err := m.prompt(label)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err == nil {
			return d, nil
		}
		m.fail("Please enter a valid number.")
	}
}

func (m *Menu) println(a ...any) {
	fmt.Fprintln(m.writer, a...)
}

func (m *Menu) fail(msg string) {
	m.println(m.st.errMsg.Render(msg))
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func eofOK(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
