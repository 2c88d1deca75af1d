package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/interest"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/service/bank"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

const usage = `Commands:
  create <CHECKING|SAVINGS> <owner> <initial> [overdraft_limit|rate]
  deposit <id> <amount>
  withdraw <id> <amount>
  transfer <from> <to> <amount>
  interest <id>
  policy <id> <SIMPLE|HIGH_YIELD>
  protect <id> <limit>
  balance <id>
  list
  history
  demo
  quit`

var errUsage = errors.New("wrong number of arguments")

type shell struct {
	bank *bank.Bank
	out  io.Writer
	ok   *color.Color
	bad  *color.Color
	dim  *color.Color
}

func newShell(b *bank.Bank, out io.Writer) *shell {
	return &shell{
		bank: b,
		out:  out,
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed, color.Bold),
		dim:  color.New(color.FgHiBlack),
	}
}

// exec runs one command line and reports whether the shell should exit.
func (s *shell) exec(line string) bool {
	return s.execArgs(splitArgs(line))
}

func (s *shell) execArgs(args []string) bool {
	if len(args) == 0 {
		return false
	}
	cmd, args := strings.ToLower(args[0]), args[1:]
	var err error
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(s.out, usage)
	case "create":
		err = s.create(args)
	case "deposit":
		err = s.amountOp(args, s.bank.Deposit, "Deposited")
	case "withdraw":
		err = s.amountOp(args, s.bank.Withdraw, "Withdrew")
	case "transfer":
		err = s.transfer(args)
	case "interest":
		err = s.interest(args)
	case "policy":
		err = s.policy(args)
	case "protect":
		err = s.protect(args)
	case "balance":
		err = s.balance(args)
	case "list":
		s.list()
	case "history":
		err = s.history()
	case "demo":
		err = s.demo()
	default:
		err = fmt.Errorf("unknown command %q, type help", cmd)
	}
	if err != nil {
		s.bad.Fprintln(s.out, "Error:", err)
	}
	return false
}

// splitArgs splits on whitespace, keeping double-quoted text together.
func splitArgs(line string) []string {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		args = append(args, cur.String())
	}
	return args
}

func (s *shell) create(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return errUsage
	}
	initial, err := decimal.NewFromString(args[2])
	if err != nil {
		return err
	}
	var params []decimal.Decimal
	if len(args) == 4 {
		p, err := decimal.NewFromString(args[3])
		if err != nil {
			return err
		}
		params = append(params, p)
	}
	id, err := s.bank.CreateAccount(account.ParseKind(args[0]), args[1], initial, params...)
	if err != nil {
		return err
	}
	s.ok.Fprintf(s.out, "Created %s for %s: %s\n", strings.ToUpper(args[0]), args[1], id)
	return nil
}

func (s *shell) amountOp(args []string, op func(string, decimal.Decimal) error, verb string) error {
	if len(args) != 2 {
		return errUsage
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return err
	}
	if err := op(args[0], amount); err != nil {
		return err
	}
	return s.report(args[0], fmt.Sprintf("%s %s.", verb, amount.StringFixed(2)))
}

func (s *shell) transfer(args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	amount, err := decimal.NewFromString(args[2])
	if err != nil {
		return err
	}
	if err := s.bank.Transfer(args[0], args[1], amount); err != nil {
		return err
	}
	s.ok.Fprintf(s.out, "Transferred %s from %s to %s.\n", amount.StringFixed(2), args[0], args[1])
	return nil
}

func (s *shell) interest(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	amount, err := s.bank.CalculateInterest(args[0])
	if err != nil {
		return err
	}
	return s.report(args[0], fmt.Sprintf("Interest %s credited.", amount.StringFixed(2)))
}

func (s *shell) policy(args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	if err := s.bank.SetInterestPolicyByName(args[0], interest.Kind(args[1])); err != nil {
		return err
	}
	s.ok.Fprintf(s.out, "Policy of %s set to %s.\n", args[0], strings.ToUpper(args[1]))
	return nil
}

func (s *shell) protect(args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	limit, err := decimal.NewFromString(args[1])
	if err != nil {
		return err
	}
	if err := s.bank.EnableOverdraftProtection(args[0], limit); err != nil {
		return err
	}
	return s.report(args[0], "Overdraft protection enabled.")
}

func (s *shell) balance(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	return s.report(args[0], "")
}

func (s *shell) report(id, prefix string) error {
	bal, err := s.bank.Balance(id)
	if err != nil {
		return err
	}
	desc, err := s.bank.AccountType(id)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("%s (%s) balance: %s", id, desc, bal.StringFixed(2))
	if prefix != "" {
		msg = prefix + " " + msg
	}
	s.ok.Fprintln(s.out, msg)
	return nil
}

func (s *shell) list() {
	accs := s.bank.Accounts()
	if len(accs) == 0 {
		s.dim.Fprintln(s.out, "No accounts.")
		return
	}
	for _, acc := range accs {
		fmt.Fprintf(s.out, "%s  %-45s %-20s %12s\n", acc.ID(), acc.Description(), acc.Owner(), acc.Balance().StringFixed(2))
	}
}

func (s *shell) history() error {
	lines, err := s.bank.History()
	if err != nil {
		return err
	}
	for _, l := range lines {
		s.dim.Fprintln(s.out, l)
	}
	return nil
}

// demo replays a sample session on fresh accounts.
func (s *shell) demo() error {
	d := decimal.RequireFromString
	alice := s.bank.MustCreateAccount(account.KindChecking, "Alice Smith", d("1000"), d("500"))
	bob := s.bank.MustCreateAccount(account.KindSavings, "Bob Johnson", d("2000"), d("0.05"))

	steps := []struct {
		desc string
		run  func() error
	}{
		{"Alice deposits 200", func() error { return s.bank.Deposit(alice, d("200")) }},
		{"Bob deposits 500", func() error { return s.bank.Deposit(bob, d("500")) }},
		{"Alice withdraws 300", func() error { return s.bank.Withdraw(alice, d("300")) }},
		{"Bob withdraws 1000", func() error { return s.bank.Withdraw(bob, d("1000")) }},
		{"Alice withdraws 1000 using her overdraft", func() error { return s.bank.Withdraw(alice, d("1000")) }},
	}
	for _, st := range steps {
		s.dim.Fprintln(s.out, "> "+st.desc)
		if err := st.run(); err != nil {
			s.bad.Fprintln(s.out, "  rejected:", err)
		}
	}

	charlie := s.bank.MustCreateAccount(account.KindChecking, "Charlie Brown", d("500"), d("0"))
	if err := s.bank.EnableOverdraftProtection(charlie, d("200")); err != nil {
		return err
	}
	for _, amt := range []string{"600", "200", "100"} {
		s.dim.Fprintf(s.out, "> Charlie withdraws %s with protection\n", amt)
		if err := s.bank.Withdraw(charlie, d(amt)); err != nil {
			s.bad.Fprintln(s.out, "  rejected:", err)
		}
	}

	s.dim.Fprintln(s.out, "> Bob earns simple interest, then switches to high yield")
	if _, err := s.bank.CalculateInterest(bob); err != nil {
		return err
	}
	if err := s.bank.SetInterestPolicyByName(bob, interest.KindHighYield); err != nil {
		return err
	}
	if _, err := s.bank.CalculateInterest(bob); err != nil {
		return err
	}

	for _, id := range []string{alice, bob, charlie} {
		if err := s.report(id, ""); err != nil {
			return err
		}
	}
	return nil
}
