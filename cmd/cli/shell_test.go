package main

import (
	"bytes"
	"testing"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/audit"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/service/bank"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer, *bank.Bank) {
	t.Helper()
	color.NoColor = true
	sink := audit.NewMemorySink()
	b := bank.New(bank.WithRecorder(sink), bank.WithListeners(audit.NewListener(sink, nil)))
	var out bytes.Buffer
	return newShell(b, &out), &out, b
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"list", []string{"list"}},
		{`create checking "Alice Smith" 100 50`, []string{"create", "checking", "Alice Smith", "100", "50"}},
		{"  deposit\tabc   10 ", []string{"deposit", "abc", "10"}},
		{`create savings "" 0`, []string{"create", "savings", "", "0"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitArgs(tt.line), tt.line)
	}
}

func TestShell_Session(t *testing.T) {
	sh, out, b := newTestShell(t)

	assert.False(t, sh.exec(`create checking "Alice Smith" 100 50`))
	ids := b.AccountIDs()
	require.Len(t, ids, 1)
	id := ids[0]
	assert.Contains(t, out.String(), "Created CHECKING for Alice Smith: "+id)

	out.Reset()
	sh.exec("withdraw " + id + " 120")
	assert.Contains(t, out.String(), "Withdrew 120.00. "+id+" (Checking Account) balance: -20.00")

	out.Reset()
	sh.exec("withdraw " + id + " 100")
	assert.Contains(t, out.String(), "Error: insufficient funds")

	out.Reset()
	sh.exec("deposit " + id)
	assert.Contains(t, out.String(), "Error: wrong number of arguments")

	out.Reset()
	sh.exec("interest " + id)
	assert.Contains(t, out.String(), "Error: operation not supported by account")

	out.Reset()
	sh.exec("history")
	assert.Contains(t, out.String(), "Withdrawal: Account "+id)

	out.Reset()
	sh.exec("frobnicate")
	assert.Contains(t, out.String(), `unknown command "frobnicate"`)

	assert.True(t, sh.exec("quit"))
}

func TestShell_Demo(t *testing.T) {
	sh, out, b := newTestShell(t)
	assert.False(t, sh.exec("demo"))

	assert.Equal(t, 3, b.Count())
	text := out.String()
	assert.Contains(t, text, "(Checking Account) balance: -100.00")
	assert.Contains(t, text, "(Savings Account) balance: 1669.50")
	assert.Contains(t, text, "(Checking Account with Overdraft Protection) balance: -200.00")
	assert.Contains(t, text, "rejected: insufficient funds")
}
