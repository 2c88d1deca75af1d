// Package commands contains the single-use operation objects the bank runs
// against accounts. Each one mutates an account and appends a line
// describing the outcome to a shared Recorder.
package commands

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// ErrAlreadyExecuted is returned when a command is executed twice.
var ErrAlreadyExecuted = errors.New("command already executed")

// Command is an operation bound to its target and amount.
type Command interface {
	Execute() error
}

// Recorder is the append-only sink that receives transaction lines.
type Recorder interface {
	Append(line string) error
}

type once struct {
	done    atomic.Bool
	changed atomic.Bool
}

func (o *once) claim() error {
	if o.done.Swap(true) {
		return ErrAlreadyExecuted
	}
	return nil
}

// Applied reports whether Execute changed the balance, even if it also
// returned an error from a listener or the recorder.
func (o *once) Applied() bool { return o.changed.Load() }

func (o *once) mark(err error) bool {
	ok := applied(err)
	o.changed.Store(ok)
	return ok
}

// applied reports whether err still left the balance changed.
func applied(err error) bool {
	return err == nil || errors.Is(err, account.ErrNotification)
}

func record(rec Recorder, opErr error, format string, args ...any) error {
	if rec == nil {
		return opErr
	}
	if err := rec.Append(fmt.Sprintf(format, args...)); err != nil {
		return errors.Join(opErr, fmt.Errorf("record transaction: %w", err))
	}
	return opErr
}

func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}
