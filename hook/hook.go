// Package hook runs a unit of work with panic recovery and optional error
// and cleanup handlers.
package hook

import (
	"github.com/pkg/errors"
)

var ErrPanicked = errors.New("panic during hook execution")

// Interface is a try/catch/finally triple.
type Interface interface {
	Try() error
	// Catch sees the error of Try, panics included, and returns the error
	// Call reports.
	Catch(err error) error
	Finally()
}

// Func builds an Interface from plain functions. A nil CatchFn returns the
// error unchanged and a nil FinallyFn does nothing.
type Func struct {
	TryFn     func() error
	CatchFn   func(err error) error
	FinallyFn func()
}

func (f Func) Try() error {
	if f.TryFn == nil {
		return nil
	}
	return f.TryFn()
}

func (f Func) Catch(err error) error {
	if f.CatchFn == nil {
		return err
	}
	return f.CatchFn(err)
}

func (f Func) Finally() {
	if f.FinallyFn != nil {
		f.FinallyFn()
	}
}

// Call runs h. Finally always runs last.
func Call(h Interface) (err error) {
	if h == nil {
		return errors.New("hook cannot be nil")
	}
	defer h.Finally()

	if err = try(h); err != nil {
		return h.Catch(err)
	}
	return nil
}

func try(h Interface) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrPanicked, "%v", r)
		}
	}()
	return h.Try()
}
