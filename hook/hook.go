package hook

import "github.com/pkg/errors"

// Interface is a guarded unit of work: Try does the work, Catch maps its
// error, and Finally always runs last, after a panic too.
type Interface interface {
	Try() error
	Catch(err error) error
	Finally()
}

// Funcs adapts plain functions to Interface. Nil fields are no-ops; a nil
// CatchFunc returns the error unchanged.
type Funcs struct {
	TryFunc     func() error
	CatchFunc   func(error) error
	FinallyFunc func()
}

func (f Funcs) Try() error {
	if f.TryFunc == nil {
		return nil
	}
	return f.TryFunc()
}

func (f Funcs) Catch(err error) error {
	if f.CatchFunc == nil {
		return err
	}
	return f.CatchFunc(err)
}

func (f Funcs) Finally() {
	if f.FinallyFunc != nil {
		f.FinallyFunc()
	}
}

// ErrPanic is wrapped by the error Call returns when Try panics.
var ErrPanic = errors.New("panic occurred during hook execution")

// Call runs hook.Try, passes a failure through hook.Catch and runs
// hook.Finally before returning. A panic in Try is recovered and handed to
// Catch as an error wrapping ErrPanic.
func Call(hook Interface) (err error) {
	if hook == nil {
		return errors.New("hook cannot be nil")
	}

	defer hook.Finally()

	tryErr := try(hook)
	if tryErr != nil {
		err = hook.Catch(tryErr)
		return err
	}

	return nil
}

func try(hook Interface) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrPanic, "%v", r)
		}
	}()
	return hook.Try()
}
