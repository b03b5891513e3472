package emulator

import (
	"errors"

	"github.com/ezrec/comp/translate"
)

var f = translate.From

var (
	ErrRunning = errors.New(f("edit refused while running"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint8 // Program counter of the failing instruction.
	LineNo int   // Source line, if the program was assembled.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d pc %d %v", err.LineNo, err.Pc, err.Err)
	}
	return f("pc %d %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
