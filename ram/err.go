package ram

import (
	"github.com/ezrec/comp/translate"
)

var f = translate.From

// ErrLoad indicates an image that could not be loaded.
type ErrLoad struct {
	Path string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("load %v: %v", err.Path, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}
