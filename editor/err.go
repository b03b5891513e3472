package editor

import (
	"errors"

	"github.com/ezrec/comp/translate"
)

var f = translate.From

var (
	ErrRejected = errors.New(f("edit rejected"))
)
