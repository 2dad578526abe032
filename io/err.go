package io

import (
	"errors"

	"github.com/ezrec/rm16/translate"
)

var f = translate.From

var (
	ErrSinkFull = errors.New(f("sink full"))
	ErrNoOutput = errors.New(f("teletype has no output"))
)
