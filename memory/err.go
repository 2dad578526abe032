package memory

import (
	"errors"

	"github.com/ezrec/rm16/translate"
)

var f = translate.From

var (
	ErrAddressRange = errors.New(f("address out of range"))
)

// ErrAddress reports the first byte of an access that fell outside the memory.
type ErrAddress struct {
	Address uint32
	Size    int
}

func (err *ErrAddress) Error() string {
	return f("%v: 0x%05X beyond 0x%05X", ErrAddressRange, err.Address, uint32(err.Size))
}

func (err *ErrAddress) Is(target error) bool {
	return target == ErrAddressRange
}
