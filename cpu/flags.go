package cpu

import (
	"strings"
)

// Flags is the FLAGS register.
type Flags uint16

// Defined status bits. All other bits are preserved as-is.
const (
	FLAG_CF   = Flags(1 << 0)  // Carry (unsigned borrow).
	FLAG_ZF   = Flags(1 << 6)  // Zero.
	FLAG_SF   = Flags(1 << 7)  // Sign.
	FLAG_OF   = Flags(1 << 11) // Signed overflow.
	FLAG_MASK = FLAG_CF | FLAG_ZF | FLAG_SF | FLAG_OF
)

const signBit = 0x8000

// Carry returns the state of CF.
func (fl Flags) Carry() bool {
	return fl&FLAG_CF != 0
}

// Zero returns the state of ZF.
func (fl Flags) Zero() bool {
	return fl&FLAG_ZF != 0
}

// Sign returns the state of SF.
func (fl Flags) Sign() bool {
	return fl&FLAG_SF != 0
}

// Overflow returns the state of OF.
func (fl Flags) Overflow() bool {
	return fl&FLAG_OF != 0
}

// With returns the flags with the mask bits set or cleared.
func (fl Flags) With(mask Flags, set bool) Flags {
	if set {
		return fl | mask
	}
	return fl &^ mask
}

// String lists the defined flags that are set, or "-" if none.
func (fl Flags) String() string {
	var names []string
	for _, bit := range []struct {
		mask Flags
		name string
	}{
		{FLAG_CF, "cf"},
		{FLAG_ZF, "zf"},
		{FLAG_SF, "sf"},
		{FLAG_OF, "of"},
	} {
		if fl&bit.mask != 0 {
			names = append(names, bit.name)
		}
	}

	if len(names) == 0 {
		return "-"
	}

	return strings.Join(names, " ")
}

// CompareFlags computes the flags for a - b, as set by CMP.
func CompareFlags(flags Flags, a, b uint16) Flags {
	result := uint32(a) - uint32(b)
	r := uint16(result)

	flags &^= FLAG_MASK

	flags = flags.With(FLAG_ZF, r == 0)
	flags = flags.With(FLAG_SF, r&signBit != 0)
	flags = flags.With(FLAG_CF, a < b)
	flags = flags.With(FLAG_OF, (a^b)&signBit != 0 && (a^r)&signBit != 0)

	return flags
}

// DecrementFlags computes the flags after a decrement produced value.
// Only ZF and SF are affected.
func DecrementFlags(flags Flags, value uint16) Flags {
	flags &^= FLAG_ZF | FLAG_SF

	flags = flags.With(FLAG_ZF, value == 0)
	flags = flags.With(FLAG_SF, value&signBit != 0)

	return flags
}

// Less is the JL condition: SF != OF.
func (fl Flags) Less() bool {
	return fl.Sign() != fl.Overflow()
}

// Greater is the JG condition: ZF clear and SF == OF.
func (fl Flags) Greater() bool {
	return !fl.Zero() && fl.Sign() == fl.Overflow()
}
