package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareFlags(t *testing.T) {
	assert := assert.New(t)

	fl := CompareFlags(0, 5, 5)
	assert.True(fl.Zero())
	assert.False(fl.Carry())
	assert.False(fl.Sign())
	assert.False(fl.Overflow())

	fl = CompareFlags(0, 3, 5)
	assert.True(fl.Carry())
	assert.False(fl.Zero())

	fl = CompareFlags(0, 0x8000, 1)
	assert.True(fl.Overflow())
	assert.False(fl.Sign())
	assert.False(fl.Carry())

	// Reserved bits pass through.
	fl = CompareFlags(0x0200|FLAG_CF, 5, 3)
	assert.Equal(Flags(0x0200), fl)
}

func TestDecrementFlags(t *testing.T) {
	assert := assert.New(t)

	fl := DecrementFlags(FLAG_SF, 0)
	assert.Equal(FLAG_ZF, fl)

	fl = DecrementFlags(FLAG_CF|FLAG_OF|FLAG_ZF, 0xffff)
	assert.Equal(FLAG_CF|FLAG_OF|FLAG_SF, fl)
}

func TestFlags_Conditions(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		flags   Flags
		less    bool
		greater bool
	}){
		{0, false, true},
		{FLAG_SF, true, false},
		{FLAG_OF, true, false},
		{FLAG_SF | FLAG_OF, false, true},
		{FLAG_ZF, false, false},
		{FLAG_ZF | FLAG_SF, true, false},
		{FLAG_ZF | FLAG_OF, true, false},
		{FLAG_ZF | FLAG_SF | FLAG_OF, false, false},
	}

	for _, entry := range table {
		assert.Equal(entry.less, entry.flags.Less(), entry.flags.String())
		assert.Equal(entry.greater, entry.flags.Greater(), entry.flags.String())
	}
}

func TestFlags_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("-", Flags(0).String())
	assert.Equal("-", Flags(0xf000).String())
	assert.Equal("cf zf sf of", FLAG_MASK.String())
	assert.Equal("zf", Flags(0).With(FLAG_ZF, true).String())
	assert.Equal(Flags(0), FLAG_ZF.With(FLAG_ZF, false))
}
