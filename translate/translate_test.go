package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLocale(t *testing.T) {
	assert := assert.New(t)

	saved := Locale()
	defer SetLocale(saved.String())

	assert.NoError(SetLocale("en-US"))
	assert.Equal("en-US", Locale().String())
	assert.Equal("line 12 ok", From("line %d %v", 12, "ok"))
	assert.Equal("0x0FFEF", From("0x%05X", 0xffef))

	assert.Error(SetLocale("not a locale!"))
	assert.Equal("en-US", Locale().String())
}
