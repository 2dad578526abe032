package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]int{"a": 1}
	second := map[string]int{"b": 2, "c": 3}

	seen := map[string]int{}
	for key, value := range IterSeq2Concat(maps.All(first), maps.All(second)) {
		seen[key] = value
	}
	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, seen)

	count := 0
	for range IterSeq2Concat(maps.All(first), maps.All(second)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeq2Collect(t *testing.T) {
	assert := assert.New(t)

	defaults := map[string]string{"ORIGIN": "0x2000", "SIZE": "0x100"}
	override := map[string]string{"SIZE": "0x200"}

	out := IterSeq2Collect(IterSeq2Concat(maps.All(defaults), maps.All(override)))
	assert.Equal(map[string]string{"ORIGIN": "0x2000", "SIZE": "0x200"}, out)

	assert.Empty(IterSeq2Collect(IterSeq2Concat[string, string]()))
}
