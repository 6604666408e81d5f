package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignExtend16(t *testing.T) {
	assert.Equal(t, int32(0), SignExtend16(0))
	assert.Equal(t, int32(1), SignExtend16(0x0001))
	assert.Equal(t, int32(32767), SignExtend16(0x7fff))
	assert.Equal(t, int32(-32768), SignExtend16(0x8000))
	assert.Equal(t, int32(-1), SignExtend16(0xffff))

	for v := 0; v <= 0xffff; v++ {
		assert.Equal(t, int32(int16(v)), SignExtend16(uint16(v)))
	}
}
