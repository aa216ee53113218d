package fileutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.senan.xyz/songfetch/fileutil"
)

func TestSafePath(t *testing.T) {
	assert.Equal(t, "hello", fileutil.SafePath("hello"))
	assert.Equal(t, "hello_", fileutil.SafePath("hello/"))
	assert.Equal(t, "hello_a", fileutil.SafePath("hello/a"))
	assert.Equal(t, "hello_a", fileutil.SafePath(`hello\a`))
	assert.Equal(t, "hello", fileutil.SafePath("hel\x00lo"))
	assert.Equal(t, "AC_DC", fileutil.SafePath("AC/DC"))
	assert.Equal(t, "4_44", fileutil.SafePath("4:44"))
	assert.Equal(t, "a _ b _ c", fileutil.SafePath(`a / b : c`))
}
