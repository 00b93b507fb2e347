package mimetype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/illuscio-dev/spanrender-go/mimetype"
)

func TestHasHeader(test *testing.T) {
	assert := assert.New(test)

	assert.True(mimetype.JSON.HasHeader())
	assert.True(mimetype.TEXT.HasHeader())
	assert.True(mimetype.MimeType("text/csv").HasHeader())
	assert.False(mimetype.NONE.HasHeader())
}

func TestExactEquality(test *testing.T) {
	assert := assert.New(test)

	// Tags compare by exact string equality only.
	assert.NotEqual(mimetype.JSON, mimetype.MimeType("application/JSON"))
	assert.Equal(mimetype.JSON, mimetype.MimeType("application/json"))
}
