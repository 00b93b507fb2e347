package encoding_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/illuscio-dev/spanrender-go/encoding"
	"github.com/illuscio-dev/spanrender-go/mimetype"
	"github.com/illuscio-dev/spanrender-go/rendertypes"
)

func TestBuiltinString(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoder, err := encoding.Resolve[string](registry)
	assert.Nil(err)
	assert.Equal(mimetype.TEXT, encoder.MimeType())

	encoded, err := encoder.Encode("hello")
	assert.Nil(err)
	assert.Equal([]byte("hello"), encoded)
}

func TestBuiltinErrorMessage(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoder, err := encoding.Resolve[error](registry)
	assert.Nil(err)
	assert.Equal(mimetype.TEXT, encoder.MimeType())

	encoded, err := encoder.Encode(&testError{message: "boom"})
	assert.Nil(err)
	assert.Equal("boom", string(encoded))
}

func TestBuiltinErrorEmptyMessage(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoder, err := encoding.Resolve[error](registry)
	assert.Nil(err)

	encoded, err := encoder.Encode(&testError{})
	assert.Nil(err)
	assert.Equal("", string(encoded))
}

func TestBuiltinUnit(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoder, err := encoding.Resolve[rendertypes.Unit](registry)
	assert.Nil(err)
	assert.Equal(mimetype.NONE, encoder.MimeType())

	encoded, err := encoder.Encode(rendertypes.Unit{})
	assert.Nil(err)
	assert.Empty(encoded)
}

func TestBuiltinBinDataPassthrough(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoder, err := encoding.Resolve[rendertypes.BinData](registry)
	assert.Nil(err)
	assert.Equal(mimetype.NONE, encoder.MimeType())

	payload := rendertypes.BinData{0x0, 0x1, 0xFF}
	encoded, err := encoder.Encode(payload)
	assert.Nil(err)
	assert.Equal([]byte(payload), encoded)
}
