package encoding_test

//revive:disable:import-shadowing reason: Disabled for assert := assert.New(), which is
// the preferred method of using multiple asserts in a test.

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"testing"

	"bou.ke/monkey"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/illuscio-dev/spanrender-go/encoding"
	"github.com/illuscio-dev/spanrender-go/mimetype"
	"github.com/illuscio-dev/spanrender-go/rendertypes"
)

func TestJSONEncode(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoding.RegisterJSON[Name](registry)

	encoder, err := encoding.ResolveTagged[Name](registry, mimetype.JSON)
	assert.Nil(err)

	encoded, err := encoder.Encode(Name{First: "Harry", Last: "Potter"})
	assert.Nil(err)

	test.Log("DUMPED:", string(encoded))

	loaded := make(map[string]string)
	assert.Nil(json.Unmarshal(encoded, &loaded))
	assert.Equal("Harry", loaded["First"])
	assert.Equal("Potter", loaded["Last"])
}

func TestJSONEncodeUUID(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	type Receiver struct {
		ID uuid.UUID
	}
	encoding.RegisterJSON[Receiver](registry)

	encoder, err := encoding.ResolveTagged[Receiver](registry, mimetype.JSON)
	assert.Nil(err)

	idValue := uuid.NewV4()
	encoded, err := encoder.Encode(Receiver{ID: idValue})
	assert.Nil(err)

	assert.Contains(string(encoded), idValue.String())
}

func TestBsonUUIDToJSON(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoding.RegisterJSON[bson.M](registry)

	encoder, err := encoding.ResolveTagged[bson.M](registry, mimetype.JSON)
	assert.Nil(err)

	idValue := uuid.NewV4()
	bsonUUID := primitive.Binary{Subtype: 0x3, Data: idValue.Bytes()}

	encoded, err := encoder.Encode(bson.M{"Id": bsonUUID})
	assert.Nil(err)

	test.Log("DUMPED:", string(encoded))
	assert.Contains(string(encoded), idValue.String())
}

func TestBinBlobToJSON(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	type Receiver struct {
		Data rendertypes.BinData
	}
	encoding.RegisterJSON[Receiver](registry)

	encoder, err := encoding.ResolveTagged[Receiver](registry, mimetype.JSON)
	assert.Nil(err)

	binData := rendertypes.BinData("Test Data.")
	encoded, err := encoder.Encode(Receiver{Data: binData})
	assert.Nil(err)

	test.Logf("DUMPED: %s", encoded)
	assert.Contains(string(encoded), hex.EncodeToString(binData))
}

func TestBSONEncode(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoding.RegisterBSON[Name](registry)

	encoder, err := encoding.ResolveTagged[Name](registry, mimetype.BSON)
	assert.Nil(err)

	data := Name{First: "Harry", Last: "Potter"}
	encoded, err := encoder.Encode(data)
	assert.Nil(err)

	loaded := Name{}
	assert.Nil(bson.Unmarshal(encoded, &loaded))
	assert.Equal(data, loaded)
}

func TestBSONEncodeUUID(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	type Receiver struct {
		Data uuid.UUID
	}
	encoding.RegisterBSON[Receiver](registry)

	encoder, err := encoding.ResolveTagged[Receiver](registry, mimetype.BSON)
	assert.Nil(err)

	idValue := uuid.NewV4()
	encoded, err := encoder.Encode(Receiver{Data: idValue})
	assert.Nil(err)

	loaded := make(map[string]interface{})
	assert.Nil(bson.Unmarshal(encoded, &loaded))

	loadedBin, ok := loaded["data"].(primitive.Binary)
	assert.True(ok)
	assert.Equal(byte(0x3), loadedBin.Subtype)
	assert.Equal(idValue.Bytes(), loadedBin.Data)
}

func TestBSONEncodeList(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoding.RegisterBSON[[]*Name](registry)

	encoder, err := encoding.ResolveTagged[[]*Name](registry, mimetype.BSON)
	assert.Nil(err)

	data := []*Name{
		{First: "Harry", Last: "Potter"},
		{First: "Ron", Last: "Weasley"},
	}

	encoded, err := encoder.Encode(data)
	assert.Nil(err)

	documents := bytes.Split(encoded, encoding.BsonListSepBytes)
	assert.Len(documents, 2)

	for index, document := range documents {
		loaded := &Name{}
		assert.Nil(bson.Unmarshal(document, loaded))
		assert.Equal(data[index], loaded)
	}
}

func TestYAMLEncode(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoding.RegisterYAML[Name](registry)

	encoder, err := encoding.ResolveTagged[Name](registry, mimetype.YAML)
	assert.Nil(err)

	encoded, err := encoder.Encode(Name{First: "Harry", Last: "Potter"})
	assert.Nil(err)
	assert.Equal("first: Harry\nlast: Potter\n", string(encoded))
}

func TestYAMLEncodeError(test *testing.T) {
	assert := assert.New(test)
	registry := createRegistry(test)

	encoding.RegisterYAML[Name](registry)

	encoder, err := encoding.ResolveTagged[Name](registry, mimetype.YAML)
	assert.Nil(err)

	mockMarshal := func(value interface{}) ([]byte, error) {
		return nil, xerrors.New("mock marshal error")
	}

	defer monkey.UnpatchAll()
	monkey.Patch(yaml.Marshal, mockMarshal)

	_, err = encoder.Encode(Name{First: "Harry", Last: "Potter"})
	assert.EqualError(err, "error encoding yaml content: mock marshal error")
}
