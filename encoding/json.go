package encoding

import (
	"bytes"
	"encoding/hex"
	"reflect"

	uuid "github.com/satori/go.uuid"
	"github.com/ugorji/go/codec"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/spanrender-go/mimetype"
	"github.com/illuscio-dev/spanrender-go/rendertypes"
)

// JSONExtensionOpts holds options for a json handle extension to add to the
// handle on registry setup.
type JSONExtensionOpts struct {
	ValueType    reflect.Type
	ExtInterface codec.InterfaceExt
}

// defaultJSONExtensions holds all the JSONExtensionOpts added to the json
// handle on registry setup.
var defaultJSONExtensions = []*JSONExtensionOpts{
	{
		ValueType:    reflect.TypeOf(primitive.Binary{}),
		ExtInterface: &jsonExtBsonBinary{},
	},
	{
		ValueType:    reflect.TypeOf(rendertypes.BinData{}),
		ExtInterface: &jsonExtBinData{},
	},
}

// Converts BSON binary fields to json. Currently supports Binary blobs and
// UUIDs.
type jsonExtBsonBinary struct{}

func (ext *jsonExtBsonBinary) ConvertExt(value interface{}) interface{} {
	valueBin := value.(*primitive.Binary)
	if valueBin.Subtype == 0x3 {
		valueUUID, err := uuid.FromBytes(valueBin.Data)
		if err != nil {
			panic(xerrors.Errorf("error converting bson uuid: %w", err))
		}
		return valueUUID
	}

	if valueBin.Subtype == 0x0 {
		return rendertypes.BinData(valueBin.Data)
	}

	panic(xerrors.New("unsupported Binary BSON format"))
}

func (ext *jsonExtBsonBinary) UpdateExt(dest interface{}, value interface{}) {
	panic(
		xerrors.New(
			"decoding to bson binary field not supported -- " +
				"use uuid or BinData type as intermediary",
		),
	)
}

// Represents raw binary blobs as hex strings in json.
type jsonExtBinData struct{}

func (ext *jsonExtBinData) ConvertExt(value interface{}) interface{} {
	valueBin := value.(*rendertypes.BinData)
	return hex.EncodeToString(*valueBin)
}

func (ext *jsonExtBinData) UpdateExt(dest interface{}, value interface{}) {
	panic(xerrors.New("decoding to BinData field not supported"))
}

// Converts a BSON Raw document to a json object.
type jsonExtBsonRaw struct {
	bsonRegistry *bsoncodec.Registry
}

func (ext *jsonExtBsonRaw) ConvertExt(value interface{}) interface{} {
	valueRaw := value.(bson.Raw)

	unmarshaled := make(map[string]interface{})

	if len(valueRaw) > 0 {
		err := bson.UnmarshalWithRegistry(
			ext.bsonRegistry, valueRaw, &unmarshaled,
		)
		if err != nil {
			panic(xerrors.Errorf(
				"error while unmarshalling bson for encoding: %w", err,
			))
		}
	}

	return unmarshaled
}

func (ext *jsonExtBsonRaw) UpdateExt(dest interface{}, value interface{}) {
	panic(xerrors.New("decoding to BSON raw field not supported"))
}

// JSONHandle returns the codec handle backing encoders registered through
// RegisterJSON.
func (registry *Registry) JSONHandle() *codec.JsonHandle {
	return registry.jsonHandle
}

// AddJSONExtensions adds json extensions to the handle. Like Register, this
// is a startup-time operation.
func (registry *Registry) AddJSONExtensions(extensions []*JSONExtensionOpts) error {
	for _, extOpts := range extensions {
		err := registry.jsonHandle.SetInterfaceExt(
			extOpts.ValueType, 1, extOpts.ExtInterface,
		)
		if err != nil {
			return xerrors.Errorf(
				"error adding json extension to registry: %w", err,
			)
		}
	}
	return nil
}

// RegisterJSON registers an application/json encoder for T backed by the
// registry's json handle, picking up all registered json extensions.
func RegisterJSON[T any](registry *Registry) {
	Register[T](registry, mimetype.JSON, func(value T) ([]byte, error) {
		buffer := &bytes.Buffer{}
		jsonEncoder := codec.NewEncoder(buffer, registry.jsonHandle)
		if err := jsonEncoder.Encode(value); err != nil {
			return nil, xerrors.Errorf("error encoding json content: %w", err)
		}
		return buffer.Bytes(), nil
	})
}
