package encoding

import (
	"bytes"
	"reflect"

	uuid "github.com/satori/go.uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/spanrender-go/mimetype"
)

// BsonListSepString is a delimiter for top-level bson lists, which bson does
// not normally support. When multiple documents are rendered into a single
// body, the unicode SYMBOL FOR RECORD SEPARATOR is used.
// (http://fileformat.info/info/unicode/char/241e/index.htm)
const BsonListSepString = "␞"

// BsonListSepBytes is a byte representation of BsonListSepString.
var BsonListSepBytes = []byte(BsonListSepString)

// BsonCodecOpts holds options for registering new BSON codecs with a
// Registry.
type BsonCodecOpts struct {
	// Type this codec handles encoding to.
	ValueType reflect.Type

	// Codec to register for this type.
	Codec bsoncodec.ValueCodec
}

var defaultBsonCodecs = []*BsonCodecOpts{
	{
		ValueType: reflect.TypeOf(uuid.UUID{}),
		Codec:     bsonCodecUUID{},
	},
}

// bsonCodecUUID handles encoding and decoding of UUID to and from bson.
type bsonCodecUUID struct{}

// Encodes uuid value to bson.
func (codec bsonCodecUUID) EncodeValue(
	encodeCTX bsoncodec.EncodeContext,
	valueWriter bsonrw.ValueWriter,
	value reflect.Value,
) error {
	valueUUID, _ := value.Interface().(uuid.UUID)
	_ = valueWriter.WriteBinaryWithSubtype(valueUUID.Bytes(), 0x3)

	return nil
}

// Decodes uuid value from bson.
func (codec bsonCodecUUID) DecodeValue(
	decodeCTX bsoncodec.DecodeContext,
	valueReader bsonrw.ValueReader,
	value reflect.Value,
) error {
	bytesUUID, _, _ := valueReader.ReadBinary()
	uuidVal, err := uuid.FromBytes(bytesUUID)

	if err != nil {
		return err
	}

	value.Set(reflect.ValueOf(uuidVal))

	return nil
}

// BSONRegistry returns the internal bsoncodec.Registry used by encoders
// registered through RegisterBSON.
func (registry *Registry) BSONRegistry() *bsoncodec.Registry {
	return registry.bsonRegistry
}

// AddBSONCodecs adds BSON codecs for use when encoding bson bodies. Like
// Register, this is a startup-time operation.
func (registry *Registry) AddBSONCodecs(codecs []*BsonCodecOpts) error {
	// Store these codecs in case more are added by the end user and we need
	// to rebuild the bson registry.
	registry.bsonCodecs = append(registry.bsonCodecs, codecs...)

	builder := bsoncodec.NewRegistryBuilder()
	bsoncodec.DefaultValueEncoders{}.RegisterDefaultEncoders(builder)
	bsoncodec.DefaultValueDecoders{}.RegisterDefaultDecoders(builder)

	for _, codecOpts := range registry.bsonCodecs {
		builder.RegisterCodec(codecOpts.ValueType, codecOpts.Codec)
	}

	// Build the bson registry.
	registry.bsonRegistry = builder.Build()

	// Now redeclare the json extension for bson raw with this registry so it
	// has access to any additional codecs.
	err := registry.jsonHandle.SetInterfaceExt(
		reflect.TypeOf(bson.Raw{}),
		1,
		&jsonExtBsonRaw{registry.bsonRegistry},
	)
	if err != nil {
		return xerrors.Errorf(
			"error building bson extension for json handle: %w", err,
		)
	}

	return nil
}

// Renders a single document.
func encodeBsonSingle(
	registry *Registry, buffer *bytes.Buffer, content interface{},
) error {
	var bodyBSON bson.Raw

	incomingRaw, isRaw := content.(*bson.Raw)

	if !isRaw {
		marshalled, err := bson.MarshalWithRegistry(registry.bsonRegistry, content)
		if err != nil {
			return err
		}
		bodyBSON = marshalled
	} else {
		bodyBSON = *incomingRaw
	}

	_, err := buffer.Write(bodyBSON)
	return err
}

// Renders a slice or array of documents into a single body, delimited by
// BsonListSepBytes.
func encodeBsonMany(
	registry *Registry, buffer *bytes.Buffer, content *reflect.Value,
) error {
	// We need to know when we are on the final index so if we hit the last
	// item we know that we don't need to write the separator.
	finalIndex := content.Len() - 1

	for arrayIndex := 0; arrayIndex <= finalIndex; arrayIndex++ {
		// We have to use reflect to grab the items since we don't know what
		// type they are.
		listValue := content.Index(arrayIndex)

		// Encode this single item.
		err := encodeBsonSingle(registry, buffer, listValue.Interface())
		if err != nil {
			return err
		}

		// Write the delimiter if we are not on the final item.
		if arrayIndex != finalIndex {
			_, err = buffer.Write(BsonListSepBytes)
			if err != nil {
				return xerrors.Errorf(
					"error writing document separator: %w", err,
				)
			}
		}
	}
	return nil
}

// Detects whether content to encode is a sequence (array or slice).
func isBsonSequence(value *reflect.Value) bool {
	return value.Kind() == reflect.Slice || value.Kind() == reflect.Array
}

// RegisterBSON registers an application/bson encoder for T backed by the
// registry's bsoncodec registry. Slice and array types are rendered as
// multiple documents delimited by BsonListSepBytes.
func RegisterBSON[T any](registry *Registry) {
	Register[T](registry, mimetype.BSON, func(value T) ([]byte, error) {
		buffer := &bytes.Buffer{}

		// Check if the value is a slice or an array, and that it is not a
		// raw document.
		var content interface{} = value
		contentValue := reflect.Indirect(reflect.ValueOf(content))
		_, isRaw := content.(*bson.Raw)

		var err error
		if isBsonSequence(&contentValue) && !isRaw {
			err = encodeBsonMany(registry, buffer, &contentValue)
		} else {
			err = encodeBsonSingle(registry, buffer, content)
		}

		if err != nil {
			return nil, xerrors.Errorf("error encoding bson content: %w", err)
		}
		return buffer.Bytes(), nil
	})
}
