package encoding

import (
	"reflect"
	"sync"

	"github.com/ugorji/go/codec"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/spanrender-go/mimetype"
)

// Key for the (value type, mimetype) -> encoder mapping.
type registryKey struct {
	valueType reflect.Type
	mimeType  mimetype.MimeType
}

/*
BoundEncoder is the type-erased form of Encoder, used when the value's type is
only known at runtime (for instance by a response materializer handed a value
of any type). Every BoundEncoder is backed by a registry entry created through
Register.
*/
type BoundEncoder struct {
	valueType reflect.Type
	mimeType  mimetype.MimeType
	encode    func(value interface{}) ([]byte, error)
}

// The value type this encoder was registered for.
func (encoder *BoundEncoder) ValueType() reflect.Type {
	return encoder.valueType
}

// The mimetype tag stamped on every body this encoder produces.
func (encoder *BoundEncoder) MimeType() mimetype.MimeType {
	return encoder.mimeType
}

// Encode renders value to bytes. A panic inside the underlying encode
// function is caught and returned as an error.
func (encoder *BoundEncoder) Encode(value interface{}) (encoded []byte, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = xerrors.Errorf("panic during encode: %v", recovered)
		}
	}()

	return encoder.encode(value)
}

/*
Registry holds the process-wide (value type, mimetype) -> encoder mapping.

Instantiation

Use NewRegistry() to create a Registry pre-loaded with the built-in encoders:

• error -> text/plain (the error's message)

• string -> text/plain (the raw UTF-8 bytes)

• rendertypes.Unit -> no mimetype (empty body)

• rendertypes.BinData -> no mimetype (identity passthrough)

Lifecycle

Registration happens during process initialization on a single goroutine. The
first resolution freezes the registry: from that point on, all lookups are
read-only and require no synchronization, and further Register calls panic.
Registering two encoders for the same (value type, mimetype) pair also panics.

Interface keys

An encoder may be registered for an interface type (the built-in error
encoder is). Resolution prefers an exact match on the value's concrete type;
only when none exists are interface-keyed entries consulted, in registration
order, matching types that implement the interface. More than one match with
no explicit mimetype is an AmbiguousEncoderError.
*/
type Registry struct {
	// (valueType, mimeType) -> encoder mapping.
	entries map[registryKey]*BoundEncoder
	// valueType -> all encoders for that type, any mimetype.
	byType map[reflect.Type][]*BoundEncoder
	// Interface-keyed entries in registration order, consulted when no exact
	// type match exists.
	interfaceEntries []*BoundEncoder

	// Set by the first resolution. Register panics once this is true.
	frozen     bool
	freezeOnce sync.Once

	// JSON handle for the default JSON encoder backend.
	jsonHandle *codec.JsonHandle
	// BSON registry for the default BSON encoder backend.
	bsonRegistry *bsoncodec.Registry
	// BSON codecs registered so far, kept so the registry can be rebuilt when
	// more are added.
	bsonCodecs []*BsonCodecOpts
}

// Marks the registry read-only. Called by every resolution path.
func (registry *Registry) freeze() {
	registry.freezeOnce.Do(func() {
		registry.frozen = true
	})
}

// Whether the registry has been frozen by a resolution.
func (registry *Registry) Frozen() bool {
	return registry.frozen
}

// Adds a type-erased entry. All registration funnels through here so the
// frozen and duplicate checks live in one place.
func (registry *Registry) add(
	valueType reflect.Type,
	mimeType mimetype.MimeType,
	encode func(value interface{}) ([]byte, error),
) {
	if registry.frozen {
		panic(xerrors.Errorf(
			"encoder registration for %v after registry was frozen by first"+
				" resolution",
			valueType,
		))
	}
	if encode == nil {
		panic(xerrors.Errorf("nil encode function registered for %v", valueType))
	}

	key := registryKey{valueType: valueType, mimeType: mimeType}
	if _, exists := registry.entries[key]; exists {
		panic(xerrors.Errorf(
			"duplicate encoder registration for %v with mimetype %q",
			valueType,
			string(mimeType),
		))
	}

	bound := &BoundEncoder{
		valueType: valueType,
		mimeType:  mimeType,
		encode:    encode,
	}

	registry.entries[key] = bound
	registry.byType[valueType] = append(registry.byType[valueType], bound)
	if valueType.Kind() == reflect.Interface {
		registry.interfaceEntries = append(registry.interfaceEntries, bound)
	}
}

// Finds the single entry for valueType across all mimetypes.
func (registry *Registry) resolveType(valueType reflect.Type) (*BoundEncoder, error) {
	registry.freeze()

	candidates := registry.byType[valueType]
	if len(candidates) == 0 {
		candidates = registry.interfaceMatches(valueType, nil)
	}

	switch len(candidates) {
	case 0:
		return nil, &NoEncoderFoundError{ValueType: valueType}
	case 1:
		return candidates[0], nil
	default:
		return nil, &AmbiguousEncoderError{
			ValueType:  valueType,
			Candidates: candidateMimeTypes(candidates),
		}
	}
}

// Finds the entry for valueType under exactly mimeType.
func (registry *Registry) resolveTypeTagged(
	valueType reflect.Type, mimeType mimetype.MimeType,
) (*BoundEncoder, error) {
	registry.freeze()

	key := registryKey{valueType: valueType, mimeType: mimeType}
	if bound, ok := registry.entries[key]; ok {
		return bound, nil
	}

	candidates := registry.interfaceMatches(valueType, &mimeType)
	switch len(candidates) {
	case 0:
		return nil, &NoEncoderFoundError{
			ValueType: valueType,
			MimeType:  mimeType,
			Tagged:    true,
		}
	case 1:
		return candidates[0], nil
	default:
		return nil, &AmbiguousEncoderError{
			ValueType:  valueType,
			Candidates: candidateMimeTypes(candidates),
		}
	}
}

// Interface-keyed entries that valueType implements, optionally filtered to
// one mimetype. A nil filter matches every mimetype.
func (registry *Registry) interfaceMatches(
	valueType reflect.Type, mimeType *mimetype.MimeType,
) []*BoundEncoder {
	var matches []*BoundEncoder
	for _, entry := range registry.interfaceEntries {
		if valueType == entry.valueType {
			continue
		}
		if !valueType.Implements(entry.valueType) {
			continue
		}
		if mimeType != nil && entry.mimeType != *mimeType {
			continue
		}
		matches = append(matches, entry)
	}
	return matches
}

// ResolveValue finds the single encoder applicable to value's concrete type
// across all mimetypes. This is the runtime mirror of Resolve for callers
// that only hold an interface{} value.
func (registry *Registry) ResolveValue(value interface{}) (*BoundEncoder, error) {
	valueType := reflect.TypeOf(value)
	if valueType == nil {
		return nil, &NoEncoderFoundError{ValueType: nil}
	}
	return registry.resolveType(valueType)
}

// ResolveValueTagged finds the encoder for value's concrete type under
// exactly mimeType.
func (registry *Registry) ResolveValueTagged(
	value interface{}, mimeType mimetype.MimeType,
) (*BoundEncoder, error) {
	valueType := reflect.TypeOf(value)
	if valueType == nil {
		return nil, &NoEncoderFoundError{
			ValueType: nil, MimeType: mimeType, Tagged: true,
		}
	}
	return registry.resolveTypeTagged(valueType, mimeType)
}

func candidateMimeTypes(candidates []*BoundEncoder) []mimetype.MimeType {
	mimeTypes := make([]mimetype.MimeType, len(candidates))
	for index, candidate := range candidates {
		mimeTypes[index] = candidate.mimeType
	}
	return mimeTypes
}

// The reflect.Type for T. Works for interface types as well as concrete ones.
func typeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register adds an encoder for value type T under mimeType. Registration is a
// startup-time operation: it panics on a duplicate (type, mimetype) pair and
// after the registry has been frozen by a first resolution.
func Register[T any](
	registry *Registry, mimeType mimetype.MimeType, encode EncodeFunc[T],
) {
	var erased func(value interface{}) ([]byte, error)
	if encode != nil {
		erased = func(value interface{}) ([]byte, error) {
			return encode(value.(T))
		}
	}
	registry.add(typeFor[T](), mimeType, erased)
}

// Resolve finds the single encoder for T across all registered mimetypes.
// Fails with NoEncoderFoundError when T has no encoder and with
// AmbiguousEncoderError when T has encoders under more than one mimetype.
func Resolve[T any](registry *Registry) (*Encoder[T], error) {
	bound, err := registry.resolveType(typeFor[T]())
	if err != nil {
		return nil, err
	}
	return fromBound[T](bound), nil
}

// ResolveTagged finds the encoder for T registered under exactly mimeType.
func ResolveTagged[T any](
	registry *Registry, mimeType mimetype.MimeType,
) (*Encoder[T], error) {
	bound, err := registry.resolveTypeTagged(typeFor[T](), mimeType)
	if err != nil {
		return nil, err
	}
	return fromBound[T](bound), nil
}

// Handles reports whether T has an encoder registered under mimeType. Like
// resolution, calling it freezes the registry.
func Handles[T any](registry *Registry, mimeType mimetype.MimeType) bool {
	_, err := registry.resolveTypeTagged(typeFor[T](), mimeType)
	return err == nil
}

func fromBound[T any](bound *BoundEncoder) *Encoder[T] {
	return &Encoder[T]{
		mimeType: bound.mimeType,
		encode: func(value T) ([]byte, error) {
			return bound.encode(value)
		},
	}
}

// NewRegistry creates a Registry pre-loaded with the built-in encoders and
// the default JSON extensions and BSON codecs.
func NewRegistry() (*Registry, error) {
	registry := &Registry{
		entries:    make(map[registryKey]*BoundEncoder),
		byType:     make(map[reflect.Type][]*BoundEncoder),
		jsonHandle: &codec.JsonHandle{},
	}

	registerBuiltins(registry)

	// Add the default json extensions to the registry.
	if err := registry.AddJSONExtensions(defaultJSONExtensions); err != nil {
		return nil, xerrors.Errorf("error adding default json extensions: %w", err)
	}

	// Add the default bson codecs to the registry.
	if err := registry.AddBSONCodecs(defaultBsonCodecs); err != nil {
		return nil, xerrors.Errorf("error adding default bson codecs: %w", err)
	}

	return registry, nil
}
