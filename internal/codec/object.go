package codec

import (
	"encoding/base64"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/digest"
)

// stringMapMode decodes maps to map[string]any. genericMode keeps the
// library default of map[any]any for payloads with non-string keys.
var stringMapMode, genericMode cbor.DecMode

func init() {
	var err error
	stringMapMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
	genericMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// encodeObject stores a CBOR payload verbatim as a single root node.
func encodeObject(raw []byte, parameterID string) ([]domain.ParameterAttribute, []domain.AttributeValue, error) {
	if err := cbor.Wellformed(raw); err != nil {
		return nil, nil, fmt.Errorf("%w: serialized object: %w", domain.ErrInvalidInput, err)
	}
	value := base64.StdEncoding.EncodeToString(raw)
	id := digest.Fields(parameterID, "", "", value)
	attrs := []domain.ParameterAttribute{{
		ParameterID: parameterID,
		AttributeID: id,
	}}
	values := []domain.AttributeValue{{
		AttributeID: id,
		Value:       value,
		Kind:        domain.KindObject,
	}}
	return attrs, values, nil
}

// objectPayload extracts the verbatim payload from the single object node.
func objectPayload(values []domain.AttributeValue) ([]byte, error) {
	var blob *domain.AttributeValue
	for i := range values {
		if values[i].Kind != domain.KindObject {
			continue
		}
		if blob != nil && blob.AttributeID != values[i].AttributeID {
			return nil, fmt.Errorf("%w: more than one object node", domain.ErrReconstruction)
		}
		blob = &values[i]
	}
	if blob == nil {
		return nil, fmt.Errorf("%w: no object node", domain.ErrReconstruction)
	}
	raw, err := base64.StdEncoding.DecodeString(blob.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding object payload: %w", domain.ErrReconstruction, err)
	}
	return raw, nil
}

// decodeObject decodes a payload, preferring string-keyed maps.
func decodeObject(raw []byte) (any, error) {
	var v any
	if err := stringMapMode.Unmarshal(raw, &v); err == nil {
		return v, nil
	}
	v = nil
	if err := genericMode.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: deserializing object: %w", domain.ErrReconstruction, err)
	}
	return v, nil
}

// MarshalObject encodes v in the serialized-object format.
func MarshalObject(v any) ([]byte, error) {
	return cbor.Marshal(v)
}
