// Package encoding serializes the data that crosses the markup boundary:
// nested-component descriptors carried in HTML attributes, and packed props
// blobs for handing typed values through markup that only speaks strings.
package encoding

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DescriptorAttr is the attribute that carries serialized nested-component
// descriptors in rendered markup.
const DescriptorAttr = "data-nested-targets"

// Sentinel errors for descriptor and packed-props decoding.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
)

// Descriptor is a serializable instruction a parent component emits to
// request instantiation of a child. It describes the container to create,
// not a live component.
type Descriptor struct {
	// Container is the tag name of the element to create for the child.
	Container string `json:"container"`

	// ContainerClass lists classes to set on the created element.
	ContainerClass []string `json:"containerClass,omitempty"`

	// Data holds data-* attribute values (names without the prefix) to
	// set on the created element. They become the child's props.
	Data map[string]string `json:"data,omitempty"`
}

// descriptorPayload is the wire shape of the descriptor attribute.
type descriptorPayload struct {
	NestedTargets map[string]Descriptor `json:"nestedTargets"`
}

// EncodeDescriptors serializes named descriptors into an attribute value.
//
// The value is the JSON encoding of {"nestedTargets": {...}} with every
// double quote written as &quot;, so it can sit inside a double-quoted HTML
// attribute. DecodeDescriptors round-trips this encoding exactly.
func EncodeDescriptors(targets map[string]Descriptor) (string, error) {
	raw, err := json.Marshal(descriptorPayload{NestedTargets: targets})
	if err != nil {
		return "", fmt.Errorf("encoding descriptors: %w", err)
	}
	return strings.ReplaceAll(string(raw), `"`, "&quot;"), nil
}

// DecodeDescriptors parses an attribute value produced by EncodeDescriptors.
//
// Returns ErrInvalidFormat (wrapped) when the unescaped value is not the
// expected JSON shape.
func DecodeDescriptors(attr string) (map[string]Descriptor, error) {
	raw := strings.ReplaceAll(attr, "&quot;", `"`)
	var payload descriptorPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return payload.NestedTargets, nil
}
