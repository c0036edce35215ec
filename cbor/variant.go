// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cbor

import (
	"fmt"
	"reflect"
)

// VariantAlt binds one alternative type into a variant codec. Build
// alternatives with Alt.
type VariantAlt[I any] struct {
	id     int64
	encode func(buf WriteBuffer, v I) (bool, error)
	decode func(buf *ReadBuffer) (I, error)
}

// Alt binds the concrete alternative type A into a variant over the
// interface type I. A must implement TypeIdentified, which supplies the
// alternative's wire identifier and keeps primitive alternatives out of
// variants at compile time; wrap a primitive in a record instead.
func Alt[I any, A TypeIdentified](enc EncodeFunc[A], dec DecodeFunc[A]) VariantAlt[I] {
	id := typeIDFor[A]()
	return VariantAlt[I]{
		id: id,
		encode: func(buf WriteBuffer, v I) (bool, error) {
			a, ok := any(v).(A)
			if !ok {
				return false, nil
			}
			if err := EncodeInt(buf, id); err != nil {
				return true, err
			}
			return true, enc(buf, a)
		},
		decode: func(buf *ReadBuffer) (I, error) {
			var out I
			var a A
			if err := dec(buf, &a); err != nil {
				return out, err
			}
			decoded, ok := any(a).(I)
			if !ok {
				return out, fmt.Errorf(
					"%w: alternative %T does not satisfy the variant interface",
					ErrInvalidUsage,
					a,
				)
			}
			return decoded, nil
		},
	}
}

// VariantCodec encodes and decodes a closed set of alternatives sharing
// the interface type I. On the wire the active alternative is a 2-element
// array of its type ID and its payload.
type VariantCodec[I any] struct {
	alts []VariantAlt[I]
}

// NewVariantCodec builds a variant codec from its alternatives. It panics
// when I is not an interface type, when no alternatives are given, or when
// two alternatives share a type ID or one is not positive; these are
// programming errors in the schema definition, caught when the codec is
// constructed in a package variable.
func NewVariantCodec[I any](alts ...VariantAlt[I]) *VariantCodec[I] {
	if reflect.TypeOf((*I)(nil)).Elem().Kind() != reflect.Interface {
		panic("cbor: variant type parameter must be an interface type")
	}
	if len(alts) == 0 {
		panic("cbor: variant requires at least one alternative")
	}
	seen := make(map[int64]struct{}, len(alts))
	for _, alt := range alts {
		if alt.id <= 0 {
			panic(fmt.Sprintf("cbor: variant alternative type ID %d is not positive", alt.id))
		}
		if _, dup := seen[alt.id]; dup {
			panic(fmt.Sprintf("cbor: duplicate variant alternative type ID %d", alt.id))
		}
		seen[alt.id] = struct{}{}
	}
	return &VariantCodec[I]{alts: alts}
}

// Encode writes the active alternative in its variant envelope. A value
// whose dynamic type matches none of the alternatives fails with
// ErrEncoding.
func (c *VariantCodec[I]) Encode(buf WriteBuffer, v I) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := EncodeArgument(buf, MajorTypeArray, 2); err != nil {
		return err
	}
	for i := range c.alts {
		matched, err := c.alts[i].encode(buf, v)
		if !matched {
			continue
		}
		if err != nil {
			return err
		}
		cp.Commit()
		return nil
	}
	return fmt.Errorf(
		"%w: value of type %T matches no variant alternative",
		ErrEncoding,
		v,
	)
}

// Decode reads a variant envelope and decodes the alternative selected by
// its type ID. An envelope that is not a 2-element array fails with
// ErrDecoding; an unknown type ID fails with ErrUnexpectedType.
func (c *VariantCodec[I]) Decode(buf *ReadBuffer, v *I) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	h, err := readHead(buf)
	if err != nil {
		return err
	}
	if h.major != MajorTypeArray {
		return ErrUnexpectedType
	}
	if h.decodeArgument() != 2 {
		return fmt.Errorf("%w: variant envelope is not a 2-element array", ErrDecoding)
	}
	var id int64
	if err := DecodeInt(buf, &id); err != nil {
		return err
	}
	for i := range c.alts {
		if c.alts[i].id != id {
			continue
		}
		decoded, err := c.alts[i].decode(buf)
		if err != nil {
			return err
		}
		*v = decoded
		cp.Commit()
		return nil
	}
	return fmt.Errorf(
		"%w: no variant alternative with type ID %d",
		ErrUnexpectedType,
		id,
	)
}
