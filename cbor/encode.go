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
	"bytes"
	"sort"
)

// EncodeUint encodes an unsigned integer as major type 0
func EncodeUint[T Unsigned](buf WriteBuffer, v T) error {
	return EncodeArgument(buf, MajorTypeUnsignedInt, uint64(v))
}

// EncodeInt encodes a signed integer: non-negative values as major type 0,
// negative values as major type 1 with argument -1-v. The argument is
// computed in unsigned arithmetic so the minimum value of each width is
// handled.
func EncodeInt[T Signed](buf WriteBuffer, v T) error {
	if v >= 0 {
		return EncodeArgument(buf, MajorTypeUnsignedInt, uint64(v))
	}
	return EncodeArgument(buf, MajorTypeNegativeInt, ^uint64(int64(v)))
}

// EncodeBool encodes a boolean as the major type 7 true/false simple value
func EncodeBool(buf WriteBuffer, v bool) error {
	if v {
		return buf.WriteByte(trueByte)
	}
	return buf.WriteByte(falseByte)
}

// EncodeNull encodes the major type 7 null simple value
func EncodeNull(buf WriteBuffer) error {
	return buf.WriteByte(nullByte)
}

// EncodeBytes encodes a byte string: a major type 2 head carrying the
// length, then the raw content.
func EncodeBytes(buf WriteBuffer, v []byte) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := EncodeArgument(buf, MajorTypeByteString, uint64(len(v))); err != nil {
		return err
	}
	if len(v) > 0 {
		if err := buf.Write(v); err != nil {
			return err
		}
	}
	cp.Commit()
	return nil
}

// EncodeText encodes a text string: a major type 3 head carrying the byte
// length, then the raw content. The string is assumed to hold UTF-8; no
// validation is performed.
func EncodeText(buf WriteBuffer, v string) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := EncodeArgument(buf, MajorTypeTextString, uint64(len(v))); err != nil {
		return err
	}
	if len(v) > 0 {
		if err := buf.Write([]byte(v)); err != nil {
			return err
		}
	}
	cp.Commit()
	return nil
}

// EncodeOptional encodes null for a nil pointer and the pointed-to value
// otherwise.
func EncodeOptional[T any](buf WriteBuffer, v *T, enc EncodeFunc[T]) error {
	if v == nil {
		return EncodeNull(buf)
	}
	return enc(buf, *v)
}

// EncodeList encodes a slice as a major type 4 array: a head carrying the
// element count, then each element in order.
func EncodeList[T any](buf WriteBuffer, v []T, enc EncodeFunc[T]) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := EncodeArgument(buf, MajorTypeArray, uint64(len(v))); err != nil {
		return err
	}
	for i := range v {
		if err := enc(buf, v[i]); err != nil {
			return err
		}
	}
	cp.Commit()
	return nil
}

// MapEntry is a single key/value pair for EncodeMapEntries
type MapEntry[K any, V any] struct {
	Key   K
	Value V
}

// EncodeMap encodes a map as major type 5. Go maps have no iteration
// order, so pairs are emitted sorted by the bytewise order of their encoded
// keys, which yields the core deterministic encoding. Callers that need a
// different order should use EncodeMapEntries.
func EncodeMap[K comparable, V any](
	buf WriteBuffer,
	v map[K]V,
	encKey EncodeFunc[K],
	encValue EncodeFunc[V],
) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := EncodeArgument(buf, MajorTypeMap, uint64(len(v))); err != nil {
		return err
	}
	pairs := make([]rawPair, 0, len(v))
	for key, value := range v {
		keyBuf := NewDynamicBuffer()
		if err := encKey(keyBuf, key); err != nil {
			return err
		}
		valueBuf := NewDynamicBuffer()
		if err := encValue(valueBuf, value); err != nil {
			return err
		}
		pairs = append(pairs, rawPair{key: keyBuf.Bytes(), value: valueBuf.Bytes()})
	}
	sortRawPairs(pairs)
	for _, pair := range pairs {
		if err := buf.Write(pair.key); err != nil {
			return err
		}
		if err := buf.Write(pair.value); err != nil {
			return err
		}
	}
	cp.Commit()
	return nil
}

// rawPair is a map entry with both halves already encoded
type rawPair struct {
	key   []byte
	value []byte
}

// sortRawPairs orders encoded map entries by the bytewise order of their
// encoded keys, the core deterministic map ordering.
func sortRawPairs(pairs []rawPair) {
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].key, pairs[j].key) < 0
	})
}

// EncodeMapEntries encodes a pair slice as major type 5, preserving the
// caller's ordering. Deterministic ordering is the caller's responsibility.
func EncodeMapEntries[K any, V any](
	buf WriteBuffer,
	entries []MapEntry[K, V],
	encKey EncodeFunc[K],
	encValue EncodeFunc[V],
) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := EncodeArgument(buf, MajorTypeMap, uint64(len(entries))); err != nil {
		return err
	}
	for i := range entries {
		if err := encKey(buf, entries[i].Key); err != nil {
			return err
		}
		if err := encValue(buf, entries[i].Value); err != nil {
			return err
		}
	}
	cp.Commit()
	return nil
}
