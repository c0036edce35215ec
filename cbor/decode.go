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
	"math"
)

// NoMaxSize disables the size limit on decoders that take one
const NoMaxSize uint64 = math.MaxUint64

// DecodeUint decodes a major type 0 integer into an unsigned target. A
// value outside the target's range fails with ErrValueNotRepresentable.
func DecodeUint[T Unsigned](buf *ReadBuffer, v *T) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	h, err := readHead(buf)
	if err != nil {
		return err
	}
	if h.major != MajorTypeUnsignedInt {
		return ErrUnexpectedType
	}
	u64 := h.decodeArgument()
	if uint64(T(u64)) != u64 {
		return ErrValueNotRepresentable
	}
	*v = T(u64)
	cp.Commit()
	return nil
}

// DecodeInt decodes an integer into a signed target. Major type 0 is
// accepted for non-negative values; major type 1 maps its argument u to
// -1-u. Values outside the target's range fail with
// ErrValueNotRepresentable.
func DecodeInt[T Signed](buf *ReadBuffer, v *T) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	h, err := readHead(buf)
	if err != nil {
		return err
	}
	u64 := h.decodeArgument()
	var n int64
	switch h.major {
	case MajorTypeUnsignedInt:
		if u64 > math.MaxInt64 {
			return ErrValueNotRepresentable
		}
		n = int64(u64)
	case MajorTypeNegativeInt:
		if u64 > math.MaxInt64 {
			return ErrValueNotRepresentable
		}
		n = -1 - int64(u64)
	default:
		return ErrUnexpectedType
	}
	if int64(T(n)) != n {
		return ErrValueNotRepresentable
	}
	*v = T(n)
	cp.Commit()
	return nil
}

// DecodeBool decodes a major type 7 true/false simple value
func DecodeBool(buf *ReadBuffer, v *bool) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	h, err := readHead(buf)
	if err != nil {
		return err
	}
	if h.major != MajorTypeSimple {
		return ErrUnexpectedType
	}
	switch h.simple {
	case SimpleTypeFalse:
		*v = false
	case SimpleTypeTrue:
		*v = true
	default:
		return ErrUnexpectedType
	}
	cp.Commit()
	return nil
}

// DecodeBytes decodes a major type 2 byte string into a freshly allocated
// slice. An encoded length above maxSize fails with ErrBufferOverflow.
func DecodeBytes(buf *ReadBuffer, v *[]byte, maxSize uint64) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	out, err := decodeStringContent(buf, MajorTypeByteString, maxSize)
	if err != nil {
		return err
	}
	*v = out
	cp.Commit()
	return nil
}

// DecodeBytesFixed decodes a major type 2 byte string into a fixed-extent
// target. An encoded length shorter than the target fails with
// ErrBufferUnderflow, longer with ErrBufferOverflow.
func DecodeBytesFixed(buf *ReadBuffer, out []byte) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	h, err := readHead(buf)
	if err != nil {
		return err
	}
	if h.major != MajorTypeByteString {
		return ErrUnexpectedType
	}
	length := h.decodeArgument()
	if length < uint64(len(out)) {
		return ErrBufferUnderflow
	}
	if length > uint64(len(out)) {
		return ErrBufferOverflow
	}
	if len(out) > 0 {
		if err := buf.Read(out); err != nil {
			return err
		}
	}
	cp.Commit()
	return nil
}

// DecodeText decodes a major type 3 text string. The content is not
// validated as UTF-8. An encoded length above maxSize fails with
// ErrBufferOverflow.
func DecodeText(buf *ReadBuffer, v *string, maxSize uint64) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	out, err := decodeStringContent(buf, MajorTypeTextString, maxSize)
	if err != nil {
		return err
	}
	*v = string(out)
	cp.Commit()
	return nil
}

func decodeStringContent(
	buf *ReadBuffer,
	major MajorType,
	maxSize uint64,
) ([]byte, error) {
	h, err := readHead(buf)
	if err != nil {
		return nil, err
	}
	if h.major != major {
		return nil, ErrUnexpectedType
	}
	length := h.decodeArgument()
	if length > maxSize {
		return nil, ErrBufferOverflow
	}
	// Check against the remaining input before allocating so that a bogus
	// length cannot trigger a huge allocation
	if length > uint64(buf.Remaining()) {
		return nil, ErrBufferUnderflow
	}
	out := make([]byte, length)
	if length > 0 {
		if err := buf.Read(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecodeOptional decodes either null (setting the target pointer to nil) or
// the inner value. The null check consumes exactly one byte; any other
// initial byte is unread before the inner decoder runs.
func DecodeOptional[T any](buf *ReadBuffer, v **T, dec DecodeFunc[T]) error {
	cp := buf.Checkpoint()
	b, err := buf.ReadByte()
	if err != nil {
		cp.Rollback()
		return err
	}
	if b == nullByte {
		cp.Commit()
		*v = nil
		return nil
	}
	cp.Rollback()
	var inner T
	if err := dec(buf, &inner); err != nil {
		return err
	}
	*v = &inner
	return nil
}

// DecodeList decodes a major type 4 array into a freshly allocated slice.
// An encoded element count above maxSize fails with ErrBufferOverflow.
func DecodeList[T any](
	buf *ReadBuffer,
	v *[]T,
	maxSize uint64,
	dec DecodeFunc[T],
) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	h, err := readHead(buf)
	if err != nil {
		return err
	}
	if h.major != MajorTypeArray {
		return ErrUnexpectedType
	}
	count := h.decodeArgument()
	if count > maxSize {
		return ErrBufferOverflow
	}
	// Every element occupies at least one byte, so a count beyond the
	// remaining input can never complete
	if count > uint64(buf.Remaining()) {
		return ErrBufferUnderflow
	}
	out := make([]T, count)
	for i := range out {
		if err := dec(buf, &out[i]); err != nil {
			return err
		}
	}
	*v = out
	cp.Commit()
	return nil
}

// DecodeArray decodes a major type 4 array into a fixed-extent target. An
// encoded element count above the target's length fails with
// ErrBufferOverflow, below it with ErrBufferUnderflow.
func DecodeArray[T any](buf *ReadBuffer, out []T, dec DecodeFunc[T]) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	h, err := readHead(buf)
	if err != nil {
		return err
	}
	if h.major != MajorTypeArray {
		return ErrUnexpectedType
	}
	count := h.decodeArgument()
	if count < uint64(len(out)) {
		return ErrBufferUnderflow
	}
	if count > uint64(len(out)) {
		return ErrBufferOverflow
	}
	for i := range out {
		if err := dec(buf, &out[i]); err != nil {
			return err
		}
	}
	cp.Commit()
	return nil
}

// DecodeMap decodes a major type 5 map into a freshly allocated Go map. An
// encoded pair count above maxSize fails with ErrBufferOverflow. Duplicate
// keys are not detected; the last occurrence wins.
func DecodeMap[K comparable, V any](
	buf *ReadBuffer,
	v *map[K]V,
	maxSize uint64,
	decKey DecodeFunc[K],
	decValue DecodeFunc[V],
) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	h, err := readHead(buf)
	if err != nil {
		return err
	}
	if h.major != MajorTypeMap {
		return ErrUnexpectedType
	}
	count := h.decodeArgument()
	if count > maxSize {
		return ErrBufferOverflow
	}
	// Each pair occupies at least two bytes
	if count > uint64(buf.Remaining()/2) {
		return ErrBufferUnderflow
	}
	out := make(map[K]V, count)
	for i := uint64(0); i < count; i++ {
		var key K
		if err := decKey(buf, &key); err != nil {
			return err
		}
		var value V
		if err := decValue(buf, &value); err != nil {
			return err
		}
		out[key] = value
	}
	*v = out
	cp.Commit()
	return nil
}
