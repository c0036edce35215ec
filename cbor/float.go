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

	"github.com/x448/float16"
)

// Canonical bit patterns for the special values at each width. NaN and the
// infinities always encode as the half-precision forms; on decode the
// patterns are recognized explicitly at every width.
const (
	halfPositiveInfinity uint16 = 0x7C00
	halfNegativeInfinity uint16 = 0xFC00
	halfCanonicalNaN     uint16 = 0x7E00

	singlePositiveInfinity uint32 = 0x7F800000
	singleNegativeInfinity uint32 = 0xFF800000
	singleCanonicalNaN     uint32 = 0x7FC00000

	doublePositiveInfinity uint64 = 0x7FF0000000000000
	doubleNegativeInfinity uint64 = 0xFFF0000000000000
	doubleCanonicalNaN     uint64 = 0x7FF8000000000000
)

// EncodeFloat32 encodes a single-precision float at the narrowest width
// that represents it exactly. NaN and the infinities always use the
// canonical half-precision forms. Floats never use the smallest-argument
// compression: the chosen width is emitted in full.
func EncodeFloat32(buf WriteBuffer, v float32) error {
	switch {
	case v != v:
		return encodeArgumentFixed(
			buf,
			MajorTypeSimple,
			uint64(halfCanonicalNaN),
			2,
		)
	case math.IsInf(float64(v), 1):
		return encodeArgumentFixed(
			buf,
			MajorTypeSimple,
			uint64(halfPositiveInfinity),
			2,
		)
	case math.IsInf(float64(v), -1):
		return encodeArgumentFixed(
			buf,
			MajorTypeSimple,
			uint64(halfNegativeInfinity),
			2,
		)
	}
	half := float16.Fromfloat32(v)
	if half.Float32() == v {
		return encodeArgumentFixed(buf, MajorTypeSimple, uint64(half.Bits()), 2)
	}
	return encodeArgumentFixed(
		buf,
		MajorTypeSimple,
		uint64(math.Float32bits(v)),
		4,
	)
}

// EncodeFloat64 encodes a double-precision float at the narrowest width
// that represents it exactly, narrowing through single to half precision.
// NaN and the infinities always use the canonical half-precision forms.
func EncodeFloat64(buf WriteBuffer, v float64) error {
	switch {
	case v != v:
		return encodeArgumentFixed(
			buf,
			MajorTypeSimple,
			uint64(halfCanonicalNaN),
			2,
		)
	case math.IsInf(v, 1):
		return encodeArgumentFixed(
			buf,
			MajorTypeSimple,
			uint64(halfPositiveInfinity),
			2,
		)
	case math.IsInf(v, -1):
		return encodeArgumentFixed(
			buf,
			MajorTypeSimple,
			uint64(halfNegativeInfinity),
			2,
		)
	}
	single := float32(v)
	if float64(single) == v {
		half := float16.Fromfloat32(single)
		if half.Float32() == single {
			return encodeArgumentFixed(
				buf,
				MajorTypeSimple,
				uint64(half.Bits()),
				2,
			)
		}
		return encodeArgumentFixed(
			buf,
			MajorTypeSimple,
			uint64(math.Float32bits(single)),
			4,
		)
	}
	return encodeArgumentFixed(
		buf,
		MajorTypeSimple,
		uint64(math.Float64bits(v)),
		8,
	)
}

// DecodeFloat64 decodes a major type 7 float of any width into a double
func DecodeFloat64(buf *ReadBuffer, v *float64) error {
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
	case SimpleTypeHalfFloat:
		*v = float64(halfToSingle(uint16(h.decodeArgument())))
	case SimpleTypeSingleFloat:
		bits := uint32(h.decodeArgument())
		switch bits {
		case singlePositiveInfinity:
			*v = math.Inf(1)
		case singleNegativeInfinity:
			*v = math.Inf(-1)
		case singleCanonicalNaN:
			*v = math.NaN()
		default:
			*v = float64(math.Float32frombits(bits))
		}
	case SimpleTypeDoubleFloat:
		bits := h.decodeArgument()
		switch bits {
		case doublePositiveInfinity:
			*v = math.Inf(1)
		case doubleNegativeInfinity:
			*v = math.Inf(-1)
		case doubleCanonicalNaN:
			*v = math.NaN()
		default:
			*v = math.Float64frombits(bits)
		}
	default:
		return ErrUnexpectedType
	}
	cp.Commit()
	return nil
}

// DecodeFloat32 decodes a major type 7 float into a single. A
// double-precision value that does not convert exactly fails with
// ErrValueNotRepresentable.
func DecodeFloat32(buf *ReadBuffer, v *float32) error {
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
	case SimpleTypeHalfFloat:
		*v = halfToSingle(uint16(h.decodeArgument()))
	case SimpleTypeSingleFloat:
		bits := uint32(h.decodeArgument())
		switch bits {
		case singlePositiveInfinity:
			*v = float32(math.Inf(1))
		case singleNegativeInfinity:
			*v = float32(math.Inf(-1))
		case singleCanonicalNaN:
			*v = float32(math.NaN())
		default:
			*v = math.Float32frombits(bits)
		}
	case SimpleTypeDoubleFloat:
		bits := h.decodeArgument()
		switch bits {
		case doublePositiveInfinity:
			*v = float32(math.Inf(1))
		case doubleNegativeInfinity:
			*v = float32(math.Inf(-1))
		case doubleCanonicalNaN:
			*v = float32(math.NaN())
		default:
			value := math.Float64frombits(bits)
			single := float32(value)
			if float64(single) != value {
				return ErrValueNotRepresentable
			}
			*v = single
		}
	default:
		return ErrUnexpectedType
	}
	cp.Commit()
	return nil
}

// halfToSingle expands a half-precision value, mapping the canonical
// special forms to the native special values.
func halfToSingle(bits uint16) float32 {
	switch bits {
	case halfPositiveInfinity:
		return float32(math.Inf(1))
	case halfNegativeInfinity:
		return float32(math.Inf(-1))
	case halfCanonicalNaN:
		return float32(math.NaN())
	}
	return float16.Frombits(bits).Float32()
}
