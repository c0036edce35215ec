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

// MajorType is the 3-bit data item category stored in the top bits of a head
// byte
type MajorType byte

const (
	// Major type 0: an unsigned integer in the range 0..2^64-1. The value of
	// the item is the argument itself.
	MajorTypeUnsignedInt MajorType = 0x00

	// Major type 1: a negative integer in the range -2^64..-1. The value of
	// the item is -1 minus the argument.
	MajorTypeNegativeInt MajorType = 0x20

	// Major type 2: a byte string. The argument is the number of bytes that
	// follow the head.
	MajorTypeByteString MajorType = 0x40

	// Major type 3: a text string encoded as UTF-8. The argument is the
	// number of bytes that follow the head.
	MajorTypeTextString MajorType = 0x60

	// Major type 4: an array of data items. The argument is the number of
	// items.
	MajorTypeArray MajorType = 0x80

	// Major type 5: a map of key/value item pairs. The argument is the
	// number of pairs.
	MajorTypeMap MajorType = 0xA0

	// Major type 6: a tagged data item. Not produced by this package.
	MajorTypeTag MajorType = 0xC0

	// Major type 7: floating-point numbers and simple values.
	MajorTypeSimple MajorType = 0xE0
)

// Only the top 3 bits select the major type; the low 5 bits carry the
// argument size code or simple subtype
const (
	majorTypeMask byte = 0xE0
	argumentMask  byte = 0x1F
)

// SimpleType selects the meaning of a major type 7 item via the low 5 bits
// of its head byte
type SimpleType byte

const (
	SimpleTypeFalse       SimpleType = 20
	SimpleTypeTrue        SimpleType = 21
	SimpleTypeNull        SimpleType = 22
	SimpleTypeUndefined   SimpleType = 23
	SimpleTypeByte        SimpleType = 24
	SimpleTypeHalfFloat   SimpleType = 25
	SimpleTypeSingleFloat SimpleType = 26
	SimpleTypeDoubleFloat SimpleType = 27
)

// Argument size codes carried in the low 5 bits of a head byte. Values 0-23
// inline the argument itself; 24-27 announce 1/2/4/8 extra bytes; 28-30 are
// reserved and rejected on read; 31 is the "break" stop code, which this
// package neither produces nor accepts.
const (
	maxInlineArgument uint64 = 23

	argSizeOneByte    byte = 24
	argSizeTwoBytes   byte = 25
	argSizeFourBytes  byte = 26
	argSizeEightBytes byte = 27
	argSizeReserved28 byte = 28
	argSizeReserved29 byte = 29
	argSizeReserved30 byte = 30
	argSizeBreak      byte = 31
)

// Single-byte encodings for the fixed simple values
const (
	falseByte byte = byte(MajorTypeSimple) | byte(SimpleTypeFalse)
	trueByte  byte = byte(MajorTypeSimple) | byte(SimpleTypeTrue)
	nullByte  byte = byte(MajorTypeSimple) | byte(SimpleTypeNull)
)

// Unsigned covers the unsigned integer kinds accepted by the integer codec.
// Named types with an unsigned underlying type (enumerations) are included.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Signed covers the signed integer kinds accepted by the integer codec.
// Named types with a signed underlying type (enumerations) are included.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// EncodeFunc encodes a single value of type T into a write buffer
type EncodeFunc[T any] func(buf WriteBuffer, v T) error

// DecodeFunc decodes a single value of type T from a read buffer
type DecodeFunc[T any] func(buf *ReadBuffer, v *T) error

// noCopy triggers a go vet warning when a containing struct is copied by
// value. Checkpoints embed it because a copied checkpoint would rewind its
// buffer twice.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
