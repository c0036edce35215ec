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
	"encoding/binary"
	"fmt"
)

// EncodeArgument writes the head for the given major type and argument
// using the smallest representation: inline for arguments up to 23,
// otherwise a size code followed by the argument in 1, 2, 4 or 8 big-endian
// bytes.
func EncodeArgument(buf WriteBuffer, major MajorType, arg uint64) error {
	switch {
	case arg <= maxInlineArgument:
		return buf.WriteByte(byte(major) | byte(arg))
	case arg <= 0xFF:
		return buf.Write([]byte{byte(major) | argSizeOneByte, byte(arg)})
	case arg <= 0xFFFF:
		var p [3]byte
		p[0] = byte(major) | argSizeTwoBytes
		binary.BigEndian.PutUint16(p[1:], uint16(arg))
		return buf.Write(p[:])
	case arg <= 0xFFFFFFFF:
		var p [5]byte
		p[0] = byte(major) | argSizeFourBytes
		binary.BigEndian.PutUint32(p[1:], uint32(arg))
		return buf.Write(p[:])
	default:
		var p [9]byte
		p[0] = byte(major) | argSizeEightBytes
		binary.BigEndian.PutUint64(p[1:], arg)
		return buf.Write(p[:])
	}
}

// encodeArgumentFixed writes a head carrying the argument in exactly
// extraBytes big-endian bytes, without the smallest-form compression.
// Floats use this: their chosen width is always emitted in full.
func encodeArgumentFixed(
	buf WriteBuffer,
	major MajorType,
	arg uint64,
	extraBytes int,
) error {
	switch extraBytes {
	case 2:
		var p [3]byte
		p[0] = byte(major) | argSizeTwoBytes
		binary.BigEndian.PutUint16(p[1:], uint16(arg))
		return buf.Write(p[:])
	case 4:
		var p [5]byte
		p[0] = byte(major) | argSizeFourBytes
		binary.BigEndian.PutUint32(p[1:], uint32(arg))
		return buf.Write(p[:])
	case 8:
		var p [9]byte
		p[0] = byte(major) | argSizeEightBytes
		binary.BigEndian.PutUint64(p[1:], arg)
		return buf.Write(p[:])
	default:
		return fmt.Errorf(
			"%w: unsupported fixed argument width %d",
			ErrEncoding,
			extraBytes,
		)
	}
}

// head is the decoded form of a data item's initial bytes
type head struct {
	// Raw initial byte
	raw byte

	// Major type from the top 3 bits
	major MajorType

	// Simple subtype from the low 5 bits (only meaningful for major type 7)
	simple SimpleType

	// Number of argument bytes following the initial byte
	extraBytes int

	// Argument bytes, big-endian, in the first extraBytes entries
	argument [8]byte
}

// readHead reads one head from the buffer: the initial byte plus the number
// of argument bytes its size code announces. Reserved size codes 28-30 and
// the break code 31 fail with ErrIllFormed.
func readHead(buf *ReadBuffer) (head, error) {
	b, err := buf.ReadByte()
	if err != nil {
		return head{}, err
	}
	h := head{
		raw:    b,
		major:  MajorType(b & majorTypeMask),
		simple: SimpleType(b & argumentMask),
	}
	switch b & argumentMask {
	case argSizeOneByte:
		h.extraBytes = 1
	case argSizeTwoBytes:
		h.extraBytes = 2
	case argSizeFourBytes:
		h.extraBytes = 4
	case argSizeEightBytes:
		h.extraBytes = 8
	case argSizeReserved28, argSizeReserved29, argSizeReserved30, argSizeBreak:
		return head{}, ErrIllFormed
	default:
		// Argument inlined in the low 5 bits
	}
	if h.extraBytes > 0 {
		if err := buf.Read(h.argument[:h.extraBytes]); err != nil {
			return head{}, err
		}
	}
	return h, nil
}

// decodeArgument interprets the argument bytes as a big-endian unsigned
// 64-bit integer, or returns the inlined low 5 bits when there are none.
func (h *head) decodeArgument() uint64 {
	if h.extraBytes == 0 {
		return uint64(h.raw & argumentMask)
	}
	var v uint64
	for i := 0; i < h.extraBytes; i++ {
		v = v<<8 | uint64(h.argument[i])
	}
	return v
}
