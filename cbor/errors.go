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

import "errors"

// The closed set of failure conditions returned by this package. Success is
// a nil error. Errors from nested codecs propagate unchanged, so callers can
// match any failure with errors.Is against these sentinels.
var (
	// ErrEncoding indicates an internal encoder inconsistency, such as a
	// variant value that matches none of the registered alternatives.
	ErrEncoding = errors.New("encoding error")

	// ErrDecoding indicates a structural mismatch on decode, such as a
	// variant envelope that is not a 2-element array.
	ErrDecoding = errors.New("decoding error")

	// ErrBufferUnderflow indicates a read past the end of the input, or an
	// encoded item shorter than a fixed-extent target.
	ErrBufferUnderflow = errors.New("buffer underflow")

	// ErrBufferOverflow indicates a write past the buffer's capacity, or an
	// encoded item larger than the caller's size limit.
	ErrBufferOverflow = errors.New("buffer overflow")

	// ErrValueNotRepresentable indicates a decoded value that does not fit
	// the target type, or a lossy float conversion.
	ErrValueNotRepresentable = errors.New("value not representable")

	// ErrInvalidUsage indicates API misuse, such as a nil source slice or an
	// unsupported target type.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrUnexpectedType indicates that the decoded head's major type or
	// simple subtype disagrees with what the codec expects.
	ErrUnexpectedType = errors.New("unexpected type")

	// ErrIllFormed indicates a head using a reserved size or subtype code.
	ErrIllFormed = errors.New("ill-formed item")
)
