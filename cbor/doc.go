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

// Package cbor implements a deterministic subset of the Concise Binary
// Object Representation (RFC 8949) over caller-owned in-memory buffers.
//
// The package produces the deterministic encoding profile: the smallest
// argument form for every head, the narrowest floating-point width that
// round-trips exactly, and the canonical 3-byte forms for NaN and the
// infinities. Indefinite-length items and semantic tags (major type 6) are
// neither produced nor accepted.
//
// # Buffers and rollback
//
// Encoders write into a WriteBuffer (DynamicBuffer or StaticBuffer) and
// decoders read from a ReadBuffer. Every composite operation takes a
// checkpoint on its buffer and commits it only on success, so a failed
// encode or decode leaves the buffer exactly as it found it:
//
//	cp := buf.Checkpoint()
//	defer cp.Rollback()
//	// ... nested writes ...
//	cp.Commit()
//
// Rollback after Commit is a no-op, which makes the deferred call safe on
// every exit path.
//
// # Typed codecs
//
// Primitive values are encoded with typed functions (EncodeUint, EncodeInt,
// EncodeBytes, EncodeText, EncodeBool, EncodeFloat64, ...). Composite
// codecs (EncodeList, EncodeMap, EncodeOptional and their decode
// counterparts) take the element codec as a typed function value, so a call
// for an element type without a codec does not compile.
//
// Struct types opt into the reflection-driven record codec by embedding
// FlatRecord or by implementing TypeIdentified. Records are encoded as the
// bare concatenation of their exported fields in declaration order; the
// field count and order are part of the schema contract, not the wire.
//
// Closed sets of record types form tagged unions via VariantCodec, which
// frames the active alternative as a 2-element array of its type ID and its
// payload.
package cbor
