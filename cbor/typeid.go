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

import "fmt"

// TypeIdentified binds a positive integer wire identifier to a record type.
// The identifier names the type on the wire in variant and boxed framing.
// Implementations must return a constant from a value receiver, so that the
// identifier is available from the type's zero value.
type TypeIdentified interface {
	TypeID() int64
}

// typeIDFor returns the wire identifier of T's zero value
func typeIDFor[T TypeIdentified]() int64 {
	var zero T
	return zero.TypeID()
}

// EncodeBoxed encodes a record wrapped in its identifying envelope: a
// 2-element array of the type ID (as a signed integer) and the record
// payload.
func EncodeBoxed[T TypeIdentified](buf WriteBuffer, v T, enc EncodeFunc[T]) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := EncodeArgument(buf, MajorTypeArray, 2); err != nil {
		return err
	}
	if err := EncodeInt(buf, v.TypeID()); err != nil {
		return err
	}
	if err := enc(buf, v); err != nil {
		return err
	}
	cp.Commit()
	return nil
}

// DecodeBoxed decodes a record from its identifying envelope. The envelope
// must be a 2-element array whose first element matches T's type ID.
func DecodeBoxed[T TypeIdentified](buf *ReadBuffer, v *T, dec DecodeFunc[T]) error {
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
		return fmt.Errorf("%w: boxed envelope is not a 2-element array", ErrDecoding)
	}
	var id int64
	if err := DecodeInt(buf, &id); err != nil {
		return err
	}
	if id != typeIDFor[T]() {
		return ErrUnexpectedType
	}
	if err := dec(buf, v); err != nil {
		return err
	}
	cp.Commit()
	return nil
}
