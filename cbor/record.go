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

// FlatRecord is an embeddable marker that opts a struct into the
// reflection-driven record codec:
//
//	type Point struct {
//	    cbor.FlatRecord
//	    X int32
//	    Y int32
//	}
//
// Types that implement TypeIdentified are opted in without the marker.
type FlatRecord struct{}

// Encodable is implemented by types that encode themselves. The reflection
// codec prefers this hook over its own field walk for nested values (fields,
// elements, map entries and pointees); EncodeRecord and DecodeRecord walk
// the fields of the struct they are given without consulting its own hooks.
// Implementations should use a value receiver so the hook is visible on both
// values and pointers.
type Encodable interface {
	EncodeCBOR(buf WriteBuffer) error
}

// Decodable is implemented by types that decode themselves. Implementations
// need a pointer receiver to store the result.
type Decodable interface {
	DecodeCBOR(buf *ReadBuffer) error
}

// Encode encodes a self-encoding value, guarding it with a checkpoint so a
// failure leaves the buffer untouched.
func Encode(buf WriteBuffer, v Encodable) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := v.EncodeCBOR(buf); err != nil {
		return err
	}
	cp.Commit()
	return nil
}

// Decode decodes into a self-decoding value, guarding the read cursor with
// a checkpoint so a failure leaves it untouched.
func Decode(buf *ReadBuffer, v Decodable) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := v.DecodeCBOR(buf); err != nil {
		return err
	}
	cp.Commit()
	return nil
}

var (
	flatRecordType     = reflect.TypeOf(FlatRecord{})
	typeIdentifiedType = reflect.TypeOf((*TypeIdentified)(nil)).Elem()
	encodableType      = reflect.TypeOf((*Encodable)(nil)).Elem()
	decodableType      = reflect.TypeOf((*Decodable)(nil)).Elem()
)

// isWhitelisted reports whether a struct type has opted into the record
// codec, either through a type ID binding or the FlatRecord marker.
func isWhitelisted(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	if t.Implements(typeIdentifiedType) ||
		reflect.PointerTo(t).Implements(typeIdentifiedType) {
		return true
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type == flatRecordType {
			return true
		}
	}
	return false
}

// EncodeRecord encodes a whitelisted struct (or pointer to one) as the
// bare concatenation of its exported fields in declaration order. No array
// head is emitted; the field count and order are part of the schema
// contract.
func EncodeRecord(buf WriteBuffer, v any) error {
	if v == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidUsage)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("%w: nil record", ErrInvalidUsage)
		}
		rv = rv.Elem()
	}
	if !isWhitelisted(rv.Type()) {
		return fmt.Errorf(
			"%w: type %s is not whitelisted for record encoding",
			ErrInvalidUsage,
			rv.Type(),
		)
	}
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := encodeRecordFields(buf, rv); err != nil {
		return err
	}
	cp.Commit()
	return nil
}

// DecodeRecord decodes into a whitelisted struct via a non-nil pointer,
// reading its exported fields in declaration order.
func DecodeRecord(buf *ReadBuffer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf(
			"%w: record target must be a non-nil pointer",
			ErrInvalidUsage,
		)
	}
	elem := rv.Elem()
	if !isWhitelisted(elem.Type()) {
		return fmt.Errorf(
			"%w: type %s is not whitelisted for record decoding",
			ErrInvalidUsage,
			elem.Type(),
		)
	}
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := decodeRecordFields(buf, elem); err != nil {
		return err
	}
	cp.Commit()
	return nil
}

func encodeRecordFields(buf WriteBuffer, rv reflect.Value) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && field.Type == flatRecordType {
			continue
		}
		if err := encodeReflectValue(buf, rv.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func decodeRecordFields(buf *ReadBuffer, rv reflect.Value) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && field.Type == flatRecordType {
			continue
		}
		if err := decodeReflectValue(buf, rv.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func encodeReflectValue(buf WriteBuffer, rv reflect.Value) error {
	// A type's own codec hook wins over the field walk
	if rv.Type().Implements(encodableType) {
		return rv.Interface().(Encodable).EncodeCBOR(buf)
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(encodableType) {
		return rv.Addr().Interface().(Encodable).EncodeCBOR(buf)
	}
	switch rv.Kind() {
	case reflect.Bool:
		return EncodeBool(buf, rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return EncodeInt(buf, rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return EncodeUint(buf, rv.Uint())
	case reflect.Float32:
		return EncodeFloat32(buf, float32(rv.Float()))
	case reflect.Float64:
		return EncodeFloat64(buf, rv.Float())
	case reflect.String:
		return EncodeText(buf, rv.String())
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return EncodeBytes(buf, rv.Bytes())
		}
		return encodeReflectList(buf, rv)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			content := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(content), rv)
			return EncodeBytes(buf, content)
		}
		return encodeReflectList(buf, rv)
	case reflect.Map:
		return encodeReflectMap(buf, rv)
	case reflect.Pointer:
		if rv.IsNil() {
			return EncodeNull(buf)
		}
		return encodeReflectValue(buf, rv.Elem())
	case reflect.Struct:
		if !isWhitelisted(rv.Type()) {
			return fmt.Errorf(
				"%w: embedded type %s is not whitelisted for record encoding",
				ErrInvalidUsage,
				rv.Type(),
			)
		}
		cp := buf.Checkpoint()
		defer cp.Rollback()
		if err := encodeRecordFields(buf, rv); err != nil {
			return err
		}
		cp.Commit()
		return nil
	default:
		return fmt.Errorf(
			"%w: unsupported record field kind %s",
			ErrInvalidUsage,
			rv.Kind(),
		)
	}
}

func encodeReflectList(buf WriteBuffer, rv reflect.Value) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := EncodeArgument(buf, MajorTypeArray, uint64(rv.Len())); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := encodeReflectValue(buf, rv.Index(i)); err != nil {
			return err
		}
	}
	cp.Commit()
	return nil
}

func encodeReflectMap(buf WriteBuffer, rv reflect.Value) error {
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := EncodeArgument(buf, MajorTypeMap, uint64(rv.Len())); err != nil {
		return err
	}
	pairs := make([]rawPair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		keyBuf := NewDynamicBuffer()
		if err := encodeReflectValue(keyBuf, iter.Key()); err != nil {
			return err
		}
		valueBuf := NewDynamicBuffer()
		if err := encodeReflectValue(valueBuf, iter.Value()); err != nil {
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

func decodeReflectValue(buf *ReadBuffer, rv reflect.Value) error {
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(decodableType) {
		return rv.Addr().Interface().(Decodable).DecodeCBOR(buf)
	}
	switch rv.Kind() {
	case reflect.Bool:
		var v bool
		if err := DecodeBool(buf, &v); err != nil {
			return err
		}
		rv.SetBool(v)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var v int64
		if err := DecodeInt(buf, &v); err != nil {
			return err
		}
		if rv.OverflowInt(v) {
			return ErrValueNotRepresentable
		}
		rv.SetInt(v)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var v uint64
		if err := DecodeUint(buf, &v); err != nil {
			return err
		}
		if rv.OverflowUint(v) {
			return ErrValueNotRepresentable
		}
		rv.SetUint(v)
		return nil
	case reflect.Float32:
		var v float32
		if err := DecodeFloat32(buf, &v); err != nil {
			return err
		}
		rv.SetFloat(float64(v))
		return nil
	case reflect.Float64:
		var v float64
		if err := DecodeFloat64(buf, &v); err != nil {
			return err
		}
		rv.SetFloat(v)
		return nil
	case reflect.String:
		var v string
		if err := DecodeText(buf, &v, NoMaxSize); err != nil {
			return err
		}
		rv.SetString(v)
		return nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			var v []byte
			if err := DecodeBytes(buf, &v, NoMaxSize); err != nil {
				return err
			}
			rv.SetBytes(v)
			return nil
		}
		return decodeReflectList(buf, rv)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return DecodeBytesFixed(buf, rv.Slice(0, rv.Len()).Bytes())
		}
		return decodeReflectArray(buf, rv)
	case reflect.Map:
		return decodeReflectMap(buf, rv)
	case reflect.Pointer:
		return decodeReflectOptional(buf, rv)
	case reflect.Struct:
		if !isWhitelisted(rv.Type()) {
			return fmt.Errorf(
				"%w: embedded type %s is not whitelisted for record decoding",
				ErrInvalidUsage,
				rv.Type(),
			)
		}
		cp := buf.Checkpoint()
		defer cp.Rollback()
		if err := decodeRecordFields(buf, rv); err != nil {
			return err
		}
		cp.Commit()
		return nil
	default:
		return fmt.Errorf(
			"%w: unsupported record field kind %s",
			ErrInvalidUsage,
			rv.Kind(),
		)
	}
}

func decodeReflectList(buf *ReadBuffer, rv reflect.Value) error {
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
	if count > uint64(buf.Remaining()) {
		return ErrBufferUnderflow
	}
	out := reflect.MakeSlice(rv.Type(), int(count), int(count))
	for i := 0; i < int(count); i++ {
		if err := decodeReflectValue(buf, out.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	cp.Commit()
	return nil
}

func decodeReflectArray(buf *ReadBuffer, rv reflect.Value) error {
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
	if count < uint64(rv.Len()) {
		return ErrBufferUnderflow
	}
	if count > uint64(rv.Len()) {
		return ErrBufferOverflow
	}
	for i := 0; i < rv.Len(); i++ {
		if err := decodeReflectValue(buf, rv.Index(i)); err != nil {
			return err
		}
	}
	cp.Commit()
	return nil
}

func decodeReflectMap(buf *ReadBuffer, rv reflect.Value) error {
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
	if count > uint64(buf.Remaining()/2) {
		return ErrBufferUnderflow
	}
	out := reflect.MakeMapWithSize(rv.Type(), int(count))
	for i := uint64(0); i < count; i++ {
		key := reflect.New(rv.Type().Key()).Elem()
		if err := decodeReflectValue(buf, key); err != nil {
			return err
		}
		value := reflect.New(rv.Type().Elem()).Elem()
		if err := decodeReflectValue(buf, value); err != nil {
			return err
		}
		out.SetMapIndex(key, value)
	}
	rv.Set(out)
	cp.Commit()
	return nil
}

func decodeReflectOptional(buf *ReadBuffer, rv reflect.Value) error {
	cp := buf.Checkpoint()
	b, err := buf.ReadByte()
	if err != nil {
		cp.Rollback()
		return err
	}
	if b == nullByte {
		cp.Commit()
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	cp.Rollback()
	inner := reflect.New(rv.Type().Elem())
	if err := decodeReflectValue(buf, inner.Elem()); err != nil {
		return err
	}
	rv.Set(inner)
	return nil
}
