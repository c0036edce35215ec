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
	"sync"

	"github.com/jinzhu/copier"
)

var genericTypeCache = map[reflect.Type]reflect.Type{}
var genericTypeCacheMutex sync.RWMutex

// genericShadowType builds (and caches) a method-free struct type with the
// same exported fields as t. Encoding through the shadow bypasses any
// EncodeCBOR/DecodeCBOR defined on t itself while the fields keep their own
// codec hooks.
func genericShadowType(t reflect.Type) reflect.Type {
	genericTypeCacheMutex.RLock()
	shadow, ok := genericTypeCache[t]
	genericTypeCacheMutex.RUnlock()
	if ok {
		return shadow
	}
	shadowFields := []reflect.StructField{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && field.Type == flatRecordType {
			continue
		}
		shadowFields = append(shadowFields, field)
	}
	shadow = reflect.StructOf(shadowFields)
	genericTypeCacheMutex.Lock()
	genericTypeCache[t] = shadow
	genericTypeCacheMutex.Unlock()
	return shadow
}

// EncodeRecordGeneric encodes a whitelisted struct without using its own
// EncodeCBOR hook. The source must be a pointer to a struct.
func EncodeRecordGeneric(buf WriteBuffer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() ||
		rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf(
			"%w: generic source must be a pointer to a struct",
			ErrInvalidUsage,
		)
	}
	elem := rv.Elem()
	if !isWhitelisted(elem.Type()) {
		return fmt.Errorf(
			"%w: type %s is not whitelisted for record encoding",
			ErrInvalidUsage,
			elem.Type(),
		)
	}
	shadow := reflect.New(genericShadowType(elem.Type()))
	if err := copier.Copy(shadow.Interface(), v); err != nil {
		return fmt.Errorf("%w: %s", ErrEncoding, err)
	}
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := encodeRecordFields(buf, shadow.Elem()); err != nil {
		return err
	}
	cp.Commit()
	return nil
}

// DecodeRecordGeneric decodes into a whitelisted struct without using its
// own DecodeCBOR hook. The target must be a non-nil pointer to a struct.
func DecodeRecordGeneric(buf *ReadBuffer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() ||
		rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf(
			"%w: generic target must be a non-nil pointer to a struct",
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
	shadow := reflect.New(genericShadowType(elem.Type()))
	cp := buf.Checkpoint()
	defer cp.Rollback()
	if err := decodeRecordFields(buf, shadow.Elem()); err != nil {
		return err
	}
	if err := copier.Copy(v, shadow.Interface()); err != nil {
		return fmt.Errorf("%w: %s", ErrDecoding, err)
	}
	cp.Commit()
	return nil
}
