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

package cbor_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/blinklabs-io/dcbor/cbor"
	"github.com/blinklabs-io/dcbor/internal/test"
)

func TestEncodeFloat64Narrowing(t *testing.T) {
	testDefs := []struct {
		value       float64
		expectedHex string
	}{
		{value: 0.0, expectedHex: "f90000"},
		{value: 1.0, expectedHex: "f93c00"},
		{value: 1.5, expectedHex: "f93e00"},
		{value: 65504.0, expectedHex: "f97bff"},
		{value: 100000.0, expectedHex: "fa47c35000"},
		{value: 1.1, expectedHex: "fb3ff199999999999a"},
		{value: 3.4028234663852886e+38, expectedHex: "fa7f7fffff"},
		{value: 1.0e+300, expectedHex: "fb7e37e43c8800759c"},
		{value: 5.960464477539063e-8, expectedHex: "f90001"},
		{value: 0.00006103515625, expectedHex: "f90400"},
		{value: -4.0, expectedHex: "f9c400"},
		{value: -4.1, expectedHex: "fbc010666666666666"},
	}
	for _, testDef := range testDefs {
		buf := cbor.NewDynamicBuffer()
		if err := cbor.EncodeFloat64(buf, testDef.value); err != nil {
			t.Fatalf("unexpected error encoding %v: %s", testDef.value, err)
		}
		expected := test.DecodeHexString(testDef.expectedHex)
		if !bytes.Equal(buf.Bytes(), expected) {
			t.Fatalf(
				"value %v: expected %x, got %x",
				testDef.value,
				expected,
				buf.Bytes(),
			)
		}
	}
}

func TestEncodeFloat32Narrowing(t *testing.T) {
	testDefs := []struct {
		value       float32
		expectedHex string
	}{
		{value: 0.0, expectedHex: "f90000"},
		{value: 1.0, expectedHex: "f93c00"},
		{value: 1.1, expectedHex: "fa3f8ccccd"},
		{value: 65504.0, expectedHex: "f97bff"},
		{value: 100000.0, expectedHex: "fa47c35000"},
		{value: -4.0, expectedHex: "f9c400"},
		{value: -4.1, expectedHex: "fac0833333"},
	}
	for _, testDef := range testDefs {
		buf := cbor.NewDynamicBuffer()
		if err := cbor.EncodeFloat32(buf, testDef.value); err != nil {
			t.Fatalf("unexpected error encoding %v: %s", testDef.value, err)
		}
		expected := test.DecodeHexString(testDef.expectedHex)
		if !bytes.Equal(buf.Bytes(), expected) {
			t.Fatalf(
				"value %v: expected %x, got %x",
				testDef.value,
				expected,
				buf.Bytes(),
			)
		}
	}
}

func TestEncodeFloatSpecialValues(t *testing.T) {
	testDefs := []struct {
		value       float64
		expectedHex string
	}{
		{value: math.NaN(), expectedHex: "f97e00"},
		{value: math.Inf(1), expectedHex: "f97c00"},
		{value: math.Inf(-1), expectedHex: "f9fc00"},
	}
	for _, testDef := range testDefs {
		buf := cbor.NewDynamicBuffer()
		if err := cbor.EncodeFloat64(buf, testDef.value); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		expected := test.DecodeHexString(testDef.expectedHex)
		if !bytes.Equal(buf.Bytes(), expected) {
			t.Fatalf("expected %x, got %x", expected, buf.Bytes())
		}
		// Same canonical form from the single-precision encoder
		buf = cbor.NewDynamicBuffer()
		if err := cbor.EncodeFloat32(buf, float32(testDef.value)); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !bytes.Equal(buf.Bytes(), expected) {
			t.Fatalf("expected %x, got %x", expected, buf.Bytes())
		}
	}
}

func TestDecodeFloat64(t *testing.T) {
	testDefs := []struct {
		cborHex  string
		expected float64
	}{
		{cborHex: "f90000", expected: 0.0},
		{cborHex: "f93c00", expected: 1.0},
		{cborHex: "f93e00", expected: 1.5},
		{cborHex: "f97bff", expected: 65504.0},
		{cborHex: "fa47c35000", expected: 100000.0},
		{cborHex: "fb3ff199999999999a", expected: 1.1},
		{cborHex: "f90001", expected: 5.960464477539063e-8},
		{cborHex: "f90400", expected: 0.00006103515625},
		{cborHex: "f9c400", expected: -4.0},
		{cborHex: "fbc010666666666666", expected: -4.1},
	}
	for _, testDef := range testDefs {
		buf := cbor.NewReadBuffer(test.DecodeHexString(testDef.cborHex))
		var v float64
		if err := cbor.DecodeFloat64(buf, &v); err != nil {
			t.Fatalf("unexpected error decoding %s: %s", testDef.cborHex, err)
		}
		if v != testDef.expected {
			t.Fatalf("expected %v, got %v", testDef.expected, v)
		}
	}
}

func TestDecodeFloatSpecialValues(t *testing.T) {
	infDefs := []struct {
		cborHex string
		sign    int
	}{
		{cborHex: "f97c00", sign: 1},
		{cborHex: "fa7f800000", sign: 1},
		{cborHex: "fb7ff0000000000000", sign: 1},
		{cborHex: "f9fc00", sign: -1},
		{cborHex: "faff800000", sign: -1},
		{cborHex: "fbfff0000000000000", sign: -1},
	}
	for _, testDef := range infDefs {
		var v64 float64
		buf := cbor.NewReadBuffer(test.DecodeHexString(testDef.cborHex))
		if err := cbor.DecodeFloat64(buf, &v64); err != nil {
			t.Fatalf("unexpected error decoding %s: %s", testDef.cborHex, err)
		}
		if !math.IsInf(v64, testDef.sign) {
			t.Fatalf("%s: expected infinity with sign %d, got %v", testDef.cborHex, testDef.sign, v64)
		}
		var v32 float32
		buf = cbor.NewReadBuffer(test.DecodeHexString(testDef.cborHex))
		if err := cbor.DecodeFloat32(buf, &v32); err != nil {
			t.Fatalf("unexpected error decoding %s: %s", testDef.cborHex, err)
		}
		if !math.IsInf(float64(v32), testDef.sign) {
			t.Fatalf("%s: expected infinity with sign %d, got %v", testDef.cborHex, testDef.sign, v32)
		}
	}
	nanDefs := []string{"f97e00", "fa7fc00000", "fb7ff8000000000000"}
	for _, cborHex := range nanDefs {
		var v64 float64
		buf := cbor.NewReadBuffer(test.DecodeHexString(cborHex))
		if err := cbor.DecodeFloat64(buf, &v64); err != nil {
			t.Fatalf("unexpected error decoding %s: %s", cborHex, err)
		}
		if !math.IsNaN(v64) {
			t.Fatalf("%s: expected NaN, got %v", cborHex, v64)
		}
		var v32 float32
		buf = cbor.NewReadBuffer(test.DecodeHexString(cborHex))
		if err := cbor.DecodeFloat32(buf, &v32); err != nil {
			t.Fatalf("unexpected error decoding %s: %s", cborHex, err)
		}
		if !math.IsNaN(float64(v32)) {
			t.Fatalf("%s: expected NaN, got %v", cborHex, v32)
		}
	}
}

func TestDecodeFloatErrors(t *testing.T) {
	var v64 float64
	var v32 float32
	// Wrong major type
	buf := cbor.NewReadBuffer(test.DecodeHexString("793ee8"))
	if err := cbor.DecodeFloat64(buf, &v64); !errors.Is(err, cbor.ErrUnexpectedType) {
		t.Fatalf("expected ErrUnexpectedType, got %v", err)
	}
	// Wrong simple subtype
	buf = cbor.NewReadBuffer([]byte{0xF4})
	if err := cbor.DecodeFloat64(buf, &v64); !errors.Is(err, cbor.ErrUnexpectedType) {
		t.Fatalf("expected ErrUnexpectedType, got %v", err)
	}
	// Truncated payload
	buf = cbor.NewReadBuffer(test.DecodeHexString("f93c"))
	if err := cbor.DecodeFloat64(buf, &v64); !errors.Is(err, cbor.ErrBufferUnderflow) {
		t.Fatalf("expected ErrBufferUnderflow, got %v", err)
	}
	// Precision loss narrowing a double into a single target
	buf = cbor.NewReadBuffer(test.DecodeHexString("fb7e37e43c8800759c"))
	if err := cbor.DecodeFloat32(buf, &v32); !errors.Is(err, cbor.ErrValueNotRepresentable) {
		t.Fatalf("expected ErrValueNotRepresentable, got %v", err)
	}
	if buf.Position() != 0 {
		t.Fatalf("cursor moved to %d on failed decode", buf.Position())
	}
}

func TestFloatRoundTrip(t *testing.T) {
	values := []float64{
		0.0, 1.0, -1.0, 1.5, 1.1, -4.1, 65504.0, 65505.0, 1.0e+300,
		5.960464477539063e-8, math.MaxFloat64, math.SmallestNonzeroFloat64,
	}
	for _, value := range values {
		buf := cbor.NewDynamicBuffer()
		if err := cbor.EncodeFloat64(buf, value); err != nil {
			t.Fatalf("unexpected error encoding %v: %s", value, err)
		}
		var decoded float64
		rbuf := cbor.NewReadBuffer(buf.Bytes())
		if err := cbor.DecodeFloat64(rbuf, &decoded); err != nil {
			t.Fatalf("unexpected error decoding %v: %s", value, err)
		}
		if decoded != value {
			t.Fatalf("round trip mismatch: %v != %v", decoded, value)
		}
	}
}
