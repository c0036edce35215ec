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
	"testing"

	"github.com/blinklabs-io/dcbor/cbor"
	"github.com/blinklabs-io/dcbor/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// message is the closed set of payloads carried on the wire
type message interface {
	isMessage()
}

type readingMessage struct {
	cbor.FlatRecord
	A int8
	B float64
	C string
}

func (readingMessage) isMessage() {}

func (readingMessage) TypeID() int64 {
	return 0xBEEF
}

type statusMessage struct {
	cbor.FlatRecord
	Healthy *bool
	Active  bool
}

func (statusMessage) isMessage() {}

func (statusMessage) TypeID() int64 {
	return 0xDEAF
}

func encodeReadingMessage(buf cbor.WriteBuffer, v readingMessage) error {
	return cbor.EncodeRecord(buf, v)
}

func decodeReadingMessage(buf *cbor.ReadBuffer, v *readingMessage) error {
	return cbor.DecodeRecord(buf, v)
}

func encodeStatusMessage(buf cbor.WriteBuffer, v statusMessage) error {
	return cbor.EncodeRecord(buf, v)
}

func decodeStatusMessage(buf *cbor.ReadBuffer, v *statusMessage) error {
	return cbor.DecodeRecord(buf, v)
}

var messageCodec = cbor.NewVariantCodec(
	cbor.Alt[message](encodeReadingMessage, decodeReadingMessage),
	cbor.Alt[message](encodeStatusMessage, decodeStatusMessage),
)

func TestVariantEncode(t *testing.T) {
	buf := cbor.NewDynamicBuffer()
	var value message = readingMessage{A: 1, B: 0.0, C: "a"}
	require.NoError(t, messageCodec.Encode(buf, value))
	// [type_id, payload] with the record flattened inside the envelope
	assert.Equal(t, test.DecodeHexString("8219beef01f900006161"), buf.Bytes())

	buf = cbor.NewDynamicBuffer()
	value = statusMessage{Healthy: nil, Active: true}
	require.NoError(t, messageCodec.Encode(buf, value))
	assert.Equal(t, test.DecodeHexString("8219deaff6f5"), buf.Bytes())
}

func TestVariantDecode(t *testing.T) {
	buf := cbor.NewReadBuffer(test.DecodeHexString("8219beef01f900006161"))
	var value message
	require.NoError(t, messageCodec.Decode(buf, &value))
	assert.Equal(t, readingMessage{A: 1, B: 0.0, C: "a"}, value)
	assert.Equal(t, 0, buf.Remaining())

	buf = cbor.NewReadBuffer(test.DecodeHexString("8219deaff6f5"))
	require.NoError(t, messageCodec.Decode(buf, &value))
	status, ok := value.(statusMessage)
	require.True(t, ok)
	assert.Nil(t, status.Healthy)
	assert.True(t, status.Active)
}

func TestVariantRoundTrip(t *testing.T) {
	healthy := true
	values := []message{
		readingMessage{A: -5, B: 1.5, C: "xyz"},
		statusMessage{Healthy: &healthy, Active: false},
	}
	for _, value := range values {
		buf := cbor.NewDynamicBuffer()
		require.NoError(t, messageCodec.Encode(buf, value))
		var decoded message
		rbuf := cbor.NewReadBuffer(buf.Bytes())
		require.NoError(t, messageCodec.Decode(rbuf, &decoded))
		assert.Equal(t, value, decoded)
	}
}

func TestVariantDecodeErrors(t *testing.T) {
	var value message
	// Empty input
	buf := cbor.NewReadBuffer([]byte{})
	err := messageCodec.Decode(buf, &value)
	require.ErrorIs(t, err, cbor.ErrBufferUnderflow)
	// Envelope is not an array
	buf = cbor.NewReadBuffer(test.DecodeHexString("40"))
	err = messageCodec.Decode(buf, &value)
	require.ErrorIs(t, err, cbor.ErrUnexpectedType)
	// Envelope with the wrong element count
	buf = cbor.NewReadBuffer(test.DecodeHexString("8319beef00f6"))
	err = messageCodec.Decode(buf, &value)
	require.ErrorIs(t, err, cbor.ErrDecoding)
	// Unknown alternative type ID
	buf = cbor.NewReadBuffer(test.DecodeHexString("8219beedf90000"))
	err = messageCodec.Decode(buf, &value)
	require.ErrorIs(t, err, cbor.ErrUnexpectedType)
	// Truncated alternative payload propagates the nested error
	buf = cbor.NewReadBuffer(test.DecodeHexString("8219beef01f90000"))
	err = messageCodec.Decode(buf, &value)
	require.ErrorIs(t, err, cbor.ErrBufferUnderflow)
	assert.Equal(t, 0, buf.Position())
}

func TestVariantEncodeRollback(t *testing.T) {
	value := readingMessage{A: 1, B: 0.0, C: "a"}
	// The full envelope needs 10 bytes; every shorter cap must leave the
	// buffer empty
	for _, maxCapacity := range []int{0, 1, 4, 9} {
		buf := cbor.NewDynamicBuffer(cbor.WithMaxCapacity(maxCapacity))
		err := messageCodec.Encode(buf, value)
		require.ErrorIs(t, err, cbor.ErrBufferOverflow)
		assert.Equal(t, 0, buf.Size())
	}
}

func TestVariantEncodeUnknownAlternative(t *testing.T) {
	codec := cbor.NewVariantCodec(
		cbor.Alt[message](encodeReadingMessage, decodeReadingMessage),
	)
	buf := cbor.NewDynamicBuffer()
	var rogue message = statusMessage{Active: true}
	err := codec.Encode(buf, rogue)
	require.ErrorIs(t, err, cbor.ErrEncoding)
	assert.Equal(t, 0, buf.Size())
}

func TestVariantDuplicateTypeIDPanics(t *testing.T) {
	assert.Panics(t, func() {
		cbor.NewVariantCodec(
			cbor.Alt[message](encodeReadingMessage, decodeReadingMessage),
			cbor.Alt[message](encodeReadingMessage, decodeReadingMessage),
		)
	})
}

func TestVariantNoAlternativesPanics(t *testing.T) {
	assert.Panics(t, func() {
		cbor.NewVariantCodec[message]()
	})
}

func TestEncodeBoxed(t *testing.T) {
	value := readingMessage{A: 1, B: 0.0, C: "a"}
	buf := cbor.NewDynamicBuffer()
	require.NoError(t, cbor.EncodeBoxed(buf, value, encodeReadingMessage))
	assert.Equal(t, test.DecodeHexString("8219beef01f900006161"), buf.Bytes())
}

func TestDecodeBoxed(t *testing.T) {
	buf := cbor.NewReadBuffer(test.DecodeHexString("8219beef01f900006161"))
	var value readingMessage
	require.NoError(t, cbor.DecodeBoxed(buf, &value, decodeReadingMessage))
	assert.Equal(t, readingMessage{A: 1, B: 0.0, C: "a"}, value)
	// Mismatched type ID
	buf = cbor.NewReadBuffer(test.DecodeHexString("8219deaf01f900006161"))
	err := cbor.DecodeBoxed(buf, &value, decodeReadingMessage)
	require.ErrorIs(t, err, cbor.ErrUnexpectedType)
	assert.Equal(t, 0, buf.Position())
}

func TestBoxedEncodeRollback(t *testing.T) {
	value := readingMessage{A: 1, B: 0.0, C: "a"}
	for _, maxCapacity := range []int{0, 1, 4} {
		buf := cbor.NewDynamicBuffer(cbor.WithMaxCapacity(maxCapacity))
		err := cbor.EncodeBoxed(buf, value, encodeReadingMessage)
		require.ErrorIs(t, err, cbor.ErrBufferOverflow)
		assert.Equal(t, 0, buf.Size())
	}
}
