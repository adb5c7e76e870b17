package serialization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID     string            `json:"id" msgpack:"id"`
	Name   string            `json:"name" msgpack:"name"`
	Fields map[string]string `json:"fields" msgpack:"fields"`
}

func samplePayload() payload {
	return payload{
		ID:   "flow-1",
		Name: "customer import",
		Fields: map[string]string{
			"email": "string",
			"age":   "number",
		},
	}
}

func TestSerializer_RoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "json plain",
			config: Config{Codec: NewJSONCodec(), Compression: CompressionNone},
		},
		{
			name:   "json gzip",
			config: Config{Codec: NewJSONCodec(), Compression: CompressionGzip},
		},
		{
			name:   "msgpack zstd",
			config: Config{Codec: NewMsgPackCodec(), Compression: CompressionZstd},
		},
		{
			name:   "json encrypted",
			config: Config{Codec: NewJSONCodec(), Compression: CompressionNone, EncryptKey: key},
		},
		{
			name:   "msgpack zstd encrypted",
			config: Config{Codec: NewMsgPackCodec(), Compression: CompressionZstd, EncryptKey: key},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSerializer(tt.config)
			in := samplePayload()

			data, err := s.Serialize(in)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			var out payload
			require.NoError(t, s.Deserialize(data, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestSerializer_WrongKeyFails(t *testing.T) {
	key := make([]byte, 32)
	wrong := make([]byte, 32)
	wrong[0] = 1

	writer := NewSerializer(Config{Codec: NewJSONCodec(), EncryptKey: key})
	reader := NewSerializer(Config{Codec: NewJSONCodec(), EncryptKey: wrong})

	data, err := writer.Serialize(samplePayload())
	require.NoError(t, err)

	var out payload
	assert.Error(t, reader.Deserialize(data, &out))
}

func TestSerializer_TruncatedCiphertext(t *testing.T) {
	key := make([]byte, 32)
	s := NewSerializer(Config{Codec: NewJSONCodec(), EncryptKey: key})

	var out payload
	assert.Error(t, s.Deserialize([]byte{0x01, 0x02}, &out))
}

func TestDefaultSerializer(t *testing.T) {
	s := DefaultSerializer()
	assert.Equal(t, "json", s.Codec().Name())

	data, err := s.Serialize(map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"v"}`, string(data))
}

func TestCompactSerializer(t *testing.T) {
	s := CompactSerializer()
	assert.Equal(t, "msgpack", s.Codec().Name())

	in := samplePayload()
	data, err := s.Serialize(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, s.Deserialize(data, &out))
	assert.Equal(t, in, out)
}
