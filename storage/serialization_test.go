package storage

import (
	"testing"
	"time"

	"github.com/poiesic/milvusprovider/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalConnection(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name string
		conn *core.Connection
	}{
		{
			name: "minimal connection",
			conn: &core.Connection{
				ID:  "milvus_default",
				URI: "http://localhost:19530",
			},
		},
		{
			name: "full connection",
			conn: &core.Connection{
				ID:          "milvus_prod",
				URI:         "https://in01.example.com:19530",
				Login:       core.StringPtr("root"),
				Password:    core.StringPtr("Milvus"),
				Extra:       `{"db_name":"docs","token":"t","timeout":5.0}`,
				Description: "production cluster",
				InsertedAt:  now,
				UpdatedAt:   now,
			},
		},
		{
			name: "empty credentials",
			conn: &core.Connection{
				ID:       "milvus_empty",
				URI:      "http://localhost:19530",
				Login:    core.StringPtr(""),
				Password: core.StringPtr(""),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalConnection(tt.conn)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalConnection(data)
			require.NoError(t, err)
			assert.Equal(t, tt.conn, decoded)
		})
	}
}

func TestUnmarshalConnection_PreservesAbsence(t *testing.T) {
	conn := &core.Connection{
		ID:       "milvus_default",
		URI:      "http://localhost:19530",
		Login:    core.StringPtr(""),
		Password: nil,
	}

	decoded, err := UnmarshalConnection(MarshalConnection(conn))
	require.NoError(t, err)

	require.NotNil(t, decoded.Login)
	assert.Equal(t, "", *decoded.Login)
	assert.Nil(t, decoded.Password)
}

func TestUnmarshalConnection_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalConnection(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestUnmarshalConnection_Truncated(t *testing.T) {
	data := MarshalConnection(&core.Connection{
		ID:          "milvus_default",
		URI:         "http://localhost:19530",
		Description: "truncated below",
	})

	_, err := UnmarshalConnection(data[:len(data)/2])
	assert.Error(t, err)
}
