package core

import (
	"errors"
	"testing"
)

func TestValidateConnection(t *testing.T) {
	tests := []struct {
		name    string
		conn    *Connection
		wantErr error
	}{
		{
			name:    "valid connection",
			conn:    &Connection{ID: "milvus_default", URI: "http://localhost:19530"},
			wantErr: nil,
		},
		{
			name:    "nil connection",
			conn:    nil,
			wantErr: ErrInvalidConnection,
		},
		{
			name:    "empty id",
			conn:    &Connection{URI: "http://localhost:19530"},
			wantErr: ErrInvalidConnectionID,
		},
		{
			name:    "empty uri",
			conn:    &Connection{ID: "milvus_default"},
			wantErr: ErrEmptyURI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConnection(tt.conn)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateConnection() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateConnection() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidConnection) {
				t.Errorf("ValidateConnection() error = %v, want wrapped ErrInvalidConnection", err)
			}
		})
	}
}

func TestValidateIngestRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *IngestRequest
		wantErr error
	}{
		{
			name:    "valid request",
			req:     &IngestRequest{CollectionName: "docs", Records: []Record{{"id": 1}}},
			wantErr: nil,
		},
		{
			name:    "nil request",
			req:     nil,
			wantErr: ErrInvalidIngestRequest,
		},
		{
			name:    "empty collection",
			req:     &IngestRequest{Records: []Record{{"id": 1}}},
			wantErr: ErrEmptyCollectionName,
		},
		{
			name:    "no records",
			req:     &IngestRequest{CollectionName: "docs"},
			wantErr: ErrNoRecords,
		},
		{
			name:    "nil record",
			req:     &IngestRequest{CollectionName: "docs", Records: []Record{{"id": 1}, nil}},
			wantErr: ErrInvalidIngestRequest,
		},
		{
			name:    "empty record",
			req:     &IngestRequest{CollectionName: "docs", Records: []Record{{"id": 1}, {}}},
			wantErr: ErrNoRecords,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIngestRequest(tt.req)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateIngestRequest() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateIngestRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeRecords_SingleMapping(t *testing.T) {
	records, err := NormalizeRecords(map[string]any{"id": 7, "text": "hello"})
	if err != nil {
		t.Fatalf("NormalizeRecords() unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("NormalizeRecords() returned %d records, want 1", len(records))
	}
	if records[0]["text"] != "hello" {
		t.Errorf("NormalizeRecords() record = %v", records[0])
	}
}

func TestNormalizeRecords_Sequences(t *testing.T) {
	tests := []struct {
		name string
		data any
		want int
	}{
		{"record", Record{"id": 1}, 1},
		{"record slice", []Record{{"id": 1}, {"id": 2}}, 2},
		{"map slice", []map[string]any{{"id": 1}, {"id": 2}, {"id": 3}}, 3},
		{"decoded json array", []any{map[string]any{"id": 1}, map[string]any{"id": 2}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := NormalizeRecords(tt.data)
			if err != nil {
				t.Fatalf("NormalizeRecords() unexpected error: %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("NormalizeRecords() returned %d records, want %d", len(records), tt.want)
			}
		})
	}
}

func TestNormalizeRecords_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    any
		wantErr error
	}{
		{"nil", nil, ErrNoRecords},
		{"empty slice", []map[string]any{}, ErrNoRecords},
		{"string", "not a record", ErrUnsupportedData},
		{"mixed array", []any{map[string]any{"id": 1}, 42}, ErrUnsupportedData},
		{"empty mapping", map[string]any{}, ErrNoRecords},
		{"empty record in sequence", []Record{{"id": 1}, {}}, ErrNoRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeRecords(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NormalizeRecords() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
