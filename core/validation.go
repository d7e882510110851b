// Copyright 2025 Poiesic Systems
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


package core

import (
	"fmt"
)

// ValidateConnection validates a registry entry before it is stored.
//
// Validation rules:
//   - ID must not be empty
//   - URI must not be empty
//
// NOT validated:
//   - Extra (decoded lazily by the resolver)
//   - Login/Password (absence is legal)
func ValidateConnection(conn *Connection) error {
	if conn == nil {
		return fmt.Errorf("%w: connection is nil", ErrInvalidConnection)
	}

	if conn.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConnection, ErrInvalidConnectionID)
	}

	if conn.URI == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConnection, ErrEmptyURI)
	}

	return nil
}

// ValidateIngestRequest validates an IngestRequest according to domain rules.
//
// Validation rules:
//   - CollectionName must not be empty
//   - Records must contain at least one non-nil record
func ValidateIngestRequest(req *IngestRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidIngestRequest)
	}

	if req.CollectionName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIngestRequest, ErrEmptyCollectionName)
	}

	if len(req.Records) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidIngestRequest, ErrNoRecords)
	}

	for i, record := range req.Records {
		if record == nil {
			return fmt.Errorf("%w: record %d is nil", ErrInvalidIngestRequest, i)
		}
		if len(record) == 0 {
			return fmt.Errorf("%w: %w: record %d is empty", ErrInvalidIngestRequest, ErrNoRecords, i)
		}
	}

	return nil
}

// NormalizeRecords turns a mapping or a sequence of mappings into a record slice.
// A single mapping becomes a one-element slice.
func NormalizeRecords(data any) ([]Record, error) {
	var records []Record

	switch v := data.(type) {
	case nil:
		return nil, ErrNoRecords
	case Record:
		records = []Record{v}
	case map[string]any:
		records = []Record{Record(v)}
	case []Record:
		records = v
	case []map[string]any:
		records = make([]Record, len(v))
		for i, m := range v {
			records[i] = Record(m)
		}
	case []any:
		records = make([]Record, len(v))
		for i, elem := range v {
			switch m := elem.(type) {
			case map[string]any:
				records[i] = Record(m)
			case Record:
				records[i] = m
			default:
				return nil, fmt.Errorf("%w: element %d is %T", ErrUnsupportedData, i, elem)
			}
		}
	default:
		return nil, fmt.Errorf("%w: got %T", ErrUnsupportedData, data)
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	for i, record := range records {
		if len(record) == 0 {
			return nil, fmt.Errorf("%w: record %d is empty", ErrNoRecords, i)
		}
	}
	return records, nil
}
