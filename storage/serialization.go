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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/milvusprovider/core"
)

// connectionMUS encodes a Connection field by field.
// Optional strings are written as a presence flag followed by the value.
type connectionMUS struct{}

var connectionSer = connectionMUS{}

func (connectionMUS) Marshal(c core.Connection, bs []byte) (n int) {
	n = ord.String.Marshal(c.ID, bs)
	n += ord.String.Marshal(c.URI, bs[n:])
	n += marshalOptString(c.Login, bs[n:])
	n += marshalOptString(c.Password, bs[n:])
	n += ord.String.Marshal(c.Extra, bs[n:])
	n += ord.String.Marshal(c.Description, bs[n:])
	n += varint.Int64.Marshal(timeToMicro(c.InsertedAt), bs[n:])
	n += varint.Int64.Marshal(timeToMicro(c.UpdatedAt), bs[n:])
	return
}

func (connectionMUS) Unmarshal(bs []byte) (c core.Connection, n int, err error) {
	var n1 int
	if c.ID, n1, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	n += n1
	if c.URI, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Login, n1, err = unmarshalOptString(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Password, n1, err = unmarshalOptString(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Extra, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if c.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	c.InsertedAt = microToTime(micros)
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	c.UpdatedAt = microToTime(micros)
	return
}

func (connectionMUS) Size(c core.Connection) (size int) {
	size = ord.String.Size(c.ID)
	size += ord.String.Size(c.URI)
	size += sizeOptString(c.Login)
	size += sizeOptString(c.Password)
	size += ord.String.Size(c.Extra)
	size += ord.String.Size(c.Description)
	size += varint.Int64.Size(timeToMicro(c.InsertedAt))
	size += varint.Int64.Size(timeToMicro(c.UpdatedAt))
	return
}

func marshalOptString(s *string, bs []byte) (n int) {
	n = ord.Bool.Marshal(s != nil, bs)
	if s != nil {
		n += ord.String.Marshal(*s, bs[n:])
	}
	return
}

func unmarshalOptString(bs []byte) (s *string, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return nil, n, err
	}
	v, n1, err := ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}
	return &v, n, nil
}

func sizeOptString(s *string) int {
	size := ord.Bool.Size(s != nil)
	if s != nil {
		size += ord.String.Size(*s)
	}
	return size
}

func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}

// MarshalConnection serializes a Connection to bytes.
func MarshalConnection(conn *core.Connection) []byte {
	buf := make([]byte, connectionSer.Size(*conn))
	connectionSer.Marshal(*conn, buf)
	return buf
}

// UnmarshalConnection deserializes a Connection from bytes.
func UnmarshalConnection(data []byte) (*core.Connection, error) {
	conn, _, err := connectionSer.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &conn, nil
}
