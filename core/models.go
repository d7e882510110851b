package core

import (
	"encoding/hex"
	"math"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DefaultConnID is the connection identifier used when none is given.
const DefaultConnID = "milvus_default"

// Connection is an entry in the connection registry.
// Extra holds the free-form extension map as JSON object text.
type Connection struct {
	ID          string
	URI         string
	Login       *string // nil when no login is configured
	Password    *string // nil when no password is configured
	Extra       string
	Description string
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// Extras are the typed connection extensions understood by the Milvus client.
// Every field is nil when the registry entry does not define it.
type Extras struct {
	DBName         *string
	Token          *string
	TimeoutSeconds *float64
}

// ConnectionSpec is a resolved connection, ready to construct a client from.
type ConnectionSpec struct {
	ID       string
	URI      string
	Login    *string
	Password *string
	Extra    Extras
}

// Timeout returns the configured operation timeout, or zero when none is set.
func (s *ConnectionSpec) Timeout() time.Duration {
	if s.Extra.TimeoutSeconds == nil {
		return 0
	}
	seconds := *s.Extra.TimeoutSeconds
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	if seconds >= float64(math.MaxInt64)/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(seconds * float64(time.Second))
}

// Fingerprint identifies the configuration without exposing secrets.
// Password and token contribute only their presence, never their value.
func (s *ConnectionSpec) Fingerprint() string {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(s.ID))
	h.Write([]byte{0})
	h.Write([]byte(s.URI))
	h.Write([]byte{0})
	h.Write([]byte(deref(s.Login)))
	h.Write([]byte{0})
	h.Write([]byte(deref(s.Extra.DBName)))
	h.Write([]byte{0})
	h.Write(presence(s.Password != nil, s.Extra.Token != nil, s.Extra.TimeoutSeconds != nil))
	if s.Extra.TimeoutSeconds != nil {
		h.Write([]byte(time.Duration(*s.Extra.TimeoutSeconds * float64(time.Second)).String()))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Record is a single row to insert, keyed by field name.
type Record map[string]any

// IngestRequest is one insert call against a collection.
type IngestRequest struct {
	CollectionName string
	Records        []Record
	PartitionName  string         // empty selects the default partition
	Timeout        *time.Duration // overrides the connection timeout when set
}

// InsertResult reports what the remote service accepted.
type InsertResult struct {
	InsertCount int64
	IDs         []any
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 {
	return &f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func presence(flags ...bool) []byte {
	out := make([]byte, len(flags))
	for i, f := range flags {
		if f {
			out[i] = 1
		}
	}
	return out
}
