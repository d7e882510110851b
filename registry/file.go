package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/milvusprovider/core"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout accepted by LoadFile.
type File struct {
	Connections []FileConnection `yaml:"connections"`
}

// FileConnection is one connection in a YAML file.
// Login and Password are pointers so an omitted credential stays absent.
type FileConnection struct {
	ID          string         `yaml:"id"`
	URI         string         `yaml:"uri"`
	Login       *string        `yaml:"login"`
	Password    *string        `yaml:"password"`
	Description string         `yaml:"description"`
	Extra       map[string]any `yaml:"extra"`
}

// LoadFile reads connections from a YAML file.
// Every connection is validated; the first invalid entry fails the whole file.
func LoadFile(path string) ([]*core.Connection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read connections file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile parses the YAML layout of LoadFile.
func ParseFile(data []byte) ([]*core.Connection, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse connections file: %w", err)
	}

	conns := make([]*core.Connection, 0, len(f.Connections))
	seen := make(map[string]bool, len(f.Connections))
	for i, fc := range f.Connections {
		conn := &core.Connection{
			ID:          fc.ID,
			URI:         fc.URI,
			Login:       fc.Login,
			Password:    fc.Password,
			Description: fc.Description,
		}
		if len(fc.Extra) > 0 {
			raw, err := json.Marshal(fc.Extra)
			if err != nil {
				return nil, fmt.Errorf("connection %d: %w: %w", i, core.ErrInvalidExtra, err)
			}
			conn.Extra = string(raw)
		}

		if err := core.ValidateConnection(conn); err != nil {
			return nil, fmt.Errorf("connection %d: %w", i, err)
		}
		if seen[conn.ID] {
			return nil, fmt.Errorf("connection %d: %w: duplicate id %q", i, core.ErrInvalidConnection, conn.ID)
		}
		seen[conn.ID] = true
		conns = append(conns, conn)
	}
	return conns, nil
}

// NewFileConnection converts a registry entry to its YAML layout.
func NewFileConnection(conn *core.Connection) (FileConnection, error) {
	fc := FileConnection{
		ID:          conn.ID,
		URI:         conn.URI,
		Login:       conn.Login,
		Password:    conn.Password,
		Description: conn.Description,
	}
	if conn.Extra != "" {
		if err := json.Unmarshal([]byte(conn.Extra), &fc.Extra); err != nil {
			return FileConnection{}, fmt.Errorf("connection %q: %w: %w", conn.ID, core.ErrInvalidExtra, err)
		}
	}
	return fc, nil
}

// MarshalFile renders connections in the layout read by ParseFile.
func MarshalFile(conns []*core.Connection) ([]byte, error) {
	f := File{Connections: make([]FileConnection, 0, len(conns))}
	for _, conn := range conns {
		fc, err := NewFileConnection(conn)
		if err != nil {
			return nil, err
		}
		f.Connections = append(f.Connections, fc)
	}
	return yaml.Marshal(&f)
}
