package badger

// Key prefixes for different data types
const (
	connectionPrefix = "conn:"
)

// makeConnectionKey generates a key for a connection by ID.
// Format: prefix:id
func makeConnectionKey(id string) []byte {
	buf := make([]byte, len(connectionPrefix)+len(id))
	offset := copy(buf, connectionPrefix)
	copy(buf[offset:], id)
	return buf
}
