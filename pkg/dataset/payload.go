package dataset

import "bytes"

// Payload is an opaque JSON document (label, sensor set or catalog) that the
// service serialises verbatim. An empty Payload encodes as {}.
type Payload []byte

var emptyObject = []byte("{}")

// MarshalJSON implements json.Marshaler.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(p)) == 0 {
		return emptyObject, nil
	}
	return p, nil
}

// UnmarshalJSON implements json.Unmarshaler. The input is copied.
func (p *Payload) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*p = nil
		return nil
	}
	*p = append((*p)[:0], b...)
	return nil
}

// Empty reports whether the payload carries no document.
func (p Payload) Empty() bool { return len(bytes.TrimSpace(p)) == 0 }
