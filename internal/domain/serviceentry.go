package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownServiceName is the last-resort label when a service entry carries
// nothing resolvable.
const UnknownServiceName = "Unknown"

// ServiceEntry identifies one billable service on an order. The external
// store carries these in several legacy shapes: a bare string, an object
// with a name, or an object with only an id and/or type. The first non-empty
// field in priority order (name, id, type, raw) identifies the entry.
type ServiceEntry struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`
	Raw  string `json:"raw,omitempty"`
}

// Token returns the first non-empty identifying field in priority order.
// A blank token means the entry is empty.
func (e ServiceEntry) Token() string {
	for _, v := range []string{e.Name, e.ID, e.Type, e.Raw} {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ResolveName returns the human-readable name for the entry: the name if
// present, the catalog name for the id if the catalog knows it, then the raw
// token, and finally "Unknown".
func (e ServiceEntry) ResolveName(catalog map[string]string) string {
	if strings.TrimSpace(e.Name) != "" {
		return strings.TrimSpace(e.Name)
	}
	if id := strings.TrimSpace(e.ID); id != "" {
		if name, ok := catalog[id]; ok && name != "" {
			return name
		}
	}
	if tok := e.Token(); tok != "" {
		return tok
	}
	return UnknownServiceName
}

// UnmarshalJSON accepts both the bare-string form ("Wash") and the object
// form ({"name": ...} / {"id": ..., "type": ...}). Numeric ids are
// stringified so legacy integer ids resolve against the catalog.
func (e *ServiceEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = ServiceEntry{Raw: s}
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("service entry: %w", err)
	}

	*e = ServiceEntry{
		Name: stringField(obj, "name"),
		ID:   stringField(obj, "id"),
		Type: stringField(obj, "type"),
	}
	return nil
}

func stringField(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; legacy ids are integers
		return fmt.Sprintf("%.0f", t)
	default:
		return fmt.Sprint(t)
	}
}

// ServiceEntryList is the jsonb services column of an order.
type ServiceEntryList []ServiceEntry

// Value marshals the list for storage as jsonb.
func (l ServiceEntryList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan decodes a jsonb services column. NULL scans to an empty list.
func (l *ServiceEntryList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch t := src.(type) {
	case []byte:
		data = t
	case string:
		data = []byte(t)
	default:
		return fmt.Errorf("service entry list: unsupported scan type %T", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}
