// ABOUTME: External message shapes for adding and listing admins
// ABOUTME: JSON uses externally tagged snake_case variants; unit variants encode as strings

package admin

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/2389/multiadmin/internal/host"
)

// Variant tags.
const (
	TagAddAdmins = "add_admins"
	TagAdmins    = "admins"
)

// HandleMsg is a command. Exactly one variant is set.
type HandleMsg struct {
	AddAdmins *AddAdmins
}

// AddAdmins appends addresses to the admin set.
type AddAdmins struct {
	Addresses []host.HumanAddr `json:"addresses"`
}

// QueryMsg is a read-only request. Exactly one variant is set.
type QueryMsg struct {
	Admins *Admins
}

// Admins lists the admin set.
type Admins struct{}

// QueryResponse is the reply to an Admins query.
type QueryResponse struct {
	Addresses []host.HumanAddr `json:"addresses"`
}

// MarshalJSON encodes the message as {"add_admins":{...}}.
func (m HandleMsg) MarshalJSON() ([]byte, error) {
	switch {
	case m.AddAdmins != nil:
		addresses := m.AddAdmins.Addresses
		if addresses == nil {
			addresses = []host.HumanAddr{}
		}
		return json.Marshal(map[string]AddAdmins{TagAddAdmins: {Addresses: addresses}})
	default:
		return nil, ErrUnknownMessage
	}
}

// UnmarshalJSON decodes {"add_admins":{"addresses":[...]}}.
func (m *HandleMsg) UnmarshalJSON(data []byte) error {
	tag, body, err := decodeVariant(data)
	if err != nil {
		return err
	}

	switch tag {
	case TagAddAdmins:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
			return fmt.Errorf("decoding %s: expected an object", tag)
		}
		raw, ok := fields["addresses"]
		if !ok {
			return fmt.Errorf("decoding %s: missing field addresses", tag)
		}
		var addresses []host.HumanAddr
		if err := json.Unmarshal(raw, &addresses); err != nil {
			return fmt.Errorf("decoding %s.addresses: %w", tag, err)
		}
		if addresses == nil {
			return fmt.Errorf("decoding %s.addresses: expected an array", tag)
		}
		*m = HandleMsg{AddAdmins: &AddAdmins{Addresses: addresses}}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, tag)
	}
}

// MarshalJSON encodes the message as "admins".
func (m QueryMsg) MarshalJSON() ([]byte, error) {
	switch {
	case m.Admins != nil:
		return json.Marshal(TagAdmins)
	default:
		return nil, ErrUnknownMessage
	}
}

// UnmarshalJSON decodes "admins", also accepting {"admins":null} and {"admins":{}}.
func (m *QueryMsg) UnmarshalJSON(data []byte) error {
	tag, body, err := decodeVariant(data)
	if err != nil {
		return err
	}

	switch tag {
	case TagAdmins:
		if body != nil && !bytes.Equal(body, []byte("null")) && !bytes.Equal(bytes.Join(bytes.Fields(body), nil), []byte("{}")) {
			return fmt.Errorf("decoding %s: unit variant takes no fields", tag)
		}
		*m = QueryMsg{Admins: &Admins{}}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, tag)
	}
}

// decodeVariant splits an externally tagged enum value into its tag and body.
// A bare string is a unit variant and has a nil body.
func decodeVariant(data []byte) (string, json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var tag string
		if err := json.Unmarshal(data, &tag); err != nil {
			return "", nil, fmt.Errorf("decoding message tag: %w", err)
		}
		return tag, nil, nil
	}

	var variants map[string]json.RawMessage
	if err := json.Unmarshal(data, &variants); err != nil {
		return "", nil, fmt.Errorf("decoding message: %w", err)
	}
	if len(variants) != 1 {
		return "", nil, fmt.Errorf("%w: expected exactly one variant, got %d", ErrUnknownMessage, len(variants))
	}
	for tag, body := range variants {
		return tag, body, nil
	}
	return "", nil, ErrUnknownMessage
}
