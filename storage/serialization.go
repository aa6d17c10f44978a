package storage

import (
	"github.com/SigireddyBalasai/hey-bear-sub000/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalDestination serializes a Destination to bytes.
func MarshalDestination(dest *core.Destination) []byte {
	buf := make([]byte, core.DestinationMUS.Size(*dest))
	core.DestinationMUS.Marshal(*dest, buf)
	return buf
}

// UnmarshalDestination deserializes a Destination from bytes.
func UnmarshalDestination(data []byte) (*core.Destination, error) {
	dest, _, err := core.DestinationMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &dest, nil
}

// MarshalAPIKey serializes an APIKey to bytes.
func MarshalAPIKey(key *core.APIKey) []byte {
	buf := make([]byte, core.APIKeyMUS.Size(*key))
	core.APIKeyMUS.Marshal(*key, buf)
	return buf
}

// UnmarshalAPIKey deserializes an APIKey from bytes.
func UnmarshalAPIKey(data []byte) (*core.APIKey, error) {
	key, _, err := core.APIKeyMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
