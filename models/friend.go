package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Friend is someone who recommends titles. Items reference friends by name
// only, so deleting a friend leaves existing labels untouched.
type Friend struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts both string ids and the numeric timestamp ids written
// by earlier versions.
func (f *Friend) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Name = raw.Name
	f.ID = ""
	id := bytes.TrimSpace(raw.ID)
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		return nil
	}
	if id[0] == '"' {
		return json.Unmarshal(id, &f.ID)
	}
	var n json.Number
	if err := json.Unmarshal(id, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		f.ID = strconv.FormatInt(i, 10)
		return nil
	}
	f.ID = n.String()
	return nil
}
