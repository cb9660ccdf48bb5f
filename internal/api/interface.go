package api

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Doer performs a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Page is one decoded response of the commits endpoint
type Page struct {
	Total   int      `json:"total"`
	Results []Record `json:"results"`
}

// Record is a commit exactly as the upstream service reports it
type Record struct {
	ID        ID     `json:"id"`
	Changeset string `json:"changeset"`
	Repo      string `json:"repo"`
	Branch    string `json:"branch"`
	User      User   `json:"user"`
	Message   string `json:"message"`
	Created   string `json:"created"`
}

type User struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ID accepts either a JSON string or a JSON number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}
