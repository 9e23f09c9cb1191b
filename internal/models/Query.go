package models

import (
	"fmt"
	"strings"
)

// Query is the request context for one loop iteration. It is passed by value
// and never mutated after construction.
type Query struct {
	APIKey   string
	Location string
}

func NewQuery(apiKey, location string) Query {
	return Query{
		APIKey:   strings.TrimSpace(apiKey),
		Location: strings.TrimSpace(location),
	}
}

func (q Query) Validate() error {
	if q.APIKey == "" || q.Location == "" {
		return MissingInput()
	}
	return nil
}

// RequestParams describes the query for logs. The key is never included.
func (q Query) RequestParams() string {
	return fmt.Sprintf("location: %s key_set: %t", q.Location, q.APIKey != "")
}
