package service

import (
	"net/url"
	"strings"
)

// Field is one key/value pair of the gateway payload. The protocol is
// order-sensitive, so payloads are built from slices rather than maps.
type Field struct {
	Key   string
	Value string
}

// EncodeFields serializes fields as a query string, preserving order.
// url.Values.Encode sorts keys alphabetically and cannot be used here.
func EncodeFields(fields []Field) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return b.String()
}

// DecodeQuery parses a query-string payload. Repeated keys map to a sequence
// of all occurrences; verification reads the first.
func DecodeQuery(query string) (url.Values, error) {
	return url.ParseQuery(query)
}

// FirstValue returns values[key][0], or "" when the key is absent.
func FirstValue(values url.Values, key string) string {
	if vs, ok := values[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}
