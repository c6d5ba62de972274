package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/meur/wardrobe-fetcher/internal/fetch"
	"github.com/meur/wardrobe-fetcher/internal/models"
)

// ErrNotObject is returned when an existing output file is not a JSON object
var ErrNotObject = errors.New("document is not a JSON object")

// Document is a JSON object that keeps its top-level key order.
// Values are ItemRecord slices for freshly scanned categories and generic
// decoded JSON (json.Number for numbers) for anything read from disk.
type Document struct {
	keys   []string
	values map[string]any
}

// NewDocument builds the category-keyed document for a scan result
func NewDocument(result *fetch.ResultSet) *Document {
	d := &Document{values: make(map[string]any)}
	for _, c := range models.Categories() {
		records := result.Items(c)
		list := make([]any, 0, len(records))
		for _, r := range records {
			list = append(list, r)
		}
		d.Set(string(c), list)
	}
	return d
}

// ParseDocument decodes a JSON object, remembering key order
func ParseDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	d := &Document{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode %q: %w", key, err)
		}
		d.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to close object: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after document")
	}
	return d, nil
}

// Keys returns the top-level keys in order
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Get returns a top-level value
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set replaces or appends a top-level value
func (d *Document) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Merge layers existing on top of d. Missing keys are appended, objects are
// merged recursively, arrays are unioned (d's elements first, then elements
// of existing not deep-equal to one already present) and any other conflict
// takes the existing value unless that value is null.
func (d *Document) Merge(existing *Document) error {
	for _, key := range existing.keys {
		src := existing.values[key]
		dst, ok := d.values[key]
		if !ok {
			d.Set(key, src)
			continue
		}
		merged, err := mergeValue(dst, src)
		if err != nil {
			return fmt.Errorf("failed to merge %q: %w", key, err)
		}
		d.values[key] = merged
	}
	return nil
}

// MarshalJSON writes the object with keys in insertion order
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func mergeValue(dst, src any) (any, error) {
	if src == nil {
		return dst, nil
	}
	switch d := dst.(type) {
	case map[string]any:
		if s, ok := src.(map[string]any); ok {
			return mergeObject(d, s)
		}
	case []any:
		if s, ok := src.([]any); ok {
			return union(d, s)
		}
	}
	return src, nil
}

func mergeObject(dst, src map[string]any) (map[string]any, error) {
	for key, value := range src {
		current, ok := dst[key]
		if !ok {
			dst[key] = value
			continue
		}
		merged, err := mergeValue(current, value)
		if err != nil {
			return nil, err
		}
		dst[key] = merged
	}
	return dst, nil
}

// union appends the elements of src that are not deep-equal to an element
// already in dst or earlier in src. Duplicates within dst are kept.
func union(dst, src []any) ([]any, error) {
	seen := make(map[string]struct{}, len(dst)+len(src))
	for _, v := range dst {
		key, err := canonical(v)
		if err != nil {
			return nil, err
		}
		seen[key] = struct{}{}
	}
	for _, v := range src {
		key, err := canonical(v)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, v)
	}
	return dst, nil
}

// canonical renders v as JSON with sorted object keys. Numbers are written
// as exact rationals, so 1 and 1.0 match while large integers stay distinct.
func canonical(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return "", err
	}

	var b strings.Builder
	if err := writeCanonical(&b, generic); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeCanonical(b *strings.Builder, v any) error {
	switch v := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(v))
	case json.Number:
		r, ok := new(big.Rat).SetString(v.String())
		if !ok {
			return fmt.Errorf("invalid number %q", v)
		}
		// Unquoted marker keeps numbers apart from strings.
		b.WriteByte('#')
		b.WriteString(r.RatString())
	case string:
		s, err := json.Marshal(v)
		if err != nil {
			return err
		}
		b.Write(s)
	case []any:
		b.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeCanonical(b, e); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			ks, err := json.Marshal(k)
			if err != nil {
				return err
			}
			b.Write(ks)
			b.WriteByte(':')
			if err := writeCanonical(b, v[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return fmt.Errorf("unexpected JSON value %T", v)
	}
	return nil
}
