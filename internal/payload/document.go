package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chaudhryu/police-report-request-backend/internal/model"
	pkgerrors "github.com/chaudhryu/police-report-request-backend/pkg/errors"
)

const attachmentsKey = "attachments"

// Document is an opaque view over the arbitrary-shape JSON a submitter files.
// Top-level fields keep their original order and raw bytes, so a merge that
// only touches the attachments array round-trips every other field unchanged.
type Document struct {
	keys []string
	vals map[string]json.RawMessage
}

func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidPayload, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top-level value is not an object", pkgerrors.ErrInvalidPayload)
	}

	doc := &Document{vals: make(map[string]json.RawMessage)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidPayload, err)
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidPayload, err)
		}
		if _, seen := doc.vals[key]; !seen {
			doc.keys = append(doc.keys, key)
		}
		doc.vals[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidPayload, err)
	}
	return doc, nil
}

func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(d.vals[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Field returns the scalar value of the first top-level field whose name
// matches case-insensitively. Objects and arrays read as empty.
func (d *Document) Field(name string) string {
	for _, key := range d.keys {
		if !strings.EqualFold(key, name) {
			continue
		}
		return scalarString(d.vals[key])
	}
	return ""
}

// FirstNonEmpty scans the given field names in preference order and returns
// the first non-blank value.
func (d *Document) FirstNonEmpty(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(d.Field(name)); v != "" {
			return v
		}
	}
	return ""
}

func (d *Document) Attachments() []model.AttachmentMeta {
	raw, ok := d.vals[attachmentsKey]
	if !ok {
		return nil
	}
	var entries []model.AttachmentMeta
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

// MergeAttachments returns a new document whose attachments array is the
// existing entries followed by the new ones, in the order given. No other
// field is touched.
func (d *Document) MergeAttachments(entries []model.AttachmentMeta) (*Document, error) {
	if len(entries) == 0 {
		return d, nil
	}

	merged := d.Attachments()
	merged = append(merged, entries...)
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}

	out := &Document{
		keys: make([]string, len(d.keys)),
		vals: make(map[string]json.RawMessage, len(d.vals)+1),
	}
	copy(out.keys, d.keys)
	for k, v := range d.vals {
		out.vals[k] = v
	}
	if _, ok := out.vals[attachmentsKey]; !ok {
		out.keys = append(out.keys, attachmentsKey)
	}
	out.vals[attachmentsKey] = raw
	return out, nil
}

func scalarString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	case '{', '[':
		return ""
	default:
		if bytes.Equal(trimmed, []byte("null")) {
			return ""
		}
		return string(trimmed)
	}
}
