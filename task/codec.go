package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// fixedFields is the set of wire names owned by the fixed schema. Every
// other key belongs to the UDA registry.
var fixedFields = map[string]struct{}{
	"id": {}, "status": {}, "uuid": {}, "entry": {}, "description": {},
	"annotations": {}, "depends": {}, "due": {}, "end": {}, "imask": {},
	"mask": {}, "modified": {}, "parent": {}, "priority": {}, "project": {},
	"recur": {}, "scheduled": {}, "start": {}, "tags": {}, "until": {},
	"wait": {}, "urgency": {},
}

// IsFixedField reports whether name is a fixed-schema field name rather
// than a user defined attribute.
func IsFixedField(name string) bool {
	_, ok := fixedFields[name]
	return ok
}

// DecodeTask decodes a single JSON task object.
func DecodeTask(data []byte) (*Task, error) {
	var t Task
	if err := t.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return &t, nil
}

// DecodeTasks decodes either a single JSON task object or an array of task
// objects, preserving element order. Any other top-level value fails with
// ErrMalformedJSON.
func DecodeTasks(data []byte) ([]*Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedJSON)
	}
	switch trimmed[0] {
	case '{':
		t, err := DecodeTask(trimmed)
		if err != nil {
			return nil, err
		}
		return []*Task{t}, nil
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		tasks := make([]*Task, 0, len(raws))
		for i, raw := range raws {
			t, err := DecodeTask(raw)
			if err != nil {
				return nil, fmt.Errorf("task %d: %w", i, err)
			}
			tasks = append(tasks, t)
		}
		return tasks, nil
	default:
		return nil, fmt.Errorf("%w: expected object or array", ErrMalformedJSON)
	}
}

// EncodeTask encodes a task to its JSON wire form.
func EncodeTask(t *Task) ([]byte, error) {
	return t.MarshalJSON()
}

// UnmarshalJSON decodes a task object. Known keys become typed fixed-schema
// fields; every unknown key is routed into the UDA registry in source
// order, its value shape untouched. The receiver is only modified on
// success.
func (t *Task) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected object", ErrMalformedJSON)
	}

	var out Task
	var seen struct{ status, uuid, entry, description bool }
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("%w: non-string object key", ErrMalformedJSON)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		if err := out.decodeField(key, raw, &seen); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after object", ErrMalformedJSON)
	}

	for _, req := range []struct {
		name string
		ok   bool
	}{
		{"status", seen.status},
		{"uuid", seen.uuid},
		{"entry", seen.entry},
		{"description", seen.description},
	} {
		if !req.ok {
			return &MissingFieldError{Field: req.name}
		}
	}

	*t = out
	return nil
}

// decodeField routes one key/value pair to its fixed-schema field, or to
// the UDA registry when the key is unknown.
func (t *Task) decodeField(key string, raw json.RawMessage, seen *struct{ status, uuid, entry, description bool }) error {
	switch key {
	case "status":
		s, err := decodeString(key, raw)
		if err != nil {
			return err
		}
		if !Status(s).Valid() {
			return &InvalidFieldError{Field: key, Err: fmt.Errorf("unknown status %q", s)}
		}
		t.status = Status(s)
		seen.status = true
	case "uuid":
		u, err := decodeUUID(key, raw)
		if err != nil {
			return err
		}
		t.uuid = u
		seen.uuid = true
	case "entry":
		d, err := decodeDate(key, raw)
		if err != nil {
			return err
		}
		t.entry = *d
		seen.entry = true
	case "description":
		s, err := decodeString(key, raw)
		if err != nil {
			return err
		}
		if s == "" {
			return &InvalidFieldError{Field: key, Err: errors.New("cannot be empty")}
		}
		t.description = s
		seen.description = true
	case "id":
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return &InvalidFieldError{Field: key, Err: err}
		}
		id, err := n.Int64()
		if err != nil {
			return &InvalidFieldError{Field: key, Err: err}
		}
		if id < 0 {
			return &InvalidFieldError{Field: key, Err: fmt.Errorf("must be non-negative, got %d", id)}
		}
		t.id = &id
	case "due", "end", "modified", "scheduled", "start", "until", "wait":
		d, err := decodeDate(key, raw)
		if err != nil {
			return err
		}
		switch key {
		case "due":
			t.due = d
		case "end":
			t.end = d
		case "modified":
			t.modified = d
		case "scheduled":
			t.scheduled = d
		case "start":
			t.start = d
		case "until":
			t.until = d
		case "wait":
			t.wait = d
		}
	case "imask", "urgency":
		// Accepts both integral and fractional number literals; the value
		// is always a float.
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return &InvalidFieldError{Field: key, Err: err}
		}
		f, err := n.Float64()
		if err != nil {
			return &InvalidFieldError{Field: key, Err: err}
		}
		if key == "imask" {
			t.imask = &f
		} else {
			t.urgency = &f
		}
	case "mask", "project", "recur":
		s, err := decodeString(key, raw)
		if err != nil {
			return err
		}
		switch key {
		case "mask":
			t.mask = &s
		case "project":
			t.project = &s
		case "recur":
			t.recur = &s
		}
	case "parent":
		u, err := decodeUUID(key, raw)
		if err != nil {
			return err
		}
		t.parent = &u
	case "priority":
		s, err := decodeString(key, raw)
		if err != nil {
			return err
		}
		if !Priority(s).Valid() {
			return &InvalidFieldError{Field: key, Err: fmt.Errorf("unknown priority %q", s)}
		}
		p := Priority(s)
		t.priority = &p
	case "tags":
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil {
			return &InvalidFieldError{Field: key, Err: err}
		}
		t.tags = dedupe(tags)
	case "depends":
		deps, err := decodeDepends(raw)
		if err != nil {
			return err
		}
		t.depends = dedupe(deps)
	case "annotations":
		var raws []json.RawMessage
		if err := json.Unmarshal(raw, &raws); err != nil {
			return &InvalidFieldError{Field: key, Err: err}
		}
		as := make([]Annotation, 0, len(raws))
		for _, r := range raws {
			a, err := decodeAnnotation(r)
			if err != nil {
				return &InvalidFieldError{Field: key, Err: err}
			}
			as = append(as, a)
		}
		// Empty array and absent key decode identically.
		if len(as) > 0 {
			t.annotations = as
		}
	default:
		t.uda.Set(key, decodeUDAValue(raw))
	}
	return nil
}

// decodeAnnotation decodes one annotation object, requiring both fields to
// be present so a re-encode cannot invent values the input never carried.
func decodeAnnotation(raw json.RawMessage) (Annotation, error) {
	var a struct {
		Entry       *Date   `json:"entry"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(raw, &a); err != nil {
		return Annotation{}, err
	}
	if a.Entry == nil {
		return Annotation{}, errors.New("annotation missing entry")
	}
	if a.Description == nil {
		return Annotation{}, errors.New("annotation missing description")
	}
	return Annotation{Entry: *a.Entry, Description: *a.Description}, nil
}

// decodeDepends accepts both wire forms of the depends field: the JSON
// array of uuid strings exported by Taskwarrior 2.6 and newer, and the
// single comma-separated string exported by 2.5 and older.
func decodeDepends(raw json.RawMessage) ([]uuid.UUID, error) {
	trimmed := bytes.TrimSpace(raw)
	var parts []string
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, &InvalidFieldError{Field: "depends", Err: err}
		}
		parts = strings.Split(s, ",")
	} else {
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return nil, &InvalidFieldError{Field: "depends", Err: err}
		}
	}
	deps := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		u, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, &InvalidFieldError{Field: "depends", Err: err}
		}
		deps = append(deps, u)
	}
	return deps, nil
}

func decodeString(field string, raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &InvalidFieldError{Field: field, Err: err}
	}
	return s, nil
}

func decodeUUID(field string, raw json.RawMessage) (uuid.UUID, error) {
	s, err := decodeString(field, raw)
	if err != nil {
		return uuid.UUID{}, err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, &InvalidFieldError{Field: field, Err: err}
	}
	return u, nil
}

func decodeDate(field string, raw json.RawMessage) (*Date, error) {
	s, err := decodeString(field, raw)
	if err != nil {
		return nil, err
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, &InvalidFieldError{Field: field, Err: err}
	}
	return &d, nil
}

// MarshalJSON encodes the task: fixed-schema fields that are present
// (absent optionals are omitted, never null), then UDA entries in registry
// order, then annotations (omitted when empty). The output is deterministic
// for a given task.
func (t *Task) MarshalJSON() ([]byte, error) {
	w := newObjWriter()
	if t.id != nil {
		w.field("id", *t.id)
	}
	w.field("status", t.status)
	w.field("uuid", t.uuid.String())
	w.field("entry", t.entry)
	w.field("description", t.description)
	if len(t.depends) > 0 {
		deps := make([]string, len(t.depends))
		for i, u := range t.depends {
			deps[i] = u.String()
		}
		w.field("depends", deps)
	}
	if t.due != nil {
		w.field("due", t.due)
	}
	if t.end != nil {
		w.field("end", t.end)
	}
	if t.imask != nil {
		w.field("imask", *t.imask)
	}
	if t.mask != nil {
		w.field("mask", *t.mask)
	}
	if t.modified != nil {
		w.field("modified", t.modified)
	}
	if t.parent != nil {
		w.field("parent", t.parent.String())
	}
	if t.priority != nil {
		w.field("priority", *t.priority)
	}
	if t.project != nil {
		w.field("project", *t.project)
	}
	if t.recur != nil {
		w.field("recur", *t.recur)
	}
	if t.scheduled != nil {
		w.field("scheduled", t.scheduled)
	}
	if t.start != nil {
		w.field("start", t.start)
	}
	if len(t.tags) > 0 {
		w.field("tags", t.tags)
	}
	if t.until != nil {
		w.field("until", t.until)
	}
	if t.wait != nil {
		w.field("wait", t.wait)
	}
	if t.urgency != nil {
		w.field("urgency", *t.urgency)
	}
	for name, value := range t.uda.All() {
		if IsFixedField(name) {
			return nil, &InvalidFieldError{Field: name, Err: errors.New("uda name collides with a fixed-schema field")}
		}
		w.field(name, value)
	}
	if len(t.annotations) > 0 {
		w.field("annotations", t.annotations)
	}
	return w.finish()
}

// objWriter builds a JSON object with explicit key order.
type objWriter struct {
	buf bytes.Buffer
	n   int
	err error
}

func newObjWriter() *objWriter {
	w := &objWriter{}
	w.buf.WriteByte('{')
	return w
}

func (w *objWriter) field(name string, v any) {
	if w.err != nil {
		return
	}
	val, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("encode field %q: %w", name, err)
		return
	}
	if w.n > 0 {
		w.buf.WriteByte(',')
	}
	key, _ := json.Marshal(name)
	w.buf.Write(key)
	w.buf.WriteByte(':')
	w.buf.Write(val)
	w.n++
}

func (w *objWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.buf.WriteByte('}')
	return bytes.Clone(w.buf.Bytes()), nil
}
