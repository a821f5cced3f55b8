// Package task models Taskwarrior tasks as exchanged with hook processes:
// the fixed-schema task record, its annotations and user defined
// attributes, a lossless JSON codec, and a validating builder.
package task

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Task is a single Taskwarrior task record: the fixed-schema fields, an
// ordered annotation sequence, and an insertion-ordered registry of user
// defined attributes. A Task always satisfies its invariants: the four
// required fields are set, uuid never changes after construction, and tags
// and depends are duplicate-free. Construct one through a Builder or by
// decoding JSON; both reject invalid input.
//
// A Task is a pure value aggregate: it owns its annotations and UDA
// registry, holds no references to anything else, and may be freely copied.
type Task struct {
	status      Status
	uuid        uuid.UUID
	entry       Date
	description string

	id          *int64
	annotations []Annotation
	depends     []uuid.UUID
	due         *Date
	end         *Date
	imask       *float64
	mask        *string
	modified    *Date
	parent      *uuid.UUID
	priority    *Priority
	project     *string
	recur       *string
	scheduled   *Date
	start       *Date
	tags        []string
	until       *Date
	wait        *Date
	urgency     *float64

	uda UDA
}

// Status returns the lifecycle status.
func (t *Task) Status() Status { return t.status }

// SetStatus replaces the lifecycle status.
func (t *Task) SetStatus(s Status) { t.status = s }

// UUID returns the task identity. There is no setter: identity is fixed at
// construction.
func (t *Task) UUID() uuid.UUID { return t.uuid }

// Entry returns the creation timestamp.
func (t *Task) Entry() Date { return t.entry }

// SetEntry replaces the creation timestamp.
func (t *Task) SetEntry(d Date) { t.entry = d }

// Description returns the task text.
func (t *Task) Description() string { return t.description }

// SetDescription replaces the task text.
func (t *Task) SetDescription(s string) { t.description = s }

// ID returns the tool's volatile working id, or nil if absent. It is
// pass-through data, not task identity.
func (t *Task) ID() *int64 { return t.id }

// SetID replaces the working id; nil clears it.
func (t *Task) SetID(id *int64) { t.id = id }

// Due returns the due date, or nil if absent.
func (t *Task) Due() *Date { return t.due }

// SetDue replaces the due date; nil clears it.
func (t *Task) SetDue(d *Date) { t.due = d }

// End returns when the task was completed or deleted, or nil if absent.
func (t *Task) End() *Date { return t.end }

// SetEnd replaces the end date; nil clears it.
func (t *Task) SetEnd(d *Date) { t.end = d }

// Modified returns the last modification time, or nil if absent.
func (t *Task) Modified() *Date { return t.modified }

// SetModified replaces the modification time; nil clears it.
func (t *Task) SetModified(d *Date) { t.modified = d }

// Scheduled returns when the task becomes ready, or nil if absent.
func (t *Task) Scheduled() *Date { return t.scheduled }

// SetScheduled replaces the scheduled date; nil clears it.
func (t *Task) SetScheduled(d *Date) { t.scheduled = d }

// Start returns when the task became active, or nil if absent.
func (t *Task) Start() *Date { return t.start }

// SetStart replaces the start date; nil clears it.
func (t *Task) SetStart(d *Date) { t.start = d }

// Until returns when recurrence stops, or nil if absent.
func (t *Task) Until() *Date { return t.until }

// SetUntil replaces the until date; nil clears it.
func (t *Task) SetUntil(d *Date) { t.until = d }

// Wait returns the date the task is hidden until, or nil if absent.
func (t *Task) Wait() *Date { return t.wait }

// SetWait replaces the wait date; nil clears it.
func (t *Task) SetWait(d *Date) { t.wait = d }

// Imask returns the recurrence imask, or nil if absent. The value is a
// float: Taskwarrior emits fractional imasks, even though typical values
// look integral.
func (t *Task) Imask() *float64 { return t.imask }

// SetImask replaces the imask; nil clears it.
func (t *Task) SetImask(f *float64) { t.imask = f }

// Urgency returns the urgency Taskwarrior computed, or nil if absent. This
// layer never recomputes it.
func (t *Task) Urgency() *float64 { return t.urgency }

// SetUrgency replaces the urgency; nil clears it.
func (t *Task) SetUrgency(f *float64) { t.urgency = f }

// Mask returns the recurrence mask, or nil if absent.
func (t *Task) Mask() *string { return t.mask }

// SetMask replaces the mask; nil clears it.
func (t *Task) SetMask(s *string) { t.mask = s }

// Parent returns the recurrence template this task was spawned from, or
// nil if absent.
func (t *Task) Parent() *uuid.UUID { return t.parent }

// SetParent replaces the parent; nil clears it.
func (t *Task) SetParent(u *uuid.UUID) { t.parent = u }

// Priority returns the priority, or nil if absent.
func (t *Task) Priority() *Priority { return t.priority }

// SetPriority replaces the priority; nil clears it.
func (t *Task) SetPriority(p *Priority) { t.priority = p }

// Project returns the project, or nil if absent.
func (t *Task) Project() *string { return t.project }

// SetProject replaces the project; nil clears it.
func (t *Task) SetProject(s *string) { t.project = s }

// Recur returns the recurrence period expression, or nil if absent. It is
// passed through verbatim.
func (t *Task) Recur() *string { return t.recur }

// SetRecur replaces the recurrence expression; nil clears it.
func (t *Task) SetRecur(s *string) { t.recur = s }

// Tags returns a copy of the tag set in insertion order.
func (t *Task) Tags() []string { return slices.Clone(t.tags) }

// HasTag reports whether tag is present.
func (t *Task) HasTag(tag string) bool { return slices.Contains(t.tags, tag) }

// AddTag adds a tag. Adding a tag that is already present is a no-op.
func (t *Task) AddTag(tag string) {
	if !slices.Contains(t.tags, tag) {
		t.tags = append(t.tags, tag)
	}
}

// RemoveTag removes a tag. Removing an absent tag is a no-op.
func (t *Task) RemoveTag(tag string) {
	if i := slices.Index(t.tags, tag); i >= 0 {
		t.tags = slices.Delete(t.tags, i, i+1)
	}
}

// SetTags replaces the tag set, collapsing duplicates and preserving first
// occurrence order.
func (t *Task) SetTags(tags []string) {
	t.tags = dedupe(tags)
}

// Depends returns a copy of the set of tasks this one depends on.
func (t *Task) Depends() []uuid.UUID { return slices.Clone(t.depends) }

// AddDepends adds a dependency. Adding a present entry is a no-op.
func (t *Task) AddDepends(u uuid.UUID) {
	if !slices.Contains(t.depends, u) {
		t.depends = append(t.depends, u)
	}
}

// RemoveDepends removes a dependency. Removing an absent entry is a no-op.
func (t *Task) RemoveDepends(u uuid.UUID) {
	if i := slices.Index(t.depends, u); i >= 0 {
		t.depends = slices.Delete(t.depends, i, i+1)
	}
}

// SetDepends replaces the dependency set, collapsing duplicates.
func (t *Task) SetDepends(deps []uuid.UUID) {
	t.depends = dedupe(deps)
}

// Annotations returns a copy of the ordered annotation sequence.
func (t *Task) Annotations() []Annotation { return slices.Clone(t.annotations) }

// AddAnnotation appends an annotation.
func (t *Task) AddAnnotation(a Annotation) {
	t.annotations = append(t.annotations, a)
}

// RemoveAnnotationAt removes the annotation at position i, returning
// ErrAnnotationIndex if no such position exists.
func (t *Task) RemoveAnnotationAt(i int) error {
	if i < 0 || i >= len(t.annotations) {
		return fmt.Errorf("remove annotation %d of %d: %w", i, len(t.annotations), ErrAnnotationIndex)
	}
	t.annotations = slices.Delete(t.annotations, i, i+1)
	return nil
}

// SetAnnotations replaces the annotation sequence.
func (t *Task) SetAnnotations(as []Annotation) {
	t.annotations = slices.Clone(as)
}

// UDA returns the task's user defined attribute registry. Mutations through
// it take effect on the task; name/fixed-field collisions are rejected at
// the codec and builder boundaries.
func (t *Task) UDA() *UDA { return &t.uda }

// Equal reports structural equality of two tasks: same fixed fields, same
// ordered annotations, same UDA entries in the same order.
func (t *Task) Equal(other *Task) bool {
	if t.status != other.status ||
		t.uuid != other.uuid ||
		!t.entry.Equal(other.entry) ||
		t.description != other.description {
		return false
	}
	if !ptrEqual(t.id, other.id) ||
		!ptrEqual(t.imask, other.imask) ||
		!ptrEqual(t.urgency, other.urgency) ||
		!ptrEqual(t.mask, other.mask) ||
		!ptrEqual(t.parent, other.parent) ||
		!ptrEqual(t.priority, other.priority) ||
		!ptrEqual(t.project, other.project) ||
		!ptrEqual(t.recur, other.recur) {
		return false
	}
	if !dateEqual(t.due, other.due) ||
		!dateEqual(t.end, other.end) ||
		!dateEqual(t.modified, other.modified) ||
		!dateEqual(t.scheduled, other.scheduled) ||
		!dateEqual(t.start, other.start) ||
		!dateEqual(t.until, other.until) ||
		!dateEqual(t.wait, other.wait) {
		return false
	}
	if !slices.Equal(t.tags, other.tags) || !slices.Equal(t.depends, other.depends) {
		return false
	}
	if !slices.EqualFunc(t.annotations, other.annotations, Annotation.Equal) {
		return false
	}
	return t.uda.Equal(&other.uda)
}

// Clone returns an independent deep copy of the task.
func (t *Task) Clone() *Task {
	out := *t
	out.id = ptrClone(t.id)
	out.annotations = slices.Clone(t.annotations)
	out.depends = slices.Clone(t.depends)
	out.due = ptrClone(t.due)
	out.end = ptrClone(t.end)
	out.imask = ptrClone(t.imask)
	out.mask = ptrClone(t.mask)
	out.modified = ptrClone(t.modified)
	out.parent = ptrClone(t.parent)
	out.priority = ptrClone(t.priority)
	out.project = ptrClone(t.project)
	out.recur = ptrClone(t.recur)
	out.scheduled = ptrClone(t.scheduled)
	out.start = ptrClone(t.start)
	out.tags = slices.Clone(t.tags)
	out.until = ptrClone(t.until)
	out.wait = ptrClone(t.wait)
	out.urgency = ptrClone(t.urgency)
	out.uda = t.uda.clone()
	return &out
}

func dedupe[T comparable](in []T) []T {
	var out []T
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func dateEqual(a, b *Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func ptrClone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
