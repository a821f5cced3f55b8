package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Builder assembles a Task from required and optional pieces. It is the
// only state that may be temporarily incomplete; Build validates every
// Task invariant before a Task value exists.
//
// status and description must be supplied. uuid is freshly generated when
// unset; entry defaults to the build time.
type Builder struct {
	t              Task
	hasStatus      bool
	hasUUID        bool
	hasEntry       bool
	hasDescription bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Status sets the lifecycle status.
func (b *Builder) Status(s Status) *Builder {
	b.t.status = s
	b.hasStatus = true
	return b
}

// UUID sets the task identity. Left unset, Build generates a random one.
func (b *Builder) UUID(u uuid.UUID) *Builder {
	b.t.uuid = u
	b.hasUUID = true
	return b
}

// Entry sets the creation timestamp. Left unset, Build uses the current
// time.
func (b *Builder) Entry(d Date) *Builder {
	b.t.entry = d
	b.hasEntry = true
	return b
}

// Description sets the task text.
func (b *Builder) Description(s string) *Builder {
	b.t.description = s
	b.hasDescription = true
	return b
}

// ID sets the tool's volatile working id.
func (b *Builder) ID(id int64) *Builder {
	b.t.id = &id
	return b
}

// Due sets the due date.
func (b *Builder) Due(d Date) *Builder {
	b.t.due = &d
	return b
}

// End sets the end date.
func (b *Builder) End(d Date) *Builder {
	b.t.end = &d
	return b
}

// Modified sets the modification time.
func (b *Builder) Modified(d Date) *Builder {
	b.t.modified = &d
	return b
}

// Scheduled sets the scheduled date.
func (b *Builder) Scheduled(d Date) *Builder {
	b.t.scheduled = &d
	return b
}

// Start sets the start date.
func (b *Builder) Start(d Date) *Builder {
	b.t.start = &d
	return b
}

// Until sets the until date.
func (b *Builder) Until(d Date) *Builder {
	b.t.until = &d
	return b
}

// Wait sets the wait date.
func (b *Builder) Wait(d Date) *Builder {
	b.t.wait = &d
	return b
}

// Imask sets the recurrence imask.
func (b *Builder) Imask(f float64) *Builder {
	b.t.imask = &f
	return b
}

// Urgency sets the urgency.
func (b *Builder) Urgency(f float64) *Builder {
	b.t.urgency = &f
	return b
}

// Mask sets the recurrence mask.
func (b *Builder) Mask(s string) *Builder {
	b.t.mask = &s
	return b
}

// Parent sets the recurrence template uuid.
func (b *Builder) Parent(u uuid.UUID) *Builder {
	b.t.parent = &u
	return b
}

// Priority sets the priority.
func (b *Builder) Priority(p Priority) *Builder {
	b.t.priority = &p
	return b
}

// Project sets the project.
func (b *Builder) Project(s string) *Builder {
	b.t.project = &s
	return b
}

// Recur sets the recurrence period expression.
func (b *Builder) Recur(s string) *Builder {
	b.t.recur = &s
	return b
}

// Tags adds tags, collapsing duplicates.
func (b *Builder) Tags(tags ...string) *Builder {
	for _, tag := range tags {
		b.t.AddTag(tag)
	}
	return b
}

// Depends adds dependencies, collapsing duplicates.
func (b *Builder) Depends(deps ...uuid.UUID) *Builder {
	for _, u := range deps {
		b.t.AddDepends(u)
	}
	return b
}

// Annotate appends an annotation.
func (b *Builder) Annotate(entry Date, description string) *Builder {
	b.t.AddAnnotation(NewAnnotation(entry, description))
	return b
}

// UDA sets a user defined attribute. Names colliding with fixed-schema
// fields are rejected by Build.
func (b *Builder) UDA(name string, value UDAValue) *Builder {
	b.t.uda.Set(name, value)
	return b
}

// Build validates all Task invariants and produces the task. The builder
// remains usable afterwards; the returned task is an independent copy.
func (b *Builder) Build() (*Task, error) {
	if !b.hasStatus {
		return nil, &MissingRequiredError{Field: "status"}
	}
	if !b.t.status.Valid() {
		return nil, &InvariantError{Reason: fmt.Sprintf("unknown status %q", b.t.status)}
	}
	if !b.hasDescription || b.t.description == "" {
		return nil, &MissingRequiredError{Field: "description"}
	}
	if b.t.priority != nil && !b.t.priority.Valid() {
		return nil, &InvariantError{Reason: fmt.Sprintf("unknown priority %q", *b.t.priority)}
	}
	for _, name := range b.t.uda.Names() {
		if IsFixedField(name) {
			return nil, &InvariantError{Reason: fmt.Sprintf("uda name %q collides with a fixed-schema field", name)}
		}
	}

	out := b.t.Clone()
	if !b.hasUUID {
		out.uuid = uuid.New()
	}
	if !b.hasEntry {
		out.entry = NewDate(time.Now())
	}
	return out, nil
}
