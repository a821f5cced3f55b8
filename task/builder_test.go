package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_RequiredFields(t *testing.T) {
	t.Run("missing status", func(t *testing.T) {
		_, err := NewBuilder().Description("x").Build()
		var merr *MissingRequiredError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "status", merr.Field)
	})

	t.Run("missing description", func(t *testing.T) {
		_, err := NewBuilder().Status(StatusPending).Build()
		var merr *MissingRequiredError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "description", merr.Field)
	})

	t.Run("empty description", func(t *testing.T) {
		_, err := NewBuilder().Status(StatusPending).Description("").Build()
		var merr *MissingRequiredError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "description", merr.Field)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := NewBuilder().Status(Status("done")).Description("x").Build()
		var ierr *InvariantError
		require.ErrorAs(t, err, &ierr)
	})

	t.Run("invalid priority", func(t *testing.T) {
		_, err := NewBuilder().
			Status(StatusPending).
			Description("x").
			Priority(Priority("XL")).
			Build()
		var ierr *InvariantError
		require.ErrorAs(t, err, &ierr)
	})
}

func TestBuilder_Defaults(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	tk, err := NewBuilder().Status(StatusPending).Description("x").Build()
	require.NoError(t, err)
	after := time.Now().UTC().Add(time.Second)

	assert.NotEqual(t, uuid.UUID{}, tk.UUID(), "uuid generated when unset")
	entry := tk.Entry().Time()
	assert.False(t, entry.Before(before), "entry defaults to now")
	assert.False(t, entry.After(after), "entry defaults to now")

	// Two builds without an explicit uuid must not share identity.
	other, err := NewBuilder().Status(StatusPending).Description("x").Build()
	require.NoError(t, err)
	assert.NotEqual(t, tk.UUID(), other.UUID())
}

func TestBuilder_TagsDeduplicated(t *testing.T) {
	tk, err := NewBuilder().
		Status(StatusPending).
		Description("x").
		Tags("a", "a", "b").
		Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tk.Tags())
}

func TestBuilder_DependsDeduplicated(t *testing.T) {
	u := uuid.MustParse("8ca953d5-18b5-4eb9-bd56-18f2e5b752f0")
	tk, err := NewBuilder().
		Status(StatusPending).
		Description("x").
		Depends(u, u).
		Build()
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{u}, tk.Depends())
}

func TestBuilder_UDACollisionRejected(t *testing.T) {
	_, err := NewBuilder().
		Status(StatusPending).
		Description("x").
		UDA("urgency", FloatValue(99)).
		Build()
	var ierr *InvariantError
	require.ErrorAs(t, err, &ierr)
	assert.Contains(t, ierr.Reason, "urgency")
}

func TestBuilder_FullTask(t *testing.T) {
	id := uuid.MustParse("8ca953d5-18b4-4eb9-bd56-18f2e5b752f0")
	dep := uuid.MustParse("8ca953d5-18b5-4eb9-bd56-18f2e5b752f0")
	entry := NewDate(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	due := NewDate(time.Date(2023, 2, 1, 12, 0, 0, 0, time.UTC))

	tk, err := NewBuilder().
		Status(StatusPending).
		UUID(id).
		Entry(entry).
		Description("water the plants").
		Due(due).
		Priority(PriorityMedium).
		Project("home.garden").
		Urgency(4.2).
		Imask(1.5).
		Tags("garden", "chores").
		Depends(dep).
		Annotate(entry, "created by test").
		UDA("estimate", StringValue("20min")).
		Build()
	require.NoError(t, err)

	assert.Equal(t, id, tk.UUID())
	assert.True(t, entry.Equal(tk.Entry()))
	require.NotNil(t, tk.Due())
	assert.True(t, due.Equal(*tk.Due()))
	assert.Equal(t, PriorityMedium, *tk.Priority())
	assert.Equal(t, "home.garden", *tk.Project())
	assert.Equal(t, 4.2, *tk.Urgency())
	assert.Equal(t, 1.5, *tk.Imask())
	assert.Equal(t, []string{"garden", "chores"}, tk.Tags())
	assert.Equal(t, []uuid.UUID{dep}, tk.Depends())
	require.Len(t, tk.Annotations(), 1)
	v, ok := tk.UDA().Get("estimate")
	require.True(t, ok)
	s, _ := v.String()
	assert.Equal(t, "20min", s)

	// A built task survives the codec round trip.
	encoded, err := EncodeTask(tk)
	require.NoError(t, err)
	back, err := DecodeTask(encoded)
	require.NoError(t, err)
	assert.True(t, tk.Equal(back))
}

func TestBuilder_ReusableAfterBuild(t *testing.T) {
	b := NewBuilder().Status(StatusPending).Description("x").UUID(uuid.MustParse("8ca953d5-18b4-4eb9-bd56-18f2e5b752f0"))

	first, err := b.Build()
	require.NoError(t, err)

	b.Tags("later")
	second, err := b.Build()
	require.NoError(t, err)

	assert.Empty(t, first.Tags(), "earlier build unaffected by later setters")
	assert.Equal(t, []string{"later"}, second.Tags())
}
