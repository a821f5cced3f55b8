package task

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTestTask(t *testing.T) *Task {
	t.Helper()
	built, err := NewBuilder().
		Status(StatusPending).
		UUID(uuid.MustParse("8ca953d5-18b4-4eb9-bd56-18f2e5b752f0")).
		Entry(mustDate(t, "20150619T165438Z")).
		Description("some description").
		Build()
	require.NoError(t, err)
	return built
}

func TestTask_TagSetSemantics(t *testing.T) {
	tk := newTestTask(t)

	tk.AddTag("home")
	tk.AddTag("work")
	tk.AddTag("home") // duplicate: no-op
	assert.Equal(t, []string{"home", "work"}, tk.Tags())
	assert.True(t, tk.HasTag("home"))

	tk.RemoveTag("absent") // no-op, not an error
	tk.RemoveTag("home")
	assert.Equal(t, []string{"work"}, tk.Tags())
	assert.False(t, tk.HasTag("home"))

	tk.SetTags([]string{"a", "a", "b", "a"})
	assert.Equal(t, []string{"a", "b"}, tk.Tags())
}

func TestTask_DependsSetSemantics(t *testing.T) {
	tk := newTestTask(t)
	u1 := uuid.MustParse("8ca953d5-18b5-4eb9-bd56-18f2e5b752f0")
	u2 := uuid.MustParse("54d49ffc-a06b-4dd8-b7d1-db5f50594312")

	tk.AddDepends(u1)
	tk.AddDepends(u2)
	tk.AddDepends(u1)
	assert.Equal(t, []uuid.UUID{u1, u2}, tk.Depends())

	tk.RemoveDepends(u1)
	tk.RemoveDepends(u1) // already gone: no-op
	assert.Equal(t, []uuid.UUID{u2}, tk.Depends())

	tk.SetDepends([]uuid.UUID{u1, u1, u2})
	assert.Equal(t, []uuid.UUID{u1, u2}, tk.Depends())
}

func TestTask_Annotations(t *testing.T) {
	tk := newTestTask(t)
	a1 := NewAnnotation(mustDate(t, "20150623T181018Z"), "first")
	a2 := NewAnnotation(mustDate(t, "20150624T181018Z"), "second")

	tk.AddAnnotation(a1)
	tk.AddAnnotation(a2)
	require.Len(t, tk.Annotations(), 2)

	err := tk.RemoveAnnotationAt(5)
	require.ErrorIs(t, err, ErrAnnotationIndex)
	err = tk.RemoveAnnotationAt(-1)
	require.ErrorIs(t, err, ErrAnnotationIndex)

	require.NoError(t, tk.RemoveAnnotationAt(0))
	got := tk.Annotations()
	require.Len(t, got, 1)
	assert.True(t, a2.Equal(got[0]))
}

func TestTask_OptionalFieldMutators(t *testing.T) {
	tk := newTestTask(t)

	require.Nil(t, tk.Due())
	due := mustDate(t, "20160508T164007Z")
	tk.SetDue(&due)
	require.NotNil(t, tk.Due())
	assert.True(t, due.Equal(*tk.Due()))
	tk.SetDue(nil)
	assert.Nil(t, tk.Due())

	p := PriorityHigh
	tk.SetPriority(&p)
	require.NotNil(t, tk.Priority())
	assert.Equal(t, PriorityHigh, *tk.Priority())

	imask := 3.5
	tk.SetImask(&imask)
	require.NotNil(t, tk.Imask())
	assert.Equal(t, 3.5, *tk.Imask())

	project := "home.garden"
	tk.SetProject(&project)
	assert.Equal(t, "home.garden", *tk.Project())
}

func TestTask_Equal(t *testing.T) {
	a := newTestTask(t)
	b := newTestTask(t)
	assert.True(t, a.Equal(b))

	b.AddTag("extra")
	assert.False(t, a.Equal(b))

	c := newTestTask(t)
	c.UDA().Set("estimate", StringValue("3h"))
	assert.False(t, a.Equal(c))

	d := newTestTask(t)
	d.UDA().Set("estimate", StringValue("3h"))
	assert.True(t, c.Equal(d))
}

func TestTask_Clone(t *testing.T) {
	a := newTestTask(t)
	a.AddTag("home")
	a.UDA().Set("estimate", StringValue("3h"))
	a.AddAnnotation(NewAnnotation(mustDate(t, "20150623T181018Z"), "note"))

	b := a.Clone()
	require.True(t, a.Equal(b))

	// Mutating the clone leaves the original untouched.
	b.AddTag("work")
	b.UDA().Set("estimate", StringValue("5h"))
	require.NoError(t, b.RemoveAnnotationAt(0))

	assert.Equal(t, []string{"home"}, a.Tags())
	v, ok := a.UDA().Get("estimate")
	require.True(t, ok)
	s, _ := v.String()
	assert.Equal(t, "3h", s)
	assert.Len(t, a.Annotations(), 1)
}
