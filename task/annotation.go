package task

// Annotation is a single timestamped note attached to a task. It has no
// identity beyond its position in the owning task's annotation sequence.
type Annotation struct {
	Entry       Date   `json:"entry"`
	Description string `json:"description"`
}

// NewAnnotation creates an annotation with the given entry date and text.
func NewAnnotation(entry Date, description string) Annotation {
	return Annotation{Entry: entry, Description: description}
}

// Equal reports structural equality: both fields equal.
func (a Annotation) Equal(other Annotation) bool {
	return a.Entry.Equal(other.Entry) && a.Description == other.Description
}
