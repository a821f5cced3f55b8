// Package hookio reads and writes the JSON shapes Taskwarrior exchanges
// with hook processes and its import/export commands. It only transforms
// the bytes handed to it; opening and closing the streams is the caller's
// business.
package hookio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matthiasbeyer/task-hookrs/task"
)

// ReadTasks reads a Taskwarrior export from r: a JSON array of task
// objects, or a single object.
func ReadTasks(r io.Reader) ([]*task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return task.DecodeTasks(data)
}

// ReadTask reads exactly one task object from r. This is the shape hooks
// such as on-add receive on standard input.
func ReadTask(r io.Reader) (*task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read task: %w", err)
	}
	return task.DecodeTask(data)
}

// ReadTaskLines reads one task object per line, the shape on-modify hooks
// receive. Blank lines are skipped; a malformed line fails with its line
// number.
func ReadTaskLines(r io.Reader) ([]*task.Task, error) {
	var tasks []*task.Task
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		t, err := task.DecodeTask([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tasks = append(tasks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read task lines: %w", err)
	}
	return tasks, nil
}

// WriteTasks writes tasks to w as a JSON array, the shape `task import`
// consumes.
func WriteTasks(w io.Writer, tasks []*task.Task) error {
	data := []byte("[]")
	if len(tasks) > 0 {
		var err error
		data, err = json.Marshal(tasks)
		if err != nil {
			return fmt.Errorf("encode tasks: %w", err)
		}
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	return nil
}

// WriteTask writes a single task object to w followed by a newline, the
// shape hooks emit on standard output.
func WriteTask(w io.Writer, t *task.Task) error {
	data, err := task.EncodeTask(t)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write task: %w", err)
	}
	return nil
}
