package jsonstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelsoft/scheduler/internal/task"
	"github.com/kestrelsoft/scheduler/internal/task/jsonstore"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPendingTasks_SkipsNonPending(t *testing.T) {
	path := writeFile(t, `[
		{"id":"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d","name":"Write report","priority":3,"duration_minutes":60,"status":"pending"},
		{"id":"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6e","name":"Done already","priority":2,"duration_minutes":30,"status":"completed"}
	]`)

	store := jsonstore.New(path)
	tasks, err := store.PendingTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Name)
	assert.Equal(t, task.Priority(3), tasks[0].Priority)
}

func TestPendingTasks_InvalidDurationFails(t *testing.T) {
	path := writeFile(t, `[{"id":"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d","name":"Bad","priority":3,"duration_minutes":0,"status":"pending"}]`)

	store := jsonstore.New(path)
	_, err := store.PendingTasks()
	assert.ErrorIs(t, err, task.ErrNonPositiveDuration)
}

func TestPendingTasks_MissingFileFails(t *testing.T) {
	store := jsonstore.New(filepath.Join(t.TempDir(), "missing.json"))
	_, err := store.PendingTasks()
	assert.Error(t, err)
}
