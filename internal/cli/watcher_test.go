package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write go file", fsnotify.Event{Name: "/app/users.go", Op: fsnotify.Write}, true},
		{"create go file", fsnotify.Event{Name: "/app/users.go", Op: fsnotify.Create}, true},
		{"remove go file", fsnotify.Event{Name: "/app/users.go", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/app/users.go", Op: fsnotify.Chmod}, false},
		{"generated router", fsnotify.Event{Name: "/app/autogen_users_router.go", Op: fsnotify.Write}, false},
		{"not go", fsnotify.Event{Name: "/app/README.md", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev))
		})
	}
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"api/api.go": "package api\n"})

	builds := make(chan struct{}, 16)
	w := NewWatcher(50*time.Millisecond, quietDiagnostics(), func(context.Context) error {
		builds <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, []string{root + "/..."}) }()

	waitBuild := func(msg string) {
		t.Helper()
		select {
		case <-builds:
		case <-time.After(5 * time.Second):
			t.Fatal(msg)
		}
	}
	drain := func() {
		for {
			select {
			case <-builds:
			case <-time.After(300 * time.Millisecond):
				return
			}
		}
	}

	waitBuild("no initial build")

	require.NoError(t, os.WriteFile(filepath.Join(root, "api", "autogen_api_router.go"), []byte("package api\n"), 0o644))
	select {
	case <-builds:
		t.Fatal("generated files must not trigger a build")
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(root, "api", "users.go"), []byte("package api\n\ntype Users struct{}\n"), 0o644))
	waitBuild("no build after a source change")
	drain()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
