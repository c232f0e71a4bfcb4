package shared

import (
	"errors"
	"os/exec"
	"testing"
)

func TestOpenURL(t *testing.T) {
	origRuntime, origStart := getRuntime, startCmd
	t.Cleanup(func() { getRuntime, startCmd = origRuntime, origStart })

	tc := []struct {
		name     string
		goos     string
		wantPath string
		wantErr  bool
	}{
		{name: "darwin", goos: "darwin", wantPath: "open"},
		{name: "linux", goos: "linux", wantPath: "xdg-open"},
		{name: "windows", goos: "windows", wantPath: "rundll32"},
		{name: "unsupported", goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var started *exec.Cmd
			getRuntime = func() string { return tt.goos }
			startCmd = func(cmd *exec.Cmd) error { started = cmd; return nil }

			err := OpenURL("https://music.youtube.com/playlist?list=PL1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if started == nil || started.Args[0] != tt.wantPath {
				t.Errorf("expected %s to be started, got %v", tt.wantPath, started)
			}
			if last := started.Args[len(started.Args)-1]; last != "https://music.youtube.com/playlist?list=PL1" {
				t.Errorf("url not passed through: %v", started.Args)
			}
		})
	}

	t.Run("empty url", func(t *testing.T) {
		if err := OpenURL(""); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
