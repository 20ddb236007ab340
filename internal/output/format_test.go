package output

import (
	"bytes"
	"testing"
	"time"

	"taskman/internal/service"
	"taskman/internal/session"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		task service.Task
		want string
	}{
		{"open", service.Task{ID: 3, Title: "Buy milk"}, "   3  [ ] Buy milk\n"},
		{"done", service.Task{ID: 12, Title: "Ship", Completed: true}, "  12  [x] Ship\n"},
		{"untitled", service.Task{ID: 1, Title: "  "}, "   1  [ ] (untitled)\n"},
		{"newlines", service.Task{ID: 1, Title: "a\nb\r\nc"}, "   1  [ ] a b  c\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.task)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	FormatTaskDetail(&buf, service.Task{ID: 7, Title: "Write report", Description: "quarterly\n", Completed: true})

	want := "#7 Write report\n------------\nstatus: completed\n\nquarterly\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	FormatTaskDetail(&buf, service.Task{ID: 8, Title: "No desc"})
	want = "#8 No desc\n------------\nstatus: open\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatIdentity(t *testing.T) {
	var buf bytes.Buffer
	FormatIdentity(&buf, session.Identity{Username: "alice"})
	if buf.String() != "alice\n" {
		t.Errorf("got %q", buf.String())
	}

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	buf.Reset()
	FormatIdentity(&buf, session.Identity{Username: "bob", ExpiresAt: &exp})
	want := "bob\ntoken expires: 2030-01-02T03:04:05Z\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
