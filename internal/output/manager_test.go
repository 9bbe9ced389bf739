package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestManagerCountsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(&buf)
	ok := m.RegisterJob("good.iso")
	bad := m.RegisterJob("bad.iso")
	m.RegisterJob("later.iso")

	m.UpdateProgress(ok, 50, 100)
	m.Complete(ok, "")
	m.ReportError(bad, errors.New("connection refused"))

	success, failures := m.Counts()
	if success != 1 || failures != 1 {
		t.Errorf("Counts() = %d, %d, want 1, 1", success, failures)
	}

	m.ShowSummary()
	out := buf.String()
	for _, want := range []string{"Completed 1 of 3", "Failed 1 of 3", "bad.iso", "connection refused"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestManagerDisplayLifecycle(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(&buf)
	id := m.RegisterJob("file.bin")
	m.StartDisplay()
	m.SetStatus(id, "running")
	m.SetMessage(id, "Downloading file.bin")
	m.Complete(id, "Completed file.bin")
	m.StopDisplay()

	if !strings.Contains(buf.String(), "Completed file.bin") {
		t.Errorf("final display missing completion message:\n%s", buf.String())
	}
}

func TestPrintProgressBar(t *testing.T) {
	tests := []struct {
		current, total int64
		want           string
	}{
		{0, 100, "0.0%"},
		{50, 100, "50.0%"},
		{200, 100, "100.0%"},
		{10, 0, "100.0%"},
	}
	for _, tt := range tests {
		if got := PrintProgressBar(tt.current, tt.total, 20); !strings.Contains(got, tt.want) {
			t.Errorf("PrintProgressBar(%d, %d) = %q, want %s", tt.current, tt.total, got, tt.want)
		}
	}
}
