package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestGenerateVersionOutput(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	generateVersionOutput(w)
	w.Close()

	var buf bytes.Buffer
	buf.ReadFrom(r)

	for _, want := range []string{"Version:", "Plugin ABI:", "Go Version:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q, got %q", want, buf.String())
		}
	}
}
