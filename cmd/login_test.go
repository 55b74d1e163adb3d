package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestPromptPasswordPipedInputFallsBackToLineRead(t *testing.T) {
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	oldStdin := os.Stdin
	os.Stdin = reader
	defer func() {
		os.Stdin = oldStdin
		_ = reader.Close()
	}()
	go func() {
		_, _ = writer.WriteString("s3cret\n")
		_ = writer.Close()
	}()

	out := &bytes.Buffer{}
	command := &cobra.Command{}
	command.SetOut(out)

	got, err := promptPassword(command, "Password: ")
	if err != nil {
		t.Fatalf("prompt password: %v", err)
	}
	if got != "s3cret" {
		t.Fatalf("password = %q, want s3cret", got)
	}
	if !strings.Contains(out.String(), "Password: ") {
		t.Fatalf("expected label in output, got %q", out.String())
	}
}
