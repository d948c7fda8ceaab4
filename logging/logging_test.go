package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

const testLogName = "test.log"

// inTempDir runs the test from a scratch working directory so Dir is isolated
func inTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Failed to enter temp dir: %v", err)
	}
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		_ = os.Chdir(wd)
	})
}

func TestSetup_DisabledByDefault(t *testing.T) {
	inTempDir(t)

	if f := Setup(testLogName, false); f != nil {
		f.Close()
		t.Error("Expected nil log file when debug=false")
	}
	if log.Writer() != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", log.Writer())
	}
	if _, err := os.Stat(Dir); !os.IsNotExist(err) {
		t.Error("Expected no logs directory when debug=false")
	}
}

func TestSetup_EnabledWithDebug(t *testing.T) {
	inTempDir(t)

	f := Setup(testLogName, true)
	if f == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer f.Close()

	if log.Writer() == os.Stdout || log.Writer() == os.Stderr {
		t.Error("Log output should not be stdout or stderr")
	}

	log.Println("Test log message")
	info, err := os.Stat(filepath.Join(Dir, testLogName))
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestSetup_Rotation(t *testing.T) {
	inTempDir(t)

	if err := os.MkdirAll(Dir, 0755); err != nil {
		t.Fatalf("Failed to create logs directory: %v", err)
	}
	path := filepath.Join(Dir, testLogName)
	if err := os.WriteFile(path, make([]byte, MaxLogSize+1), 0644); err != nil {
		t.Fatalf("Failed to write large log file: %v", err)
	}

	f := Setup(testLogName, true)
	if f == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer f.Close()

	entries, err := os.ReadDir(Dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected current and rotated log files, got %d entries", len(entries))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > MaxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", MaxLogSize, info.Size())
	}
}
