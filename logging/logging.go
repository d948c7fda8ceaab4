// Package logging routes the standard logger to a rotated file in debug mode and discards it otherwise
// Terminal front ends own stdout, so log output never goes there
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

const (
	Dir        = "logs"
	MaxLogSize = 10 * 1024 * 1024
)

// Setup points the standard logger at Dir/name when debug is set and returns the open file
// An existing file over MaxLogSize is renamed with a timestamp first
// Returns nil, with logging discarded, when debug is off or the file cannot be opened
func Setup(name string, debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(Dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	path := filepath.Join(Dir, name)
	if info, err := os.Stat(path); err == nil && info.Size() > MaxLogSize {
		ext := filepath.Ext(name)
		rotated := filepath.Join(Dir, fmt.Sprintf("%s-%s%s", name[:len(name)-len(ext)], time.Now().Format("20060102-150405"), ext))
		_ = os.Rename(path, rotated)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("[LOG] session started, pid %d", os.Getpid())
	return f
}
