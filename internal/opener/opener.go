// Package opener hands a path to the operating system's default application.
package opener

import (
	"fmt"
	"os"

	"github.com/skratchdot/open-golang/open"
)

// Opener opens a file with whatever application the OS associates with it.
type Opener interface {
	Open(path string) error
}

// Func adapts a plain function to the Opener interface.
type Func func(path string) error

// Open calls f(path).
func (f Func) Open(path string) error {
	return f(path)
}

// System opens paths through xdg-open, open(1) or the Windows shell.
type System struct {
	launch func(string) error
}

// NewSystem returns an Opener backed by the platform's launcher.
func NewSystem() *System {
	return &System{launch: open.Run}
}

// Open checks that path exists, then launches its default handler and waits
// for the launcher to exit.
func (s *System) Open(path string) error {
	if path == "" {
		return fmt.Errorf("opener: empty path")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opener: %w", err)
	}
	if err := s.launch(path); err != nil {
		return fmt.Errorf("opener: launch %s: %w", path, err)
	}
	return nil
}
