// internal/playback/executor.go
package playback

import (
	"context"
	"time"
)

// Executor defines the low-level input backend the Runner drives. It is
// implemented by whatever actually injects events (an OS hook, a browser
// session, a remote agent); this package ships only the Recorder.
type Executor interface {
	Sleep(ctx context.Context, d time.Duration) error
	// MoveBy moves the pointer relative to its current position.
	MoveBy(ctx context.Context, dx, dy int) error
	// SendKeys types keys; "\b" is a backspace.
	SendKeys(ctx context.Context, keys string) error
	// Paste inserts text in one step, the way a clipboard shortcut does.
	Paste(ctx context.Context, text string) error
}
