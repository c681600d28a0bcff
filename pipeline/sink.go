package pipeline

// ProgressSink receives the completion percentage of a run, a value in [0, 100].
//
// Implementations may be shared between concurrent runs and must not block.
type ProgressSink interface {
	Progress(percent float64)
}

// MessageSink receives human-readable lines of text describing a run.
//
// Implementations may be shared between concurrent runs and must not block.
type MessageSink interface {
	Message(text string)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(percent float64)

func (f ProgressFunc) Progress(percent float64) {
	f(percent)
}

// MessageFunc adapts a function to MessageSink.
type MessageFunc func(text string)

func (f MessageFunc) Message(text string) {
	f(text)
}

// Discard is a ProgressSink and MessageSink that drops everything.
var Discard discard

type discard struct {
}

func (discard) Progress(float64) {
}

func (discard) Message(string) {
}
