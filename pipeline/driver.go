// Package pipeline recompresses the images of one spreadsheet package at a time.
//
// A Driver reads the whole package into memory, recodes every media entry in listing order, then writes a new package
// next to the input. Everything that happens is reported as text through a MessageSink and as a percentage through a
// ProgressSink; Run also returns a structured Outcome for programmatic callers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nguyengg/eic/bundle"
	"github.com/nguyengg/eic/recode"
	"github.com/spf13/afero"
)

// Options customises Driver.
type Options struct {
	// Config controls how images are recoded.
	//
	// Default to recode.DefaultConfig.
	Config recode.Config

	// MediaPrefix is the entry name prefix that identifies images.
	//
	// Default to bundle.MediaPrefix.
	MediaPrefix string

	// Fs is the filesystem both the input and output live on.
	//
	// Default to afero.NewOsFs.
	Fs afero.Fs

	// Output returns the output name for the given input.
	//
	// Default to OutputName.
	Output func(input string) string

	// WriteOptions customises how the output archive is written.
	WriteOptions []func(*bundle.WriteOptions)
}

// Driver runs the pipeline.
//
// A Driver holds no state between runs and can be shared by concurrent calls to Run, provided its sinks are safe for
// concurrent use.
type Driver struct {
	progress ProgressSink
	messages MessageSink
	opts     Options
}

// New creates a new Driver reporting to the given sinks, either of which may be nil.
func New(progress ProgressSink, messages MessageSink, optFns ...func(*Options)) *Driver {
	opts := Options{
		Config:      recode.DefaultConfig(),
		MediaPrefix: bundle.MediaPrefix,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MediaPrefix == "" {
		opts.MediaPrefix = bundle.MediaPrefix
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Output == nil {
		opts.Output = OutputName
	}

	d := &Driver{progress: progress, messages: messages, opts: opts}
	if d.progress == nil {
		d.progress = Discard
	}
	if d.messages == nil {
		d.messages = Discard
	}

	return d
}

// Outcome is the result of one run.
type Outcome struct {
	// Input is the name of the input package.
	Input string
	// Output is the name of the output package. The file exists only if State is Done.
	Output string

	// State is either Done or Aborted.
	State State

	// Images is the number of media entries that were processed.
	Images int
	// Changed is the number of media entries whose content was replaced.
	Changed int
	// Fallbacks is the number of PNG images that could not be quantized and were recompressed losslessly instead.
	Fallbacks int
	// Failures lists the media entries that were kept as-is.
	Failures []ImageFailure

	// OriginalBytes is the total size of all media entries before recoding.
	OriginalBytes int64
	// OutputBytes is the total size of all media entries after recoding.
	OutputBytes int64

	// Err is non-nil if State is Aborted.
	Err *Error
}

// Succeeded returns true if the output was created.
func (o Outcome) Succeeded() bool {
	return o.State == Done
}

// Reduction returns the percentage by which the total size of the media entries shrank.
//
// The value is negative if the images grew, and 0 if there were no images.
func (o Outcome) Reduction() float64 {
	if o.OriginalBytes == 0 {
		return 0
	}

	return (1 - float64(o.OutputBytes)/float64(o.OriginalBytes)) * 100
}

// OutputName returns the name of the compressed package for the given input.
//
// The output is placed in the same directory as the input, with "_compressed" appended to the stem:
// "dir/book.xlsx" becomes "dir/book_compressed.xlsx".
func OutputName(input string) string {
	dir, base := filepath.Split(input)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"_compressed"+ext)
}

// Run compresses the images of the named package.
//
// Per-image failures never abort the run: the image is kept as-is and listed in Outcome.Failures. The context is
// checked before reading, between media entries, and before writing; if it is cancelled, no output is written.
func (d *Driver) Run(ctx context.Context, input string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.messages.Message(fmt.Sprintf("an unexpected error occurred: %v", r))
			out.State = Aborted
			out.Err = &Error{Kind: KindUnexpected, Path: input, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	out = Outcome{Input: input, State: Idle}
	out.Output = d.opts.Output(input)

	out.State = Reading
	if err := ctx.Err(); err != nil {
		return d.cancel(out, err)
	}

	b, err := bundle.Read(d.opts.Fs, input)
	switch {
	case errors.Is(err, bundle.ErrNotFound):
		d.messages.Message(fmt.Sprintf("error: file not found at %s", input))
		return d.abort(out, KindInputNotFound, input, err)
	case errors.Is(err, bundle.ErrArchiveCorrupt):
		d.messages.Message(fmt.Sprintf("read archive error: %v", err))
		return d.abort(out, KindArchiveCorrupt, input, err)
	case err != nil:
		d.messages.Message(fmt.Sprintf("an unexpected error occurred: %v", err))
		return d.abort(out, KindUnexpected, input, err)
	}

	names := bundle.MediaNames(b, d.opts.MediaPrefix)
	if len(names) == 0 {
		return d.copyOnly(ctx, out)
	}

	out.State = Recoding
	for i, name := range names {
		if err = ctx.Err(); err != nil {
			return d.cancel(out, err)
		}

		d.recode(b, name, &out)
		d.progress.Progress(percent(i, len(names)))
	}

	if out.OriginalBytes > 0 {
		d.messages.Message(fmt.Sprintf("total image size reduction: %s -> %s (%.2f%%)",
			humanize.IBytes(uint64(out.OriginalBytes)),
			humanize.IBytes(uint64(out.OutputBytes)),
			out.Reduction()))
	}

	if err = ctx.Err(); err != nil {
		return d.cancel(out, err)
	}

	out.State = Writing
	if err = bundle.Write(d.opts.Fs, b, out.Output, d.opts.WriteOptions...); err != nil {
		d.messages.Message(fmt.Sprintf("write compressed file error: %v", err))
		return d.abort(out, KindOutputWriteFailure, out.Output, err)
	}

	out.State = Done
	d.messages.Message(fmt.Sprintf("successfully created compressed file: %s", out.Output))
	return out
}

// recode recodes one media entry in place and updates the accounting.
func (d *Driver) recode(b *bundle.Bundle, name string, out *Outcome) {
	data, _ := b.Get(name)
	base := path.Base(name)

	res := recode.Recode(data, d.opts.Config)
	out.Images++
	out.OriginalBytes += int64(res.OriginalSize)
	out.OutputBytes += int64(res.OutputSize)

	if res.Err != nil {
		out.Failures = append(out.Failures, ImageFailure{Name: name, Kind: KindImageDecodeOrEncodeFailure, Err: res.Err})
		d.messages.Message(fmt.Sprintf("could not compress %s: %v", base, res.Err))
		return
	}

	if res.Converted() {
		d.messages.Message(fmt.Sprintf("converting %s to %s: %s", strings.ToUpper(res.Format), strings.ToUpper(res.OutputFormat), base))
	}
	if res.Fallback {
		out.Fallbacks++
	}
	if res.Changed {
		b.Set(name, res.Data)
		out.Changed++
	}

	d.messages.Message(fmt.Sprintf("compressed %s: %s -> %s", base, humanize.IBytes(uint64(res.OriginalSize)), humanize.IBytes(uint64(res.OutputSize))))
}

// copyOnly writes a byte-for-byte copy of the input as the output.
func (d *Driver) copyOnly(ctx context.Context, out Outcome) Outcome {
	out.State = CopyOnly
	d.messages.Message(fmt.Sprintf("no images found in %s", d.opts.MediaPrefix))

	data, err := afero.ReadFile(d.opts.Fs, out.Input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d.messages.Message(fmt.Sprintf("error: file not found at %s", out.Input))
			return d.abort(out, KindInputNotFound, out.Input, err)
		}

		d.messages.Message(fmt.Sprintf("an unexpected error occurred: %v", err))
		return d.abort(out, KindUnexpected, out.Input, err)
	}

	if err = ctx.Err(); err != nil {
		return d.cancel(out, err)
	}

	out.State = Writing
	if err = bundle.WriteFile(d.opts.Fs, out.Output, data, d.opts.WriteOptions...); err != nil {
		d.messages.Message(fmt.Sprintf("write compressed file error: %v", err))
		return d.abort(out, KindOutputWriteFailure, out.Output, err)
	}

	out.State = Done
	d.messages.Message(fmt.Sprintf("no images to compress, copied to %s", out.Output))
	return out
}

func (d *Driver) cancel(out Outcome, err error) Outcome {
	d.messages.Message("compression canceled")
	return d.abort(out, KindCanceled, out.Input, err)
}

func (d *Driver) abort(out Outcome, kind Kind, name string, err error) Outcome {
	out.State = Aborted
	out.Err = &Error{Kind: kind, Path: name, Err: err}
	return out
}

// percent returns the progress after the i-th (zero-based) of n entries; the last entry is always exactly 100.
func percent(i, n int) float64 {
	if i+1 >= n {
		return 100
	}

	return float64(i+1) / float64(n) * 100
}
