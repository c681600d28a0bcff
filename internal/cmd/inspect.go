package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/eic/bundle"
	"github.com/nguyengg/eic/internal"
	"github.com/nguyengg/eic/recode"
	"github.com/spf13/afero"
)

type Inspect struct {
	Args struct {
		Files []flags.Filename `positional-arg-name:"file" description:"the spreadsheet files to be inspected" required:"yes"`
	} `positional-args:"yes"`

	fs afero.Fs
}

func (c *Inspect) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}

	n := len(c.Args.Files)
	for i, file := range c.Args.Files {
		logger := internal.NewLogger(i, n, string(file))

		b, err := bundle.Read(c.fs, string(file))
		if err != nil {
			logger.Printf("read archive error: %v", err)
			continue
		}

		names := bundle.MediaNames(b, bundle.MediaPrefix)
		if len(names) == 0 {
			logger.Printf("no images found in %s", bundle.MediaPrefix)
			continue
		}

		var total uint64
		for _, name := range names {
			data, _ := b.Get(name)
			size := humanize.IBytes(uint64(len(data)))
			total += uint64(len(data))

			info, err := recode.Probe(data)
			if err != nil {
				logger.Printf("%s (%s): cannot identify image", path.Base(name), size)
				continue
			}

			logger.Printf("%s (%s): %s %dx%d", path.Base(name), size, info.Format, info.Width, info.Height)
		}

		logger.Printf("%d images, %s in total", len(names), humanize.IBytes(total))
	}

	return nil
}
