package cmd

import (
	"github.com/jessevdk/go-flags"
)

type EIC struct {
	Compress Compress `command:"compress" alias:"c" description:"compress the images embedded in spreadsheet files"`
	Inspect  Inspect  `command:"inspect" alias:"ls" description:"list the images embedded in spreadsheet files"`
}

func NewParser() (*flags.Parser, error) {
	opts := &EIC{}

	p := flags.NewNamedParser("eic", flags.Default)
	if _, err := p.AddGroup("Global Options", "", opts); err != nil {
		return nil, err
	}

	return p, nil
}
