package commands

import (
	"fmt"

	"github.com/vividigit/sitebuilder/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Theme string `help:"Theme directory under themes/" default:"vividigit"`
	Force bool   `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path, err := config.Init(root.Root, root.Site, i.Theme, i.Force)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(root.out(), "Wrote %s\n", path)
	return nil
}
