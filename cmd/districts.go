package main

import (
	"context"

	"github.com/desertthunder/cleverdemo/internal/ui"
	"github.com/urfave/cli/v3"
)

// Districts lists the districts visible to the API key.
func (r *Runner) Districts(ctx context.Context, cmd *cli.Command) error {
	clever, err := r.services()
	if err != nil {
		return err
	}

	districts, err := clever.Districts.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(districts, true)
	}

	r.writePlainHeader("Districts")
	if len(districts) == 0 {
		return r.writePlain("%s\n", ui.Styles.Warn("No districts visible to this API key."))
	}
	for i, d := range districts {
		r.writePlain("%d. %s (%s)\n", i+1, d.Name, d.ID)
	}
	return nil
}
