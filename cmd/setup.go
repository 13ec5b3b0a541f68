package main

import (
	"context"

	"github.com/desertthunder/cleverdemo/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in the [clever] section or export CLEVER_CLIENT_ID, CLEVER_CLIENT_SECRET, CLEVER_API_KEY\n")
	r.writePlain("2. Set session.secret or SESSION_SECRET (at least %d characters)\n", shared.MinSessionSecret)
	r.writePlain("3. Run 'cleverdemo serve' and open the login page\n")
	return nil
}
