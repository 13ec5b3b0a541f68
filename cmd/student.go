package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cleverdemo/internal/formatter"
	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/urfave/cli/v3"
)

// StudentInfo shows a student profile.
//
// A failed fetch is reported as an error; the web app renders the invalid profile instead.
func (r *Runner) StudentInfo(ctx context.Context, cmd *cli.Command) error {
	clever, err := r.services()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	info, err := clever.Students.Info(ctx, id).Unwrap()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(info.Map(), cmd.Bool("pretty"))
	}

	r.writePlainHeader("Student Profile")
	r.writePlain("ID:     %s\n", info.ID)
	if name := info.Name(); name != "" {
		r.writePlain("Name:   %s\n", name)
	}
	if info.Grade != "" {
		r.writePlain("Grade:  %s\n", info.Grade)
	}
	if info.School != "" {
		r.writePlain("School: %s\n", info.School)
	}
	return nil
}

// StudentSections shows a student's sections in the requested format.
//
// The profile is fetched for the export header; a failed profile falls back to the id.
func (r *Runner) StudentSections(ctx context.Context, cmd *cli.Command) error {
	clever, err := r.services()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	sections, err := clever.Students.Sections(ctx, id).Unwrap()
	if err != nil {
		return err
	}

	infoResult := clever.Students.Info(ctx, id)
	if _, err := infoResult.Unwrap(); err != nil {
		r.logger.Warn("profile unavailable", "id", id, "error", err)
	}
	info := infoResult.Or(models.StudentInfo{ID: id})

	schedule := formatter.Schedule{Student: info, Sections: sections}
	format := cmd.String("format")

	if cmd.IsSet("output") {
		path, err := formatter.WriteExport(format, schedule, cmd.String("output"))
		if err != nil {
			return err
		}
		r.logger.Info("schedule exported", "path", path, "sections", len(sections))
		return r.writePlain("✓ Exported %d sections to %s\n", len(sections), path)
	}

	data, err := formatter.Export(format, schedule)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
