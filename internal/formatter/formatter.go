// package formatter exports a student's schedule to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/cleverdemo/internal/models"
	"github.com/desertthunder/cleverdemo/internal/shared"
)

// Supported export formats.
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Formats lists every format accepted by [Export].
var Formats = []string{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// Schedule is a student profile with its ordered sections.
type Schedule struct {
	Student  models.StudentInfo
	Sections []models.Section
}

// Title returns the student's name, falling back to the id.
func (s Schedule) Title() string {
	if name := s.Student.Name(); name != "" {
		return name
	}
	if s.Student.ID != "" {
		return s.Student.ID
	}
	return "Unknown student"
}

// ExportToCSV converts sections to CSV with columns: Period, Name, Subject, Teacher, Course
func ExportToCSV(sections []models.Section) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Period", "Name", "Subject", "Teacher", "Course"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, section := range sections {
		record := []string{section.Period, section.Name(), section.Subject(), section.Teacher(), section.Course()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a schedule to a Markdown document with a sections table
func ExportToMarkdown(schedule Schedule) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", schedule.Title()))

	if schedule.Student.Grade != "" {
		buf.WriteString(fmt.Sprintf("**Grade**: %s\n", schedule.Student.Grade))
	}
	if schedule.Student.School != "" {
		buf.WriteString(fmt.Sprintf("**School**: %s\n", schedule.Student.School))
	}
	buf.WriteString(fmt.Sprintf("**Sections**: %d\n\n", len(schedule.Sections)))

	buf.WriteString("## Schedule\n\n")
	if len(schedule.Sections) == 0 {
		buf.WriteString("_No classes scheduled._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| Period | Class | Subject | Teacher |\n")
	buf.WriteString("|---|---|---|---|\n")
	for _, s := range schedule.Sections {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			cell(s.Period), cell(s.Name()), cell(s.Subject()), cell(s.Teacher())))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a schedule to plain text format
func ExportToText(schedule Schedule) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Student: %s\n", schedule.Title()))
	if schedule.Student.Grade != "" {
		buf.WriteString(fmt.Sprintf("Grade: %s\n", schedule.Student.Grade))
	}
	buf.WriteString(fmt.Sprintf("Sections: %d\n\n", len(schedule.Sections)))

	for _, s := range schedule.Sections {
		line := fmt.Sprintf("%s. %s", s.Period, s.Name())
		if teacher := s.Teacher(); teacher != "" {
			line += " (" + teacher + ")"
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes the sections as their verbatim Clever fields.
func ExportToJSON(sections []models.Section, pretty bool) ([]byte, error) {
	if sections == nil {
		sections = []models.Section{}
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(sections, "", "  ")
	} else {
		data, err = json.Marshal(sections)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders schedule in format.
func Export(format string, schedule Schedule) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return ExportToText(schedule)
	case FormatCSV:
		return ExportToCSV(schedule.Sections)
	case FormatMarkdown, "md":
		return ExportToMarkdown(schedule)
	case FormatJSON:
		return ExportToJSON(schedule.Sections, true)
	default:
		return nil, fmt.Errorf("%w: format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// WriteExport renders schedule in format and writes it to path.
//
// Defaults to {student id}_schedule.{ext} as the filename.
func WriteExport(format string, schedule Schedule, path string) (string, error) {
	data, err := Export(format, schedule)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("%s_schedule.%s", schedule.Student.ID, Extension(format))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// Extension returns the file extension for format.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case FormatCSV:
		return "csv"
	case FormatMarkdown, "md":
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
