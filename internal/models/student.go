package models

import (
	"cmp"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// StudentInfo is a student profile from GET /v1.1/students/{id}.
//
// The typed fields are decoded from the "data" object; the whole body is kept for [StudentInfo.Map].
type StudentInfo struct {
	Valid     bool
	ID        string
	FirstName string
	LastName  string
	Grade     string
	School    string
	raw       map[string]any
}

// InvalidStudentInfo is the placeholder rendered when the profile could not be fetched.
func InvalidStudentInfo() StudentInfo {
	return StudentInfo{}
}

// DecodeStudentInfo parses a student profile body and marks it valid.
func DecodeStudentInfo(body []byte) (StudentInfo, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return StudentInfo{}, &DecodeError{Payload: "student", Err: err}
	}

	data, ok := raw["data"].(map[string]any)
	if !ok {
		return StudentInfo{}, missing("student", "data")
	}

	id, _ := data["id"].(string)
	if id == "" {
		return StudentInfo{}, missing("student", "data.id")
	}

	info := StudentInfo{
		Valid:  true,
		ID:     id,
		Grade:  stringify(data["grade"]),
		School: stringify(data["school"]),
		raw:    raw,
	}
	if name, ok := data["name"].(map[string]any); ok {
		info.FirstName = stringify(name["first"])
		info.LastName = stringify(name["last"])
	}
	return info, nil
}

// Name returns "First Last", trimmed.
func (s StudentInfo) Name() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Map returns the profile body with "valid" merged in.
//
// An invalid profile maps to exactly {"valid": false}.
func (s StudentInfo) Map() map[string]any {
	if !s.Valid {
		return map[string]any{"valid": false}
	}
	m := maps.Clone(s.raw)
	if m == nil {
		m = map[string]any{}
	}
	m["valid"] = true
	return m
}

// Section is one scheduled class period.
//
// Fields other than period are passed through verbatim from Clever.
type Section struct {
	Period  string
	numeric bool
	order   int
	fields  map[string]any
}

// NewSection builds a Section from the inner "data" object of a sections payload.
func NewSection(fields map[string]any) (Section, error) {
	raw, ok := fields["period"]
	if !ok || raw == nil {
		return Section{}, missing("section", "period")
	}

	period := stringify(raw)
	s := Section{Period: period, fields: fields}
	if n, err := strconv.Atoi(strings.TrimSpace(period)); err == nil {
		s.numeric = true
		s.order = n
	}
	return s, nil
}

// Get returns a top level field as a string, empty when absent.
func (s Section) Get(key string) string {
	return stringify(s.fields[key])
}

func (s Section) Name() string    { return s.Get("name") }
func (s Section) Subject() string { return s.Get("subject") }
func (s Section) Teacher() string { return s.Get("teacher") }
func (s Section) Course() string  { return s.Get("course_name") }

// Map returns a copy of the section's fields.
func (s Section) Map() map[string]any {
	return maps.Clone(s.fields)
}

// MarshalJSON encodes the section as its verbatim fields.
func (s Section) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.fields)
}

type sectionsEnvelope struct {
	Data []struct {
		Data map[string]any `json:"data"`
	} `json:"data"`
}

// DecodeSections unwraps {"data": [{"data": {...}}, ...]} and sorts the result with [SortSections].
func DecodeSections(body []byte) ([]Section, error) {
	var env sectionsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &DecodeError{Payload: "sections", Err: err}
	}
	if env.Data == nil {
		return nil, missing("sections", "data")
	}

	sections := make([]Section, 0, len(env.Data))
	for i, item := range env.Data {
		if item.Data == nil {
			return nil, missing("sections", fmt.Sprintf("data[%d].data", i))
		}
		section, err := NewSection(item.Data)
		if err != nil {
			return nil, missing("sections", fmt.Sprintf("data[%d].data.period", i))
		}
		sections = append(sections, section)
	}

	SortSections(sections)
	return sections, nil
}

// SortSections orders sections by ascending integer period.
//
// The sort is stable. Periods that are not integers keep their relative order after all numeric periods.
func SortSections(sections []Section) {
	slices.SortStableFunc(sections, func(a, b Section) int {
		if a.numeric != b.numeric {
			if a.numeric {
				return -1
			}
			return 1
		}
		if !a.numeric {
			return 0
		}
		return cmp.Compare(a.order, b.order)
	})
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
