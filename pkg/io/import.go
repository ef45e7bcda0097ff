package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

// Format identifies a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatForPath picks the document format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unsupported document extension %q (want .yaml, .toml, or .json)", filepath.Ext(path))
	}
}

// Wire types: dates stay strings so YAML/TOML date handling never leaks
// into the parsed model.

type document struct {
	Settings    settingsDoc     `json:"settings" yaml:"settings" toml:"settings"`
	Workstreams []workstreamDoc `json:"workstreams" yaml:"workstreams" toml:"workstreams"`
	Tasks       []taskDoc       `json:"tasks" yaml:"tasks" toml:"tasks"`
}

type settingsDoc struct {
	Title                string `json:"title" yaml:"title" toml:"title"`
	Subtitle             string `json:"subtitle,omitempty" yaml:"subtitle,omitempty" toml:"subtitle,omitempty"`
	ConfidentialityLabel string `json:"confidentiality_label,omitempty" yaml:"confidentiality_label,omitempty" toml:"confidentiality_label,omitempty"`
	StartDate            string `json:"start_date" yaml:"start_date" toml:"start_date"`
	EndDate              string `json:"end_date" yaml:"end_date" toml:"end_date"`
	WeekStartDay         string `json:"week_start_day,omitempty" yaml:"week_start_day,omitempty" toml:"week_start_day,omitempty"`
	PageSize             string `json:"page_size,omitempty" yaml:"page_size,omitempty" toml:"page_size,omitempty"`
	ShowTodayLine        *bool  `json:"show_today_line,omitempty" yaml:"show_today_line,omitempty" toml:"show_today_line,omitempty"`
	TodayLineDate        string `json:"today_line_date,omitempty" yaml:"today_line_date,omitempty" toml:"today_line_date,omitempty"`
}

type workstreamDoc struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Order *int   `json:"order,omitempty" yaml:"order,omitempty" toml:"order,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
}

type taskDoc struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Workstream  string `json:"workstream" yaml:"workstream" toml:"workstream"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	StartDate   string `json:"start_date" yaml:"start_date" toml:"start_date"`
	EndDate     string `json:"end_date" yaml:"end_date" toml:"end_date"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Owner       string `json:"owner,omitempty" yaml:"owner,omitempty" toml:"owner,omitempty"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Hyperlink   string `json:"hyperlink,omitempty" yaml:"hyperlink,omitempty" toml:"hyperlink,omitempty"`
}

// Read decodes and validates a document from r. Data-quality issues that
// should not abort a render (a task naming an undeclared workstream) come
// back as warnings; structural problems are errors.
func Read(r io.Reader, format Format) (*roadmap.Document, roadmap.Warnings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "reading document")
	}

	var wire document
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &wire)
	case FormatTOML:
		err = toml.Unmarshal(data, &wire)
	case FormatJSON:
		err = json.Unmarshal(data, &wire)
	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parsing %s document", format)
	}

	doc, err := convert(wire)
	if err != nil {
		return nil, nil, err
	}

	if err := roadmap.ValidateSettings(doc.Settings); err != nil {
		return nil, nil, err
	}
	if err := roadmap.ValidateWorkstreams(doc.Workstreams); err != nil {
		return nil, nil, err
	}
	warns, err := roadmap.ValidateTasks(doc.Tasks, doc.Workstreams)
	if err != nil {
		return nil, nil, err
	}
	return doc, warns, nil
}

// Import reads a document file, picking the format from its extension.
func Import(path string) (*roadmap.Document, roadmap.Warnings, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "opening %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

func convert(wire document) (*roadmap.Document, error) {
	settings, err := convertSettings(wire.Settings)
	if err != nil {
		return nil, err
	}

	workstreams := make([]roadmap.Workstream, 0, len(wire.Workstreams))
	for _, w := range wire.Workstreams {
		color, err := roadmap.NormalizeColor(w.Color)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "workstream %q", w.Name)
		}
		workstreams = append(workstreams, roadmap.Workstream{
			Name:  strings.TrimSpace(w.Name),
			Order: w.Order,
			Color: color,
		})
	}

	tasks := make([]roadmap.Task, 0, len(wire.Tasks))
	for i, t := range wire.Tasks {
		task, err := convertTask(i, t)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	tasks = roadmap.AssignMissingIDs(tasks)

	return &roadmap.Document{
		Settings:    settings,
		Workstreams: roadmap.SortWorkstreams(workstreams),
		Tasks:       tasks,
	}, nil
}

func convertSettings(s settingsDoc) (roadmap.Settings, error) {
	out := roadmap.Settings{
		Title:                strings.TrimSpace(s.Title),
		Subtitle:             strings.TrimSpace(s.Subtitle),
		ConfidentialityLabel: strings.TrimSpace(s.ConfidentialityLabel),
		WeekStartDay:         s.WeekStartDay,
		PageSize:             s.PageSize,
		// The today line defaults on; documents opt out explicitly.
		ShowTodayLine: s.ShowTodayLine == nil || *s.ShowTodayLine,
	}
	if out.WeekStartDay == "" {
		out.WeekStartDay = roadmap.WeekStartMon
	}
	if out.PageSize == "" {
		out.PageSize = roadmap.PageA3
	}

	var err error
	if out.Start, err = parseDate("settings.start_date", s.StartDate); err != nil {
		return out, err
	}
	if out.End, err = parseDate("settings.end_date", s.EndDate); err != nil {
		return out, err
	}
	if s.TodayLineDate != "" {
		d, err := parseDate("settings.today_line_date", s.TodayLineDate)
		if err != nil {
			return out, err
		}
		out.TodayLineDate = &d
	}
	return out, nil
}

func convertTask(idx int, t taskDoc) (roadmap.Task, error) {
	where := t.ID
	if where == "" {
		where = fmt.Sprintf("task #%d", idx+1)
	}

	color, err := roadmap.NormalizeColor(t.Color)
	if err != nil {
		return roadmap.Task{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "%s", where)
	}

	out := roadmap.Task{
		ID:          strings.TrimSpace(t.ID),
		Workstream:  strings.TrimSpace(t.Workstream),
		Title:       strings.TrimSpace(t.Title),
		Description: strings.TrimSpace(t.Description),
		Status:      t.Status,
		Type:        t.Type,
		Owner:       strings.TrimSpace(t.Owner),
		Color:       color,
		Hyperlink:   strings.TrimSpace(t.Hyperlink),
	}
	if out.Start, err = parseDate(where+".start_date", t.StartDate); err != nil {
		return out, err
	}
	if out.End, err = parseDate(where+".end_date", t.EndDate); err != nil {
		return out, err
	}
	return out, nil
}

func parseDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, errors.New(errors.ErrCodeInvalidDate,
			"%s is required (format %s)", field, roadmap.DateFormat)
	}
	d, err := roadmap.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.New(errors.ErrCodeInvalidDate,
			"%s: %q is not a valid %s date", field, value, roadmap.DateFormat)
	}
	return d, nil
}
