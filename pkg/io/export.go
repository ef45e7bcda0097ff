package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lanekit/lanekit/pkg/errors"
	"github.com/lanekit/lanekit/pkg/roadmap"
)

// WriteDocument encodes a document to w in the given format. The output
// round-trips through [Read]: dates are rendered as calendar strings and
// optional fields with zero values are omitted.
func WriteDocument(doc *roadmap.Document, w io.Writer, format Format) error {
	wire := toWire(doc)

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(wire)
	case FormatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(wire)
		data = buf.Bytes()
	case FormatJSON:
		data, err = json.MarshalIndent(wire, "", "  ")
		data = append(data, '\n')
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "encoding %s document", format)
	}

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "writing document")
	}
	return nil
}

// ExportDocument writes a document file at path, picking the format from
// its extension. Parent directories are created as needed.
func ExportDocument(doc *roadmap.Document, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "creating %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "creating %s", path)
	}
	defer f.Close()
	return WriteDocument(doc, f, format)
}

// ExportArtifact writes rendered chart bytes (SVG or PNG) to path,
// creating parent directories as needed.
func ExportArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "creating %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "writing %s", path)
	}
	return nil
}

func toWire(doc *roadmap.Document) document {
	out := document{
		Settings: settingsDoc{
			Title:                doc.Settings.Title,
			Subtitle:             doc.Settings.Subtitle,
			ConfidentialityLabel: doc.Settings.ConfidentialityLabel,
			StartDate:            roadmap.FormatDate(doc.Settings.Start),
			EndDate:              roadmap.FormatDate(doc.Settings.End),
			WeekStartDay:         doc.Settings.WeekStartDay,
			PageSize:             doc.Settings.PageSize,
		},
		Workstreams: make([]workstreamDoc, 0, len(doc.Workstreams)),
		Tasks:       make([]taskDoc, 0, len(doc.Tasks)),
	}
	if !doc.Settings.ShowTodayLine {
		off := false
		out.Settings.ShowTodayLine = &off
	}
	if doc.Settings.TodayLineDate != nil {
		out.Settings.TodayLineDate = roadmap.FormatDate(*doc.Settings.TodayLineDate)
	}

	for _, w := range doc.Workstreams {
		out.Workstreams = append(out.Workstreams, workstreamDoc{
			Name:  w.Name,
			Order: w.Order,
			Color: w.Color,
		})
	}
	for _, t := range doc.Tasks {
		out.Tasks = append(out.Tasks, taskDoc{
			ID:          t.ID,
			Workstream:  t.Workstream,
			Title:       t.Title,
			Description: t.Description,
			StartDate:   roadmap.FormatDate(t.Start),
			EndDate:     roadmap.FormatDate(t.End),
			Status:      t.Status,
			Type:        t.Type,
			Owner:       t.Owner,
			Color:       t.Color,
			Hyperlink:   t.Hyperlink,
		})
	}
	return out
}
