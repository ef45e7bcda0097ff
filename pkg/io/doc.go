// Package io reads and writes roadmap documents.
//
// # Formats
//
// Documents are accepted in YAML, TOML, or JSON; the format is picked from
// the file extension or passed explicitly. All three share one shape:
//
//	settings:
//	  title: Platform Roadmap
//	  start_date: 2026-01-01
//	  end_date: 2026-12-31
//	workstreams:
//	  - name: Engineering
//	    order: 1
//	    color: "#1F77B4"
//	tasks:
//	  - id: api-v2
//	    workstream: Engineering
//	    title: API v2
//	    start_date: 2026-02-01
//	    end_date: 2026-03-15
//	    status: in_progress
//
// Dates are plain YYYY-MM-DD strings in every format, so no codec-specific
// date handling leaks into documents.
//
// # Task Fields
//
// Required: workstream, title, start_date, end_date. Optional:
//   - id: stable identifier; generated when omitted
//   - status: planned (default), in_progress, done, risk
//   - type: block (default) or milestone
//   - description, owner, hyperlink
//   - color: hex value or palette name, overriding the workstream color
//
// # Import
//
// Use [Import] to read a document from a file path, or [Read] to read from
// any io.Reader. Both validate the document and return data-quality
// warnings (unknown workstream references and the like) separately from
// hard errors.
//
// # Export
//
// [ExportArtifact] writes rendered bytes to a file, creating parent
// directories. [WriteDocument] re-serializes a document, used by commands
// that normalize or migrate documents between formats.
package io
