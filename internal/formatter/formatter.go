// package formatter renders merge previews for stdout and writes them to CSV, JSON, or plain text files
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/models"
	"github.com/Aanzil/youtube-music-playlist-merger/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

const (
	statusAdd  = "add"
	statusSkip = "skip"
)

// ParseFormat accepts csv, json, txt (or text), in any casing.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (want csv, json or txt)", shared.ErrInvalidFormat, s)
	}
}

// FormatFromPath infers the export format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// PreviewToCSV converts a preview to CSV with columns: status, title, artists, duration, source, reason.
//
// Tracks to add come first, then skipped tracks.
func PreviewToCSV(preview *models.Preview) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"status", "title", "artists", "duration", "source", "reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	rows := func(status string, views []models.TrackView) error {
		for _, v := range views {
			record := []string{status, v.Title, v.Artists, v.Duration, v.Source, v.Reason}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	}
	if err := rows(statusAdd, preview.ToAdd); err != nil {
		return nil, err
	}
	if err := rows(statusSkip, preview.Skipped); err != nil {
		return nil, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// PreviewToJSON converts a preview to indented JSON.
func PreviewToJSON(preview *models.Preview) ([]byte, error) {
	data, err := json.MarshalIndent(preview, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preview: %w", err)
	}
	return append(data, '\n'), nil
}

// PreviewText renders the stats header followed by aligned tables of tracks to add and skipped tracks.
func PreviewText(preview *models.Preview) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Destination: %s\n\n", preview.Destination)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, s := range preview.Stats {
		fmt.Fprintf(tw, "%s:\t%s\n", s.Label, s.Value)
	}
	tw.Flush()

	fmt.Fprintf(&buf, "\nTracks to add (%s)\n", humanize.Comma(int64(len(preview.ToAdd))))
	writeTable(&buf, []string{"#", "TITLE", "ARTISTS", "DURATION", "SOURCE"}, preview.ToAdd, false)

	fmt.Fprintf(&buf, "\nSkipped (%s)\n", humanize.Comma(int64(len(preview.Skipped))))
	writeTable(&buf, []string{"#", "TITLE", "ARTISTS", "SOURCE", "REASON"}, preview.Skipped, true)

	return buf.String()
}

func writeTable(buf *bytes.Buffer, headers []string, views []models.TrackView, skipped bool) {
	if len(views) == 0 {
		buf.WriteString("  (none)\n")
		return
	}

	tw := tabwriter.NewWriter(buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for i, v := range views {
		title, artists, source := cell(v.Title, 48), cell(v.Artists, 36), cell(v.Source, 30)
		if skipped {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, title, artists, source, v.Reason)
		} else {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, title, artists, v.Duration, source)
		}
	}
	tw.Flush()
}

// cell truncates s to width terminal columns.
func cell(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// Render encodes a preview in the given format.
func Render(preview *models.Preview, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return PreviewToCSV(preview)
	case FormatJSON:
		return PreviewToJSON(preview)
	case FormatText:
		return []byte(PreviewText(preview)), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidFormat, format)
	}
}

// WritePreview writes a preview to path in the given format.
//
// An empty format is inferred from the file extension.
func WritePreview(preview *models.Preview, format Format, path string) error {
	if path == "" {
		return fmt.Errorf("%w: output path is required", shared.ErrMissingArgument)
	}

	if format == "" {
		inferred, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		format = inferred
	}

	data, err := Render(preview, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}
