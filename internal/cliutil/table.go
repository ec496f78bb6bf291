// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/zipaura

package cliutil

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is listing timestamp format.
const DateLayout = "01/02/2006 15:04:05"

// Row is one listing line.
type Row struct {
	Modified       time.Time
	Name           string
	Size           int64
	CompressedSize int64
	IsDir          bool
}

// Table renders listings with Name, Size, Compressed and Modified columns.
type Table struct {
	// Width is terminal width; names are truncated to fit, zero disables truncation.
	Width int
	// Bytes prints raw byte counts instead of MB.
	Bytes bool
	// NoHeader skips the column header line.
	NoHeader bool
}

// FormatSize prints n as megabytes with two decimals, or raw bytes.
func FormatSize(n int64, raw bool) string {
	if raw {
		return strconv.FormatInt(n, 10)
	}

	return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
}

// FormatTime prints t in listing layout; zero time prints as "-".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format(DateLayout)
}

// Render writes rows to w.
func (t Table) Render(w io.Writer, rows []Row) error {
	cells := make([][3]string, len(rows))
	sizeWidth, compWidth := len("Size"), len("Compressed")
	for i, row := range rows {
		cells[i] = [3]string{
			FormatSize(row.Size, t.Bytes),
			FormatSize(row.CompressedSize, t.Bytes),
			FormatTime(row.Modified),
		}
		sizeWidth = max(sizeWidth, len(cells[i][0]))
		compWidth = max(compWidth, len(cells[i][1]))
	}

	nameWidth := len("Name")
	for _, row := range rows {
		nameWidth = max(nameWidth, utf8.RuneCountInString(displayName(row)))
	}

	if t.Width > 0 {
		fixed := sizeWidth + compWidth + len(DateLayout) + 3*2
		nameWidth = max(min(nameWidth, t.Width-fixed), 8)
	}

	line := func(name, size, comp, date string) error {
		_, err := fmt.Fprintf(w, "%-*s  %*s  %*s  %s\n", nameWidth, name, sizeWidth, size, compWidth, comp, date)
		return err
	}

	if !t.NoHeader {
		if err := line("Name", "Size", "Compressed", "Modified"); err != nil {
			return err
		}
	}

	for i, row := range rows {
		name := Truncate(displayName(row), nameWidth)
		if err := line(name, cells[i][0], cells[i][1], cells[i][2]); err != nil {
			return err
		}
	}

	return nil
}

// displayName marks folders with a trailing slash.
func displayName(row Row) string {
	if row.IsDir {
		return row.Name + "/"
	}

	return row.Name
}

// Truncate shortens s to width runes, ending it with "~" when cut.
func Truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}

	if width == 1 {
		return "~"
	}

	runes := []rune(s)
	return string(runes[:width-1]) + "~"
}

// Indent returns tree indentation for depth.
func Indent(depth int) string {
	return strings.Repeat("  ", depth)
}
