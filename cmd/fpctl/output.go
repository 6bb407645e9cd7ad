package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// paint colors s when the command writes to a terminal.
func paint(cmd *cobra.Command, s string, colors text.Colors) string {
	if !shouldColorize(cmd.OutOrStdout()) {
		return s
	}
	return colors.Sprint(s)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// renderTable draws rows with a rounded style on terminals and a plain
// one otherwise.
func renderTable(cmd *cobra.Command, headers []string, rows [][]string) string {
	tw := table.NewWriter()
	if shouldColorize(cmd.OutOrStdout()) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
