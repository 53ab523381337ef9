// Package report renders a printable summary of the playthrough ledger.
package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/catalog"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/selection"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/stats"
)

const (
	pageW     = 842
	pageH     = 595
	margin    = 36
	rowH      = 14
	fontSize  = 8
	titleSize = 14
)

// Row is one entry of the report.
type Row struct {
	Map         string
	Gamemode    string
	File        string
	Attempts    int
	Wins        int
	AverageTime float64
	XPPerHour   float64
	CashPerHour float64
}

// Totals reports the recorded runs of a file on a gamemode.
type Totals interface {
	Totals(file, gamemode string) stats.GamemodeStats
}

// Collect builds one row per entry, best XP per hour first.
func Collect(entries []catalog.Entry, sel *selection.Selector, totals Totals) []Row {
	ranked := selection.RankByGain(entries, sel.XPPerHour)
	rows := make([]Row, 0, len(ranked))
	for _, r := range ranked {
		e := r.Entry
		row := Row{
			Map:         e.Map(),
			Gamemode:    e.Gamemode,
			File:        filepath.Base(e.Filename),
			AverageTime: sel.AverageTime(e),
			XPPerHour:   r.Gain,
			CashPerHour: sel.CashPerHour(e),
		}
		if totals != nil {
			t := totals.Totals(e.Filename, e.Gamemode)
			row.Attempts, row.Wins = t.Attempts, t.Wins
		}
		rows = append(rows, row)
	}
	return rows
}

type column struct {
	title string
	width float64
	align string
	value func(Row) string
}

var columns = []column{
	{"Map", 110, "L", func(r Row) string { return r.Map }},
	{"Gamemode", 110, "L", func(r Row) string { return r.Gamemode }},
	{"File", 230, "L", func(r Row) string { return r.File }},
	{"Attempts", 50, "R", func(r Row) string { return fmt.Sprint(r.Attempts) }},
	{"Wins", 40, "R", func(r Row) string { return fmt.Sprint(r.Wins) }},
	{"Avg time", 60, "R", func(r Row) string { return formatSeconds(r.AverageTime) }},
	{"XP/h", 85, "R", func(r Row) string { return fmt.Sprintf("%.0f", r.XPPerHour) }},
	{"Cash/h", 75, "R", func(r Row) string { return fmt.Sprintf("%.0f", r.CashPerHour) }},
}

func formatSeconds(s float64) string {
	if s < 0 {
		return "-"
	}
	return (time.Duration(s) * time.Second).String()
}

// Generate returns PDF bytes listing rows in a table, repeating the header
// on every page.
func Generate(rows []Row, title string, at time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)

	header := func() {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", titleSize)
		pdf.SetXY(margin, margin)
		pdf.CellFormat(pageW-2*margin, 18, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.CellFormat(pageW-2*margin, 12, at.Format(time.DateTime), "", 1, "L", false, 0, "")
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.SetFillColor(220, 220, 220)
		for _, c := range columns {
			pdf.CellFormat(c.width, rowH, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", fontSize)
	}

	header()
	if len(rows) == 0 {
		pdf.CellFormat(pageW-2*margin, rowH, "No playthroughs.", "", 1, "L", false, 0, "")
	}
	for _, r := range rows {
		if pdf.GetY()+rowH > pageH-margin {
			header()
		}
		for _, c := range columns {
			pdf.CellFormat(c.width, rowH, c.value(r), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
