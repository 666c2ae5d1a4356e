// file: internal/cards/pdf.go
// version: 1.2.0
// guid: 3a4b5c6d-7e8f-9a0b-1c2d-3e4f5a6b7c8d

package cards

import (
	"bytes"
	"fmt"
	"log"

	"github.com/go-pdf/fpdf"

	"github.com/jdfalk/flexster/internal/models"
)

// pageMargin is the printable margin in millimeters.
const pageMargin = 8.0

// Generator lays resolved records out as a two-sided flashcard PDF: a front
// page of QR codes followed by a back page with the matching metadata. With
// Mirror set, the back page reverses column order so double-sided printing
// lines each card up with its QR code.
type Generator struct {
	Rows     int
	Cols     int
	Mirror   bool
	Platform string // "apple" or "spotify", picks the QR link
}

// NewGenerator creates a Generator with sane grid bounds.
func NewGenerator(rows, cols int, mirror bool, platform string) *Generator {
	if rows < 1 {
		rows = 4
	}
	if cols < 1 {
		cols = 3
	}
	return &Generator{Rows: rows, Cols: cols, Mirror: mirror, Platform: platform}
}

// Build writes the flashcard PDF for the given records.
func (g *Generator) Build(records []models.TrackRecord, path string) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to lay out")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	cellW := (pageW - 2*pageMargin) / float64(g.Cols)
	cellH := (pageH - 2*pageMargin) / float64(g.Rows)

	perPage := g.Rows * g.Cols
	for start := 0; start < len(records); start += perPage {
		end := start + perPage
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		g.frontPage(pdf, chunk, cellW, cellH)
		g.backPage(pdf, chunk, cellW, cellH, translate)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	log.Printf("[INFO] cards: wrote %d cards to %s", len(records), path)
	return nil
}

// frontPage draws the QR grid. Grid lines double as cutting guides.
func (g *Generator) frontPage(pdf *fpdf.Fpdf, chunk []models.TrackRecord, cellW, cellH float64) {
	pdf.AddPage()
	g.drawGrid(pdf, cellW, cellH)

	qrSize := cellW * 0.8
	if cellH < cellW {
		qrSize = cellH * 0.8
	}

	for i := range chunk {
		record := &chunk[i]
		link := record.CardLink(g.Platform)
		if link == "" {
			log.Printf("[WARN] cards: no link for %q, leaving front cell empty", record.Query)
			continue
		}
		png, err := EncodeQR(link)
		if err != nil {
			log.Printf("[WARN] cards: %v", err)
			continue
		}

		row, col := i/g.Cols, i%g.Cols
		x := pageMargin + float64(col)*cellW + (cellW-qrSize)/2
		y := pageMargin + float64(row)*cellH + (cellH-qrSize)/2

		name := fmt.Sprintf("qr-%s", record.Query)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(name, x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
}

// backPage draws the metadata grid, mirrored per column when configured.
func (g *Generator) backPage(pdf *fpdf.Fpdf, chunk []models.TrackRecord, cellW, cellH float64, translate func(string) string) {
	pdf.AddPage()
	g.drawGrid(pdf, cellW, cellH)

	for i := range chunk {
		record := &chunk[i]
		row, col := i/g.Cols, i%g.Cols
		if g.Mirror {
			col = g.Cols - 1 - col
		}
		x := pageMargin + float64(col)*cellW
		y := pageMargin + float64(row)*cellH

		lines := []struct {
			text  string
			style string
		}{
			{record.Title, "B"},
			{record.Artist, ""},
			{fmt.Sprintf("%s (%s)", record.Album, record.DisplayYear()), "I"},
			{record.Composer, ""},
			{record.Genre, ""},
		}

		lineH := 5.5
		textY := y + (cellH-float64(len(lines))*lineH)/2
		for _, line := range lines {
			pdf.SetFont("Helvetica", line.style, 10)
			pdf.SetXY(x+2, textY)
			pdf.CellFormat(cellW-4, lineH, translate(line.text), "", 0, "C", false, 0, "")
			textY += lineH
		}
	}
}

func (g *Generator) drawGrid(pdf *fpdf.Fpdf, cellW, cellH float64) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			pdf.Rect(pageMargin+float64(c)*cellW, pageMargin+float64(r)*cellH, cellW, cellH, "D")
		}
	}
}
