// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	"github.com/go-pdf/fpdf"
)

const (
	pageLeftMargin   = 20.0
	pageTopMargin    = 45.0 // leaves room for the boxed header
	pageBottomMargin = 20.0
	contentWidth     = 170.0
	tableLineHeight  = 5.0
)

const logReportHeaderTitle = "Rapport de Maintenance Préventive"
const imageReportHeaderTitle = "Rapport d'Audit WebLogic"

type Renderer interface {
	RenderLogReport(reports []view.FileReport) ([]byte, error)
	RenderImageReport(analyses []view.ImageAnalysis) ([]byte, error)
}

func NewRenderer() Renderer {
	return &rendererImpl{}
}

type rendererImpl struct {
}

type pdfDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// newDoc creates an A4 document with the boxed date/title header on every
// page and a page-number footer. Core fonts are cp1252, so all text goes
// through the unicode translator.
func newDoc(headerTitle string) *pdfDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AliasNbPages("")
	pdf.SetMargins(pageLeftMargin, pageTopMargin, pageLeftMargin)
	pdf.SetAutoPageBreak(true, pageBottomMargin)

	date := time.Now().Format("02/01/2006")
	pdf.SetHeaderFuncMode(func() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(10, 10)
		pdf.CellFormat(50, 20, tr(date), "1", 0, "CM", false, 0, "")
		pdf.CellFormat(90, 20, tr(headerTitle), "1", 0, "CM", false, 0, "")
		pdf.CellFormat(50, 20, "", "1", 0, "CM", false, 0, "")
		pdf.SetY(pageTopMargin)
	}, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	return &pdfDoc{pdf: pdf, tr: tr}
}

func (d *pdfDoc) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to produce PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// drawTableRow renders one table row with wrapped cells and a shared row
// height, handling page breaks before the row is started.
func (d *pdfDoc) drawTableRow(widths []float64, cells []string, fill bool) {
	pdf := d.pdf

	maxLines := 1
	for i, cell := range cells {
		lines := pdf.SplitLines([]byte(d.tr(cell)), widths[i]-2)
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowHeight := float64(maxLines)*tableLineHeight + 2

	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+rowHeight > pageHeight-pageBottomMargin {
		pdf.AddPage()
	}

	x := pageLeftMargin
	y := pdf.GetY()
	for i, cell := range cells {
		if fill {
			pdf.Rect(x, y, widths[i], rowHeight, "DF")
		} else {
			pdf.Rect(x, y, widths[i], rowHeight, "D")
		}
		pdf.SetXY(x+1, y+1)
		pdf.MultiCell(widths[i]-2, tableLineHeight, d.tr(cell), "", "L", false)
		x += widths[i]
	}
	pdf.SetXY(pageLeftMargin, y+rowHeight)
}

// RenderLogReport lays out one section per analyzed file: a heading and a
// message/solution/occurrences table, or a "no errors" paragraph.
func (r *rendererImpl) RenderLogReport(reports []view.FileReport) ([]byte, error) {
	d := newDoc(logReportHeaderTitle)
	pdf := d.pdf

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, d.tr("Rapport d'analyse des fichiers log"), "", 1, "C", false, 0, "")
	pdf.Ln(7)

	widths := []float64{70, 70, 25}
	for _, fileReport := range reports {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, d.tr("Fichier : "+fileReport.Filename), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		if len(fileReport.Groups) == 0 {
			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(0, 6, d.tr("Aucune erreur trouvée"), "", 1, "L", false, 0, "")
			pdf.Ln(4)
			continue
		}

		pdf.SetFillColor(173, 216, 230)
		pdf.SetFont("Helvetica", "B", 9)
		d.drawTableRow(widths, []string{"Message représentatif", "Solution suggérée", "Occurrences"}, true)

		pdf.SetFont("Helvetica", "", 9)
		for _, group := range fileReport.Groups {
			message := group.Explanation
			if message == "" {
				message = group.RepresentativeMessage
			}
			d.drawTableRow(widths, []string{message, group.Solution, fmt.Sprintf("%d", group.Count)}, false)
		}
		pdf.Ln(10)
	}

	return d.output()
}

// RenderImageReport lays out one page per screenshot: heading, the scaled
// image itself, the extracted table and the conclusion/recommendation.
func (r *rendererImpl) RenderImageReport(analyses []view.ImageAnalysis) ([]byte, error) {
	d := newDoc(imageReportHeaderTitle)
	pdf := d.pdf

	for idx, analysis := range analyses {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, d.tr("Analyse de : "+analysis.ImageName), "", 1, "L", false, 0, "")
		if analysis.Title != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(0, 6, d.tr("Titre : "+analysis.Title), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)

		if len(analysis.ImageData) > 0 {
			if err := d.embedImage(fmt.Sprintf("capture-%d", idx), analysis); err != nil {
				return nil, err
			}
			pdf.Ln(6)
		}

		if len(analysis.Labels) > 0 && len(analysis.Values) > 0 {
			colWidth := contentWidth / float64(len(analysis.Labels))
			widths := make([]float64, len(analysis.Labels))
			for i := range widths {
				widths[i] = colWidth
			}

			pdf.SetFillColor(245, 245, 245)
			pdf.SetFont("Helvetica", "B", 9)
			d.drawTableRow(widths, analysis.Labels, true)

			pdf.SetFont("Helvetica", "", 9)
			for _, row := range analysis.Values {
				cells := row
				if len(cells) > len(widths) {
					cells = cells[:len(widths)]
				}
				for len(cells) < len(widths) {
					cells = append(cells, "")
				}
				d.drawTableRow(widths, cells, false)
			}
			pdf.Ln(6)
		}

		pdf.SetFont("Helvetica", "", 10)
		if analysis.Conclusion != "" {
			pdf.MultiCell(contentWidth, 5, d.tr("Conclusion : "+analysis.Conclusion), "", "L", false)
			pdf.Ln(3)
		}
		if analysis.Recommendation != "" {
			pdf.MultiCell(contentWidth, 5, d.tr("Recommendation : "+analysis.Recommendation), "", "L", false)
			pdf.Ln(3)
		}
	}

	return d.output()
}

func (d *pdfDoc) embedImage(name string, analysis view.ImageAnalysis) error {
	imageType, err := imageTypeFromMime(analysis.MimeType)
	if err != nil {
		return fmt.Errorf("image %s: %w", analysis.ImageName, err)
	}

	pdf := d.pdf
	opts := fpdf.ImageOptions{ImageType: imageType}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(analysis.ImageData))
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to register image %s: %w", analysis.ImageName, err)
	}

	width, height := info.Extent()
	maxWidth := contentWidth
	maxHeight := 120.0
	if width > maxWidth || height > maxHeight {
		ratio := maxWidth / width
		if maxHeight/height < ratio {
			ratio = maxHeight / height
		}
		width *= ratio
		height *= ratio
	}

	x := pageLeftMargin + (contentWidth-width)/2
	pdf.ImageOptions(name, x, 0, width, height, true, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to draw image %s: %w", analysis.ImageName, err)
	}
	return nil
}

func imageTypeFromMime(mimeType string) (string, error) {
	switch mimeType {
	case "image/png":
		return "PNG", nil
	case "image/jpeg":
		return "JPEG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported image type %s, expected png, jpeg or gif", mimeType)
	}
}
