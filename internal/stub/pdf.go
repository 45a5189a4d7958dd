package stub

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/five82/vastavik/internal/detector"
)

// RenderReport lays out result as a one-page PDF and returns it with the
// report ID printed on it.
func RenderReport(result detector.AnalysisResult, now time.Time) ([]byte, string, error) {
	id := uuid.NewString()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Deepfake Analysis Report", false)
	pdf.SetCreator("vastavik-stub", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Deepfake Analysis Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Report ID: "+id, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+now.UTC().Format(time.RFC1123), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if result.IsDeepfake {
		pdf.SetTextColor(185, 28, 28)
	} else {
		pdf.SetTextColor(21, 128, 61)
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, result.Verdict(), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Confidence score: %.1f%%", result.ConfidenceScore), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Processing time: "+result.ProcessingTime, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Detected anomalies", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(60, 7, "Region", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Confidence", "1", 0, "R", true, 0, "")
	pdf.CellFormat(0, 7, "Description", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if len(result.Anomalies) == 0 {
		pdf.CellFormat(0, 7, "None reported", "1", 1, "L", false, 0, "")
	}
	for _, a := range result.Anomalies {
		pdf.CellFormat(60, 7, a.Region, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.1f%%", a.Confidence), "1", 0, "R", false, 0, "")
		pdf.CellFormat(0, 7, a.Description, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, "This report supports clinical review and is not a diagnosis. "+
		"Automated deepfake detection can be wrong; confirm findings with a qualified professional.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), id, nil
}
