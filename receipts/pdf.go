package receipts

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"stayvia/models"
)

// PDF renders an A4 receipt with the verification QR code in the top
// right corner. Amounts use "INR" since the core PDF fonts lack the rupee
// sign.
func PDF(r Receipt, now time.Time) ([]byte, error) {
	qrPNG, err := QRCode(r.VerifyURL, DefaultQRSize)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, "Payment Receipt")
	pdf.Ln(16)

	b := r.Booking
	rows := [][2]string{
		{"Booking ID", b.ID},
		{"Transaction ID", b.TransactionID},
		{"Name", r.PayerName},
		{"Email", orDash(r.PayerEmail)},
		{"Item", orDash(b.ItemTitle)},
	}
	if b.Type.Nightly() {
		rows = append(rows,
			[2]string{"Check-in", b.CheckIn.Format(models.DisplayLayout)},
			[2]string{"Check-out", b.CheckOut.Format(models.DisplayLayout)},
		)
	} else {
		rows = append(rows, [2]string{"Date", b.Date.Format(models.DisplayLayout)})
	}
	rows = append(rows,
		[2]string{"Guests", fmt.Sprint(b.NumberOfGuests)},
		[2]string{"Payment method", orDash(b.PaymentMethod)},
	)

	pdf.SetFont("Arial", "", 12)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(45, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, tr(row[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(4)

	for _, row := range [][2]string{
		{"Subtotal", r.Subtotal().Plain()},
		{"Service fee", b.ServiceFee.Plain()},
	} {
		pdf.CellFormat(120, 8, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, row[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, b.TotalAmount.Plain(), "", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 5, fmt.Sprintf("Generated %s\nVerify at %s",
		now.Format("02 Jan 2006 15:04 MST"), r.VerifyURL), "", "L", false)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 18, 40, 40, false, imgOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
