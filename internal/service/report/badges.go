package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// Badge is one user's printable badge: the QR carries the badge code
// the kiosk scans.
type Badge struct {
	FullName string
	Code     string
}

// BadgePNG renders one badge QR code as a png image.
func BadgePNG(code string) ([]byte, error) {
	png, err := qrcode.Encode(code, qrcode.Medium, 512)
	if err != nil {
		return nil, errors.Wrap(err, "encoding badge qr code")
	}

	return png, nil
}

// BuildBadgeSheet lays the team badges out on an A4 sheet, eight per
// page, and returns the pdf path.
func BuildBadgeSheet(badges []Badge, dir string) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	opts := gofpdf.ImageOptions{ImageType: "PNG"}

	if len(badges) == 0 {
		pdf.AddPage()
	}

	for i, badge := range badges {
		slot := i % 8
		if slot == 0 {
			pdf.AddPage()
		}

		x := 25 + float64(slot%2)*95
		y := 15 + float64(slot/2)*68

		png, err := BadgePNG(badge.Code)
		if err != nil {
			return "", err
		}

		name := fmt.Sprintf("badge-%d", i)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		pdf.ImageOptions(name, x, y, 45, 45, false, opts, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetXY(x-10, y+46)
		pdf.CellFormat(65, 6, badge.FullName, "", 0, "C", false, 0, "")
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "creating badge directory")
	}

	path := filepath.Join(dir, "badges.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", errors.Wrap(err, "saving badge sheet")
	}

	return path, nil
}
