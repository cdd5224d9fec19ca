package validation

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// CountPDFPages counts the number of pages in a PDF file
func CountPDFPages(pdfPath string) (int, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return 0, &FileReadError{
			Message: fmt.Sprintf("failed to read PDF: %s", pdfPath),
			Cause:   err,
		}
	}
	return CountPDFPagesBytes(data)
}

// CountPDFPagesBytes counts the pages of an in-memory PDF
func CountPDFPagesBytes(data []byte) (count int, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			count, err = 0, &Error{Message: fmt.Sprintf("malformed PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, &Error{Message: "failed to open PDF", Cause: err}
	}
	count = reader.NumPage()
	if count == 0 {
		return 0, &Error{Message: "PDF has no pages"}
	}
	return count, nil
}
