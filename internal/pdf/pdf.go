package pdf

import (
	"bytes"
	"errors"
	"fmt"

	rscpdf "rsc.io/pdf"
)

// ErrNotPDF is returned for uploads that cannot be opened as a PDF.
var ErrNotPDF = errors.New("not a readable PDF")

// Info describes an uploaded document.
type Info struct {
	Pages int
}

// Inspect opens data as a PDF and counts its pages. The reader panics on
// some malformed inputs, so that is reported as ErrNotPDF as well.
func Inspect(data []byte) (info Info, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return Info{}, fmt.Errorf("%w: missing header", ErrNotPDF)
	}
	defer func() {
		if r := recover(); r != nil {
			info, err = Info{}, fmt.Errorf("%w: %v", ErrNotPDF, r)
		}
	}()

	r, err := rscpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	n := r.NumPage()
	if n <= 0 {
		return Info{}, fmt.Errorf("%w: no pages", ErrNotPDF)
	}
	return Info{Pages: n}, nil
}
