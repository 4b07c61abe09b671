// Package printing composes the club's printable documents: payment
// receipts, workout and nutrition programs and member progress reports.
//
// Composition happens in two phases. A recipe first draws its blocks and
// tables against a DocumentContext, a vertical cursor over the current page
// that only moves down until a page break resets it to the top margin. Once
// every block is drawn and the final page count is known, the footer stamper
// revisits each page and writes "Page i of N".
//
// Drawing goes through the Canvas interface. FpdfCanvas is the gofpdf
// implementation used in production; tests substitute a recording canvas.
//
// Example usage:
//
//	engine := NewEngine(&EngineConfig{Logger: logger})
//	doc, err := engine.GenerateReceipt(receipt, printing.MustProfile(printing.PaperSizeA4), brand)
//	if err != nil {
//	    return err
//	}
//	if err := doc.WriteFile("receipt.pdf"); err != nil {
//	    return err
//	}
//
// This package also stores generated files (FileSystemStorage, S3Storage).
package printing
