// Package printing renders settlement statements to PDF.
//
// A statement is first rendered to HTML with html/template, then printed to PDF
// by a headless Chrome driven through chromedp:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//
//	statements, err := NewStatementRenderer(renderer, PaperSizeA4, logger)
//	if err != nil {
//	    return err
//	}
//	pdf, err := statements.RenderStatement(ctx, doc)
package printing
