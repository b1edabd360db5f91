package printing

import (
	"context"
	"fmt"

	settlementapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/settlement"
	"go.uber.org/zap"
)

const statementFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#888;">` +
	`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`

// StatementRenderer renders settlement statements to PDF
type StatementRenderer struct {
	pdf       PDFRenderer
	template  *StatementTemplate
	paperSize PaperSize
	logger    *zap.Logger
}

// NewStatementRenderer creates a StatementRenderer on top of a PDF renderer
func NewStatementRenderer(pdf PDFRenderer, paperSize PaperSize, log *zap.Logger) (*StatementRenderer, error) {
	tmpl, err := NewStatementTemplate()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if !paperSize.IsValid() {
		paperSize = PaperSizeA4
	}
	return &StatementRenderer{
		pdf:       pdf,
		template:  tmpl,
		paperSize: paperSize,
		logger:    log,
	}, nil
}

// RenderHTML renders the statement to HTML
func (r *StatementRenderer) RenderHTML(doc settlementapp.StatementDocument) (string, error) {
	return r.template.Execute(doc)
}

// RenderStatement renders the statement to PDF
func (r *StatementRenderer) RenderStatement(ctx context.Context, doc settlementapp.StatementDocument) ([]byte, error) {
	html, err := r.RenderHTML(doc)
	if err != nil {
		return nil, err
	}

	result, err := r.pdf.Render(ctx, &RenderRequest{
		HTML:       html,
		PaperSize:  r.paperSize,
		Margins:    DefaultMargins(),
		Title:      fmt.Sprintf("Settlement %s %s", doc.Statement.PropertyID, doc.Statement.Period),
		FooterHTML: statementFooter,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Settlement statement rendered",
		zap.String("property_id", doc.Statement.PropertyID),
		zap.String("period", doc.Statement.Period.String()),
		zap.Int("lines", len(doc.Statement.Lines)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration),
	)
	return result.PDFData, nil
}

var _ settlementapp.StatementRenderer = (*StatementRenderer)(nil)
