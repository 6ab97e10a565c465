package export

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	platformotel "github.com/louisbranch/talevortex/internal/platform/otel"
	"github.com/louisbranch/talevortex/internal/services/story/domain"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 6.0
)

// PDF writes agg as an A4 document to w.
func PDF(ctx context.Context, agg domain.Aggregate, w io.Writer) error {
	_, span := platformotel.Tracer("export").Start(ctx, "export.pdf")
	defer span.End()
	span.SetAttributes(
		attribute.String("story.id", agg.Story.ID),
		attribute.Int("story.units", len(agg.Units)),
	)

	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(tr(agg.Story.Name), false)
	doc.SetCreator("TaleVortex", false)
	doc.SetMargins(18, 18, 18)
	doc.SetAutoPageBreak(true, 18)
	doc.AddPage()

	doc.SetFont(pdfFont, "B", 20)
	doc.MultiCell(0, 10, tr(agg.Story.Name), "", "L", false)
	doc.Ln(2)

	heading := func(text string, size float64) {
		doc.SetFont(pdfFont, "B", size)
		doc.MultiCell(0, pdfLineHeight+1, tr(text), "", "L", false)
	}
	body := func(text string) {
		doc.SetFont(pdfFont, "", 11)
		doc.MultiCell(0, pdfLineHeight, tr(text), "", "L", false)
	}

	heading("Setting and Style", 14)
	body(agg.Story.Setting)
	doc.Ln(2)
	heading("Main Challenge", 14)
	body(agg.Story.Challenge)

	for _, group := range agg.UnitsByType() {
		doc.Ln(4)
		heading(string(group.Type), 15)
		for _, unit := range group.Units {
			doc.Ln(1)
			heading(unit.Name, 12)
			for _, field := range domain.OrderedFields(unit) {
				doc.SetFont(pdfFont, "B", 10)
				doc.MultiCell(0, pdfLineHeight, tr(field.Name), "", "L", false)
				body(field.Value.String(agg.ResolveRef))
			}
		}
	}

	if err := doc.Output(w); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("render story pdf: %w", err)
	}
	return nil
}
