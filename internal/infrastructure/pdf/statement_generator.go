// Package pdf genera el estado de cuenta de comisiones de un cliente.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Cliente + estado   │  Revendedor + fecha emisión    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTRATO: valor / duración / tasa del snapshot              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Periodo | Monto | Estado | Aprobada | Pagada | Ref.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES por estado y total del calendario                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/partner-commissions/internal/application/ports"
	"github.com/jhoicas/partner-commissions/internal/domain/entity"
)

var _ ports.StatementPDFGenerator = (*StatementGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// StatementGenerator implementa ports.StatementPDFGenerator usando Maroto v2.
type StatementGenerator struct {
	now func() time.Time
}

// NewStatementGenerator construye el generador.
func NewStatementGenerator() *StatementGenerator {
	return &StatementGenerator{now: time.Now}
}

// GenerateStatement genera el PDF y devuelve sus bytes.
func (g *StatementGenerator) GenerateStatement(
	_ context.Context,
	customer *entity.Customer,
	reseller *entity.User,
	commissions []*entity.Commission,
) ([]byte, error) {
	if customer == nil || reseller == nil {
		return nil, fmt.Errorf("pdf: cliente y revendedor son obligatorios")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta de comisiones", true).
		WithAuthor(reseller.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(customer, reseller, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(contractRow(customer, commissions))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(commissions)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(commissions)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(customer *entity.Customer, reseller *entity.User, issued time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(customer.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado del cliente: "+customer.Status, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CUENTA DE COMISIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(reseller.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+issued.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// contractRow términos del contrato. La tasa sale del snapshot de la primera comisión,
// no de la configuración actual del revendedor.
func contractRow(customer *entity.Customer, commissions []*entity.Commission) core.Row {
	value, duration := "—", "—"
	if customer.ContractValue != nil {
		value = formatAmount(*customer.ContractValue)
	}
	if customer.ContractDuration != nil {
		duration = fmt.Sprintf("%d año(s)", *customer.ContractDuration)
	}
	rate, currency, mode := "—", "", "Anual"
	if len(commissions) > 0 {
		s := commissions[0].Snapshot
		rate = s.CommissionRate.String() + "%"
		currency = s.Currency
		if s.IsOneOffPayment {
			mode = "Pago único"
		}
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CONTRATO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Valor anual: %s %s   |   Duración: %s   |   Tasa: %s   |   Modalidad: %s",
				value, currency, duration, rate, mode,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Periodo", 2, align.Left),
		h("Monto", 2, align.Right),
		h("Estado", 2, align.Center),
		h("Aprobada", 2, align.Center),
		h("Pagada", 2, align.Center),
		h("Referencia / motivo", 2, align.Left),
	)
}

func tableDetailRows(commissions []*entity.Commission) []core.Row {
	result := make([]core.Row, 0, len(commissions))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, c := range commissions {
		note := ""
		switch {
		case c.PaymentReference != nil:
			note = *c.PaymentReference
		case c.RejectionReason != nil:
			note = *c.RejectionReason
		case c.AutoApprovalRuleID != nil:
			note = "Auto-aprobada"
		}
		result = append(result, row.New(7).Add(
			cell(c.Period, 2, align.Left),
			cell(formatAmount(c.Amount), 2, align.Right),
			cell(c.Status, 2, align.Center),
			cell(formatDate(c.ApprovedAt), 2, align.Center),
			cell(formatDate(c.PaidAt), 2, align.Center),
			cell(truncate(note, 30), 2, align.Left),
		))
	}
	return result
}

// totalsRows una fila por estado presente más el total del calendario.
func totalsRows(commissions []*entity.Commission) []core.Row {
	totals := map[string]decimal.Decimal{}
	grand := decimal.Zero
	for _, c := range commissions {
		totals[c.Status] = totals[c.Status].Add(c.Amount)
		grand = grand.Add(c.Amount)
	}
	rows := make([]core.Row, 0, len(totals)+1)
	for _, status := range entity.CommissionStatuses {
		total, ok := totals[status]
		if !ok {
			continue
		}
		rows = append(rows, row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(status+":", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})),
			col.New(3).Add(text.New(formatAmount(total), props.Text{Size: 9, Align: align.Right, Right: 1})),
		))
	}
	rows = append(rows, row.New(7).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL CALENDARIO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 1,
		})),
		col.New(3).Add(text.New(formatAmount(grand), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 1,
		})),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// formatAmount formatea con puntos de miles y coma decimal.
// Ej: 2400 → "2.400,00", 1234567.5 → "1.234.567,50"
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + formatThousands(intPart) + "," + frac
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
