package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/operation"
	"github.com/fieldlog/fieldlog/internal/domain/model/profile"
	"github.com/fieldlog/fieldlog/internal/domain/repository"
)

const (
	timestampLayout = "02/01/2006 15:04:05"
	notApplicable   = "N/A"
	divider         = "================================================================"
	subDivider      = "----------------------------------------------------------------"
)

// Generator renders the full history as one plain-text document.
type Generator struct {
	historyRepo repository.HistoryRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

// NewGenerator creates a report generator
func NewGenerator(historyRepo repository.HistoryRepository, profileRepo repository.ProfileRepository) *Generator {
	return &Generator{
		historyRepo: historyRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// WithClock overrides the generation timestamp source
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate renders every stored operation. A single operation that fails
// to render is replaced by a placeholder line; generation always
// produces a document.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	ops, err := g.historyRepo.All(ctx)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	var b strings.Builder
	b.WriteString("FIELD OPERATIONS REPORT\n")
	fmt.Fprintf(&b, "Generated: %s\n", g.now().Format(timestampLayout))
	g.writeProfileHeader(ctx, &b)
	b.WriteString("\n")

	if len(ops) == 0 {
		b.WriteString("No operations recorded.\n")
		return b.String(), nil
	}

	for i, op := range ops {
		fmt.Fprintf(&b, "%s\n", divider)
		section, err := renderOperation(i+1, op)
		if err != nil {
			fmt.Fprintf(&b, "Operation %d: item unavailable (%v)\n", i+1, err)
			continue
		}
		b.WriteString(section)
	}
	return b.String(), nil
}

func (g *Generator) writeProfileHeader(ctx context.Context, b *strings.Builder) {
	p, err := g.profileRepo.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			fmt.Fprintf(b, "Operator: %s\n", notApplicable)
		}
		return
	}
	fmt.Fprintf(b, "Operator: %s (%s), %s\n", p.Name, p.Registration, positionOrDefault(p))
	if p.AuxiliaryName != "" {
		fmt.Fprintf(b, "Auxiliary: %s\n", p.AuxiliaryName)
	}
	if p.VehiclePlate != "" {
		fmt.Fprintf(b, "Vehicle: %s\n", p.VehiclePlate)
	}
}

func positionOrDefault(p *profile.Profile) string {
	if p.Position == "" {
		return profile.DefaultPosition
	}
	return p.Position
}

// renderOperation builds one operation section. Panics from malformed
// records are converted into an error so one bad item cannot take down
// the whole report.
func renderOperation(n int, op *operation.Operation) (section string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render: %v", r)
		}
	}()
	if op == nil {
		return "", errors.New("empty record")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Operation %d  [%s]\n", n, op.ID().String())
	fmt.Fprintf(&b, "%s\n", subDivider)

	f := op.Fields()
	fmt.Fprintf(&b, "Start:          %s\n", op.StartedAt().Format(timestampLayout))
	fmt.Fprintf(&b, "End:            %s\n", op.EndedAt().Format(timestampLayout))
	fmt.Fprintf(&b, "Type:           %s\n", orNA(f.Type))
	fmt.Fprintf(&b, "City:           %s\n", orNA(f.City))
	fmt.Fprintf(&b, "Well/Service:   %s\n", orNA(f.WellService))
	fmt.Fprintf(&b, "Operator:       %s\n", orNA(f.OperatorName))
	fmt.Fprintf(&b, "Volume:         %s\n", orNA(f.Volume))
	fmt.Fprintf(&b, "Temperature:    %s\n", orNA(f.Temperature))
	fmt.Fprintf(&b, "Pressure:       %s\n", orNA(f.Pressure))
	fmt.Fprintf(&b, "Activities:     %s\n", orNA(f.Activities))

	writeDisplacement(&b, op)
	writeInterval(&b, "Mobilization", op.Mobilization() != nil, op, true)
	writeInterval(&b, "Demobilization", op.Demobilization() != nil, op, false)
	writeWaiting(&b, op)
	writeLunch(&b, op)
	writeRefueling(&b, op)

	fmt.Fprintf(&b, "Total operation time: %s\n\n", minutesOrNA(op.TotalOperationMinutes()))
	return b.String(), nil
}

func writeDisplacement(b *strings.Builder, op *operation.Operation) {
	b.WriteString("Displacement:\n")
	d := op.Displacement()
	if d == nil {
		fmt.Fprintf(b, "  %s\n", notApplicable)
		return
	}
	fmt.Fprintf(b, "  Route:        %s -> %s\n", orNA(d.Origin), orNA(d.Destination))
	fmt.Fprintf(b, "  Odometer:     %.1f km -> %.1f km (%.1f km)\n", d.StartKm, d.EndKm, d.DistanceKm)
	fmt.Fprintf(b, "  Duration:     %s\n", d.Duration.String())
}

func writeInterval(b *strings.Builder, label string, present bool, op *operation.Operation, mobilization bool) {
	if !present {
		fmt.Fprintf(b, "%s: not recorded\n", label)
		return
	}
	iv := op.Demobilization()
	if mobilization {
		iv = op.Mobilization()
	}
	start := timeOrNA(iv.StartedAt())
	end := timeOrNA(iv.EndedAt())
	fmt.Fprintf(b, "%s: %s -> %s (%s)\n", label, start, end, minutesOrNA(iv.Duration()))
}

func writeWaiting(b *strings.Builder, op *operation.Operation) {
	periods := op.WaitingPeriods()
	fmt.Fprintf(b, "Waiting periods (%d, total %s):\n", len(periods), minutesOrNA(op.TotalWaiting()))
	for i, p := range periods {
		fmt.Fprintf(b, "  %d. %s -> %s (%s)\n", i+1,
			p.StartedAt.Format(timestampLayout), p.EndedAt.Format(timestampLayout), p.Duration.String())
		for _, r := range p.Reasons {
			fmt.Fprintf(b, "     - %s: %s\n", r.At.Format(timestampLayout), r.Text)
		}
	}
}

func writeLunch(b *strings.Builder, op *operation.Operation) {
	breaks := op.LunchBreaks()
	fmt.Fprintf(b, "Lunch breaks (%d, total %s):\n", len(breaks), minutesOrNA(op.TotalLunch()))
	for i, l := range breaks {
		fmt.Fprintf(b, "  %d. %s -> %s (%s)\n", i+1,
			l.StartedAt.Format(timestampLayout), l.EndedAt.Format(timestampLayout), l.Duration.String())
	}
}

func writeRefueling(b *strings.Builder, op *operation.Operation) {
	events := op.Refuelings()
	fmt.Fprintf(b, "Refuelings (%d, total %s):\n", len(events), minutesOrNA(op.TotalRefueling()))
	for i, r := range events {
		fmt.Fprintf(b, "  %d. %s -> %s (%s, %s)\n", i+1,
			r.StartedAt.Format(timestampLayout), r.EndedAt.Format(timestampLayout),
			r.Duration.String(), r.FuelType.String())
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notApplicable
	}
	return s
}

func minutesOrNA(m *model.Minutes) string {
	if m == nil {
		return notApplicable
	}
	return m.String()
}

func timeOrNA(t *time.Time) string {
	if t == nil {
		return notApplicable
	}
	return t.Format(timestampLayout)
}
