package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eugenenazirov/coupon-distributor/internal/distribution"
)

// Renderer writes distribution summaries as plain-text tables.
type Renderer struct {
	printer  *message.Printer
	currency string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCurrency sets the symbol printed in front of amounts.
func WithCurrency(symbol string) Option {
	return func(r *Renderer) {
		r.currency = symbol
	}
}

// WithLanguage selects the locale used for digit grouping.
func WithLanguage(tag language.Tag) Option {
	return func(r *Renderer) {
		r.printer = message.NewPrinter(tag)
	}
}

// New creates a Renderer that groups digits the English way (1,000).
func New(opts ...Option) *Renderer {
	r := &Renderer{
		printer:  message.NewPrinter(language.English),
		currency: "₹",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Amount formats v with the currency symbol and digit grouping.
func (r *Renderer) Amount(v int) string {
	return r.currency + r.printer.Sprintf("%d", v)
}

// Render writes the primary distribution, its per-denomination table, the
// individual coupon values, and every alternative.
func (r *Renderer) Render(w io.Writer, res distribution.Result, alts distribution.Alternatives) error {
	ew := &errWriter{w: w}

	ew.printf("Coupons generated for %s\n\n", r.Amount(res.Target))
	r.table(ew, distribution.Summarize(res.Values))

	ew.printf("\nIndividual coupon values:\n")
	for i, v := range res.Values {
		sep := "\t"
		if (i+1)%5 == 0 || i == len(res.Values)-1 {
			sep = "\n"
		}
		ew.printf("#%d: %s%s", i+1, r.Amount(v), sep)
	}

	if len(alts.Distributions) <= 1 {
		ew.printf("\nOnly one unique combination found for this target amount and coupon count.\n")
		return ew.err
	}

	ew.printf("\n%d different ways to distribute %s:\n", len(alts.Distributions), r.Amount(res.Target))
	for i, values := range alts.Distributions {
		ew.printf("\nCombination %d\n", i+1)
		r.table(ew, distribution.Summarize(values))
	}
	return ew.err
}

func (r *Renderer) table(ew *errWriter, s distribution.Summary) {
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Coupon\tPieces\tSubtotal\t\n")
	for _, line := range s.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", r.Amount(line.Denomination), line.Count, r.Amount(line.Subtotal))
	}
	fmt.Fprintf(tw, "Total\t%d\t%s\t\n", s.Units, r.Amount(s.Total))
	if err := tw.Flush(); err != nil && ew.err == nil {
		ew.err = err
	}
}

// errWriter remembers the first write error so rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e, format, args...)
}
