package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"fcf_analysis/pkg/core/export"
	"fcf_analysis/pkg/core/pipeline"
	"fcf_analysis/pkg/models"
)

func money(v float64) string { return export.Round(v).StringFixed(export.Places) }

// printResult writes the FCF table, the summaries and the quality score.
func printResult(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "%s", res.Company.Label())
	if res.Unit != "" {
		fmt.Fprintf(w, "  (%s)", res.Unit)
	}
	fmt.Fprintln(w)

	n := res.FCF.Periods()
	if n == 0 {
		fmt.Fprintln(w, "no FCF could be calculated")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprint(tw, "period\t")
		for _, t := range models.FCFTypes {
			fmt.Fprintf(tw, "%s\t", t)
		}
		fmt.Fprintln(tw)
		for i := 0; i < n; i++ {
			fmt.Fprintf(tw, "%s\t", periodLabel(res.Dates, i))
			for _, t := range models.FCFTypes {
				fmt.Fprintf(tw, "%s\t", cellAt(res.FCF[t], i))
			}
			fmt.Fprintln(tw)
		}
		tw.Flush()

		fmt.Fprintln(w)
		for _, s := range res.Summary {
			fmt.Fprintf(w, "%-5s latest %s  average %s  CAGR %.1f%% over %d periods\n",
				s.Type, money(s.Latest), money(s.Average), s.CAGR, s.Periods)
		}
	}

	if res.Validation != nil {
		fmt.Fprintln(w)
		fmt.Fprint(w, res.Validation.Summary())
	}
	if len(res.Run.Warnings) > 0 || len(res.Run.Errors) > 0 {
		fmt.Fprintf(w, "run: %d warnings, %d errors (see --report)\n", len(res.Run.Warnings), len(res.Run.Errors))
	}
}

func cellAt(s models.Series, i int) string {
	if i >= len(s) {
		return "-"
	}
	return money(s[i])
}

func periodLabel(dates []string, i int) string {
	if i < len(dates) {
		return dates[i]
	}
	return fmt.Sprintf("P%d", i+1)
}

// printValuations lists each model's value per share and upside.
func printValuations(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w)
	if res.Valuations == nil {
		fmt.Fprintln(w, "no valuation produced")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "model\tvalue/share\tprice\tupside\t")
	for _, e := range res.Valuations.Envelopes() {
		price, upside := "-", "-"
		if e.CurrentPrice.Valid {
			price = money(e.CurrentPrice.Float64)
		}
		if e.Upside.Valid {
			upside = fmt.Sprintf("%+.1f%%", e.Upside.Float64)
		}
		label := string(e.Kind)
		if disc, ok := e.Assumptions["discount_rate"]; ok {
			label = fmt.Sprintf("%s @ %.2f%%", label, disc*100)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", label, money(e.ValuePerShare), price, upside)
	}
	tw.Flush()
	for _, s := range res.Valuations.Skipped {
		fmt.Fprintf(w, "skipped: %s\n", s)
	}
}
