package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// NewReportPage creates the page holding the charts of the report.
func NewReportPage() *components.Page {
	page := components.NewPage()
	page.PageTitle = "Unified Test Report"
	return page
}

// newResultsChart stacks passed, failed and skipped counters per record.
func (re *Report) newResultsChart() *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Results by framework",
			Subtitle: fmt.Sprintf("%s, success rate %s", re.View.Summary, re.View.SuccessRate),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "10%"}),
	)

	names := make([]string, 0, len(re.Frameworks))
	passed := make([]opts.BarData, 0, len(re.Frameworks))
	failed := make([]opts.BarData, 0, len(re.Frameworks))
	skipped := make([]opts.BarData, 0, len(re.Frameworks))
	for _, fw := range re.Frameworks {
		s := fw.Record.Summary
		names = append(names, fmt.Sprintf("%s/%s", fw.Record.Framework, fw.Record.TestType))
		passed = append(passed, opts.BarData{Value: s.Passed})
		failed = append(failed, opts.BarData{Value: s.Failed})
		skipped = append(skipped, opts.BarData{Value: s.Skipped})
	}
	bar.SetXAxis(names).
		AddSeries("passed", passed).
		AddSeries("failed", failed).
		AddSeries("skipped", skipped).
		SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "summary"}))
	return bar
}

// newDurationChart shows the duration and the p95 case duration per record,
// in milliseconds.
func (re *Report) newDurationChart() *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Duration by framework (ms)",
			Subtitle: fmt.Sprintf("total %s", re.View.Duration),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "10%"}),
	)
	names := make([]string, 0, len(re.Frameworks))
	duration := make([]opts.BarData, 0, len(re.Frameworks))
	p95 := make([]opts.BarData, 0, len(re.Frameworks))
	for _, fw := range re.Frameworks {
		names = append(names, fmt.Sprintf("%s/%s", fw.Record.Framework, fw.Record.TestType))
		duration = append(duration, opts.BarData{Value: fw.Record.Summary.DurationMs})
		p95 = append(p95, opts.BarData{Value: fw.P95CaseDurationMs})
	}
	bar.SetXAxis(names).
		AddSeries("duration", duration).
		AddSeries("p95 case", p95)
	return bar
}

func (re *Report) newStatusChart() *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Unified results"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	s := re.Unified.Summary
	pie.AddSeries("results", []opts.PieData{
		{Name: "passed", Value: s.Passed},
		{Name: "failed", Value: s.Failed},
		{Name: "skipped", Value: s.Skipped},
	})
	return pie
}

// saveChartsPage renders the charts to an HTML file.
func (re *Report) saveChartsPage(path string) error {
	page := NewReportPage()
	page.AddCharts(re.newStatusChart(), re.newResultsChart(), re.newDurationChart())

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return errors.Wrapf(err, "rendering %s", path)
	}
	return nil
}
