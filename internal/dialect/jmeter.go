package dialect

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// maxJMeterMessages bounds the distinct failure messages kept on the
// synthetic case.
const maxJMeterMessages = 10

// jmeterColumns holds the positions of the JTL columns in use, -1 when absent.
type jmeterColumns struct {
	success, elapsed, timeStamp, failureMessage int
}

func jmeterHeader(record []string) (jmeterColumns, bool) {
	cols := jmeterColumns{-1, -1, -1, -1}
	for i, name := range record {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "success":
			cols.success = i
		case "elapsed":
			cols.elapsed = i
		case "timestamp":
			cols.timeStamp = i
		case "failuremessage":
			cols.failureMessage = i
		}
	}
	return cols, cols.success >= 0
}

type jmeterAdapter struct{}

func (a *jmeterAdapter) Name() string { return "jmeter" }

// Parse reads a CSV JTL file. Files without a header row are scanned for
// true/false markers line by line.
func (a *jmeterAdapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return api.ResultRecord{}, errors.Wrap(ErrDecode, "empty content")
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return api.ResultRecord{}, errors.Wrapf(ErrDecode, "reading JTL header: %v", err)
	}
	cols, ok := jmeterHeader(header)
	if !ok {
		return a.parseLines(content, testType)
	}

	var (
		passed, failed int
		elapsed        []float64
		start          = math.Inf(1)
		end            = math.Inf(-1)
		failures       = []string{}
		seen           = map[string]struct{}{}
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return api.ResultRecord{}, errors.Wrapf(ErrDecode, "reading JTL sample: %v", err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		if strings.EqualFold(column(row, cols.success), "true") {
			passed++
		} else {
			failed++
			if msg := column(row, cols.failureMessage); msg != "" && len(failures) < maxJMeterMessages {
				if _, dup := seen[msg]; !dup {
					seen[msg] = struct{}{}
					failures = append(failures, msg)
				}
			}
		}

		took, _ := strconv.ParseFloat(column(row, cols.elapsed), 64)
		elapsed = append(elapsed, took)
		if ts, err := strconv.ParseFloat(column(row, cols.timeStamp), 64); err == nil {
			start = math.Min(start, ts)
			end = math.Max(end, ts+took)
		}
	}

	total := passed + failed
	perf := &api.PerformanceStats{TotalRequests: total}
	if mean, err := stats.Mean(elapsed); err == nil {
		perf.AvgResponseTimeMs = mean
	}
	if peak, err := stats.Max(elapsed); err == nil {
		perf.MaxResponseTimeMs = peak
	}
	duration := 0.0
	if end > start {
		duration = end - start
		perf.RequestsPerSecond = float64(total) / (duration / 1000)
	}
	if total > 0 {
		perf.ErrorRatePercent = float64(failed) / float64(total) * 100
	}

	rec := api.NewEmptyResult(a.Name(), testType)
	rec.Summary = api.Summary{
		Total:      total,
		Passed:     passed,
		Failed:     failed,
		DurationMs: duration,
	}
	rec.Performance = perf
	rec.Details = append(rec.Details, jmeterCase(failed, duration, failures))
	return rec, nil
}

func (a *jmeterAdapter) parseLines(content []byte, testType api.TestType) (api.ResultRecord, error) {
	rec := api.NewEmptyResult(a.Name(), testType)
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.Contains(line, "true"):
			rec.Summary.Passed++
		case strings.Contains(line, "false"):
			rec.Summary.Failed++
		}
		rec.Summary.Total++
	}
	if rec.Summary.Passed+rec.Summary.Failed == 0 {
		return api.ResultRecord{}, errors.Wrap(ErrDecode, "no JTL header and no sample outcomes found")
	}
	rec.Performance = &api.PerformanceStats{TotalRequests: rec.Summary.Total}
	if rec.Summary.Total > 0 {
		rec.Performance.ErrorRatePercent = float64(rec.Summary.Failed) / float64(rec.Summary.Total) * 100
	}
	rec.Details = append(rec.Details, jmeterCase(rec.Summary.Failed, 0, []string{}))
	return rec, nil
}

func jmeterCase(failed int, duration float64, failures []string) api.CaseResult {
	c := api.CaseResult{
		Name:            "JMeter Load Test",
		Status:          api.CaseStatusPassed,
		DurationMs:      duration,
		FailureMessages: failures,
	}
	if failed > 0 {
		c.Status = api.CaseStatusFailed
		if len(c.FailureMessages) == 0 {
			c.FailureMessages = []string{fmt.Sprintf("%d samples failed", failed)}
		}
	}
	return c
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
