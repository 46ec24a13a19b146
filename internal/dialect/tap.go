package dialect

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

var (
	tapTestLine = regexp.MustCompile(`^(not ok|ok)\b\s*(\d+)?\s*(?:-\s*)?([^#]*?)\s*(?:#\s*(\w+)\b\s*(.*))?$`)

	// "# tests 3", "# pass 2", "# duration_ms 12.5"
	tapCommentCounter = regexp.MustCompile(`^#\s*(tests|pass|fail|skipped|skip|duration_ms)\s+(\d+(?:\.\d+)?)\s*$`)

	// "3 tests", "2 pass"
	tapPlainCounter = regexp.MustCompile(`^#?\s*(\d+)\s+(tests|pass|fail|skipped|skip)\b`)

	// "1..3", "1..0 # no tests"
	tapPlan = regexp.MustCompile(`^1\.\.\d+\b`)
)

// tapDiagnostic is the YAML block following a test line.
type tapDiagnostic struct {
	Message    string  `yaml:"message"`
	Error      string  `yaml:"error"`
	DurationMs float64 `yaml:"duration_ms"`
}

type tapAdapter struct{}

func (a *tapAdapter) Name() string { return "tap" }

// Parse scans top level test lines. Summary counters found anywhere in the
// stream take precedence over the counts derived from test lines.
func (a *tapAdapter) Parse(content []byte, testType api.TestType) (api.ResultRecord, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return api.ResultRecord{}, errors.Wrap(ErrDecode, "empty content")
	}

	rec := api.NewEmptyResult(a.Name(), testType)
	counted := api.Summary{}
	overrides := map[string]float64{}

	var (
		inBlock bool
		hasPlan bool
		block   []string
		indent  string
		last    = -1
	)
	flushBlock := func() {
		if last >= 0 && len(block) > 0 {
			applyTAPDiagnostic(&rec.Details[last], block)
		}
		block = nil
		inBlock = false
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if inBlock {
			switch {
			case trimmed == "...":
				flushBlock()
				continue
			case trimmed != "" && line == strings.TrimLeft(line, " \t"):
				// unterminated block, the line belongs to the stream
				flushBlock()
			default:
				block = append(block, strings.TrimPrefix(line, indent))
				continue
			}
		}
		if trimmed == "---" && last >= 0 && line != trimmed {
			inBlock = true
			indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			continue
		}

		// subtest output is indented, only top level lines are counted
		if line != strings.TrimLeft(line, " \t") {
			continue
		}

		if tapPlan.MatchString(line) {
			hasPlan = true
			continue
		}

		if m := tapTestLine.FindStringSubmatch(line); m != nil {
			c := api.CaseResult{
				Name:            strings.TrimSpace(m[3]),
				Status:          api.CaseStatusPassed,
				FailureMessages: []string{},
			}
			if c.Name == "" {
				c.Name = fmt.Sprintf("test %s", m[2])
				if m[2] == "" {
					c.Name = fmt.Sprintf("test %d", len(rec.Details)+1)
				}
			}
			directive := strings.ToUpper(m[4])
			switch {
			case directive == "SKIP":
				c.Status = api.CaseStatusSkipped
			case m[1] == "not ok" && directive == "TODO":
				c.Status = api.CaseStatusSkipped
			case m[1] == "not ok":
				c.Status = api.CaseStatusFailed
			}
			switch c.Status {
			case api.CaseStatusPassed:
				counted.Passed++
			case api.CaseStatusFailed:
				counted.Failed++
			case api.CaseStatusSkipped:
				counted.Skipped++
			}
			counted.Total++
			rec.Details = append(rec.Details, c)
			last = len(rec.Details) - 1
			continue
		}

		if m := tapCommentCounter.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[2], 64); err == nil {
				overrides[tapCounterKey(m[1])] = v
			}
			continue
		}
		if m := tapPlainCounter.FindStringSubmatch(line); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				overrides[tapCounterKey(m[2])] = v
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return api.ResultRecord{}, errors.Wrapf(ErrDecode, "reading TAP stream: %v", err)
	}
	flushBlock()

	if len(rec.Details) == 0 && len(overrides) == 0 && !hasPlan {
		return api.ResultRecord{}, errors.Wrap(ErrDecode, "no TAP test lines or summary found")
	}

	rec.Summary = counted
	if v, ok := overrides["tests"]; ok {
		rec.Summary.Total = int(v)
	}
	if v, ok := overrides["pass"]; ok {
		rec.Summary.Passed = int(v)
	}
	if v, ok := overrides["fail"]; ok {
		rec.Summary.Failed = int(v)
	}
	if v, ok := overrides["skip"]; ok {
		rec.Summary.Skipped = int(v)
	}
	if v, ok := overrides["duration_ms"]; ok {
		rec.Summary.DurationMs = v
	} else {
		for _, c := range rec.Details {
			rec.Summary.DurationMs += c.DurationMs
		}
	}
	return rec, nil
}

// tapCounterKey maps the counter names of the node test runner to the tape
// ones.
func tapCounterKey(name string) string {
	if name == "skipped" {
		return "skip"
	}
	return name
}

// applyTAPDiagnostic reads the YAML diagnostic block of a test line. Blocks
// that are not valid YAML are ignored.
func applyTAPDiagnostic(c *api.CaseResult, block []string) {
	diag := tapDiagnostic{}
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &diag); err != nil {
		return
	}
	c.DurationMs = diag.DurationMs
	if c.Status != api.CaseStatusFailed {
		return
	}
	msg := diag.Message
	if msg == "" {
		msg = diag.Error
	}
	if strings.TrimSpace(msg) != "" {
		c.FailureMessages = append(c.FailureMessages, strings.TrimSpace(msg))
	}
}
