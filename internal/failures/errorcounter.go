// Package failures classifies failing test cases: failure messages are
// counted by error pattern and failing case names are ranked by tag.
package failures

import (
	"regexp"
	"sync"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// CommonErrorPatterns are the failure message patterns counted by default.
var CommonErrorPatterns = []string{
	`AssertionError`,
	`TypeError`,
	`ReferenceError`,
	`NoSuchElement(Exception)?`,
	`(?i)timed? ?out`,
	`ECONNREFUSED|[Cc]onnection refused`,
	`status code 5\d\d|5\d\d Internal Server Error`,
	`expected .+ to `,
}

// genericPattern is always counted on top of the configured patterns.
const genericPattern = `(?i)error`

// TotalKey holds the sum of all matches in an ErrorCounter.
const TotalKey = "total"

var (
	reCacheMu sync.Mutex
	reCache   = map[string]*regexp.Regexp{}
)

func compile(pattern string) *regexp.Regexp {
	reCacheMu.Lock()
	defer reCacheMu.Unlock()
	if re, ok := reCache[pattern]; ok {
		return re
	}
	re := regexp.MustCompile(pattern)
	reCache[pattern] = re
	return re
}

// ErrorCounter counts pattern occurrences, indexed by pattern.
type ErrorCounter map[string]int

// NewErrorCounter counts the occurrences of each pattern in text. It returns
// nil when nothing matches.
func NewErrorCounter(text string, patterns []string) ErrorCounter {
	total := 0
	counters := make(ErrorCounter, len(patterns)+2)
	for _, pattern := range append(append([]string{}, patterns...), genericPattern) {
		if matches := compile(pattern).FindAllStringIndex(text, -1); len(matches) != 0 {
			counters[pattern] += len(matches)
			total += len(matches)
		}
	}
	if total == 0 {
		return nil
	}
	counters[TotalKey] = total
	return counters
}

// MergeErrorCounters sums two counters into a new one. Either may be nil.
func MergeErrorCounters(ec1, ec2 *ErrorCounter) *ErrorCounter {
	merged := ErrorCounter{}
	for _, ec := range []*ErrorCounter{ec1, ec2} {
		if ec == nil {
			continue
		}
		for k, v := range *ec {
			merged[k] += v
		}
	}
	return &merged
}

// CountRecords counts the patterns over the failure messages of every
// failed case in records.
func CountRecords(records []api.ResultRecord, patterns []string) ErrorCounter {
	total := &ErrorCounter{}
	for _, rec := range records {
		for _, c := range rec.Details {
			if c.Status != api.CaseStatusFailed {
				continue
			}
			for _, msg := range c.FailureMessages {
				ec := NewErrorCounter(msg, patterns)
				total = MergeErrorCounters(total, &ec)
			}
		}
	}
	return *total
}
