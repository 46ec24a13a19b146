package failures

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// A tag is the first "[tag]" or "@tag" token of a case name, for example
// "sig-auth" in "[sig-auth] logs in" or "smoke" in "@smoke checkout".
var reTag = regexp.MustCompile(`(?:^|\s)(?:\[([A-Za-z0-9_.-]+)\]|@([A-Za-z0-9_.-]+))`)

// untagged collects the names without a tag.
const untagged = "untagged"

// SortedData stores the key/value to be sorted.
type SortedData struct {
	Key   string
	Value int
}

// SortedList ranks SortedData by value, then by key.
type SortedList []SortedData

func (p SortedList) Len() int      { return len(p) }
func (p SortedList) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p SortedList) Less(i, j int) bool {
	if p[i].Value != p[j].Value {
		return p[i].Value > p[j].Value
	}
	return p[i].Key < p[j].Key
}

// TestTags counts case names per tag. The "total" key holds the number of
// names added.
type TestTags map[string]int

func NewTestTags(names []string) TestTags {
	tt := make(TestTags, len(names)+1)
	tt[TotalKey] = 0
	for _, name := range names {
		tt.Add(name)
	}
	return tt
}

// FailedTestTags ranks the names of every failed case in records.
func FailedTestTags(records []api.ResultRecord) TestTags {
	names := []string{}
	for _, rec := range records {
		for _, c := range rec.Details {
			if c.Status == api.CaseStatusFailed {
				names = append(names, c.Name)
			}
		}
	}
	return NewTestTags(names)
}

// Add extracts the tag of name and increments its counter.
func (tt TestTags) Add(name string) {
	tag := untagged
	if m := reTag.FindStringSubmatch(name); m != nil {
		tag = m[1]
		if tag == "" {
			tag = m[2]
		}
	}
	tt[tag]++
	tt[TotalKey]++
}

// Sorted returns the tags from the most to the least frequent, without the
// total.
func (tt TestTags) Sorted() []SortedData {
	tags := make(SortedList, 0, len(tt))
	for k, v := range tt {
		if k == TotalKey {
			continue
		}
		tags = append(tags, SortedData{k, v})
	}
	sort.Sort(tags)
	return tags
}

// ShowSorted renders the rank of tags:
//
//	[total=3] [smoke=2 (66.67%)] [untagged=1 (33.33%)]
func (tt TestTags) ShowSorted() string {
	msg := fmt.Sprintf("[%v=%v]", TotalKey, tt[TotalKey])
	for _, k := range tt.Sorted() {
		msg = fmt.Sprintf("%s [%v=%s]", msg, k.Key, CalcPercStr(int64(k.Value), int64(tt[TotalKey])))
	}
	return msg
}

// CalcPercStr returns the numerator followed by its percentage of den.
func CalcPercStr(num, den int64) string {
	if den == 0 {
		return fmt.Sprintf("%d (0.00%%)", num)
	}
	return fmt.Sprintf("%d (%.2f%%)", num, (float64(num)/float64(den))*100)
}
