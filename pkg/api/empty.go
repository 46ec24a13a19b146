package api

// NewEmptyResult returns the zero-value record for framework and testType.
// It is the fallback for any report that cannot be decoded and the identity
// element when aggregating.
//
// Performance is a zeroed block only for performance runs, consumers of
// other test types must not see it.
func NewEmptyResult(framework string, testType TestType) ResultRecord {
	rec := ResultRecord{
		Framework: framework,
		TestType:  testType,
		Details:   []CaseResult{},
	}
	if testType == TestTypePerformance {
		rec.Performance = &PerformanceStats{}
	}
	return rec
}
