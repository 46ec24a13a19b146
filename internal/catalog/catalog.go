// Package catalog describes which test frameworks are expected for each test
// type. A Catalog is built once at startup and never modified.
package catalog

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// Catalog maps a test type to the frameworks supported for it.
type Catalog struct {
	byType map[api.TestType][]string
}

// File is the YAML layout accepted by Load.
//
//	frameworks:
//	  unit: [vitest, ava, tap]
//	  performance: [k6]
type File struct {
	Frameworks map[string][]string `yaml:"frameworks"`
}

// canonicalOrder is the display order of the well-known test types.
var canonicalOrder = []api.TestType{
	api.TestTypeUnit,
	api.TestTypeIntegration,
	api.TestTypeAPI,
	api.TestTypeE2E,
	api.TestTypePerformance,
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(map[api.TestType][]string{
		api.TestTypeUnit:        {"vitest", "jest", "ava", "tap", "junit"},
		api.TestTypeIntegration: {"vitest", "jest", "ava", "tap", "supertest", "junit"},
		api.TestTypeAPI:         {"vitest", "supertest", "karate", "restassured", "junit"},
		api.TestTypeE2E:         {"playwright", "cypress", "selenium"},
		api.TestTypePerformance: {"k6", "jmeter", "gatling"},
	})
}

// New builds a catalog from m. Names are lower-cased and de-duplicated;
// m is not retained.
func New(m map[api.TestType][]string) *Catalog {
	c := &Catalog{byType: make(map[api.TestType][]string, len(m))}
	for tt, frameworks := range m {
		seen := map[string]struct{}{}
		list := make([]string, 0, len(frameworks))
		for _, fw := range frameworks {
			fw = normalize(fw)
			if fw == "" {
				continue
			}
			if _, ok := seen[fw]; ok {
				continue
			}
			seen[fw] = struct{}{}
			list = append(list, fw)
		}
		c.byType[api.TestType(normalize(string(tt)))] = list
	}
	return c
}

// Load parses a YAML catalog file.
func Load(data []byte) (*Catalog, error) {
	f := File{}
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "unable to parse catalog")
	}
	if len(f.Frameworks) == 0 {
		return nil, errors.New("catalog has no frameworks")
	}
	m := make(map[api.TestType][]string, len(f.Frameworks))
	for tt, frameworks := range f.Frameworks {
		m[api.TestType(tt)] = frameworks
	}
	return New(m), nil
}

// TestTypes returns the test types in the catalog, well-known types first.
func (c *Catalog) TestTypes() []api.TestType {
	types := make([]api.TestType, 0, len(c.byType))
	for _, tt := range canonicalOrder {
		if _, ok := c.byType[tt]; ok {
			types = append(types, tt)
		}
	}
	extra := []api.TestType{}
	for tt := range c.byType {
		if !isCanonical(tt) {
			extra = append(extra, tt)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(types, extra...)
}

// Frameworks returns a copy of the frameworks supported for testType.
func (c *Catalog) Frameworks(testType api.TestType) []string {
	list := c.byType[api.TestType(normalize(string(testType)))]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Supports reports whether framework is listed for testType.
func (c *Catalog) Supports(testType api.TestType, framework string) bool {
	fw := normalize(framework)
	for _, name := range c.byType[api.TestType(normalize(string(testType)))] {
		if name == fw {
			return true
		}
	}
	return false
}

// Validate returns an error when the raw report declares a framework that
// the catalog does not list for its test type.
func (c *Catalog) Validate(raw api.RawReport) error {
	if _, ok := c.byType[api.TestType(normalize(string(raw.TestType)))]; !ok {
		return errors.Errorf("unknown test type %q", raw.TestType)
	}
	if !c.Supports(raw.TestType, raw.Framework) {
		return errors.Errorf("framework %q is not supported for test type %q", raw.Framework, raw.TestType)
	}
	return nil
}

func isCanonical(tt api.TestType) bool {
	for _, c := range canonicalOrder {
		if c == tt {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
