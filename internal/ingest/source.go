// Package ingest reads report files from disk, parses them concurrently and
// folds the records into a unified report.
package ingest

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

// Source declares a report file and the dialect it is written in.
type Source struct {
	Framework string       `yaml:"framework"`
	TestType  api.TestType `yaml:"testType"`
	Path      string       `yaml:"path"`
}

func (s Source) String() string {
	return fmt.Sprintf("%s:%s:%s", s.Framework, s.TestType, s.Path)
}

// ParseSource parses the "framework:testType:path" form used by the -i flag.
// The path may itself contain colons.
func ParseSource(value string) (Source, error) {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 {
		return Source{}, errors.Errorf("invalid source %q, expected framework:testType:path", value)
	}
	src := Source{
		Framework: strings.ToLower(strings.TrimSpace(parts[0])),
		TestType:  api.TestType(strings.ToLower(strings.TrimSpace(parts[1]))),
		Path:      strings.TrimSpace(parts[2]),
	}
	if err := src.validate(); err != nil {
		return Source{}, errors.Wrapf(err, "invalid source %q", value)
	}
	return src, nil
}

func (s Source) validate() error {
	switch {
	case s.Framework == "":
		return errors.New("framework is empty")
	case s.TestType == "":
		return errors.New("test type is empty")
	case s.Path == "":
		return errors.New("path is empty")
	}
	return nil
}

type manifest struct {
	Reports []Source `yaml:"reports"`
}

// LoadManifest reads a YAML list of sources:
//
//	reports:
//	  - framework: vitest
//	    testType: unit
//	    path: reports/vitest.json
func LoadManifest(data []byte) ([]Source, error) {
	m := manifest{}
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, errors.Wrap(err, "unable to decode manifest")
	}
	for i := range m.Reports {
		src := &m.Reports[i]
		src.Framework = strings.ToLower(strings.TrimSpace(src.Framework))
		src.TestType = api.TestType(strings.ToLower(strings.TrimSpace(string(src.TestType))))
		src.Path = strings.TrimSpace(src.Path)
		if err := src.validate(); err != nil {
			return nil, errors.Wrapf(err, "manifest entry %d", i)
		}
	}
	return m.Reports, nil
}
