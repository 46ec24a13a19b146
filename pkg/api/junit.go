package api

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Parse the XML data (JUnit created by surefire, pytest, go-junit-report, etc).
type JUnitStatus string

const (
	JUnitStatusPass    JUnitStatus = "pass"
	JUnitStatusFail    JUnitStatus = "fail"
	JUnitStatusSkipped JUnitStatus = "skipped"
)

type propSkipped struct {
	Message string `xml:"message,attr"`
}

type propFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// Text returns the most descriptive failure text available.
func (f *propFailure) Text() string {
	body := strings.TrimSpace(f.Body)
	switch {
	case f.Message != "" && body != "":
		return f.Message + "\n" + body
	case f.Message != "":
		return f.Message
	}
	return body
}

type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type JUnitTestCase struct {
	Name      string       `xml:"name,attr"`
	ClassName string       `xml:"classname,attr"`
	Time      string       `xml:"time,attr"`
	Failure   *propFailure `xml:"failure"`
	Error     *propFailure `xml:"error"`
	Skipped   *propSkipped `xml:"skipped"`
	SystemOut string       `xml:"system-out"`
	Status    JUnitStatus  `xml:"-"`
}

// DurationMs converts the case time attribute (seconds) to milliseconds.
func (tc *JUnitTestCase) DurationMs() float64 {
	return secondsToMs(tc.Time)
}

// FailureMessages returns the failure and error texts of the case, if any.
func (tc *JUnitTestCase) FailureMessages() []string {
	msgs := []string{}
	if tc.Failure != nil {
		msgs = append(msgs, tc.Failure.Text())
	}
	if tc.Error != nil {
		msgs = append(msgs, tc.Error.Text())
	}
	return msgs
}

type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       string          `xml:"time,attr"`
	Properties []Property      `xml:"properties>property"`
	Property   []Property      `xml:"property"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

type JUnitTestSuites struct {
	XMLName   xml.Name         `xml:"testsuites"`
	Name      string           `xml:"name,attr"`
	Tests     int              `xml:"tests,attr"`
	Disabled  int              `xml:"disabled,attr"`
	Errors    int              `xml:"errors,attr"`
	Failures  int              `xml:"failures,attr"`
	Time      string           `xml:"time,attr"`
	TestSuite []JUnitTestSuite `xml:"testsuite"`
}

type JUnitCounter struct {
	Total    int
	Skipped  int
	Failures int
	Pass     int
}

type JUnitXMLParser struct {
	XMLFile  string
	Suites   []JUnitTestSuite
	Counters *JUnitCounter
	Failures []string
	Cases    []*JUnitTestCase

	// DurationMs is the sum of the suite time attributes.
	DurationMs float64
}

// NewJUnitXMLParser reads and parses a JUnit XML file.
func NewJUnitXMLParser(xmlFile string) (*JUnitXMLParser, error) {
	xmlData, err := os.ReadFile(xmlFile)
	if err != nil {
		return nil, fmt.Errorf("error reading XML file: %w", err)
	}
	p, err := ParseJUnitXML(xmlData)
	if err != nil {
		return nil, err
	}
	p.XMLFile = xmlFile
	return p, nil
}

// ParseJUnitXML parses JUnit XML content with either a <testsuite> or a
// <testsuites> root element.
func ParseJUnitXML(xmlData []byte) (*JUnitXMLParser, error) {
	p := &JUnitXMLParser{
		Counters: &JUnitCounter{},
		Cases:    []*JUnitTestCase{},
	}

	root, err := junitRootElement(xmlData)
	if err != nil {
		return nil, fmt.Errorf("error parsing XML data: %w", err)
	}
	switch root {
	case "testsuite":
		suite := JUnitTestSuite{}
		if err := xml.Unmarshal(xmlData, &suite); err != nil {
			return nil, fmt.Errorf("error parsing XML data: %w", err)
		}
		p.Suites = []JUnitTestSuite{suite}
	case "testsuites":
		suites := JUnitTestSuites{}
		if err := xml.Unmarshal(xmlData, &suites); err != nil {
			return nil, fmt.Errorf("error parsing XML data with testsuites: %w", err)
		}
		p.Suites = suites.TestSuite
	default:
		return nil, fmt.Errorf("unexpected JUnit root element <%s>", root)
	}

	for sidx := range p.Suites {
		suite := &p.Suites[sidx]
		p.DurationMs += secondsToMs(suite.Time)
		// the tests attribute is the reported total, cases are counted
		// when it is missing
		if suite.Tests > 0 {
			p.Counters.Total += suite.Tests
		} else {
			p.Counters.Total += len(suite.TestCases)
		}
		for cidx := range suite.TestCases {
			tc := &suite.TestCases[cidx]
			switch {
			case tc.Skipped != nil:
				p.Counters.Skipped += 1
				tc.Status = JUnitStatusSkipped
			case tc.Failure != nil || tc.Error != nil:
				p.Counters.Failures += 1
				p.Failures = append(p.Failures, fmt.Sprintf("%q", tc.Name))
				tc.Status = JUnitStatusFail
			default:
				tc.Status = JUnitStatusPass
			}
			p.Cases = append(p.Cases, tc)
		}
	}
	p.Counters.Pass = p.Counters.Total - (p.Counters.Skipped + p.Counters.Failures)
	if p.Counters.Pass < 0 {
		p.Counters.Pass = 0
	}

	return p, nil
}

// junitRootElement returns the name of the first XML element in data.
func junitRootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local, nil
		}
	}
}

func secondsToMs(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", "")), 64)
	if err != nil {
		return 0
	}
	return v * 1000
}
