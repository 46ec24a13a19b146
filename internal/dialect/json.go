package dialect

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// decodeJSON unmarshals content into v. Keys listed in required that are
// absent or null are reported through a *PartialDataError, v is still
// populated in that case.
func decodeJSON(content []byte, v interface{}, required ...string) error {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return errors.Wrap(ErrDecode, "empty content")
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return errors.Wrap(ErrDecode, "null document")
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return errors.Wrapf(ErrDecode, "invalid JSON: %v", err)
	}
	if len(required) == 0 {
		return nil
	}
	keys := map[string]json.RawMessage{}
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return errors.Wrapf(ErrDecode, "JSON document is not an object: %v", err)
	}
	missing := []string{}
	for _, key := range required {
		if raw, ok := keys[key]; !ok || isNull(raw) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &PartialDataError{Missing: missing}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// num decodes JSON numbers leniently: numeric strings are accepted, anything
// else (null, booleans, objects, NaN) decodes to zero.
type num float64

func (n *num) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = 0
		return nil
	}
	*n = num(v)
	return nil
}

func (n num) Float() float64 { return float64(n) }

// Int truncates n, values out of the int range saturate.
func (n num) Int() int {
	switch {
	case float64(n) >= math.MaxInt:
		return math.MaxInt
	case float64(n) <= math.MinInt:
		return math.MinInt
	}
	return int(n)
}

// first returns the value of the first non-nil pointer.
func first(values ...*num) num {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// text decodes any JSON value to a string. Objects carrying a "message"
// field decode to that message, which covers the error shapes of most tools.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*t = ""
	case trimmed[0] == '"':
		s := ""
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*t = text(trimmed)
			return nil
		}
		*t = text(s)
	case trimmed[0] == '{':
		obj := struct {
			Message *string `json:"message"`
		}{}
		if err := json.Unmarshal(trimmed, &obj); err == nil && obj.Message != nil {
			*t = text(*obj.Message)
			return nil
		}
		*t = text(trimmed)
	default:
		*t = text(trimmed)
	}
	return nil
}

func (t text) String() string { return string(t) }

// texts decodes a JSON array of any values, a single value decodes to a one
// element list.
type texts []text

func (ts *texts) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*ts = nil
		return nil
	}
	if trimmed[0] != '[' {
		t := text("")
		_ = t.UnmarshalJSON(trimmed)
		*ts = texts{t}
		return nil
	}
	list := []text{}
	if err := json.Unmarshal(trimmed, &list); err != nil {
		*ts = nil
		return nil
	}
	*ts = list
	return nil
}

// flag decodes JSON booleans leniently: "true", "yes" and non zero numbers
// are true, anything else is false.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`))
	switch s {
	case "true", "yes", "y", "on":
		*f = true
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	*f = flag(err == nil && v != 0 && !math.IsNaN(v))
	return nil
}

// messages converts tool failure messages into a non-nil slice, dropping
// empty entries.
func messages(values ...text) []string {
	out := []string{}
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			out = append(out, string(v))
		}
	}
	return out
}
