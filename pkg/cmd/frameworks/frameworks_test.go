package frameworks

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/catalog"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/dialect"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

func TestShowFrameworks(t *testing.T) {
	logger, _ := test.NewNullLogger()
	reg := dialect.NewDefaultRegistry(dialect.WithLogger(logger))
	cat := catalog.New(map[api.TestType][]string{
		api.TestTypeUnit:        {"vitest", "mocha"},
		api.TestTypePerformance: {"k6"},
	})

	out := &bytes.Buffer{}
	require.NoError(t, showFrameworks(out, cat, reg))

	assert.Contains(t, out.String(), "vitest, mocha (no dialect)")
	assert.Contains(t, out.String(), "- performance")
	assert.Contains(t, out.String(), "gatling")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("- unit")), bytes.Index(out.Bytes(), []byte("- performance")))
}
