package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, []api.TestType{"unit", "integration", "api", "e2e", "performance"}, c.TestTypes())
	assert.True(t, c.Supports(api.TestTypePerformance, "k6"))
	assert.True(t, c.Supports(api.TestTypeE2E, " Playwright "))
	assert.False(t, c.Supports(api.TestTypeUnit, "k6"))
	assert.False(t, c.Supports("smoke", "vitest"))
}

func TestFrameworksReturnsCopy(t *testing.T) {
	c := Default()
	list := c.Frameworks(api.TestTypeE2E)
	list[0] = "mutated"
	assert.Equal(t, []string{"playwright", "cypress", "selenium"}, c.Frameworks(api.TestTypeE2E))
}

func TestNewNormalizes(t *testing.T) {
	src := map[api.TestType][]string{"Unit": {"Vitest", "vitest", "", "TAP"}}
	c := New(src)
	src["Unit"][0] = "mutated"

	assert.Equal(t, []string{"vitest", "tap"}, c.Frameworks(api.TestTypeUnit))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		types   []api.TestType
	}{
		{
			name: "custom types",
			data: `
frameworks:
  performance: [k6]
  unit: [vitest]
  smoke: [tap]
`,
			types: []api.TestType{"unit", "performance", "smoke"},
		},
		{
			name:    "empty",
			data:    `frameworks: {}`,
			wantErr: true,
		},
		{
			name:    "unknown key",
			data:    `dialects: {unit: [vitest]}`,
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			data:    `frameworks: [`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.types, c.TestTypes())
		})
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	assert.NoError(t, c.Validate(api.RawReport{Framework: "gatling", TestType: api.TestTypePerformance}))
	assert.Error(t, c.Validate(api.RawReport{Framework: "gatling", TestType: api.TestTypeUnit}))
	assert.Error(t, c.Validate(api.RawReport{Framework: "vitest", TestType: "smoke"}))
}
