package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-chrono-atlas/internal/testing/e2e"
)

func TestTaxonomyCommand(t *testing.T) {
	out, _, err := execute(t, "taxonomy")
	require.NoError(t, err)
	out = e2e.StripANSI(out)

	assert.Contains(t, out, "Political (political)")
	assert.Contains(t, out, "Geographical (geographic)")
	assert.Contains(t, out, "NAT  nation-state")
	assert.Contains(t, out, "river [open]")
	assert.Contains(t, out, "city [point]")
}

func TestTaxonomyCommandDomain(t *testing.T) {
	out, _, err := execute(t, "taxonomy", "--domain", "Geographic")
	require.NoError(t, err)
	out = e2e.StripANSI(out)
	assert.Contains(t, out, "aquatic")
	assert.NotContains(t, out, "nation-state")

	_, _, err = execute(t, "taxonomy", "--domain", "culinary")
	assert.ErrorContains(t, err, `unknown domain "culinary"`)
}
