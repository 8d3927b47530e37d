package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"momo-engine/internal/ussd"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PORT", "")
	t.Setenv("TIER_CATALOG_URL", "")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCodeCommand(t *testing.T) {
	out, err := run(t, "code", "--provider", "MTN_MOMO", "--country", "RWANDA", "--recipient", "0788123456", "--amount", "1000")
	require.NoError(t, err)
	assert.Equal(t, "*182*8*1*0788123456*1000#\n", out)

	out, err = run(t, "code", "--provider", "MPESA", "--country", "KENYA", "--codes", "M_PESA=0722123456", "--amount", "500")
	require.NoError(t, err)
	assert.Equal(t, "*334*1*0722123456*500#\n", out)

	out, err = run(t, "code", "--provider", "UNKNOWN_PROVIDER", "--country", "RWANDA", "--amount", "100")
	require.NoError(t, err)
	assert.Equal(t, ussd.NoCodeAvailable+"\n", out)
}

func TestCodeCommandRejectsBadAmount(t *testing.T) {
	_, err := run(t, "code", "--provider", "MPESA", "--country", "KENYA", "--amount", "-1")
	assert.ErrorIs(t, err, ussd.ErrNonPositiveAmount)

	_, err = run(t, "code", "--provider", "MPESA", "--country", "KENYA", "--amount", "lots")
	assert.ErrorIs(t, err, ussd.ErrInvalidAmount)

	_, err = run(t, "code", "--provider", "MPESA", "--country", "KENYA", "--amount", "1e100000000")
	assert.ErrorIs(t, err, ussd.ErrAmountOutOfRange)

	_, err = run(t, "code", "--provider", "MPESA", "--country", "KENYA")
	assert.ErrorContains(t, err, `required flag(s) "amount" not set`)
}

func TestTierCommandDefaults(t *testing.T) {
	out, err := run(t, "tier", "--points", "150")
	require.NoError(t, err)
	assert.Contains(t, out, "Current tier: Silver (100 points)")
	assert.Contains(t, out, "Next tier: Gold (500 points, 350 to go)")
	assert.Contains(t, out, "Progress: 30.0%")
}

func TestTierCommandFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: Base
  min_points: 0
- name: Top
  min_points: 500
  benefits: [Free delivery]
`), 0o644))

	out, err := run(t, "tier", "--points", "600", "--tiers", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Current tier: Top (500 points)")
	assert.Contains(t, out, "  - Free delivery")
	assert.Contains(t, out, "Top tier reached")

	out, err = run(t, "tier", "--points", "600", "--tiers", path, "--json")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 100.0, got["progress_percent"])
}

func TestTierCommandBusinessFallsBackWithoutCatalog(t *testing.T) {
	out, err := run(t, "tier", "--points", "1200", "--business", "shop-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Tier catalog unavailable, using default tiers")
	assert.Contains(t, out, "Current tier: Platinum")
}

func TestTierCommandRejectsNegativePoints(t *testing.T) {
	_, err := run(t, "tier", "--points", "-4")
	assert.Error(t, err)
}

func TestRoutesCommand(t *testing.T) {
	out, err := run(t, "routes", "--provider", "MPESA", "--json")
	require.NoError(t, err)

	var routes []ussd.Route
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	assert.Len(t, routes, 6)

	out, err = run(t, "routes", "--country", "DRC")
	require.NoError(t, err)
	assert.Contains(t, out, "*145*1*{ORANGE_MONEY}*{amount}#")
	assert.Contains(t, out, "M-Pesa")
}
