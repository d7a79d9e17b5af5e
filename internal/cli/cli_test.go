package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(logger.NewNop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPrice(t *testing.T) {
	out, err := run(t, "", "price", "2", "500", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "subtotal:  1000.00")
	assert.Contains(t, out, "tax:       120.00")
	assert.Contains(t, out, "total:     1120.00")
}

func TestPrice_SanitizesInput(t *testing.T) {
	out, err := run(t, "", "price", "-3", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "quantity:  1")
	assert.Contains(t, out, "total:     0.00")
}

func TestSummarize(t *testing.T) {
	lines := `[
		{"description": "Massage 60", "quantity": 1, "unit_price": "2500", "tax_rate_percent": "12"},
		{"description": "Shirt press", "quantity": "3", "unit_price": 100, "tax_rate_percent": 5}
	]`
	out, err := run(t, lines, "summarize")
	require.NoError(t, err)
	assert.Contains(t, out, "subtotal:  2800.00")
	assert.Contains(t, out, "tax:       315.00")
	assert.Contains(t, out, "total:     3115.00")
}

func TestSummarize_JSONAndDiscount(t *testing.T) {
	out, err := run(t, `[{"quantity":2,"unit_price":"500","tax_rate_percent":12}]`, "summarize", "--discount", "120", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_amount": "1000"`)

	_, err = run(t, `[{"quantity":1,"unit_price":"10"}]`, "summarize", "--discount", "11")
	assert.ErrorContains(t, err, "exceeds gross")

	_, err = run(t, `{`, "summarize")
	assert.ErrorContains(t, err, "decode lines")
}

func TestStatus(t *testing.T) {
	out, err := run(t, "", "status", "--total", "1120", "--paid", "500", "--due", "2026-03-08", "--now", "2026-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "outstanding: 620.00")
	assert.Contains(t, out, "status:      partially_paid")

	out, err = run(t, "", "status", "--total", "1120", "--paid", "500,620")
	require.NoError(t, err)
	assert.Contains(t, out, "status:      paid")

	out, err = run(t, "", "status", "--total", "1120", "--due", "2026-03-08", "--now", "2026-03-09")
	require.NoError(t, err)
	assert.Contains(t, out, "status:      overdue")
}

func TestStatus_RequiresTotal(t *testing.T) {
	_, err := run(t, "", "status", "--paid", "1")
	assert.Error(t, err)
}

func TestMigrateDownRejectsBadSteps(t *testing.T) {
	_, err := run(t, "", "migrate", "down", "zero")
	assert.ErrorContains(t, err, "steps must be a positive integer")
}
