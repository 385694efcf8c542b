package models

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDisplayClauseType(t *testing.T) {
	assert.Equal(t, "Payment Clause", DisplayClauseType("payment_clause"))
	assert.Equal(t, "Liability Clause", DisplayClauseType("LIABILITY_CLAUSE"))
	assert.Equal(t, "General Clause", DisplayClauseType("  general clause  "))
}

func TestDisplayClauseType_NonASCIILeadingRune(t *testing.T) {
	got := DisplayClauseType("cláusula_étnica")
	assert.Equal(t, "Cláusula Étnica", got)
	assert.True(t, utf8.ValidString(got))
}

func TestValidClauseText(t *testing.T) {
	assert.False(t, ValidClauseText(""))
	assert.False(t, ValidClauseText("  NULL "))
	assert.False(t, ValidClauseText("No text available"))
	assert.False(t, ValidClauseText("short"))
	assert.True(t, ValidClauseText("Payment is due in thirty days."))
}
