package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberSuffix(t *testing.T) {
	assert.Equal(t, 42, NumberSuffix("SAL0042"))
	assert.Equal(t, 1, NumberSuffix("REC0001"))
	assert.Equal(t, 10000, NumberSuffix("JV10000"))
	assert.Equal(t, 0, NumberSuffix("DRAFT"))
	assert.Equal(t, 0, NumberSuffix(""))
}

func TestNextNumber_Empty(t *testing.T) {
	assert.Equal(t, "SAL0001", NextNumber("SAL", nil))
}

func TestNextNumber_Increments(t *testing.T) {
	existing := []string{"SAL0001", "SAL0002", "SAL0003"}
	assert.Equal(t, "SAL0004", NextNumber("SAL", existing))
}

func TestNextNumber_IgnoresOtherPrefixes(t *testing.T) {
	existing := []string{"REC0009", "PMT0017"}
	assert.Equal(t, "SAL0001", NextNumber("SAL", existing))
}

func TestNextNumber_TakesNumericMaxNotStringMax(t *testing.T) {
	// String ordering would pick SAL0999 over SAL10000.
	existing := []string{"SAL0999", "SAL10000"}
	assert.Equal(t, "SAL10001", NextNumber("SAL", existing))
}
