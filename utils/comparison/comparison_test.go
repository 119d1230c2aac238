package comparison_test

import (
	"testing"

	"github.com/named-data/ndncs/utils/comparison"
	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	assert.Equal(t, 1, comparison.Min(1, 2))
	assert.Equal(t, 2, comparison.Max(1, 2))
	assert.Equal(t, "a", comparison.Min("b", "a"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 4, comparison.Clamp(2, 4, 100))
	assert.Equal(t, 100, comparison.Clamp(200, 4, 100))
	assert.Equal(t, 50, comparison.Clamp(50, 4, 100))
	assert.Equal(t, 0, comparison.Clamp(2, 4, 0))
}
