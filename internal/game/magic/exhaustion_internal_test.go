package magic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCastingExhaustion_NegativeQualityDoubles(t *testing.T) {
	assert.Equal(t, 2, castingExhaustion(Normal, 0))
	assert.Equal(t, 4, castingExhaustion(Normal, -1))
	assert.Equal(t, 6, castingExhaustion(Hard, -3))
}
