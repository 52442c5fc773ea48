package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSolid(t *testing.T) {
	assert.False(t, AirBlockID.IsSolid(), "воздух должен быть пустым")
	assert.True(t, StoneBlockID.IsSolid())
	assert.True(t, BlockID(4242).IsSolid(), "любой ненулевой ID твердый")
}

func TestBlockIDString(t *testing.T) {
	assert.Equal(t, "air", AirBlockID.String())
	assert.Equal(t, "stone", StoneBlockID.String())
	assert.Equal(t, "unknown", BlockID(500).String())
}
