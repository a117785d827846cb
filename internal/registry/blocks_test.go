package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelmesh/internal/world"
)

func TestInfoIsTotal(t *testing.T) {
	for _, b := range world.AllBlockTypes {
		info := Info(b)
		assert.Equal(t, "default", info.Namespace, "block %v", b)
		assert.Equal(t, b.String(), info.Name)
	}
}

func TestSolidity(t *testing.T) {
	assert.False(t, IsSolid(world.BlockTypeAir))
	for _, b := range world.AllBlockTypes[1:] {
		assert.True(t, IsSolid(b), "block %v", b)
		assert.Equal(t, Info(b).IsSolid, IsSolid(b))
	}
	assert.False(t, IsSolid(world.BlockType(200)), "unknown tags are not solid")
}

func TestInfoUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Info(world.BlockType(4)) })
}

func TestLookup(t *testing.T) {
	b, ok := Lookup("bedrock")
	require.True(t, ok)
	assert.Equal(t, world.BlockTypeBedrock, b)

	b, ok = Lookup("default:grass")
	require.True(t, ok)
	assert.Equal(t, world.BlockTypeGrass, b)

	_, ok = Lookup("lava")
	assert.False(t, ok)
	assert.Equal(t, "default:dirt", Info(world.BlockTypeDirt).FullName())
}

func TestBuildTablesRejectsMissingDefinition(t *testing.T) {
	saved, savedSolid := BlockNames, solid
	defer func() { BlockNames, solid = saved, savedSolid }()

	err := buildTables(append([]world.BlockType{}, world.BlockTypeStone, world.BlockType(9)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block type 9")
}
