package world

import "strconv"

// BlockType is the tag of a block kind. The set of kinds is closed; static
// properties live in the registry package.
type BlockType uint8

const (
	BlockTypeAir     BlockType = 0
	BlockTypeStone   BlockType = 1
	BlockTypeGrass   BlockType = 2
	BlockTypeDirt    BlockType = 3
	BlockTypeBedrock BlockType = 7
)

// AllBlockTypes lists every defined block kind in tag order.
var AllBlockTypes = []BlockType{
	BlockTypeAir,
	BlockTypeStone,
	BlockTypeGrass,
	BlockTypeDirt,
	BlockTypeBedrock,
}

func (b BlockType) String() string {
	switch b {
	case BlockTypeAir:
		return "air"
	case BlockTypeStone:
		return "stone"
	case BlockTypeGrass:
		return "grass"
	case BlockTypeDirt:
		return "dirt"
	case BlockTypeBedrock:
		return "bedrock"
	default:
		return "BlockType(" + strconv.Itoa(int(b)) + ")"
	}
}
