package registry

import (
	"fmt"

	"github.com/willf/bitset"

	"voxelmesh/internal/world"
)

// Namespace is the namespace of every built-in block.
const Namespace = "default"

// BlockInfo holds the static properties of a block kind.
type BlockInfo struct {
	Namespace string
	Name      string
	IsSolid   bool
}

// FullName returns "namespace:name".
func (i BlockInfo) FullName() string {
	return i.Namespace + ":" + i.Name
}

var (
	// Blocks maps each block kind to its definition.
	Blocks = map[world.BlockType]BlockInfo{
		world.BlockTypeAir:     {Namespace: Namespace, Name: "air", IsSolid: false},
		world.BlockTypeStone:   {Namespace: Namespace, Name: "stone", IsSolid: true},
		world.BlockTypeGrass:   {Namespace: Namespace, Name: "grass", IsSolid: true},
		world.BlockTypeDirt:    {Namespace: Namespace, Name: "dirt", IsSolid: true},
		world.BlockTypeBedrock: {Namespace: Namespace, Name: "bedrock", IsSolid: true},
	}

	// BlockNames maps block names back to their kind.
	BlockNames = make(map[string]world.BlockType)

	solid *bitset.BitSet
)

func init() {
	if err := buildTables(world.AllBlockTypes); err != nil {
		panic(err)
	}
}

// buildTables checks that every kind is registered and fills the name index
// and the solidity set.
func buildTables(kinds []world.BlockType) error {
	s := bitset.New(256)
	names := make(map[string]world.BlockType, len(kinds))
	for _, b := range kinds {
		info, ok := Blocks[b]
		if !ok {
			return fmt.Errorf("registry: block type %d has no registered definition", uint8(b))
		}
		if prev, dup := names[info.Name]; dup {
			return fmt.Errorf("registry: block name %q used by %v and %v", info.Name, prev, b)
		}
		names[info.Name] = b
		if info.IsSolid {
			s.Set(uint(b))
		}
	}
	BlockNames = names
	solid = s
	return nil
}

// Info returns the definition of block. The set of block kinds is closed, so a
// missing definition is a programming error and panics.
func Info(block world.BlockType) BlockInfo {
	info, ok := Blocks[block]
	if !ok {
		panic(fmt.Sprintf("registry: unknown block type %d", uint8(block)))
	}
	return info
}

// IsSolid reports whether block occludes the faces of its neighbours.
func IsSolid(block world.BlockType) bool {
	return solid.Test(uint(block))
}

// Lookup resolves a block by name, with or without the namespace prefix.
func Lookup(name string) (world.BlockType, bool) {
	if len(name) > len(Namespace)+1 && name[:len(Namespace)+1] == Namespace+":" {
		name = name[len(Namespace)+1:]
	}
	b, ok := BlockNames[name]
	return b, ok
}
