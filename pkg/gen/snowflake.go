package gen

import (
	"go.uber.org/fx"

	"github.com/bwmarrin/snowflake"
)

var Module = fx.Module("gen", fx.Provide(NewSnowflakeNode))

type SnowflakeNode struct {
	node *snowflake.Node
}

func NewSnowflakeNode() (*SnowflakeNode, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	return &SnowflakeNode{node: node}, nil
}

func (s *SnowflakeNode) GenerateID() snowflake.ID {
	return s.node.Generate()
}
