package uid

import (
	"github.com/bwmarrin/snowflake"
)

// Snowflake generates int64 IDs using a node-scoped snowflake sequence.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator for the given node (0-1023).
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: node}, nil
}

// Generate returns the next ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
