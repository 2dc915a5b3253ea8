package utils

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

var (
	nodeOnce sync.Once
	node     *snowflake.Node
	nodeID   int64 = 1
)

// SetSnowflakeNode sets the node id used by NewSnowflakeID. It must be
// called before the first id is generated.
func SetSnowflakeNode(id int64) {
	nodeID = id
}

// NewSnowflakeID returns a snowflake id, or a KSUID when the node cannot
// be initialised.
func NewSnowflakeID() string {
	nodeOnce.Do(func() {
		n, err := snowflake.NewNode(nodeID)
		if err == nil {
			node = n
		}
	})
	if node == nil {
		return NewKSUID()
	}
	return node.Generate().String()
}
