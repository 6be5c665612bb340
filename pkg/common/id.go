package common

import "github.com/bwmarrin/snowflake"

var idNode *snowflake.Node

func init() {
	// node 0 default so that tests and tools work without setup
	idNode, _ = snowflake.NewNode(0)
}

// SetupIDGenerator switches the snowflake node used for all entity
// identifiers. Must be called during startup, before any ID is issued.
func SetupIDGenerator(node int64) error {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return err
	}
	idNode = n
	return nil
}

// UUIDint64 returns a new snowflake identifier.
func UUIDint64() int64 {
	return idNode.Generate().Int64()
}
