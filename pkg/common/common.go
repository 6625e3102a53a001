package common

import (
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

var (
	snowflakeNode *snowflake.Node
	nodeOnce      sync.Once
)

func setupNode() {
	// Node id may be set per instance when several stores share a database.
	nodeID := cast.ToInt64(os.Getenv("OPENSHELF_NODE_ID"))
	if nodeID < 0 || nodeID > 1023 {
		nodeID = 0
	}
	var err error
	snowflakeNode, err = snowflake.NewNode(nodeID)
	if err != nil {
		panic(err)
	}
}

// UUID returns a store-generated opaque string id.
func UUID() string {
	nodeOnce.Do(setupNode)
	return snowflakeNode.Generate().String()
}

// UUIDint64 returns a store-generated numeric id for audit rows.
func UUIDint64() int64 {
	nodeOnce.Do(setupNode)
	return snowflakeNode.Generate().Int64()
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MustMkdir creates dir and all parents, ignoring errors when it exists.
func MustMkdir(dir string) {
	_ = os.MkdirAll(dir, 0755)
}
