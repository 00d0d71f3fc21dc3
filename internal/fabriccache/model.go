// Package fabriccache implements the Fabric Cache: a topology and
// sharding metadata cache that refreshes itself in the background from a
// coordinator database.
package fabriccache

import "github.com/google/uuid"

// ServerMode is a managed server's replication mode.
type ServerMode string

const (
	ModeOffline   ServerMode = "offline"
	ModeReadOnly  ServerMode = "read-only"
	ModeWriteOnly ServerMode = "write-only"
	ModeReadWrite ServerMode = "read-write"
)

// ServerStatus is a managed server's role within its group.
type ServerStatus string

const (
	StatusFaulty      ServerStatus = "faulty"
	StatusSpare       ServerStatus = "spare"
	StatusSecondary   ServerStatus = "secondary"
	StatusPrimary     ServerStatus = "primary"
	StatusConfiguring ServerStatus = "configuring"
)

// ManagedServer is one coordinator-reported server.
type ManagedServer struct {
	ServerUUID uuid.UUID
	GroupID    string
	Host       string
	Port       uint16
	Mode       ServerMode
	Status     ServerStatus
	Weight     float32
}

// ShardType names the comparator a shard's lower bound is compared with.
type ShardType string

const (
	ShardRange         ShardType = "RANGE"
	ShardRangeInteger  ShardType = "RANGE_INTEGER"
	ShardRangeDateTime ShardType = "RANGE_DATETIME"
	ShardRangeString   ShardType = "RANGE_STRING"
	ShardHash          ShardType = "HASH"
)

// ManagedShard is one coordinator-reported shard definition.
type ManagedShard struct {
	SchemaName  string
	TableName   string
	ColumnName  string
	LowerBound  string
	ShardID     int32
	TypeName    ShardType
	GroupID     string
	GlobalGroup string
}

// DefaultTimeToLive is the refresh interval used whenever the coordinator
// reports a TTL of zero.
const DefaultTimeToLive = 10
