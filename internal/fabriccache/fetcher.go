package fabriccache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MetadataResult is everything one refresh cycle pulls from the
// coordinator: the two tables plus the TTL it reports for the next cycle.
type MetadataResult struct {
	Groups map[string][]ManagedServer
	Shards map[string][]ManagedShard
	TTL    int
}

// Fetcher retrieves one round of Fabric Cache metadata. The production
// implementation is *SQLFetcher; tests substitute an in-memory fake.
type Fetcher interface {
	Connect(ctx context.Context) error
	Disconnect()
	Fetch(ctx context.Context) (MetadataResult, error)
}

// SQLFetcher talks to the coordinator's two metadata stored procedures
// over a real MySQL connection, per the coordinator wire protocol: two
// CALLs, each returning a well-known row shape, with every result set led
// by a (fabric_uuid, ttl, message) header row set.
type SQLFetcher struct {
	dsn string
	db  *sql.DB
}

// NewSQLFetcher builds a fetcher for the coordinator reachable at host:port
// with the given credentials.
func NewSQLFetcher(host string, port uint16, user, password string) *SQLFetcher {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/", user, password, host, port)
	return &SQLFetcher{dsn: dsn}
}

func (f *SQLFetcher) Connect(ctx context.Context) error {
	db, err := sql.Open("mysql", f.dsn)
	if err != nil {
		return fmt.Errorf("open coordinator connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping coordinator: %w", err)
	}
	f.db = db
	return nil
}

func (f *SQLFetcher) Disconnect() {
	if f.db != nil {
		f.db.Close()
		f.db = nil
	}
}

func (f *SQLFetcher) Fetch(ctx context.Context) (MetadataResult, error) {
	groups, ttl, err := f.fetchServers(ctx)
	if err != nil {
		return MetadataResult{}, fmt.Errorf("dump.servers: %w", err)
	}
	shards, _, err := f.fetchShards(ctx)
	if err != nil {
		return MetadataResult{}, fmt.Errorf("dump.sharding_information: %w", err)
	}
	return MetadataResult{Groups: groups, Shards: shards, TTL: ttl}, nil
}

// fetchServers runs dump.servers() and reads its leading header result set
// (fabric_uuid, ttl, message) before the row set proper, per the
// coordinator wire protocol.
func (f *SQLFetcher) fetchServers(ctx context.Context) (map[string][]ManagedServer, int, error) {
	rows, err := f.db.QueryContext(ctx, "CALL dump.servers()")
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ttl := DefaultTimeToLive
	var fabricUUID, message string
	for rows.Next() {
		if err := rows.Scan(&fabricUUID, &ttl, &message); err != nil {
			return nil, 0, err
		}
	}
	if !rows.NextResultSet() {
		return nil, 0, fmt.Errorf("expected a second result set from dump.servers()")
	}

	groups := map[string][]ManagedServer{}
	for rows.Next() {
		var s ManagedServer
		var mode, status string
		if err := rows.Scan(&s.ServerUUID, &s.GroupID, &s.Host, &s.Port, &mode, &status, &s.Weight); err != nil {
			return nil, 0, err
		}
		s.Mode = ServerMode(mode)
		s.Status = ServerStatus(status)
		groups[s.GroupID] = append(groups[s.GroupID], s)
	}
	return groups, ttl, rows.Err()
}

// fetchShards runs dump.sharding_information() and reads its leading
// header result set (fabric_uuid, ttl, message) before the row set
// proper, per the coordinator wire protocol.
func (f *SQLFetcher) fetchShards(ctx context.Context) (map[string][]ManagedShard, int, error) {
	rows, err := f.db.QueryContext(ctx, "CALL dump.sharding_information()")
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	ttl := DefaultTimeToLive
	var fabricUUID, message string
	for rows.Next() {
		if err := rows.Scan(&fabricUUID, &ttl, &message); err != nil {
			return nil, 0, err
		}
	}
	if !rows.NextResultSet() {
		return nil, 0, fmt.Errorf("expected a second result set from dump.sharding_information()")
	}

	shards := map[string][]ManagedShard{}
	for rows.Next() {
		var sh ManagedShard
		var typeName string
		if err := rows.Scan(&sh.SchemaName, &sh.TableName, &sh.ColumnName, &sh.LowerBound,
			&sh.ShardID, &typeName, &sh.GroupID, &sh.GlobalGroup); err != nil {
			return nil, 0, err
		}
		sh.TypeName = ShardType(typeName)
		key := sh.SchemaName + "." + sh.TableName
		shards[key] = append(shards[key], sh)
	}
	return shards, ttl, rows.Err()
}
