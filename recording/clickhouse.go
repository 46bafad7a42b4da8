package recording

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/tebeka/atexit"
)

// SignalEntry is the row shape that recorders use for completed signals.
type SignalEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime float64
	EndTime   float64
}

type tableType int

const (
	tableTypeSignal tableType = iota
	tableTypeLaunchInfo
)

// ClickHouseRecorder is a DataRecorder that batches rows into a ClickHouse
// database. It only accepts the two row shapes the library produces,
// SignalEntry and LaunchInfo, which keeps the insert path free of
// reflection.
type ClickHouseRecorder struct {
	conn      clickhouse.Conn
	mu        sync.Mutex
	batchSize int

	tables          map[string]tableType
	signalBatch     map[string][]SignalEntry
	launchInfoBatch map[string][]LaunchInfo
	entryCount      int
}

// NewClickHouseRecorder connects to a ClickHouse server and returns a
// DataRecorder that writes into it.
func NewClickHouseRecorder(
	host string,
	port int,
	database string,
	username string,
	password string,
	batchSize int,
) DataRecorder {
	if batchSize == 0 {
		batchSize = 100000
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", host, port)},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     5,
		MaxIdleConns:     5,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
		BlockBufferSize:  10,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect to ClickHouse: %w", err))
	}

	if err := conn.Ping(context.Background()); err != nil {
		panic(fmt.Errorf("failed to ping ClickHouse: %w", err))
	}

	recorder := &ClickHouseRecorder{
		conn:            conn,
		batchSize:       batchSize,
		tables:          make(map[string]tableType),
		signalBatch:     make(map[string][]SignalEntry),
		launchInfoBatch: make(map[string][]LaunchInfo),
	}

	atexit.Register(func() {
		recorder.Flush()
	})

	return recorder
}

// CreateTable creates a table matching one of the supported row shapes.
func (r *ClickHouseRecorder) CreateTable(tableName string, sampleEntry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var createSQL string
	var tType tableType

	switch sampleEntry.(type) {
	case LaunchInfo:
		tType = tableTypeLaunchInfo
		createSQL = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				Property String,
				Value String
			) ENGINE = MergeTree()
			ORDER BY Property
		`, tableName)

	case SignalEntry:
		tType = tableTypeSignal
		createSQL = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				ID String,
				ParentID String,
				Kind String,
				What String,
				Location String,
				StartTime Float64,
				EndTime Float64
			) ENGINE = MergeTree()
			ORDER BY (ID, StartTime)
		`, tableName)

	default:
		panic(fmt.Sprintf("unknown table type: %T", sampleEntry))
	}

	err := r.conn.Exec(context.Background(), createSQL)
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	r.tables[tableName] = tType
}

// InsertData buffers one row for the named table.
func (r *ClickHouseRecorder) InsertData(tableName string, entry any) {
	r.mu.Lock()

	tType, exists := r.tables[tableName]
	if !exists {
		r.mu.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	switch tType {
	case tableTypeSignal:
		e, ok := entry.(SignalEntry)
		if !ok {
			r.mu.Unlock()
			panic(fmt.Sprintf("invalid entry type for signal table: %T",
				entry))
		}
		r.signalBatch[tableName] = append(r.signalBatch[tableName], e)

	case tableTypeLaunchInfo:
		e, ok := entry.(LaunchInfo)
		if !ok {
			r.mu.Unlock()
			panic(fmt.Sprintf("invalid entry type for launch table: %T",
				entry))
		}
		r.launchInfoBatch[tableName] = append(r.launchInfoBatch[tableName], e)
	}

	r.entryCount++

	if r.entryCount >= r.batchSize {
		r.mu.Unlock()
		r.Flush()
		return
	}

	r.mu.Unlock()
}

// ListTables returns all table names
func (r *ClickHouseRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}

	return tables
}

// Flush writes all batched rows to ClickHouse using bulk inserts.
func (r *ClickHouseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for tableName, tType := range r.tables {
		switch tType {
		case tableTypeSignal:
			if len(r.signalBatch[tableName]) > 0 {
				r.flushSignals(ctx, tableName)
			}
		case tableTypeLaunchInfo:
			if len(r.launchInfoBatch[tableName]) > 0 {
				r.flushLaunchInfo(ctx, tableName)
			}
		}
	}

	r.entryCount = 0
}

// Close flushes the buffered rows and closes the connection.
func (r *ClickHouseRecorder) Close() error {
	r.Flush()
	return r.conn.Close()
}

func (r *ClickHouseRecorder) flushSignals(
	ctx context.Context,
	tableName string,
) {
	batch, err := r.conn.PrepareBatch(
		ctx, fmt.Sprintf("INSERT INTO %s", tableName))
	if err != nil {
		panic(fmt.Errorf("failed to prepare batch for %s: %w",
			tableName, err))
	}

	for _, entry := range r.signalBatch[tableName] {
		err = batch.Append(
			entry.ID,
			entry.ParentID,
			entry.Kind,
			entry.What,
			entry.Location,
			entry.StartTime,
			entry.EndTime,
		)
		if err != nil {
			panic(fmt.Errorf("failed to append to batch: %w", err))
		}
	}

	err = batch.Send()
	if err != nil {
		panic(fmt.Errorf("failed to send batch: %w", err))
	}

	r.signalBatch[tableName] = r.signalBatch[tableName][:0]
}

func (r *ClickHouseRecorder) flushLaunchInfo(
	ctx context.Context,
	tableName string,
) {
	batch, err := r.conn.PrepareBatch(
		ctx, fmt.Sprintf("INSERT INTO %s", tableName))
	if err != nil {
		panic(fmt.Errorf("failed to prepare batch for %s: %w",
			tableName, err))
	}

	for _, entry := range r.launchInfoBatch[tableName] {
		err = batch.Append(entry.Property, entry.Value)
		if err != nil {
			panic(fmt.Errorf("failed to append to batch: %w", err))
		}
	}

	err = batch.Send()
	if err != nil {
		panic(fmt.Errorf("failed to send batch: %w", err))
	}

	r.launchInfoBatch[tableName] = r.launchInfoBatch[tableName][:0]
}
