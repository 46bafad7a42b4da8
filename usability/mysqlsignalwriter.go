package usability

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	// Need to use MySQL connections.
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// MySQLSignalWriter is a recorder that can store the signals into a MySQL
// database. Connection parameters come from the USETRACK_MYSQL_USERNAME,
// USETRACK_MYSQL_PASSWORD, USETRACK_MYSQL_IP, and USETRACK_MYSQL_PORT
// environment variables.
type MySQLSignalWriter struct {
	dbConnection
	timeTeller TimeTeller

	lock           sync.Mutex
	inflightSpans  map[string]Signal
	signalsToWrite []Signal
	batchSize      int
}

// NewMySQLSignalWriter returns a new MySQLSignalWriter.
// The Init function must be called before using the writer.
func NewMySQLSignalWriter(timeTeller TimeTeller) *MySQLSignalWriter {
	w := &MySQLSignalWriter{
		timeTeller:    timeTeller,
		inflightSpans: make(map[string]Signal),
		batchSize:     100000,
	}

	atexit.Register(func() { w.Flush() })

	return w
}

// Init establishes a connection to MySQL and creates a database.
func (w *MySQLSignalWriter) Init() {
	w.dbConnection.init("")
	w.createDatabase()
}

func (w *MySQLSignalWriter) createDatabase() {
	dbName := "usetrack_" + xid.New().String()
	w.dbName = dbName
	log.Printf("Signals are collected in database: %s\n", dbName)

	w.mustExecute("CREATE DATABASE " + dbName)
	w.mustExecute("USE " + dbName)

	w.createTable()
}

func (w *MySQLSignalWriter) createTable() {
	w.mustExecute(`
		create table signals
		(
			signal_id  varchar(200) not null unique primary key,
			parent_id  varchar(200) null,
			kind       varchar(100) null,
			what       varchar(100) null,
			location   varchar(100) null,
			start_time float       null,
			end_time   float       null
		);
	`)

	w.mustExecute(`
        ALTER TABLE signals ENGINE=InnoDB;
	`)

	w.mustExecute(`
		create index signals_kind_index
			on signals (kind);
	`)

	w.mustExecute(`
		create index signals_what_index
			on signals (what);
	`)

	w.mustExecute(`
		create index signals_start_time_index
			on signals (start_time) USING BTREE;
	`)

	w.mustExecute(`
		create index signals_end_time_index
			on signals (end_time) USING BTREE;
	`)
}

// StartSpan records the start of a span.
func (w *MySQLSignalWriter) StartSpan(s Signal) {
	s.StartTime = w.timeTeller.CurrentTime()

	w.lock.Lock()
	w.inflightSpans[s.ID] = s
	w.lock.Unlock()
}

// EndSpan completes a span and buffers it for writing.
func (w *MySQLSignalWriter) EndSpan(s Signal) {
	w.lock.Lock()
	defer w.lock.Unlock()

	originalSpan, ok := w.inflightSpans[s.ID]
	if !ok {
		return
	}

	originalSpan.EndTime = w.timeTeller.CurrentTime()
	delete(w.inflightSpans, s.ID)

	w.write(originalSpan)
}

// Mark buffers an instantaneous signal.
func (w *MySQLSignalWriter) Mark(s Signal) {
	s.StartTime = w.timeTeller.CurrentTime()
	s.EndTime = s.StartTime

	w.lock.Lock()
	defer w.lock.Unlock()

	w.write(s)
}

func (w *MySQLSignalWriter) write(s Signal) {
	w.signalsToWrite = append(w.signalsToWrite, s)
	if len(w.signalsToWrite) > w.batchSize {
		w.flush()
	}
}

// Flush writes all the signals in the buffer into the database.
func (w *MySQLSignalWriter) Flush() {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.flush()
}

func (w *MySQLSignalWriter) flush() {
	if len(w.signalsToWrite) == 0 {
		return
	}

	sqlStr := `INSERT INTO signals VALUES`
	vals := []interface{}{}

	for i := range w.signalsToWrite {
		sqlStr += "(?, ?, ?, ?, ?, ?, ?),"
		vals = append(vals,
			w.signalsToWrite[i].ID,
			w.signalsToWrite[i].ParentID,
			w.signalsToWrite[i].Kind,
			w.signalsToWrite[i].What,
			w.signalsToWrite[i].Where,
			w.signalsToWrite[i].StartTime,
			w.signalsToWrite[i].EndTime,
		)
	}

	sqlStr = strings.TrimSuffix(sqlStr, ",")

	stmt, err := w.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	_, err = stmt.Exec(vals...)
	if err != nil {
		panic(err)
	}

	err = stmt.Close()
	if err != nil {
		panic(err)
	}

	w.signalsToWrite = nil
}

type dbConnection struct {
	*sql.DB

	username  string
	password  string
	ipAddress string
	port      int
	dbName    string
}

func (c *dbConnection) init(dbName string) {
	c.dbName = dbName

	c.getCredentials()
	c.connect()
}

func (c *dbConnection) getCredentials() {
	c.username = os.Getenv("USETRACK_MYSQL_USERNAME")
	if c.username == "" {
		panic(`mysql username is not set, use environment variable ` +
			`USETRACK_MYSQL_USERNAME to set it.`)
	}

	c.password = os.Getenv("USETRACK_MYSQL_PASSWORD")
	c.ipAddress = os.Getenv("USETRACK_MYSQL_IP")
	if c.ipAddress == "" {
		c.ipAddress = "127.0.0.1"
	}

	portString := os.Getenv("USETRACK_MYSQL_PORT")
	if portString == "" {
		portString = "3306"
	}
	port, err := strconv.Atoi(portString)
	if err != nil {
		panic(err)
	}
	c.port = port
}

func (c *dbConnection) connect() {
	connectStr := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		c.username, c.password, c.ipAddress, c.port, c.dbName)
	db, err := sql.Open("mysql", connectStr)
	if err != nil {
		panic(err)
	}

	c.DB = db
}

func (c *dbConnection) mustExecute(query string) sql.Result {
	res, err := c.Exec(query)
	if err != nil {
		panic(err)
	}

	return res
}
