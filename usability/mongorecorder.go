package usability

import (
	"context"
	"log"
	"time"

	"github.com/rs/xid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRecorder is a recorder that can dump the signals into a MongoDB
// database.
type MongoRecorder struct {
	clientSide    *mongo.Client
	collect       *mongo.Collection
	uri           string
	timeTeller    TimeTeller
	inflightSpans map[string]Signal
}

// NewMongoRecorder returns a new MongoRecorder that connects to a local
// MongoDB server. The Init function must be called before using the
// recorder.
func NewMongoRecorder(timeTeller TimeTeller) *MongoRecorder {
	r := &MongoRecorder{
		uri:           "mongodb://localhost:27017",
		timeTeller:    timeTeller,
		inflightSpans: make(map[string]Signal),
	}
	return r
}

// SetURI sets the server and the port to connect to
func (r *MongoRecorder) SetURI(uri string) {
	r.uri = uri
}

// Init connects to the MongoDB database.
func (r *MongoRecorder) Init() {
	var err error

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r.clientSide, err = mongo.Connect(ctx, options.Client().ApplyURI(r.uri))
	if err != nil {
		log.Panic(err)
	}

	dbName := xid.New().String()
	log.Printf("Signals are collected in database: %s\n", dbName)

	r.collect = r.clientSide.Database(dbName).Collection("signals")

	r.createIndexes()
}

func (r *MongoRecorder) createIndexes() {
	r.createIndex("id", true)
	r.createIndex("parentid", true)
	r.createIndex("kind", true)
	r.createIndex("what", true)
	r.createIndex("where", true)
	r.createIndex("starttime", false)
	r.createIndex("endtime", false)
}

func (r *MongoRecorder) createIndex(key string, useHash bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var value interface{}
	if useHash {
		value = "hashed"
	} else {
		value = 1
	}

	_, err := r.collect.Indexes().CreateOne(ctx,
		mongo.IndexModel{
			Keys: bson.D{bson.E{Key: key, Value: value}},
		},
	)
	if err != nil {
		log.Panic(err)
	}
}

// StartSpan marks the start of a span.
func (r *MongoRecorder) StartSpan(s Signal) {
	s.StartTime = r.timeTeller.CurrentTime()
	r.inflightSpans[s.ID] = s
}

// EndSpan writes the completed span into the database.
func (r *MongoRecorder) EndSpan(s Signal) {
	originalSpan, ok := r.inflightSpans[s.ID]
	if !ok {
		return
	}

	originalSpan.EndTime = r.timeTeller.CurrentTime()
	originalSpan.Detail = nil
	delete(r.inflightSpans, s.ID)

	r.insert(originalSpan)
}

// Mark writes an instantaneous signal into the database.
func (r *MongoRecorder) Mark(s Signal) {
	s.StartTime = r.timeTeller.CurrentTime()
	s.EndTime = s.StartTime
	s.Detail = nil

	r.insert(s)
}

func (r *MongoRecorder) insert(s Signal) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.collect.InsertOne(ctx, s)
	if err != nil {
		log.Panic(err)
	}
}
