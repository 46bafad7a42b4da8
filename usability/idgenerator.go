package usability

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// An IDGenerator mints the IDs that tie signals to their spans.
type IDGenerator interface {
	// Generate an ID
	Generate() string
}

var idGeneratorMutex sync.Mutex
var idGeneratorOnce sync.Once
var idGeneratorChosen bool
var useParallelIDs bool
var idGenerator IDGenerator

// UseSequentialIDGenerator numbers signals sequentially. Sequential IDs keep
// recorded output deterministic across runs.
func UseSequentialIDGenerator() {
	chooseIDGenerator(false)
}

// UseParallelIDGenerator mints globally unique signal IDs that are safe to
// generate from many goroutines at once. The IDs generated will not be
// deterministic anymore.
func UseParallelIDGenerator() {
	chooseIDGenerator(true)
}

func chooseIDGenerator(parallel bool) {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if idGeneratorChosen {
		panic("cannot change the ID generator after using it")
	}

	idGeneratorChosen = true
	useParallelIDs = parallel
}

// GetIDGenerator returns the signal ID generator used by the current
// process. The first call locks the choice in; sequential is the default.
func GetIDGenerator() IDGenerator {
	idGeneratorOnce.Do(func() {
		idGeneratorMutex.Lock()
		defer idGeneratorMutex.Unlock()

		idGeneratorChosen = true
		if useParallelIDs {
			idGenerator = parallelIDGenerator{}
		} else {
			idGenerator = &sequentialIDGenerator{}
		}
	})

	return idGenerator
}

// sequentialIDGenerator numbers signals from sig-1 up.
type sequentialIDGenerator struct {
	lastID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	return "sig-" + strconv.FormatUint(atomic.AddUint64(&g.lastID, 1), 10)
}

type parallelIDGenerator struct{}

func (parallelIDGenerator) Generate() string {
	return xid.New().String()
}
