// Package monitoring turns trackers into a web server that allows external
// inspection of the signals being collected.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/usablab/usetrack/usability"
)

// Monitor can turn a set of trackers into a server and allows external
// inspection and control of the signal collection.
type Monitor struct {
	trackers      []*usability.Tracker
	recentSignals *RecentSignals
	portNumber    int
	openDashboard bool
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		recentSignals: NewRecentSignals(usability.NewWallClock(), 256),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithDashboardOpening makes StartServer open the dashboard URL in the
// system browser.
func (m *Monitor) WithDashboardOpening() *Monitor {
	m.openDashboard = true
	return m
}

// RegisterTracker registers a tracker to be monitored. The monitor starts
// collecting the tracker's signals into its recent-signal buffer.
func (m *Monitor) RegisterTracker(t *usability.Tracker) {
	m.trackers = append(m.trackers, t)

	usability.CollectSignals(t, m.recentSignals)
}

// RecentSignals returns the buffer that holds the most recent signals of
// all the registered trackers.
func (m *Monitor) RecentSignals() *RecentSignals {
	return m.recentSignals
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/trackers", m.listTrackers)
	r.HandleFunc("/api/tracker/{name}", m.listTrackerDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/signals", m.listSignals)
	r.HandleFunc("/api/enable/{name}", m.enableTracker)
	r.HandleFunc("/api/disable/{name}", m.disableTracker)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/", m.index)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring trackers with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	if m.openDashboard {
		err := browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open dashboard: %s\n", err)
		}
	}
}

func (m *Monitor) index(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, `{"api":["/api/trackers","/api/tracker/{name}",`+
		`"/api/field/{json}","/api/signals","/api/enable/{name}",`+
		`"/api/disable/{name}","/api/resource","/api/profile"]}`)
}

func (m *Monitor) listTrackers(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, t := range m.trackers {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", t.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listTrackerDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	tracker := m.findTrackerOr404(w, name)
	if tracker == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(tracker)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	TrackerName string `json:"tracker_name,omitempty"`
	FieldName   string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		dieOnErr(err)
	}

	name := req.TrackerName
	fields := []string{req.FieldName}

	tracker := m.findTrackerOr404(w, name)
	if tracker == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(tracker)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(fields)
	dieOnErr(err)

	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listSignals(w http.ResponseWriter, _ *http.Request) {
	bytes, err := json.Marshal(m.recentSignals.List())
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) enableTracker(w http.ResponseWriter, r *http.Request) {
	m.setTrackerEnabled(w, r, true)
}

func (m *Monitor) disableTracker(w http.ResponseWriter, r *http.Request) {
	m.setTrackerEnabled(w, r, false)
}

func (m *Monitor) setTrackerEnabled(
	w http.ResponseWriter,
	r *http.Request,
	enabled bool,
) {
	name := mux.Vars(r)["name"]

	tracker := m.findTrackerOr404(w, name)
	if tracker == nil {
		return
	}

	tracker.SetEnabled(enabled)
	w.WriteHeader(http.StatusOK)
}

func (m *Monitor) findTrackerOr404(
	w http.ResponseWriter,
	name string,
) *usability.Tracker {
	var tracker *usability.Tracker
	for _, t := range m.trackers {
		if t.Name() == name {
			tracker = t
		}
	}

	if tracker == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Tracker not found"))
		dieOnErr(err)
	}

	return tracker
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
