package cmd

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
	"github.com/usablab/usetrack/monitoring"
	"github.com/usablab/usetrack/recording"
	"github.com/usablab/usetrack/usability"
)

// scriptClock is a time teller whose clock only moves when the script says
// `wait`.
type scriptClock struct {
	now usability.TimeInSec
}

func (c *scriptClock) CurrentTime() usability.TimeInSec {
	return c.now
}

func (c *scriptClock) advance(seconds float64) {
	c.now += usability.TimeInSec(seconds)
}

var replayCmd = &cobra.Command{
	Use:   "replay [script file]",
	Short: "Replay a session script into the configured recorders",
	Long: `Replay reads a session script and drives a tracker through it. ` +
		`Each line of the script is one command: "view <name>", "activate", ` +
		`"deactivate", "wait <seconds>", or "dialog <choice>". Blank lines ` +
		`and lines starting with # are skipped.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runReplay(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().String("csv", "",
		"Write all signals into the named CSV file")
	replayCmd.Flags().Bool("json", false,
		"Write all signals into a generated JSON file")
	replayCmd.Flags().String("sqlite", "",
		"Write all signals into the named SQLite database")
	replayCmd.Flags().Bool("verbose", false,
		"Print every signal to stderr while replaying")
	replayCmd.Flags().Bool("monitor", false,
		"Serve the monitoring API while replaying")
	replayCmd.Flags().Int("port", 0,
		"Port for the monitoring API, 0 picks a free port")
}

func runReplay(cmd *cobra.Command, scriptPath string) {
	clock := &scriptClock{}
	tracker := usability.SharedTracker().WithTimeTeller(clock)

	attachRecorders(cmd, tracker, clock)
	viewTime, visitCount := attachSummaryRecorders(tracker, clock)

	startMonitor(cmd, tracker)

	replaySession(scriptPath, tracker, clock)

	printSummary(viewTime, visitCount)

	atexit.Exit(0)
}

// replaySession runs the script and closes the session it leaves open, so
// that a script that already ends with `deactivate` is not deactivated
// twice.
func replaySession(
	scriptPath string,
	tracker *usability.Tracker,
	clock *scriptClock,
) {
	executeScript(scriptPath, tracker, clock)

	if tracker.InSession() {
		tracker.AppDeactivate()
	}
}

func attachRecorders(
	cmd *cobra.Command,
	tracker *usability.Tracker,
	clock usability.TimeTeller,
) {
	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		writer := usability.NewCSVSignalWriter(clock, path)
		writer.Init()
		usability.CollectSignals(tracker, writer)
	}

	if useJSON, _ := cmd.Flags().GetBool("json"); useJSON {
		usability.CollectSignals(tracker, usability.NewJSONRecorder(clock))
	}

	if path, _ := cmd.Flags().GetString("sqlite"); path != "" {
		backend := recording.NewDataRecorder(path)

		launch := recording.NewLaunchRecorder(backend)
		launch.Start()
		atexit.Register(launch.End)

		usability.CollectSignals(tracker,
			usability.NewDBRecorder(clock, backend))
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger := log.New(os.Stderr, "", 0)
		tracker.AcceptHook(usability.NewSignalLogger(logger))
	}
}

func attachSummaryRecorders(
	tracker *usability.Tracker,
	clock usability.TimeTeller,
) (*usability.ViewTimeRecorder, *usability.VisitCountRecorder) {
	viewTime := usability.NewViewTimeRecorder(
		clock, usability.KindFilter(usability.KindView))
	usability.CollectSignals(tracker, viewTime)

	visitCount := usability.NewVisitCountRecorder(usability.AllSignals)
	usability.CollectSignals(tracker, visitCount)

	return viewTime, visitCount
}

func startMonitor(cmd *cobra.Command, tracker *usability.Tracker) {
	useMonitor, _ := cmd.Flags().GetBool("monitor")
	if !useMonitor {
		return
	}

	monitor := monitoring.NewMonitor()
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		monitor = monitor.WithPortNumber(port)
	}

	monitor.RegisterTracker(tracker)
	monitor.StartServer()
}

func executeScript(
	path string,
	tracker *usability.Tracker,
	clock *scriptClock,
) {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Error opening script: %v\n", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		executeLine(line, lineNumber, tracker, clock)
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("Error reading script: %v\n", err)
	}
}

func executeLine(
	line string,
	lineNumber int,
	tracker *usability.Tracker,
	clock *scriptClock,
) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "view":
		if len(fields) != 2 {
			log.Fatalf("Line %d: view takes one name\n", lineNumber)
		}
		tracker.EnterView(fields[1])
	case "activate":
		tracker.AppActivate()
	case "deactivate":
		tracker.AppDeactivate()
	case "wait":
		if len(fields) != 2 {
			log.Fatalf("Line %d: wait takes one duration\n", lineNumber)
		}
		seconds, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || seconds < 0 {
			log.Fatalf("Line %d: invalid wait duration %q\n",
				lineNumber, fields[1])
		}
		clock.advance(seconds)
	case "dialog":
		if len(fields) != 2 {
			log.Fatalf("Line %d: dialog takes one choice index\n", lineNumber)
		}
		choice, err := strconv.Atoi(fields[1])
		if err != nil {
			log.Fatalf("Line %d: invalid dialog choice %q\n",
				lineNumber, fields[1])
		}
		tracker.DialogDismissed(choice)
	default:
		log.Fatalf("Line %d: unknown command %q\n", lineNumber, fields[0])
	}
}

func printSummary(
	viewTime *usability.ViewTimeRecorder,
	visitCount *usability.VisitCountRecorder,
) {
	fmt.Printf("Total view time: %.2f s\n", float64(viewTime.TotalTime()))
	for _, name := range visitCount.ViewNames() {
		fmt.Printf("  %s: %d visits\n", name, visitCount.VisitCount(name))
	}
}
