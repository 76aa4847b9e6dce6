// Package monitoring turns a running piggy bank session into a web server,
// so that it can be watched and commanded from a browser.
package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/piggybank/bank"
	"github.com/sarchlab/piggybank/monitoring/web"
	"github.com/sarchlab/piggybank/sim"
)

// A Driver runs the engine behind the bank. Everything that touches the bank
// goes through Do, so that requests never interleave with events.
type Driver interface {
	Do(f func())
	Pause()
	Continue()
	IsPaused() bool
	CurrentTime() sim.VTimeInSec
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	bank        *bank.PiggyBank
	driver      Driver
	components  []sim.Component
	portNumber  int
	openBrowser bool
}

// NewMonitor creates a new Monitor
func NewMonitor(pb *bank.PiggyBank, driver Driver) *Monitor {
	return &Monitor{
		bank:   pb,
		driver: driver,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser makes the monitor open its page in a browser once it starts.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// RegisterComponent register a component to be monitored.
func (m *Monitor) RegisterComponent(c sim.Component) {
	m.components = append(m.components, c)
}

// Router returns the HTTP handler serving the API and the web page.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/status", m.status).Methods(http.MethodGet)
	r.HandleFunc("/api/ledger", m.ledger).Methods(http.MethodGet)
	r.HandleFunc("/api/log", m.activityLog).Methods(http.MethodGet)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/pause", m.pauseEngine)
	r.HandleFunc("/api/continue", m.continueEngine)
	r.HandleFunc("/api/toggle", m.toggle).Methods(http.MethodPost)
	r.HandleFunc("/api/reset", m.reset).Methods(http.MethodPost)
	r.HandleFunc("/api/calibrate", m.calibrate).Methods(http.MethodPost)
	r.HandleFunc("/api/insert", m.insert).Methods(http.MethodPost)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the URL of the
// page.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", fmt.Errorf("starting monitor: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	handler := m.Router()

	go func() {
		err := http.Serve(listener, handler)
		dieOnErr(err)
	}()

	if m.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %v\n", err)
		}
	}

	return url, nil
}

type calibrationRsp struct {
	Step      int     `json:"step"`
	StartedAt float64 `json:"started_at"`
}

type statusRsp struct {
	Name        string               `json:"name"`
	Now         float64              `json:"now"`
	Paused      bool                 `json:"paused"`
	State       bank.ConnectionState `json:"state"`
	Calibration *calibrationRsp      `json:"calibration"`
}

func (m *Monitor) status(w http.ResponseWriter, _ *http.Request) {
	rsp := statusRsp{
		Name:   m.bank.Name(),
		Paused: m.driver.IsPaused(),
	}

	m.driver.Do(func() {
		rsp.Now = float64(m.driver.CurrentTime())
		rsp.State = m.bank.ConnectionState()

		if run, ok := m.bank.ActiveCalibration(); ok {
			rsp.Calibration = &calibrationRsp{
				Step:      run.CurrentStep,
				StartedAt: float64(run.StartedAt),
			}
		}
	})

	writeJSON(w, http.StatusOK, rsp)
}

type denominationRsp struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Count uint64 `json:"count"`
}

type ledgerRsp struct {
	Counts        [bank.NumDenominations]uint64 `json:"counts"`
	TotalCoins    uint64                        `json:"total_coins"`
	TotalAmount   string                        `json:"total_amount"`
	Denominations []denominationRsp             `json:"denominations"`
}

func (m *Monitor) ledger(w http.ResponseWriter, _ *http.Request) {
	var (
		snapshot bank.LedgerSnapshot
		rows     []bank.DenominationRow
	)

	m.driver.Do(func() {
		snapshot = m.bank.Ledger()
		rows = m.bank.DenominationDisplay()
	})

	rsp := ledgerRsp{
		Counts:      snapshot.Counts,
		TotalCoins:  snapshot.TotalCoins,
		TotalAmount: snapshot.TotalAmount.StringFixed(2),
	}

	for _, row := range rows {
		rsp.Denominations = append(rsp.Denominations, denominationRsp{
			Label: row.Coin.Label,
			Value: row.Coin.Value.StringFixed(2),
			Count: row.Count,
		})
	}

	writeJSON(w, http.StatusOK, rsp)
}

type logEntryRsp struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}

type logRsp struct {
	Text    string        `json:"text"`
	Entries []logEntryRsp `json:"entries"`
}

func (m *Monitor) activityLog(w http.ResponseWriter, _ *http.Request) {
	rsp := logRsp{Entries: []logEntryRsp{}}

	m.driver.Do(func() {
		rsp.Text = m.bank.ActivityLog().Text()

		for _, e := range m.bank.ActivityLog().Entries() {
			rsp.Entries = append(rsp.Entries, logEntryRsp{
				Time:    e.Time.Format(bank.LogTimeLayout),
				Message: e.Message,
			})
		}
	})

	writeJSON(w, http.StatusOK, rsp)
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	now := m.driver.CurrentTime()
	fmt.Fprintf(w, "{\"now\":%.10f}", now)
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.driver.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.driver.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

type commandRsp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Coin  string `json:"coin,omitempty"`
}

func (m *Monitor) toggle(w http.ResponseWriter, _ *http.Request) {
	m.driver.Do(m.bank.RequestToggle)
	writeJSON(w, http.StatusOK, commandRsp{OK: true})
}

func (m *Monitor) reset(w http.ResponseWriter, _ *http.Request) {
	var err error

	m.driver.Do(func() {
		err = m.bank.RequestReset()
	})

	writeCommandResult(w, commandRsp{}, err)
}

func (m *Monitor) calibrate(w http.ResponseWriter, _ *http.Request) {
	var err error

	m.driver.Do(func() {
		err = m.bank.RequestCalibration()
	})

	writeCommandResult(w, commandRsp{}, err)
}

func (m *Monitor) insert(w http.ResponseWriter, _ *http.Request) {
	var (
		coin bank.Coin
		err  error
	)

	m.driver.Do(func() {
		coin, err = m.bank.SimulateOne()
	})

	writeCommandResult(w, commandRsp{Coin: coin.Label}, err)
}

func writeCommandResult(w http.ResponseWriter, rsp commandRsp, err error) {
	if err == nil {
		rsp.OK = true
		writeJSON(w, http.StatusOK, rsp)

		return
	}

	code := http.StatusInternalServerError
	if errors.Is(err, bank.ErrNotConnected) ||
		errors.Is(err, bank.ErrCalibrationInProgress) {
		code = http.StatusConflict
	}

	writeJSON(w, code, commandRsp{Error: err.Error()})
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(m.components))
	for _, c := range m.components {
		names = append(names, c.Name())
	}

	writeJSON(w, http.StatusOK, names)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	buf, err := m.serialize(serializer.Serialize)
	dieOnErr(err)

	_, err = buf.WriteTo(w)
	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	component := m.findComponentOr404(w, req.CompName)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	buf, err := m.serialize(serializer.Serialize)
	dieOnErr(err)

	_, err = buf.WriteTo(w)
	dieOnErr(err)
}

// serialize snapshots a component between events. The client is only written
// to once the engine is released.
func (m *Monitor) serialize(
	serialize func(w io.Writer) error,
) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)

	var err error

	m.driver.Do(func() {
		err = serialize(buf)
	})

	return buf, err
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) sim.Component {
	var component sim.Component
	for _, c := range m.components {
		if c.Name() == name {
			component = c
		}
	}

	if component == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Component not found"))
		dieOnErr(err)
	}

	return component
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

	writeJSON(w, http.StatusOK, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, http.StatusOK, prof)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
