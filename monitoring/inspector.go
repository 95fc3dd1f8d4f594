// Package monitoring serves an elaborated model and its artifacts over HTTP
// so that a build can be inspected in a browser.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/archgen/arch"
	"github.com/sarchlab/archgen/codegen"
	"github.com/sarchlab/archgen/mem/hierarchy"
	"github.com/sarchlab/archgen/monitoring/web"
)

// Inspector turns an elaborated model into a read-only web server.
type Inspector struct {
	model      *arch.Model
	artifacts  []codegen.Artifact
	portNumber int

	profileDuration  time.Duration
	assetsFromSource bool

	lock     sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{profileDuration: time.Second}
}

// WithPortNumber sets the port number of the inspector. Ports below 1000
// select a random port.
func (i *Inspector) WithPortNumber(portNumber int) *Inspector {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the inspector, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	i.portNumber = portNumber

	return i
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (i *Inspector) WithProfileDuration(d time.Duration) *Inspector {
	i.profileDuration = d
	return i
}

// WithAssetsFromSource serves the page from the source tree instead of the
// copy embedded in the binary.
func (i *Inspector) WithAssetsFromSource(fromSource bool) *Inspector {
	i.assetsFromSource = fromSource
	return i
}

// RegisterModel sets the model to be inspected.
func (i *Inspector) RegisterModel(m *arch.Model) {
	i.model = m
}

// RegisterArtifacts sets the rendered files to be served.
func (i *Inspector) RegisterArtifacts(artifacts []codegen.Artifact) {
	i.artifacts = artifacts
}

// Router builds the HTTP routes of the inspector.
func (i *Inspector) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/model", i.showModel)
	r.HandleFunc("/api/levels", i.listLevels)
	r.HandleFunc("/api/level/{name}", i.showLevel)
	r.HandleFunc("/api/path/{name}", i.showPath)
	r.HandleFunc("/api/field/{json}", i.showField)
	r.HandleFunc("/api/dram", i.showDRAM)
	r.HandleFunc("/api/artifacts", i.listArtifacts)
	r.HandleFunc("/api/artifact/{name}", i.showArtifact)
	r.HandleFunc("/api/resource", i.listResources)
	r.HandleFunc("/api/profile", i.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.Assets(i.assetsFromSource)))

	return r
}

// StartServer starts serving in the background and returns the URL of the
// inspector.
func (i *Inspector) StartServer() (string, error) {
	if i.model == nil {
		return "", errors.New("no model registered")
	}

	actualPort := ":0"
	if i.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(i.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	server := &http.Server{
		Handler:           i.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	i.lock.Lock()
	i.server = server
	i.listener = listener
	i.lock.Unlock()

	go func() {
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "inspector stopped: %v\n", err)
		}
	}()

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	return url, nil
}

// Shutdown stops a started server.
func (i *Inspector) Shutdown(ctx context.Context) error {
	i.lock.Lock()
	server := i.server
	i.server = nil
	i.lock.Unlock()

	if server == nil {
		return nil
	}

	return server.Shutdown(ctx)
}

func (i *Inspector) showModel(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(i.model)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	failOnErr(w, err)
}

func (i *Inspector) listLevels(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(i.model.Hierarchy.Nodes))
	for _, n := range i.model.Hierarchy.Nodes {
		names = append(names, n.Name)
	}

	writeJSON(w, names)
}

func (i *Inspector) findLevelOr404(
	w http.ResponseWriter,
	name string,
) *hierarchy.Node {
	n, ok := i.model.Hierarchy.Node(name)
	if !ok {
		http.Error(w, "Level not found", http.StatusNotFound)
		return nil
	}

	return n
}

func (i *Inspector) showLevel(w http.ResponseWriter, r *http.Request) {
	n := i.findLevelOr404(w, mux.Vars(r)["name"])
	if n == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(n)
	serializer.SetMaxDepth(1)

	err := serializer.Serialize(w)
	failOnErr(w, err)
}

func (i *Inspector) showPath(w http.ResponseWriter, r *http.Request) {
	n := i.findLevelOr404(w, mux.Vars(r)["name"])
	if n == nil {
		return
	}

	path, err := i.model.Hierarchy.PathToMemory(n.Name)
	if err != nil {
		failOnErr(w, err)
		return
	}

	writeJSON(w, path)
}

type fieldReq struct {
	LevelName string `json:"level_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (i *Inspector) showField(w http.ResponseWriter, r *http.Request) {
	req := fieldReq{}

	err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n := i.findLevelOr404(w, req.LevelName)
	if n == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(n)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(strings.Split(req.FieldName, "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = serializer.Serialize(w)
	failOnErr(w, err)
}

type dramParamRsp struct {
	Name   string  `json:"name"`
	Cycles int     `json:"cycles"`
	NS     float64 `json:"ns"`
}

type dramRsp struct {
	FreqGHz        float64        `json:"freq_ghz"`
	TCKNS          float64        `json:"tck_ns"`
	PagePolicy     string         `json:"page_policy"`
	AddressMapping string         `json:"address_mapping"`
	CapacityMB     uint64         `json:"capacity_mb"`
	Params         []dramParamRsp `json:"params"`
}

func (i *Inspector) showDRAM(w http.ResponseWriter, _ *http.Request) {
	m := i.model
	freq := m.DRAM.Freq

	rsp := dramRsp{
		FreqGHz:        freq.InGHz(),
		TCKNS:          freq.PeriodNS(),
		PagePolicy:     string(m.DRAM.PagePolicy),
		AddressMapping: m.AddressMapping.String(),
		CapacityMB:     m.DRAMGeometry.CapacityMB(),
	}

	for _, p := range m.DRAMTiming.Params() {
		rsp.Params = append(rsp.Params, dramParamRsp{
			Name:   p.Name,
			Cycles: p.Cycles,
			NS:     freq.NS(p.Cycles),
		})
	}

	writeJSON(w, rsp)
}

type artifactRsp struct {
	Name  string `json:"name"`
	Bytes int    `json:"bytes"`
}

func (i *Inspector) listArtifacts(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]artifactRsp, 0, len(i.artifacts))
	for _, a := range i.artifacts {
		rsp = append(rsp, artifactRsp{Name: a.Name, Bytes: len(a.Content)})
	}

	writeJSON(w, rsp)
}

func (i *Inspector) showArtifact(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	for _, a := range i.artifacts {
		if a.Name == name {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, err := w.Write(a.Content)
			failOnErr(w, err)

			return
		}
	}

	http.Error(w, "Artifact not found", http.StatusNotFound)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (i *Inspector) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		failOnErr(w, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		failOnErr(w, err)
		return
	}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		failOnErr(w, err)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	})
}

func (i *Inspector) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(i.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		failOnErr(w, err)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		failOnErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	failOnErr(w, err)
}

func failOnErr(w http.ResponseWriter, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
