package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jamdev/jamnode/codec"
	"github.com/jamdev/jamnode/importer"
	"github.com/jamdev/jamnode/log"
	"github.com/jamdev/jamnode/metrics"
	"github.com/jamdev/jamnode/node"
	"github.com/jamdev/jamnode/state"
	"github.com/jamdev/jamnode/telemetry"
	"github.com/jamdev/jamnode/types"
)

// runServe implements `jamnode serve`: a long-running node.Lifecycle wiring
// the block importer, an optional Prometheus scrape endpoint, and an
// optional JIP-3 telemetry connection together behind the same event bus.
// With --once it runs a single import pass over --watch-dir and returns
// instead of waiting on a shutdown signal, the shape test runs use.
func runServe(args []string) int {
	fs := newFlagSet("serve")
	configPath := fs.String("config", "", "chain-spec YAML path (defaults to the built-in spec)")
	watchDir := fs.String("watch-dir", "", "directory of encoded blocks to import, oldest-name first")
	metricsAddr := fs.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
	telemetryAddr := fs.String("telemetry-addr", "", "if set, connect a JIP-3 telemetry client to this address")
	once := fs.Bool("once", false, "run a single import pass over watch-dir and exit, instead of serving until a shutdown signal")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *watchDir == "" {
		fmt.Fprintln(os.Stderr, "usage: jamnode serve --watch-dir <dir> [--config path] [--metrics-addr addr] [--telemetry-addr addr] [--once]")
		return 3
	}

	cs, code := loadSpec(*configPath)
	if code != 0 {
		return code
	}
	if _, err := os.Stat(*watchDir); err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: %v\n", err)
		return 2
	}

	logger := log.Default().Module("serve")

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: metrics: %v\n", err)
		return 3
	}

	bi := &importer.BlockImporter{
		Svc:     state.NewStateService(state.New(cs.NumCores, int(cs.EpochLength))),
		Params:  cs.SafroleParams(),
		Version: cs.Version,
		Suite:   defaultSuite(),
		Metrics: m,
	}

	bus := node.NewEventBus(64)
	defer bus.Close()
	lm := node.NewLifecycle(node.DefaultConfig())

	imp := &importService{bi: bi, bus: bus, dir: *watchDir, logger: logger, bounds: cs.ExtrinsicBounds(), epochLen: int(cs.EpochLength), numValidators: cs.NumValidators, maxOffenders: cs.MaxOffenders}
	if err := lm.Register(imp, 10); err != nil {
		fmt.Fprintf(os.Stderr, "jamnode: %v\n", err)
		return 3
	}

	var telSvc *telemetryService
	if *telemetryAddr != "" {
		telSvc = &telemetryService{addr: *telemetryAddr, client: telemetry.NewClient(telemetry.NodeInfo{ImplName: "jamnode", ImplVersion: "0.1"})}
		if err := lm.Register(telSvc, 20); err != nil {
			fmt.Fprintf(os.Stderr, "jamnode: %v\n", err)
			return 3
		}
	}

	var httpServer *http.Server
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		httpServer = &http.Server{Addr: *metricsAddr, Handler: mux}
		ln, err := net.Listen("tcp", *metricsAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jamnode: metrics listener: %v\n", err)
			return 2
		}
		go httpServer.Serve(ln)
		logger.Info("metrics endpoint listening", "addr", *metricsAddr)
	}

	for _, err := range lm.StartAll() {
		logger.Error("service failed to start", "err", err)
	}

	if *once {
		imp.runOnce()
	} else {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
	}

	for _, err := range lm.StopAll() {
		logger.Error("service failed to stop", "err", err)
	}
	if httpServer != nil {
		httpServer.Close()
	}

	logger.Info("serve exiting", "blocks_imported", imp.imported)
	return 0
}

// importService polls dir for encoded block files and imports them in
// filename order, publishing a node.Event per outcome.
type importService struct {
	bi            *importer.BlockImporter
	bus           *node.EventBus
	dir           string
	logger        *log.Logger
	bounds        types.ExtrinsicBounds
	epochLen      int
	numValidators int
	maxOffenders  int

	mu       sync.Mutex
	seen     map[string]bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
	imported int
}

func (s *importService) Name() string { return "block-importer" }

func (s *importService) Start() error {
	s.seen = make(map[string]bool)
	s.stopCh = make(chan struct{})
	s.runOnce()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.runOnce()
			}
		}
	}()
	return nil
}

func (s *importService) Stop() error {
	close(s.stopCh)
	s.wg.Wait()
	return nil
}

// runOnce imports every not-yet-seen file in dir, in name order.
func (s *importService) runOnce() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("reading watch dir", "err", err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		if s.seen[name] {
			continue
		}
		s.seen[name] = true
		s.importFile(filepath.Join(s.dir, name))
	}
}

func (s *importService) importFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error("reading block file", "path", path, "err", err)
		return
	}
	block, err := types.DecodeBlock(codec.NewDecoder(data), s.epochLen, s.numValidators, s.maxOffenders, s.bounds)
	if err != nil {
		s.logger.Warn("decode failed", "path", path, "err", err)
		s.bus.PublishAsync(node.TopicBlockRejected, path)
		return
	}
	if _, err := s.bi.Import(block); err != nil {
		s.logger.Warn("import rejected", "path", path, "err", err)
		s.bus.PublishAsync(node.TopicBlockRejected, block.Header.Timeslot)
		return
	}
	s.imported++
	s.logger.Info("imported block", "path", path, "slot", block.Header.Timeslot)
	s.bus.PublishAsync(node.TopicBlockImported, block.Header.Timeslot)
}

// telemetryService dials addr on Start and reconnects (without resending the
// node-info preamble) on Resume, satisfying node.Suspendable.
type telemetryService struct {
	addr   string
	client *telemetry.Client
	conn   net.Conn
}

func (t *telemetryService) Name() string { return "telemetry" }

func (t *telemetryService) Start() error {
	conn, err := net.Dial("tcp", t.addr)
	if err != nil {
		return err
	}
	t.conn = conn
	t.client.Connect(conn)
	return nil
}

func (t *telemetryService) Stop() error {
	t.client.Disconnect()
	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}

func (t *telemetryService) Suspend() error { return t.Stop() }

func (t *telemetryService) Resume() error { return t.Start() }
