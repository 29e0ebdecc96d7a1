//go:build tinygo

package main

// WARNING: default -scheduler=cores unsupported, compile with -scheduler=tasks set!

import (
	"context"
	"log/slog"
	"machine"
	"net/netip"
	"runtime"
	"time"

	"openenterprise/tinydash/config"
	"openenterprise/tinydash/display"
	"openenterprise/tinydash/httpserver"
	"openenterprise/tinydash/input"
	"openenterprise/tinydash/logging"
	"openenterprise/tinydash/metrics"
	"openenterprise/tinydash/ota"
	"openenterprise/tinydash/pipeline"
	"openenterprise/tinydash/power"
	"openenterprise/tinydash/storage"
	"openenterprise/tinydash/telemetry"
	"openenterprise/tinydash/ui"
	"openenterprise/tinydash/version"

	"github.com/soypat/cyw43439"
	"github.com/soypat/cyw43439/examples/cywnet"
	"github.com/soypat/lneto/x/xnet"
)

const pollTime = 5 * time.Millisecond

var requestedIP = [4]byte{192, 168, 1, 60}

// globalCyStack is stashed so the OTA Wi-Fi shutdown hook can reach the
// running Wi-Fi stack to tear it down before a reboot.
var globalCyStack *cywnet.Stack

// systemHealthy gates the watchdog feed. Set false by fatalError; nothing
// else currently drives it false, since the dashboard has no periodic
// network fetch whose repeated failure would need its own threshold.
var systemHealthy = true

// fatalError stops feeding the watchdog and waits for it to reset the
// device, falling back to a software reboot via ota.Reboot() if the
// watchdog somehow doesn't fire.
func fatalError(msg string) {
	println(msg)
	systemHealthy = false
	for i := 0; i < 15; i++ {
		time.Sleep(time.Second)
	}
	println("watchdog timeout did not fire - forcing software reset")
	ota.Reboot()
	for {
		time.Sleep(time.Second)
	}
}

func feedWatchdogIfHealthy() {
	if systemHealthy {
		machine.Watchdog.Update()
	}
}

func sleepWithWatchdog(d time.Duration) {
	for d > 0 {
		chunk := 2 * time.Second
		if d < chunk {
			chunk = d
		}
		time.Sleep(chunk)
		feedWatchdogIfHealthy()
		d -= chunk
	}
}

// fanoutHandler writes every record to both a console/ring/telnet sink and
// the OTLP telemetry queue, since logging.Handler and telemetry.SlogHandler
// each own one half of that job and slog has no built-in multi-handler.
type fanoutHandler struct {
	primary   slog.Handler
	telemetry slog.Handler
}

func (f fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.primary.Enabled(ctx, level)
}

func (f fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	err := f.primary.Handle(ctx, r)
	_ = f.telemetry.Handle(ctx, r)
	return err
}

func (f fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return fanoutHandler{primary: f.primary.WithAttrs(attrs), telemetry: f.telemetry.WithAttrs(attrs)}
}

func (f fanoutHandler) WithGroup(name string) slog.Handler {
	return fanoutHandler{primary: f.primary.WithGroup(name), telemetry: f.telemetry.WithGroup(name)}
}

// wifiStatusAdapter implements pipeline.RSSIProvider over the cywnet
// stack. cywnet/cyw43439 expose no RSSI or live-SSID accessor of their
// own; Connected is approximated by whether DHCP has ever completed, and
// SSID by the configured value, since that's the only data this stack
// version actually offers.
type wifiStatusAdapter struct {
	ssid      string
	connected bool
}

func (w *wifiStatusAdapter) RSSI() (int8, error) {
	// cyw43439/cywnet expose no signal-strength reading; report
	// not-supported rather than a fabricated number.
	return 0, errRSSIUnsupported
}

func (w *wifiStatusAdapter) Connected() bool { return w.connected }
func (w *wifiStatusAdapter) SSID() string    { return w.ssid }

var errRSSIUnsupported = rssiUnsupportedErr{}

type rssiUnsupportedErr struct{}

func (rssiUnsupportedErr) Error() string { return "wifi: RSSI not exposed by this driver" }

// otaController adapts a freshly created ota.Writer per upload to
// httpserver.OTAController, gated by the live config's OTAEnabled flag.
type otaController struct {
	enabled func() bool
	writer  *ota.Writer
}

func (c *otaController) Enabled() bool { return c.enabled() }

func (c *otaController) Begin(size uint32) error {
	if !c.enabled() {
		return errOTADisabled
	}
	w, err := ota.NewWriter(size)
	if err != nil {
		return err
	}
	c.writer = w
	return nil
}

func (c *otaController) Write(chunk []byte) error {
	if c.writer == nil {
		return errOTANotStarted
	}
	return c.writer.WriteChunk(chunk)
}

func (c *otaController) Finish(expectedHashHex string) error {
	if c.writer == nil {
		return errOTANotStarted
	}
	return c.writer.Finish(expectedHashHex)
}

func (c *otaController) Status() (ota.Status, uint8) {
	if c.writer == nil {
		return ota.Idle, 0
	}
	s := c.writer.Session()
	return s.Status(), s.ProgressPercent()
}

var (
	errOTADisabled   = otaErr("ota: disabled in current configuration")
	errOTANotStarted = otaErr("ota: no upload in progress")
)

type otaErr string

func (e otaErr) Error() string { return string(e) }

// buttonPins and panelPins name the button and panel GPIOs the reference
// board wires up; the sensor task's ADC and charge-detect pins are set
// where it is built in main. Fixed per board, no runtime discovery, the same
// convention display.PanelPins and input.Pins already document.
var (
	panelPins = display.PanelPins{
		Data:      [8]machine.Pin{machine.GPIO1, machine.GPIO2, machine.GPIO3, machine.GPIO4, machine.GPIO5, machine.GPIO6, machine.GPIO7, machine.GPIO8},
		WR:        machine.GPIO9,
		RD:        machine.GPIO10,
		DC:        machine.GPIO11,
		CS:        machine.GPIO12,
		RST:       machine.GPIO13,
		Power:     machine.GPIO14,
		Backlight: machine.GPIO15,
	}
	buttonPins = input.Pins{
		Button1: machine.GPIO16,
		Button2: machine.GPIO17,
	}
)

func main() {
	// CRITICAL: confirm the OTA partition immediately, before any delay,
	// to prevent the ESP-IDF rollback window from reverting us.
	confirmCode := ota.ConfirmPartitionWithCode()

	time.Sleep(2 * time.Second) // let USB serial settle before the banner.
	println("========================================")
	println("  tinydash")
	println("  Version:", version.Version)
	println("  Git SHA:", version.GitSHA)
	println("  Built:  ", version.BuildDate)
	println("  Build:  ", version.BuildMarker)
	println("========================================")

	if ota.GetCurrentPartition() == ota.PartitionA {
		println("ota: booted from partition A")
	} else {
		println("ota: booted from partition B")
	}
	if confirmCode != 0 {
		println("ota: partition confirm returned", confirmCode)
	} else {
		println("ota: partition confirmed")
	}

	ring := logging.NewRing(200)
	telnet := logging.NewTelnet(ring, nil)
	consoleHandler := logging.NewHandler(machine.Serial, ring, telnet, &slog.HandlerOptions{Level: slog.LevelDebug})
	telemetryHandler := telemetry.NewSlogHandler(machine.Serial, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(fanoutHandler{primary: consoleHandler, telemetry: telemetryHandler})

	// Network-stack logger: suppress the cywnet driver's routine
	// "packet dropped" noise by setting the threshold above slog's
	// highest built-in level.
	netLogger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.Level(12),
	}))

	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 8000})
	machine.Watchdog.Start()
	logger.Info("init:watchdog-started")

	store := config.NVSStore{}
	cfg := config.Load(store, logger)
	logger.Info("config:loaded", slog.String("ssid", cfg.SSID), slog.Bool("ota_enabled", cfg.OTAEnabled))

	snap := metrics.New(time.Now())
	snap.SetFirmwareVersion(version.Version)
	snap.SetSSID(cfg.SSID)

	fb := display.New(logger, display.PSRAMAllocator{})
	dirty := &display.DirtySet{}
	canvas := display.NewCanvas(fb, dirty)
	panel := display.NewPanel(panelPins)
	panel.Configure()
	if panel.Degraded() {
		logger.Warn("display:panel-degraded")
	}
	panel.SetBacklight(true)

	theme := ui.Dark
	if cfg.Theme == config.ThemeLight {
		theme = ui.Light
	}
	uiState := ui.NewState(theme,
		ui.NewSystemScreen(),
		ui.NewNetworkScreen(),
		ui.NewSensorsScreen(),
		ui.NewSettingsScreen(),
	)

	powerMgr := power.NewManager(time.Now())
	powerMgr.DimmedTimeout = time.Duration(cfg.DimTimeoutSec) * time.Second
	powerMgr.PowerSaveTimeout = time.Duration(cfg.SleepTimeoutSec) * time.Second

	buttonPins.Configure()
	inputMgr := &input.Manager{OnActivity: func() { powerMgr.NotifyActivity(time.Now()) }}

	proc := pipeline.NewProcessor(logger)
	sensorTask := &pipeline.SensorTask{
		TempADC:      machine.ADC{Pin: machine.GPIO18},
		BatteryADC:   machine.ADC{Pin: machine.GPIO19},
		ChargeDetect: machine.GPIO20,
		Out:          proc.SensorQ,
		Logger:       logger,
	}
	sensorTask.Configure()

	shutdown := make(chan struct{})

	// Register the WiFi shutdown hook before anything might reboot.
	ota.SetWiFiShutdown(func() {
		logger.Info("ota:wifi-shutdown")
		time.Sleep(100 * time.Millisecond)
	})

	devcfg := cyw43439.DefaultWifiConfig()
	devcfg.Logger = netLogger
	cystack, err := cywnet.NewConfiguredPicoWithStack(
		cfg.SSID,
		cfg.Password,
		devcfg,
		cywnet.StackConfig{
			Hostname:    "tinydash",
			MaxTCPPorts: 3, // HTTP + telnet + headroom for a second HTTP slot
		},
	)
	if err != nil {
		logger.Error("wifi:setup-failed", slog.String("err", err.Error()))
		fatalError("WiFi setup failed - waiting for reset...")
	}
	globalCyStack = cystack
	wifiStatus := &wifiStatusAdapter{ssid: cfg.SSID}

	go loopForeverStack(cystack)

	dhcpResults, err := cystack.SetupWithDHCP(cywnet.DHCPConfig{
		RequestedAddr: netip.AddrFrom4(requestedIP),
	})
	if err != nil {
		logger.Error("dhcp:failed", slog.String("err", err.Error()))
		fatalError("DHCP failed - waiting for reset...")
	}
	wifiStatus.connected = true
	logger.Info("dhcp:complete", slog.String("addr", dhcpResults.AssignedAddr.String()))
	snap.SetWiFi(0, true)

	stack := cystack.LnetoStack()

	logger.Info("ntp:init", slog.String("server", config.DefaultNTPServer))
	if _, err := syncNTP(stack, dhcpResults.DNSServers, logger); err != nil {
		logger.Warn("ntp:init-failed", slog.String("err", err.Error()))
	}

	if collectorAddr, err := config.TelemetryCollectorAddr(); err != nil {
		logger.Warn("telemetry:config-invalid", slog.String("err", err.Error()))
	} else if err := telemetry.Init(stack, logger, collectorAddr); err != nil {
		logger.Warn("telemetry:init-failed", slog.String("err", err.Error()))
	}

	if cfg.MQTTEnabled {
		if brokerAddr, err := netip.ParseAddrPort(cfg.MQTTBroker); err != nil {
			logger.Warn("mqtt:broker-invalid", slog.String("err", err.Error()))
		} else {
			go publishMetricsLoop(stack, brokerAddr, cfg.MQTTTopic, snap, logger)
		}
	}

	go func() { telnet.Serve(stack) }()

	storageMgr := storage.NewManager(store, func() int64 { return time.Now().Unix() })

	currentCfg := cfg
	otaCtl := &otaController{enabled: func() bool { return currentCfg.OTAEnabled }}

	router := &httpserver.Router{}
	httpserver.PageRoutes(router, snap, otaCtl.Enabled)
	httpserver.MetricsRoutes(router, snap)
	httpserver.SystemRoutes(router, snap, func() { ota.Reboot() })
	httpserver.ConfigRoutes(router, store, func() config.Config { return currentCfg }, func(next config.Config) {
		currentCfg = next
		powerMgr.DimmedTimeout = time.Duration(next.DimTimeoutSec) * time.Second
		powerMgr.PowerSaveTimeout = time.Duration(next.SleepTimeoutSec) * time.Second
		if next.Theme == config.ThemeLight {
			uiState.SetTheme(ui.Light)
		} else {
			uiState.SetTheme(ui.Dark)
		}
	})
	httpserver.OTARoutes(router, otaCtl, func() { ota.Reboot() })
	httpserver.FileRoutes(router, storageMgr)
	httpserver.LogRoutes(router, ring)
	httpserver.EventRoutes(router, snap)

	httpSrv := &httpserver.Server{Router: router, Logger: logger, Port: 80}
	go httpSrv.Serve(stack)

	go proc.Run(100*time.Millisecond, shutdown, feedWatchdogIfHealthy)
	go sensorTask.Run(5*time.Second, shutdown, feedWatchdogIfHealthy)
	go (&pipeline.NetworkMonitor{Provider: wifiStatus, Out: proc.NetworkQ, Logger: logger}).Run(10*time.Second, shutdown, feedWatchdogIfHealthy)

	logger.Info("init:complete", slog.String("version", version.Version))

	renderLoop(fb, canvas, dirty, panel, uiState, powerMgr, inputMgr, proc, snap, logger)
}

// renderLoop is the Core A equivalent: drain the processed-metrics queue,
// poll input, tick the power state machine, render, and flush dirty
// rectangles to the panel. TinyGo exposes no real core-affinity API, so
// this and the Core B goroutines above are pinned only by convention, the
// same "goroutines standing in for cores" approach pipeline's own doc
// comment already describes.
func renderLoop(fb *display.Framebuffer, canvas *display.Canvas, dirty *display.DirtySet, panel *display.Panel, uiState *ui.State, powerMgr *power.Manager, inputMgr *input.Manager, proc *pipeline.Processor, snap *metrics.Snapshot, logger *slog.Logger) {
	var frame uint32
	for {
		now := time.Now()
		feedWatchdogIfHealthy()

		if update, ok := pipeline.DrainLatest(proc.ProcessedQ); ok {
			snap.SetTemperature(update.TemperatureFilteredX10)
			snap.SetTemperatureCurve(float64(update.TemperatureRawX10)/10, float64(update.TemperatureFilteredX10)/10)
			snap.SetBattery(update.BatteryPercent, update.BatteryMV, update.Charging)
			snap.SetWiFi(update.RSSI, update.Connected)
			if update.SSID != "" {
				snap.SetSSID(update.SSID)
			}
			powerMgr.NotifyBattery(update.BatteryPercent)
		}

		switch inputMgr.PollHardware(buttonPins) {
		case input.PreviousScreen:
			uiState.PreviousScreen()
		case input.NextScreen:
			uiState.NextScreen()
		}

		level := powerMgr.Level()
		panel.SetBacklight(powerMgr.Tick(now) != power.Sleep)
		snap.SetBrightness(uint8(level.BrightnessPercent))

		renderStart := time.Now()
		uiState.RenderTick(canvas, snap)
		renderMS := uint16(time.Since(renderStart).Milliseconds())

		flushStart := time.Now()
		flushDirty(fb, dirty, panel)
		flushMS := uint16(time.Since(flushStart).Milliseconds())

		frame++
		snap.AddFrame(renderMS, flushMS, false)
		if frame%30 == 0 {
			fps := uint16(0)
			if period := level.RefreshPeriod; period > 0 {
				fps = uint16(time.Second / period)
			}
			snap.SetFPS(fps*10, uint8(fps))
		}

		time.Sleep(level.RefreshPeriod)
	}
}

// flushDirty swaps so the just-drawn buffer becomes the flush-stable front
// buffer, writes every accumulated dirty rectangle from it to the panel,
// then clears the dirty set.
func flushDirty(fb *display.Framebuffer, dirty *display.DirtySet, panel *display.Panel) {
	if dirty.Len() == 0 {
		return
	}
	fb.Swap()
	dirty.Iter(func(r display.Rect) {
		region := fb.GetRegion(r.X, r.Y, r.W, r.H)
		if region == nil {
			return
		}
		panel.SetWindow(r.X, r.Y, r.X+r.W-1, r.Y+r.H-1)
		panel.WritePixels(region)
	})
	dirty.Clear()
}

// loopForeverStack processes network packets in the background, feeding
// the watchdog every ~100 iterations.
func loopForeverStack(stack *cywnet.Stack) {
	var count int
	for {
		send, recv, _ := stack.RecvAndSend()
		if send == 0 && recv == 0 {
			time.Sleep(pollTime)
		}
		count++
		if count >= 100 {
			feedWatchdogIfHealthy()
			count = 0
		}
	}
}

// publishMetricsLoop periodically ships the current snapshot over MQTT
// when config.Config.MQTTEnabled, alongside the HTTP/OTLP telemetry path.
func publishMetricsLoop(stack *xnet.StackAsync, broker netip.AddrPort, topic string, snap *metrics.Snapshot, logger *slog.Logger) {
	for {
		sleepWithWatchdog(30 * time.Second)
		if _, err := telemetry.PublishMetricsMQTT(stack, broker, topic, logger); err != nil {
			logger.Warn("mqtt:publish-failed", slog.String("err", err.Error()))
		}
	}
}

// ntpFallbackServers are tried in order after the configured primary.
var ntpFallbackServers = []string{
	"time.cloudflare.com",
	"time.google.com",
	"pool.ntp.org",
}

// syncNTP resolves and queries NTP servers with exponential backoff
// (500ms, capped at 30s), applying the first successful offset via
// runtime.AdjustTimeOffset.
func syncNTP(stack *xnet.StackAsync, dnsServers []netip.Addr, logger *slog.Logger) (time.Duration, error) {
	servers := []string{config.DefaultNTPServer}
	for _, fallback := range ntpFallbackServers {
		if fallback != servers[0] {
			servers = append(servers, fallback)
		}
	}

	rstack := stack.StackRetrying(pollTime)
	var lastErr error
	backoff := 500 * time.Millisecond
	const maxBackoff = 30 * time.Second

	for _, host := range servers {
		logger.Info("ntp:trying", slog.String("server", host))
		feedWatchdogIfHealthy()
		time.Sleep(100 * time.Millisecond)

		addrs, err := rstack.DoLookupIP(host, 5*time.Second, 2)
		if err != nil {
			logger.Warn("ntp:dns-failed", slog.String("server", host), slog.String("err", err.Error()))
			lastErr = err
			sleepWithWatchdog(backoff)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		for _, addr := range addrs {
			feedWatchdogIfHealthy()
			time.Sleep(200 * time.Millisecond)

			offset, err := rstack.DoNTP(addr, 5*time.Second, 3)
			if err != nil {
				logger.Warn("ntp:addr-failed", slog.String("addr", addr.String()), slog.String("err", err.Error()))
				lastErr = err
				sleepWithWatchdog(backoff)
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				continue
			}

			runtime.AdjustTimeOffset(int64(offset))
			logger.Info("ntp:synced", slog.String("server", host), slog.Duration("offset", offset))
			return offset, nil
		}
	}

	logger.Error("ntp:all-failed", slog.Int("servers_tried", len(servers)))
	return 0, lastErr
}
