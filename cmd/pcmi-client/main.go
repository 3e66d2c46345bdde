// pcmi-client talks to a Valco controller over RS-485: a one-shot
// `download` command tree for ad-hoc inspection, and a `run` daemon that
// polls continuously and republishes records onto a ZeroMQ PUB socket and
// a WebSocket monitor feed, using a `rootCmd`/`runCmd`/`versionCmd` cobra
// structure.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	pcmiclient "github.com/agsys/pcmi-client"
	"github.com/agsys/pcmi-client/internal/config"
	"github.com/agsys/pcmi-client/internal/monitor"
	"github.com/agsys/pcmi-client/internal/pcmilog"
	"github.com/agsys/pcmi-client/internal/streaming"
	"github.com/agsys/pcmi-client/internal/transport"
)

const clientVersion = "0.1.0"

var (
	configFile string
	pollEvery  time.Duration
	zoneArg    int
	groupArg   int

	rootCmd = &cobra.Command{
		Use:   "pcmi-client",
		Short: "PCMI protocol client for Valco agricultural climate controllers",
		Long:  "Connects to a Valco controller over RS-485, downloads zone/device/alarm records, and optionally republishes them over ZeroMQ and a WebSocket monitor feed.",
	}

	downloadCmd = &cobra.Command{
		Use:   "download",
		Short: "Run one download operation and print the results",
	}

	downloadZonesCmd = &cobra.Command{
		Use:   "zones <serial>",
		Short: "Download zone parameters and variables",
		Args:  cobra.ExactArgs(1),
		RunE:  downloadZones,
	}

	downloadDevicesCmd = &cobra.Command{
		Use:   "devices <serial>",
		Short: "Download device parameters and variables",
		Args:  cobra.ExactArgs(1),
		RunE:  downloadDevices,
	}

	downloadHistoryCmd = &cobra.Command{
		Use:   "history <serial>",
		Short: "Download history samples for --zone and --group",
		Args:  cobra.ExactArgs(1),
		RunE:  downloadHistory,
	}

	downloadAlarmsCmd = &cobra.Command{
		Use:   "alarms <serial>",
		Short: "Download the alarm list for --zone (0 for all zones)",
		Args:  cobra.ExactArgs(1),
		RunE:  downloadAlarms,
	}

	downloadVersionCmd = &cobra.Command{
		Use:   "version <serial>",
		Short: "Download the controller's firmware version string",
		Args:  cobra.ExactArgs(1),
		RunE:  downloadVersion,
	}

	runCmd = &cobra.Command{
		Use:   "run <serial>",
		Short: "Connect to a controller and poll it continuously",
		Args:  cobra.ExactArgs(1),
		RunE:  runPoll,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print client version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pcmi-client v%s\n", clientVersion)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/pcmi-client/config.yaml", "configuration file path")

	downloadHistoryCmd.Flags().IntVar(&zoneArg, "zone", 0, "zone number (0 for all zones)")
	downloadHistoryCmd.Flags().IntVar(&groupArg, "group", 1, "history group (1=temperature, 2=humidity, ...)")
	downloadAlarmsCmd.Flags().IntVar(&zoneArg, "zone", 0, "zone number (0 for all zones)")

	downloadCmd.AddCommand(downloadZonesCmd, downloadDevicesCmd, downloadHistoryCmd, downloadAlarmsCmd, downloadVersionCmd)

	runCmd.Flags().DurationVar(&pollEvery, "poll-interval", 30*time.Second, "delay between download cycles")

	rootCmd.AddCommand(downloadCmd, runCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient loads the config file, opens a real serial transport, and
// builds a logging-equipped Client -- the setup every subcommand shares.
func newClient(serialNumber string) (*pcmiclient.Client, *config.Config, *pcmilog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := pcmilog.New(os.Stderr, serialNumber, pcmilog.LevelInfo)
	tr := transport.NewSerialTransport(cfg.Serial.Port, cfg.Serial.Baud, config.ReadTimeout())
	client := pcmiclient.New(tr, cfg.Timeout(), cfg.Client.MaxRetries)
	client.SetLogger(log)
	return client, cfg, log, nil
}

func downloadZones(cmd *cobra.Command, args []string) error {
	return withConnection(args[0], func(ctx context.Context, client *pcmiclient.Client) error {
		params, err := client.DownloadZoneParameters(ctx)
		if err != nil {
			return fmt.Errorf("download zone parameters: %w", err)
		}
		if err := printAll(ctx, params, "zone parameters"); err != nil {
			return err
		}

		vars, err := client.DownloadZoneVariables(ctx)
		if err != nil {
			return fmt.Errorf("download zone variables: %w", err)
		}
		return printAll(ctx, vars, "zone variables")
	})
}

func downloadDevices(cmd *cobra.Command, args []string) error {
	return withConnection(args[0], func(ctx context.Context, client *pcmiclient.Client) error {
		params, err := client.DownloadDeviceParameters(ctx, byte(zoneArg))
		if err != nil {
			return fmt.Errorf("download device parameters: %w", err)
		}
		if err := printAll(ctx, params, "device parameters"); err != nil {
			return err
		}

		vars, err := client.DownloadDeviceVariables(ctx, byte(zoneArg))
		if err != nil {
			return fmt.Errorf("download device variables: %w", err)
		}
		return printAll(ctx, vars, "device variables")
	})
}

func downloadHistory(cmd *cobra.Command, args []string) error {
	return withConnection(args[0], func(ctx context.Context, client *pcmiclient.Client) error {
		stream, err := client.DownloadHistory(ctx, byte(zoneArg), byte(groupArg))
		if err != nil {
			return fmt.Errorf("download history: %w", err)
		}
		return printAll(ctx, stream, "history records")
	})
}

func downloadAlarms(cmd *cobra.Command, args []string) error {
	return withConnection(args[0], func(ctx context.Context, client *pcmiclient.Client) error {
		stream, err := client.DownloadAlarms(ctx, byte(zoneArg))
		if err != nil {
			return fmt.Errorf("download alarms: %w", err)
		}
		return printAll(ctx, stream, "alarm lists")
	})
}

func downloadVersion(cmd *cobra.Command, args []string) error {
	return withConnection(args[0], func(ctx context.Context, client *pcmiclient.Client) error {
		v, err := client.DownloadVersion(ctx)
		if err != nil {
			return fmt.Errorf("download version: %w", err)
		}
		fmt.Printf("%+v\n", *v)
		return nil
	})
}

// withConnection connects to serialNumber, runs fn, and disconnects
// regardless of fn's outcome.
func withConnection(serialNumber string, fn func(ctx context.Context, client *pcmiclient.Client) error) error {
	client, _, _, err := newClient(serialNumber)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Connect(ctx, serialNumber); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Disconnect(ctx)

	return fn(ctx, client)
}

// recordStream is the subset of *pcmiclient.RecordStream[T] this command
// tree needs, shared by printAll and drain via a type parameter.
type recordStream[T any] interface {
	Next(ctx context.Context) (T, bool, error)
}

func printAll[T any](ctx context.Context, stream recordStream[T], label string) error {
	count := 0
	for {
		record, ok, err := stream.Next(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		if !ok {
			fmt.Printf("-- %d %s --\n", count, label)
			return nil
		}
		fmt.Printf("%+v\n", record)
		count++
	}
}

func runPoll(cmd *cobra.Command, args []string) error {
	serialNumber := args[0]

	client, cfg, log, err := newClient(serialNumber)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pub *streaming.Publisher
	if cfg.Streaming.ZMQEndpoint != "" {
		pub, err = streaming.NewPublisher(ctx, cfg.Streaming.ZMQEndpoint)
		if err != nil {
			return fmt.Errorf("start streaming publisher: %w", err)
		}
		defer pub.Close()
		log.Info("streaming records on %s", pub.Endpoint())
	}

	var mon *monitor.Bridge
	if cfg.Monitor.ListenAddr != "" {
		mon = monitor.New(monitor.Config{ListenAddr: cfg.Monitor.ListenAddr, PingInterval: 30 * time.Second, WriteTimeout: 10 * time.Second, SendBuffer: 100})
		if err := mon.Start(); err != nil {
			return fmt.Errorf("start monitor bridge: %w", err)
		}
		defer mon.Stop()
		log.Info("monitor listening on %s", cfg.Monitor.ListenAddr)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()

	poll := func() {
		if err := pollOnce(ctx, client, pub, mon, serialNumber, log); err != nil {
			log.Error("poll cycle failed: %v", err)
			if mon != nil {
				mon.Broadcast(monitor.MsgTypeError, struct {
					Error string `json:"error"`
				}{Error: err.Error()})
			}
		}
	}

	poll()
	for {
		select {
		case sig := <-sigChan:
			log.Info("received signal %v, shutting down", sig)
			_ = client.Disconnect(ctx)
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

// pollOnce connects, downloads zone parameters, zone variables and alarms
// once each, republishes each record as it arrives, and disconnects -- the polling unit the run loop
// repeats on pollEvery.
func pollOnce(ctx context.Context, client *pcmiclient.Client, pub *streaming.Publisher, mon *monitor.Bridge, serialNumber string, log *pcmilog.Logger) error {
	if err := client.Connect(ctx, serialNumber); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer client.Disconnect(ctx)

	if mon != nil {
		mon.Broadcast(monitor.MsgTypeState, struct {
			State string `json:"state"`
		}{State: client.State().String()})
	}

	zoneParams, err := client.DownloadZoneParameters(ctx)
	if err != nil {
		return fmt.Errorf("download zone parameters: %w", err)
	}
	if err := drain(ctx, zoneParams, "zone_parameters", serialNumber, pub, mon); err != nil {
		return err
	}

	zoneVars, err := client.DownloadZoneVariables(ctx)
	if err != nil {
		return fmt.Errorf("download zone variables: %w", err)
	}
	if err := drain(ctx, zoneVars, "zone_variables", serialNumber, pub, mon); err != nil {
		return err
	}

	alarms, err := client.DownloadAlarms(ctx, 0)
	if err != nil {
		return fmt.Errorf("download alarms: %w", err)
	}
	if err := drain(ctx, alarms, "alarms", serialNumber, pub, mon); err != nil {
		return err
	}

	log.Debug("poll cycle complete")
	return nil
}

func drain[T any](ctx context.Context, stream recordStream[T], topic, serialNumber string, pub *streaming.Publisher, mon *monitor.Bridge) error {
	for {
		record, ok, err := stream.Next(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", topic, err)
		}
		if !ok {
			return nil
		}
		if pub != nil {
			if err := pub.Publish(topic, serialNumber, 0, record); err != nil {
				return fmt.Errorf("publish %s: %w", topic, err)
			}
		}
		if mon != nil {
			mon.Broadcast(monitor.MsgTypeRecord, record)
		}
	}
}
