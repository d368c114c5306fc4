// main.go - Main entry point for the Phosphor CRT Simulator

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m")
	fmt.Println("Phosphor - a CRT beam and phosphor decay simulator.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("License: GPLv3 or later")
}

var (
	flagPhosphor   string
	flagSource     string
	flagAudioPath  string
	flagWidth      int
	flagHeight     int
	flagSampleRate int
	flagHeadless   bool
	flagLogLevel   string
	flagLoadCmd    string
)

var rootCmd = &cobra.Command{
	Use:   "phosphor",
	Short: "CRT phosphor decay and beam simulator",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulator",
	RunE:  runSimulator,
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Print compiled-in feature flags and exit",
	Run: func(cmd *cobra.Command, args []string) {
		printFeatures()
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Hot-reload a phosphor or audio file into a running instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("load requires exactly one file path argument")
		}
		return SendIPCLoad(flagLoadCmd, args[0])
	},
}

func init() {
	runCmd.Flags().StringVar(&flagPhosphor, "phosphor", "P1", "Initial phosphor name (P1, P4, P7, P11, P22R, P22G, P22B, P31)")
	runCmd.Flags().StringVar(&flagSource, "source", "oscilloscope", "Initial beam source (oscilloscope, vector, audio, external)")
	runCmd.Flags().StringVar(&flagAudioPath, "audio", "", "MP3 file path, required when --source=audio")
	runCmd.Flags().IntVar(&flagWidth, "width", 640, "Output width in pixels")
	runCmd.Flags().IntVar(&flagHeight, "height", 480, "Output height in pixels")
	runCmd.Flags().IntVar(&flagSampleRate, "sample-rate", 48000, "Beam sample rate in Hz")
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without opening a window (testing/CI)")
	runCmd.Flags().StringVar(&flagLogLevel, "log", "info", "Log level (debug, info, warn, error)")

	loadCmd.Flags().StringVar(&flagLoadCmd, "cmd", "load-phosphor", "IPC command (load-phosphor, load-audio, load-vector)")

	rootCmd.AddCommand(runCmd, featuresCmd, loadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSimulator(cmd *cobra.Command, args []string) error {
	boilerPlate()

	log := logrus.New()
	level, err := logrus.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}
	log.SetLevel(level)
	if flagHeadless {
		log.Info("--headless requested: build with -tags headless for a non-windowed binary")
	}

	backend := VIDEO_BACKEND_EBITEN
	display, err := NewVideoOutput(backend)
	if err != nil {
		log.WithError(err).Error("display init failed")
		os.Exit(1)
	}
	if err := display.SetDisplayConfig(DisplayConfig{
		Width: flagWidth, Height: flagHeight, Scale: 1, RefreshRate: 60, VSync: true,
	}); err != nil {
		log.WithError(err).Error("display config failed")
		os.Exit(1)
	}

	orch, err := NewOrchestrator(flagWidth, flagHeight, flagSampleRate, flagPhosphor, display, log)
	if err != nil {
		log.WithError(err).Error("orchestrator init failed")
		os.Exit(1)
	}

	switch flagSource {
	case "oscilloscope":
		// Orchestrator already starts on the oscilloscope source.
	case "vector":
		if err := orch.CycleSource(true); err != nil {
			return fmt.Errorf("switching to vector source: %w", err)
		}
	case "audio":
		if flagAudioPath == "" {
			return fmt.Errorf("--source=audio requires --audio <path.mp3>")
		}
		if err := orch.LoadAudioFile(flagAudioPath); err != nil {
			return fmt.Errorf("loading audio source: %w", err)
		}
	case "external":
		if err := orch.UseExternalSource(os.Stdin, log); err != nil {
			return fmt.Errorf("starting external source: %w", err)
		}
	default:
		return fmt.Errorf("unknown --source %q", flagSource)
	}

	overlay := NewDebugOverlay(orch)
	if kb, ok := display.(KeyboardInput); ok {
		kb.SetKeyHandler(func(k UIKey) {
			switch k {
			case UIKeyToggleOverlay:
				overlay.Toggle()
			case UIKeyQuit:
				orch.Stop()
				os.Exit(0)
			default:
				orch.HandleUIKey(k)
			}
		})
	}
	if eo, ok := display.(*EbitenOutput); ok {
		eo.SetOverlay(overlay)
	}

	ipc, err := NewIPCServer(func(cmd, path string) error {
		switch cmd {
		case "load-phosphor":
			return orch.LoadPhosphorFile(path)
		case "load-audio":
			return orch.LoadAudioFile(path)
		case "load-vector":
			return orch.LoadVectorFile(path)
		}
		return fmt.Errorf("unknown ipc command %q", cmd)
	})
	if err != nil {
		log.WithError(err).Warn("IPC server unavailable, continuing without hot-reload")
	} else {
		ipc.Start()
		defer ipc.Stop()
	}

	orch.Start()
	defer orch.Stop()

	if err := display.Start(); err != nil {
		log.WithError(err).Error("display start failed")
		os.Exit(1)
	}
	defer display.Close()

	statusDone := make(chan struct{})
	go runStatusLine(statusDone, orch)
	defer close(statusDone)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	return nil
}
