package main

/*------------------------------------------------------------------
 *
 * Purpose:   	MT63 through the "sound card."
 *
 * Description:	With no -t option, receive until interrupted and print
 *		the text as it comes in.
 *
 *		With -t, send the text from the arguments, or stdin
 *		when there are none, then exit.  PTT is keyed for the
 *		duration if configured.
 *
 *		The audio device is read on its own goroutine and the
 *		blocks are handed over to the decoder through a channel,
 *		so a slow decode doesn't cause the device to overrun
 *		until the channel is full.
 *
 *---------------------------------------------------------------*/

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	mt63 "github.com/doismellburning/mt63/src"
)

const (
	framesPerBuffer = 1024
	blockQueue      = 32 // About 4 seconds at 8000 samples per second.
)

var logger = mt63.Logger()

func main() {
	var configFile = pflag.StringP("config", "c", "", "YAML configuration file.  Options below override it.")
	var bandwidth = pflag.IntP("bandwidth", "B", 1000, "Bandwidth, Hz.  500, 1000, or 2000.")
	var long = pflag.BoolP("long-interleave", "l", false, "Long (64 symbol) interleave rather than short (32).")
	var integration = pflag.IntP("integration", "i", 16, "Integration period, symbols.  Even, at least 2.")
	var squelch = pflag.Float64P("squelch", "q", 8.0, "Drop characters with signal to noise ratio below this.")
	var txLevel = pflag.Float64P("tx-level", "a", 0, "Transmit level, dB.")
	var sampleRate = pflag.IntP("sample-rate", "r", mt63.SampleRate, "Receive audio sample rate.  8000 or more.")
	var transmit = pflag.BoolP("transmit", "t", false, "Send the text given as arguments, or stdin, then exit.")
	var logDir = pflag.StringP("log-dir", "d", "", "Write received text to a daily log file in this directory.")
	var version = pflag.BoolP("version", "V", false, "Print version and exit.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - MT63 modem using the sound card.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [-t text...]\n", os.Args[0])
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	if *version {
		mt63.PrintVersion()
		os.Exit(0)
	}

	var cfg = mt63.DefaultConfig()
	if *configFile != "" {
		var c, err = mt63.LoadConfig(*configFile)
		if err != nil {
			logger.Error("Bad configuration", "err", err)
			os.Exit(1)
		}
		cfg = c
	}

	if pflag.CommandLine.Changed("bandwidth") {
		cfg.Bandwidth = *bandwidth
	}
	if pflag.CommandLine.Changed("long-interleave") {
		cfg.LongInterleave = *long
	}
	if pflag.CommandLine.Changed("integration") {
		cfg.Integration = *integration
	}
	if pflag.CommandLine.Changed("squelch") {
		cfg.Squelch = *squelch
	}
	if pflag.CommandLine.Changed("tx-level") {
		cfg.TxLevel = *txLevel
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Bad configuration", "err", err)
		os.Exit(1)
	}

	var ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := portaudio.Initialize(); err != nil {
		logger.Error("Can't initialize audio", "err", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	var err error
	if *transmit {
		err = send(ctx, cfg, pflag.Args())
	} else {
		err = receive(ctx, cfg, *sampleRate, *logDir)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Stopped", "err", err)
		os.Exit(1)
	}
}

func send(ctx context.Context, cfg mt63.Config, args []string) error {
	var text []byte
	if len(args) > 0 {
		text = []byte(strings.Join(args, " ") + "\n")
	} else {
		var data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = data
	}

	var audio, rate, err = mt63.Encode(text, cfg)
	if err != nil {
		return err
	}

	var ptt, pttErr = mt63.OpenPTT(cfg.PTT)
	if pttErr != nil {
		return pttErr
	}
	defer ptt.Close()

	var buf = make([]float32, framesPerBuffer)
	var stream, openErr = portaudio.OpenDefaultStream(0, 1, float64(rate), len(buf), buf)
	if openErr != nil {
		return fmt.Errorf("opening audio output: %w", openErr)
	}
	defer stream.Close()

	if err := ptt.Set(true); err != nil {
		return err
	}

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting audio output: %w", err)
	}
	defer stream.Stop()

	logger.Info("Sending", "chars", len(text), "seconds", float64(len(audio))/float64(rate))

	for len(audio) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		var n = copy(buf, audio)
		clear(buf[n:])
		audio = audio[n:]

		if err := stream.Write(); err != nil {
			return fmt.Errorf("writing audio: %w", err)
		}
	}

	return nil
}

// Blocks from the sound card, copied so the device buffer can be reused.
func capture(ctx context.Context, stream *portaudio.Stream, buf []float32, blocks chan<- []float32) error {
	defer close(blocks)

	for {
		if err := stream.Read(); err != nil {
			if errors.Is(err, portaudio.InputOverflowed) {
				logger.Warn("Audio input overflowed")
				continue
			}
			return fmt.Errorf("reading audio: %w", err)
		}

		select {
		case blocks <- append([]float32(nil), buf...):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func receive(ctx context.Context, cfg mt63.Config, rate int, logDir string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var session, err = mt63.NewRxSession(cfg)
	if err != nil {
		return err
	}

	var textLog = mt63.NewTextLog(true, logDir)
	defer textLog.Close()

	var buf = make([]float32, framesPerBuffer)
	var stream, openErr = portaudio.OpenDefaultStream(1, 0, float64(rate), len(buf), buf)
	if openErr != nil {
		return fmt.Errorf("opening audio input: %w", openErr)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting audio input: %w", err)
	}
	defer stream.Stop()

	logger.Info("Receiving", "bandwidth", cfg.Bandwidth, "long", cfg.LongInterleave, "rate", rate)

	var blocks = make(chan []float32, blockQueue)
	var captureErr = make(chan error, 1)

	go func() {
		captureErr <- capture(ctx, stream, buf, blocks)
	}()

	var show = func(text string) {
		if text == "" {
			return
		}

		fmt.Print(text)

		var rx = session.Receiver()
		if err := textLog.Write(time.Now(), rx.FECSNR(), rx.FreqOffsetHz(), text); err != nil {
			logger.Error("Log file", "err", err)
		}
	}

	err = decodeBlocks(session, blocks, rate, cancel, show)
	var capErr = <-captureErr
	if err != nil {
		return err
	}

	return capErr
}

/*------------------------------------------------------------------
 *
 * Name:	decodeBlocks
 *
 * Purpose:	Decode audio blocks until the channel is closed.
 *
 * Inputs:	blocks	- From capture.  Closed when capture returns.
 *		cancel	- Stops capture, on a decode error.
 *		show	- Gets each piece of decoded text.
 *
 * Description:	The channel is always drained to the end, so the capture
 *		goroutine is out of stream.Read when this returns.  Then
 *		the last characters are pushed out of the interleaver.
 *
 *---------------------------------------------------------------*/

func decodeBlocks(session *mt63.RxSession, blocks <-chan []float32, rate int, cancel context.CancelFunc, show func(string)) error {
	for block := range blocks {
		var text, err = session.ProcessAudio(block, rate)
		if err != nil {
			cancel()
			for range blocks { //nolint:revive
			}
			return err
		}
		show(text)
	}

	var tail, err = session.Flush()
	show(tail)

	return err
}
