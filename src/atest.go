package mt63

/*-------------------------------------------------------------------
 *
 * Purpose:     Test fixture for the MT63 receiver.
 *
 * Inputs:	Takes audio from .WAV files instead of the audio device.
 *
 * Description:	This can be used to test the receiver under controlled
 *		and reproducible conditions, for tweaking the algorithms,
 *		and in the script tests.
 *
 *		Files are decoded one after another by a fresh receiver.
 *		The audio is fed in blocks, the same way as it would
 *		arrive from a sound card.
 *
 *--------------------------------------------------------------------*/

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
	"github.com/spf13/pflag"
)

// Audio samples per call, roughly what a sound card gives us.
const atestBlock = 4096

func AtestMain() {
	var configFile = pflag.StringP("config", "c", "", "YAML configuration file.  Options below override it.")
	var bandwidth = pflag.IntP("bandwidth", "B", 1000, "Bandwidth, Hz.  500, 1000, or 2000.")
	var long = pflag.BoolP("long-interleave", "l", false, "Long (64 symbol) interleave rather than short (32).")
	var integration = pflag.IntP("integration", "i", 16, "Integration period, symbols.  Even, at least 2.")
	var squelch = pflag.Float64P("squelch", "q", 8.0, "Drop characters with signal to noise ratio below this.")
	var testOffset = pflag.Float64P("test-offset", "t", 0, "Shift received audio by this many Hz.")
	var channel1 = pflag.BoolP("channel-1", "1", false, "Use channel 1 (right) of stereo audio.")
	var timestampFormat = pflag.StringP("timestamp-format", "T", "", "Precede received text with a strftime format time stamp.")
	var logDir = pflag.StringP("log-dir", "d", "", "Write received text to a daily log file in this directory.")
	var errorIfLessThan = pflag.IntP("error-if-less-than", "L", -1, "Error if less than this number of characters decoded.")
	var errorIfGreaterThan = pflag.IntP("error-if-greater-than", "G", -1, "Error if greater than this number of characters decoded.")
	var expect = pflag.StringP("expect", "e", "", "Error if this text is not found in what was decoded.")
	var verbose = pflag.BoolP("verbose", "v", false, "Show receiver lock and symbol details.")
	var version = pflag.BoolP("version", "V", false, "Print version and exit.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Decode MT63 from .WAV files.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]... <WAV FILE>...\n", os.Args[0])
		pflag.PrintDefaults()
	}

	// !!! PARSE !!!
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(1)
	}

	if *version {
		PrintVersion()
		os.Exit(0)
	}

	var cfg = DefaultConfig()
	if *configFile != "" {
		var c, err = LoadConfig(*configFile)
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
	if pflag.CommandLine.Changed("test-offset") {
		cfg.TestOffset = *testOffset
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Bad configuration", "err", err)
		os.Exit(1)
	}

	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var stamp *strftime.Strftime
	if *timestampFormat != "" {
		var s, err = strftime.New(*timestampFormat)
		if err != nil {
			logger.Error("Bad time stamp format", "format", *timestampFormat, "err", err)
			os.Exit(1)
		}
		stamp = s
	}

	if len(pflag.Args()) == 0 {
		fmt.Printf("Specify .WAV file name on command line.\n\n")
		pflag.Usage()
		os.Exit(1)
	}

	var textLog = NewTextLog(true, *logDir)
	defer textLog.Close()

	var startTime = time.Now()
	var totalFiletime float64
	var decodedTotal = 0
	var all strings.Builder

	for _, wavFileName := range pflag.Args() {
		var audio, rate, err = ReadWAV(wavFileName, IfThenElse(*channel1, 1, 0))
		if err != nil {
			fmt.Printf("Couldn't read %s: %s\n", wavFileName, err)
			os.Exit(1)
		}

		fmt.Printf("%d samples per second.  %d samples.\n", rate, len(audio))
		totalFiletime += float64(len(audio)) / float64(rate)

		var session, sessionErr = NewRxSession(cfg)
		if sessionErr != nil {
			logger.Error("Can't start receiver", "err", sessionErr)
			os.Exit(1)
		}

		var decodedOne = 0

		var show = func(text string) {
			if text == "" {
				return
			}
			decodedOne += len(text)
			all.WriteString(text)

			if stamp != nil {
				fmt.Printf("%s ", stamp.FormatString(time.Now()))
			}
			fmt.Printf("%s", text)

			var rx = session.Receiver()
			if err := textLog.Write(time.Now(), rx.FECSNR(), rx.FreqOffsetHz(), text); err != nil {
				logger.Error("Log file", "err", err)
			}
		}

		for len(audio) > 0 {
			var n = min(len(audio), atestBlock)
			var text, err = session.ProcessAudio(audio[:n], rate)
			if err != nil {
				fmt.Printf("\nError decoding %s: %s\n", wavFileName, err)
				os.Exit(1)
			}
			show(text)
			audio = audio[n:]
		}

		var text, flushErr = session.Flush()
		if flushErr != nil {
			fmt.Printf("\nError decoding %s: %s\n", wavFileName, flushErr)
			os.Exit(1)
		}
		show(text)

		fmt.Printf("\n\n")
		fmt.Printf("%d from %s\n", decodedOne, wavFileName)
		decodedTotal += decodedOne
	}

	var elapsed = time.Since(startTime)

	fmt.Printf("%d characters decoded in %.3f seconds.  %.1f x realtime\n", decodedTotal, elapsed.Seconds(), totalFiletime/elapsed.Seconds())

	if *errorIfLessThan != -1 && decodedTotal < *errorIfLessThan {
		fmt.Printf("\n * * * TEST FAILED: number decoded is less than %d * * * \n", *errorIfLessThan)
		os.Exit(1)
	}
	if *errorIfGreaterThan != -1 && decodedTotal > *errorIfGreaterThan {
		fmt.Printf("\n * * * TEST FAILED: number decoded is greater than %d * * * \n", *errorIfGreaterThan)
		os.Exit(1)
	}
	if *expect != "" && !strings.Contains(all.String(), *expect) {
		fmt.Printf("\n * * * TEST FAILED: \"%s\" was not decoded * * * \n", *expect)
		os.Exit(1)
	}
}
