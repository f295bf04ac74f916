package mt63

/*------------------------------------------------------------------
 *
 * Purpose:   	Test program for generating MT63 audio.
 *
 * Description:	Given text, generate audio for the transmission.
 *		Put it in a .WAV file to play back or to feed to
 *		the atest program.
 *
 *		The text comes from the -m option, a file, or stdin.
 *		Without any of them a built-in test message is used.
 *
 *---------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const defaultMessage = "CQ CQ de MT63 test, the quick brown fox jumps over the lazy dog 0123456789.\n"

func GenMain() {
	var configFile = pflag.StringP("config", "c", "", "YAML configuration file.  Options below override it.")
	var bandwidth = pflag.IntP("bandwidth", "B", 1000, "Bandwidth, Hz.  500, 1000, or 2000.")
	var long = pflag.BoolP("long-interleave", "l", false, "Long (64 symbol) interleave rather than short (32).")
	var txLevel = pflag.Float64P("tx-level", "a", 0, "Transmit level, dB.  0 is full scale, limited by sig_limit.")
	var seed = pflag.Uint64P("seed", "S", 1, "Random seed for the interleaver fill and jam symbol.")
	var message = pflag.StringP("message", "m", "", "Text to send.")
	var eightBitsPerSample = pflag.BoolP("eight-bps", "8", false, "8 bit audio rather than 16.")
	var outputFile = pflag.StringP("output-file", "o", "", "Send output to .wav file.")
	var version = pflag.BoolP("version", "V", false, "Print version and exit.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - Generate audio file for MT63 text.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file]\n", os.Args[0])
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "An optional file may be specified to provide text other than\n")
		fmt.Fprintf(os.Stderr, "the default built-in message.  Use - for stdin.\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Example:  %s -o x.wav\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "    With all defaults, a built-in test message is sent with\n")
		fmt.Fprintf(os.Stderr, "    1000 Hz bandwidth and short interleave.\n")
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Example:  echo \"Hello, world!\" | %s -B 2000 -l -a -6 -o x.wav -\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "    Read text from stdin and put half volume sound into the file x.wav.\n")
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

	if *outputFile == "" {
		fmt.Fprintf(os.Stderr, "ERROR: The -o output file option must be specified.\n")
		pflag.Usage()
		os.Exit(1)
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
	if pflag.CommandLine.Changed("tx-level") {
		cfg.TxLevel = *txLevel
	}
	if pflag.CommandLine.Changed("seed") {
		cfg.Seed = *seed
	}

	var text = []byte(defaultMessage)

	switch {
	case *message != "":
		text = []byte(*message)
	case len(pflag.Args()) > 0:
		if len(pflag.Args()) > 1 {
			fmt.Printf("Warning: File(s) beyond the first are ignored.\n")
		}

		var data, err = readTextArg(pflag.Args()[0])
		if err != nil {
			logger.Error("Can't read text", "err", err)
			os.Exit(1)
		}
		text = data
	}

	var audio, rate, err = Encode(text, cfg)
	if err != nil {
		logger.Error("Can't encode", "err", err)
		os.Exit(1)
	}

	if err := WriteWAV(*outputFile, audio, rate, IfThenElse(*eightBitsPerSample, 8, 16)); err != nil {
		logger.Error("Can't write audio", "err", err)
		os.Exit(1)
	}

	fmt.Printf("%d characters, %.1f seconds of audio written to %s\n", len(text), float64(len(audio))/float64(rate), *outputFile)
}

func readTextArg(arg string) ([]byte, error) {
	if arg == "-" {
		fmt.Printf("Reading from stdin ...\n")
		return io.ReadAll(os.Stdin)
	}

	fmt.Printf("Reading from %s ...\n", arg)
	return os.ReadFile(arg) //nolint:gosec // We expect to read from a user-supplied file from CLI
}
