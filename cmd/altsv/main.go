// altsv - ALTSV codec CLI tool
//
// Usage:
//
//	altsv decode [-format json|msgpack|cbor] [-workers N] [file]   ALTSV lines -> records
//	altsv encode [file]                                             NDJSON objects -> ALTSV lines
//	altsv version                                                   Print version info
//
// Common flags: -v (debug logging), -logger zap|logrus|slog.
//
// decode writes one JSON object per line, or a stream of msgpack/CBOR maps.
// Absent values are written as null. If no file is given, reads from stdin.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	stdslog "log/slog"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/altsv"
	"github.com/unkn0wn-root/altsv/codec"
	altsvlogrus "github.com/unkn0wn-root/altsv/log/logrus"
	altsvslog "github.com/unkn0wn-root/altsv/log/slog"
	altsvzap "github.com/unkn0wn-root/altsv/log/zap"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "decode":
		err = cmdDecode(os.Args[2:], os.Stdin, os.Stdout)
	case "encode":
		err = cmdEncode(os.Args[2:], os.Stdin, os.Stdout)
	case "version":
		fmt.Printf("altsv %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "altsv: unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "altsv: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  altsv decode [-format json|msgpack|cbor] [-workers N] [-v] [-logger zap|logrus|slog] [file]
  altsv encode [-v] [-logger zap|logrus|slog] [file]
  altsv version`)
}

type commonFlags struct {
	verbose bool
	logger  string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
	fs.StringVar(&c.logger, "logger", "slog", "log backend: zap, logrus or slog")
}

// newLogger builds the altsv.Logger for the chosen backend; the returned
// func flushes it.
func newLogger(c commonFlags, w io.Writer) (altsv.Logger, func(), error) {
	switch c.logger {
	case "zap":
		level := zapcore.WarnLevel
		if c.verbose {
			level = zapcore.DebugLevel
		}
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(w),
			level,
		)
		l := zap.New(core)
		return altsvzap.ZapLogger{L: l}, func() { _ = l.Sync() }, nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(w)
		l.SetLevel(logrus.WarnLevel)
		if c.verbose {
			l.SetLevel(logrus.DebugLevel)
		}
		return altsvlogrus.LogrusLogger{E: logrus.NewEntry(l)}, func() {}, nil
	case "slog":
		level := stdslog.LevelWarn
		if c.verbose {
			level = stdslog.LevelDebug
		}
		h := stdslog.NewTextHandler(w, &stdslog.HandlerOptions{Level: level})
		return altsvslog.Logger{L: stdslog.New(h)}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown logger %q", c.logger)
}

func openInput(fs *flag.FlagSet, stdin io.Reader) (io.Reader, func(), error) {
	if fs.NArg() == 0 || fs.Arg(0) == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func cmdDecode(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	format := fs.String("format", "json", "output format: json, msgpack or cbor")
	workers := fs.Int("workers", 1, "decode lines on N goroutines")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var enc codec.Codec[altsv.Record]
	switch *format {
	case "json":
		enc = codec.JSON{}
	case "msgpack":
		enc = codec.Msgpack{}
	case "cbor":
		c, err := codec.NewCBOR(true)
		if err != nil {
			return err
		}
		enc = c
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	log, flush, err := newLogger(common, os.Stderr)
	if err != nil {
		return err
	}
	defer flush()

	in, done, err := openInput(fs, stdin)
	if err != nil {
		return err
	}
	defer done()

	recs, err := altsv.Parse(in, altsv.WithLogger(log), altsv.WithWorkers(*workers))
	if err != nil {
		return err
	}

	out := bufio.NewWriter(stdout)
	for _, r := range recs {
		b, err := enc.Encode(r)
		if err != nil {
			return err
		}
		if _, err := out.Write(b); err != nil {
			return err
		}
		if *format == "json" {
			if err := out.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	log.Debug("decode done", altsv.Fields{"records": len(recs), "format": *format})
	return out.Flush()
}

func cmdEncode(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, flush, err := newLogger(common, os.Stderr)
	if err != nil {
		return err
	}
	defer flush()

	in, done, err := openInput(fs, stdin)
	if err != nil {
		return err
	}
	defer done()

	w := altsv.NewWriter(stdout)
	dec := json.NewDecoder(in)
	dec.UseNumber()
	for {
		var m map[string]any
		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("json input: %w", err)
		}
		if err := w.Write(m); err != nil {
			return err
		}
	}
	log.Debug("encode done", altsv.Fields{"lines": w.Lines()})
	return w.Flush()
}
