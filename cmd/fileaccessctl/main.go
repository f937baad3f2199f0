package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/yourname/fileaccess/pkg/accessclient"
	"github.com/yourname/fileaccess/pkg/accessproto"
)

const usage = `usage: fileaccessctl [--addr host:port] <command> [flags] args

commands:
  get-url FILE                     register FILE and print its loopback URL
  chunk   FILE [--size N]          split FILE into chunk files
  slice   FILE [--offset N] [--size N]
  read    FILE [--offset N] [--size N] [--base64]
  fetch   URL... [-o OUT] [--progress]
                                   download one or more URLs, concatenated in order
  health                           print server status
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "fileaccessctl:", err)
		os.Exit(1)
	}
}

// run выполняет команду; данные пишутся в stdout, индикатор и справка — в stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := pflag.NewFlagSet("fileaccessctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(stderr)
	defAddr := os.Getenv("CONTROL_ADDR")
	if defAddr == "" {
		defAddr = "127.0.0.1:8090"
	}
	addr := global.String("addr", defAddr, "control API address")
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	if err := global.Parse(args); err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return fmt.Errorf("command required")
	}

	cmd, cmdArgs := rest[0], rest[1:]
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	offset := fs.Int64("offset", 0, "start offset in bytes")
	size := fs.Int64("size", -1, "number of bytes (chunk size for chunk); -1 means default")
	b64 := fs.Bool("base64", false, "return base64 encoded data")
	out := fs.StringP("output", "o", "", "output file (default stdout)")
	progress := fs.Bool("progress", false, "show download progress")
	if err := fs.Parse(cmdArgs); err != nil {
		return err
	}

	var opts []accessclient.Option
	if *progress {
		opts = append(opts, accessclient.WithProgress(stderr))
	}
	c := accessclient.New("http://"+*addr, opts...)

	var sizePtr *int64
	if fs.Changed("size") && *size >= 0 {
		sizePtr = size
	}

	switch cmd {
	case "get-url":
		file, err := oneArg(fs)
		if err != nil {
			return err
		}
		u, err := c.GetURL(ctx, file)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, u)
	case "chunk":
		file, err := oneArg(fs)
		if err != nil {
			return err
		}
		chunks, err := c.Chunk(ctx, file, sizePtr)
		if err != nil {
			return err
		}
		for _, ch := range chunks {
			fmt.Fprintf(stdout, "%d/%d\t%s\n", ch.ChunkNumber, ch.TotalChunks, ch.Path)
		}
	case "slice":
		file, err := oneArg(fs)
		if err != nil {
			return err
		}
		p, err := c.Slice(ctx, file, *offset, sizePtr)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, p)
	case "read":
		file, err := oneArg(fs)
		if err != nil {
			return err
		}
		res, err := c.Read(ctx, accessproto.ReadRequest{File: file, Offset: *offset, Size: sizePtr, Base64: *b64})
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, res.Data)
	case "fetch":
		return fetch(ctx, c, fs.Args(), *out, stdout, stderr)
	case "health":
		h, err := c.Health(ctx)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(h)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func oneArg(fs *pflag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: exactly one FILE argument expected", fs.Name())
	}
	return fs.Arg(0), nil
}

func fetch(ctx context.Context, c accessclient.Client, urls []string, out string, stdout, stderr io.Writer) error {
	if len(urls) == 0 {
		return fmt.Errorf("fetch: at least one URL expected")
	}

	w := stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	var (
		n   int64
		err error
	)
	if len(urls) == 1 {
		n, err = c.Download(ctx, urls[0], w)
	} else {
		n, err = accessclient.StreamOrdered(ctx, c, urls, w)
	}
	if err != nil {
		return err
	}

	if out != "" {
		fmt.Fprintf(stderr, "%s written to %s\n", humanize.IBytes(uint64(n)), out)
	}
	return nil
}
