// Command screencast serves, inspects, renders and converts vector
// screencast recordings.
//
// Usage:
//
//	screencast serve [-addr :8080]
//	screencast info <file>
//	screencast render [-t ms] [-w px] [-h px] [-label] -o out.png|out.pdf <file>
//	screencast convert -o out.<ext> <file>
//
// Settings are read from SCREENCAST_ variables and an optional .env file.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/format"
	"github.com/gogpu/screencast/internal/config"
	"github.com/gogpu/screencast/video"
)

var errUsage = errors.New("usage: screencast serve|info|render|convert [flags] [file]")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "screencast:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	screencast.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	cmd, args := args[0], args[1:]
	switch cmd {
	case "serve":
		return serve(ctx, cfg, args)
	case "info":
		return info(cfg, args, stdout)
	case "render":
		return render(args)
	case "convert":
		return convert(args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// loadFile reads a recording, picking the format by file extension.
func loadFile(path string) (*video.Video, error) {
	f, err := format.ForExtension(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	v, err := f.LoadVideo(bufio.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// createFile writes a file through fn and removes it again if fn fails.
func createFile(path string, fn func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	err = fn(w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

// oneFile returns the single positional argument.
func oneFile(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expected one file, got %d arguments", errUsage, len(args))
	}
	return args[0], nil
}
