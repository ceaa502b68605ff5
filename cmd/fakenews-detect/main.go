package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/fakenews-detector/internal/core"
	"github.com/mikey/fakenews-detector/internal/di"
	"github.com/mikey/fakenews-detector/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	var failed int
	err = container.Invoke(func(
		logger *zap.Logger,
		frontend ports.HeadlineFrontend,
		reviewer core.HeadlineReviewer,
	) error {
		defer logger.Sync()
		defer func() {
			if closer, ok := reviewer.(interface{ Close() error }); ok {
				closer.Close()
			}
		}()

		headlines, err := readHeadlines(flags, flag.Args())
		if err != nil {
			return err
		}
		if len(headlines) == 0 {
			return fmt.Errorf("no headlines given")
		}

		ctx := context.Background()
		for _, headline := range headlines {
			if _, err := frontend.ClassifyHeadline(ctx, headline); err != nil {
				logger.Debug("Headline could not be classified", zap.Error(err))
				failed++
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// readHeadlines takes headlines from the arguments, the input file or stdin,
// one per line
func readHeadlines(flags *di.CLIFlags, args []string) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}

	var r io.Reader = os.Stdin
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		r = file
	}

	var headlines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			headlines = append(headlines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read headlines: %w", err)
	}
	return headlines, nil
}
