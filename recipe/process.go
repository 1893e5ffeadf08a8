package recipe

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Processor runs an engine over a single path.
type Processor func(Engine, string) (Result, error)

// ProcessFile is the default Processor.
func ProcessFile(engine Engine, path string) (Result, error) {
	return engine.Run(path)
}

// ProcessSource runs engine over an in-memory source.
func ProcessSource(engine Engine, source []byte) (Result, error) {
	return engine.RunSource(source)
}

// ProcessFiles processes every path in turn and concatenates the results.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor Processor,
) ([]Result, error) {
	var all []Result
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path, processor)
		all = append(all, results...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return all, err
		}
	}
	return all, nil
}

// ProcessPath runs processor over path. Directories are walked and their
// accepted files processed concurrently, one goroutine per CPU at most.
//
// A file that fails is reported through Result.Err and does not stop the
// others. Only an inaccessible path is returned as an error. Cancelling ctx
// stops scheduling new files and returns what has been processed so far
// together with ctx.Err().
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor Processor,
) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !engine.Accept(path) {
			return nil, nil
		}
		res, err := processor(engine, path)
		if err != nil {
			logger.Error("Error processing file", zap.String("file", path), zap.Error(err))
			res.File = path
			res.Err = err
		}
		return []Result{res}, nil
	}

	files, err := collectFiles(engine, path)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	defer bar.Finish()

	// slots keep results in walk order regardless of completion order
	results := make([]Result, len(files))
	done := make([]bool, len(files))

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())

schedule:
	for i, fp := range files {
		select {
		case <-ctx.Done():
			break schedule
		default:
		}

		g.Go(func() error {
			res, err := processor(engine, fp)
			if err != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				res.File = fp
				res.Err = err
			}
			results[i] = res
			done[i] = true
			_ = bar.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	collected := make([]Result, 0, len(files))
	for i := range results {
		if done[i] {
			collected = append(collected, results[i])
		}
	}
	return collected, ctx.Err()
}

func collectFiles(engine Engine, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && engine.Accept(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}
	return files, nil
}
