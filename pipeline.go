package mmtex

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const numWorkers = 10

func isTexture(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".tex")
}

func (m *MmTex) findTextures(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !isTexture(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return ctx.Err()
			}

			return nil
		})
	}()
	return out, errc, nil
}

// process runs fn over each file from in until in is closed, fn fails or
// ctx is cancelled. ctx is checked before every file so nothing new is
// started once the pipeline is shutting down.
func process(ctx context.Context, in <-chan string, fn func(string) error) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if ctx.Err() != nil {
				return
			}
			if err := fn(file); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc
}

func (m *MmTex) exportWorker(ctx context.Context, in <-chan string, ext string) (<-chan error, error) {
	return process(ctx, in, func(file string) error {
		return m.Export(file, file+ext)
	}), nil
}

func (m *MmTex) importWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	return process(ctx, in, func(file string) error {
		img := file + ".png"
		if _, err := os.Stat(img); err != nil {
			if os.IsNotExist(err) {
				m.logger.Printf("No image for \"%s\"\n", file)
				return nil
			}
			return err
		}
		return m.Import(file, img, file+"_new")
	}), nil
}

// waitForPipeline blocks until every stage has closed its error channel.
// The first error cancels the remaining stages and is the one returned.
func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	var first error
	for err := range mergeErrors(errs...) {
		if first == nil {
			first = err
			cancel()
		}
	}
	return first
}

// mergeErrors fans the non-nil errors of cs into one channel that is closed
// once all of cs are.
func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error)
	for _, c := range cs {
		wg.Add(1)
		go func(c <-chan error) {
			defer wg.Done()
			for err := range c {
				if err != nil {
					out <- err
				}
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

type worker func(context.Context, <-chan string) (<-chan error, error)

func (m *MmTex) run(path string, w worker) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := m.findTextures(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < numWorkers; i++ {
		errc, err := w(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(cancelFunc, errcList...)
}

// ExportDir exports every texture found below path to an image next to it,
// named after the texture with ext appended, for example "A.TEX.png".
func (m *MmTex) ExportDir(path, ext string) error {
	return m.run(path, func(ctx context.Context, in <-chan string) (<-chan error, error) {
		return m.exportWorker(ctx, in, ext)
	})
}

// ImportDir imports every texture found below path that has a matching
// "<texture>.png" image, writing each result to "<texture>_new".
func (m *MmTex) ImportDir(path string) error {
	return m.run(path, m.importWorker)
}
