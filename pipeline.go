package byteview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	scanWorkers = 10
	imageExt    = ".png"
)

var errWalkCancelled = errors.New("walk cancelled")

func (v *Viewer) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
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

			// Ignore anything that isn't a normal file, or is a previous render
			if !info.Mode().IsRegular() || strings.EqualFold(filepath.Ext(file), imageExt) {
				return nil
			}

			// Ignore the palette database and its journal files
			if file == v.dbFile || strings.HasPrefix(file, v.dbFile+"-") {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errWalkCancelled
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (v *Viewer) renderWorker(ctx context.Context, in <-chan string, opts RenderOptions) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if ctx.Err() != nil {
				return
			}
			if _, err := v.Render(ctx, file+imageExt, []string{file}, opts); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan renders every regular file found under path to a PNG image alongside
// it, named after the file with ".png" appended. Hidden files and directories
// and existing PNG images are skipped. Progress reporting in opts is ignored
// as files are rendered concurrently.
func (v *Viewer) Scan(ctx context.Context, path string, opts RenderOptions) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	opts.Progress = nil

	var errcList []<-chan error

	files, errc, err := v.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < scanWorkers; i++ {
		errc, err := v.renderWorker(ctx, files, opts)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
