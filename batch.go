package mega65

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

const batchWorkers = 4

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// findImages walks base collecting source images. Two sources in the
// same directory sharing a stem are rejected because their artifacts
// would overwrite each other; the same stem in different directories is
// fine since every artifact lands beside its own source.
func (c *Converter) findImages(base string) ([]string, error) {
	var files []string
	stems := make(map[string]string)

	if err := filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
		if info.Name()[0] == '.' {
			if info.Mode().IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || !isImage(file) {
			return nil
		}

		stem := strings.TrimSuffix(file, filepath.Ext(file))
		if other, ok := stems[stem]; ok {
			return errors.Errorf("%s and %s would produce the same artifacts", other, file)
		}
		stems[stem] = file

		files = append(files, file)
		return nil
	}); err != nil {
		return nil, err
	}

	return files, nil
}

func feedImages(ctx context.Context, files []string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, file := range files {
			select {
			case out <- file:
			case <-ctx.Done():
				errc <- errors.New("walk cancelled")
				return
			}
		}
	}()
	return out, errc
}

func (c *Converter) batchWorker(ctx context.Context, in <-chan string, opts Job) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			job := opts
			job.Image = file
			job.Disk = strings.TrimSuffix(file, filepath.Ext(file))
			if err := c.Run(job); err != nil {
				errc <- errors.Wrap(err, file)
				return
			}
		}
	}()
	return errc
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

// Batch converts every image under dir, each onto its own disk image
// named after the source and written alongside it.
func (c *Converter) Batch(dir string, opts Job) error {
	base, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	files, err := c.findImages(base)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("no images under %s", base)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	in, errc := feedImages(ctx, files)
	errcList = append(errcList, errc)

	for i := 0; i < batchWorkers; i++ {
		errcList = append(errcList, c.batchWorker(ctx, in, opts))
	}

	return waitForPipeline(errcList...)
}
