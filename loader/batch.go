package loader

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zinbin/tlimg/asset"
)

// Page is one decoded image found while walking a directory.
type Page struct {
	Name  string // file path
	Image asset.RawImage
}

// LoadDir walks root and decodes every image file found (by extension) in
// parallel, using a shared BufferPool for the decoded pixel buffers. Files
// are decoded in no fixed order, but the returned pages follow the walk's
// lexical path order.
func LoadDir(ctx context.Context, root string, pool *BufferPool) ([]Page, error) {
	paths, err := walkImages(root)
	if err != nil {
		return nil, err
	}

	pages := make([]Page, len(paths))
	errg, ctx := errgroup.WithContext(ctx)
	idx := make(chan int)

	errg.Go(func() error {
		defer close(idx)
		for i := range paths {
			select {
			case idx <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		errg.Go(func() error {
			for i := range idx {
				raw, err := loadPooled(paths[i], pool)
				if err != nil {
					return fmt.Errorf("loader: decode %s: %w", paths[i], err)
				}
				pages[i] = Page{Name: paths[i], Image: raw}
			}
			return nil
		})
	}

	if err := errg.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func walkImages(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("loader: walk %s: %w", root, err)
		}
		if d.IsDir() || !isImageExt(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func isImageExt(name string) bool {
	switch filepath.Ext(name) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp":
		return true
	default:
		return false
	}
}
