package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zinbin/tlimg"
	"github.com/zinbin/tlimg/loader"
	"github.com/zinbin/tlimg/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Convert every image found under a directory into stored assets",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&targetW, "target-w", 120, "Output width in cells")
	batchCmd.Flags().IntVar(&targetH, "target-h", 80, "Output height in cells")
	batchCmd.Flags().StringVar(&quality, "quality", "high", "Render quality: high or low")
	batchCmd.Flags().IntVar(&pruneThreshold, "prune", 24, "Glyph prune color-difference threshold")
	batchCmd.Flags().StringVar(&assetDir, "asset-dir", "assets", "Directory assets are stored under")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	root := args[0]
	ctx := context.Background()

	pool := loader.NewBufferPool()
	pages, err := loader.LoadDir(ctx, root, pool)
	if err != nil {
		return fmt.Errorf("load %s: %w", root, err)
	}

	q := tlimg.High
	if strings.EqualFold(quality, "low") {
		q = tlimg.Low
	}

	s, err := store.Open(assetDir)
	if err != nil {
		return err
	}

	for _, page := range pages {
		base := filepath.Base(page.Name)
		name := strings.TrimSuffix(base, filepath.Ext(base))

		a := tlimg.Convert(ctx, page.Image, tlimg.Options{
			TargetWidth:    targetW,
			TargetHeight:   targetH,
			Quality:        q,
			PruneThreshold: pruneThreshold,
		})
		pool.Put(page.Image.Pix)

		if err := s.Save(name, a); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		slog.Info("converted", "file", page.Name, "name", name, "width", a.Width, "height", a.Height)
	}

	fmt.Printf("converted %d image(s) into %s\n", len(pages), assetDir)
	return nil
}
