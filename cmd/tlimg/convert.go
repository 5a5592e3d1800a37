package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zinbin/tlimg"
	"github.com/zinbin/tlimg/loader"
	"github.com/zinbin/tlimg/store"
)

var (
	outName        string
	targetW        int
	targetH        int
	quality        string
	pruneThreshold int
	assetDir       string
)

var convertCmd = &cobra.Command{
	Use:   "convert <image>",
	Short: "Convert an image file into a stored terminal image asset",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&outName, "out", "", "Stored asset name (default: input file's base name)")
	convertCmd.Flags().IntVar(&targetW, "target-w", 120, "Output width in cells")
	convertCmd.Flags().IntVar(&targetH, "target-h", 80, "Output height in cells")
	convertCmd.Flags().StringVar(&quality, "quality", "high", "Render quality: high or low")
	convertCmd.Flags().IntVar(&pruneThreshold, "prune", 24, "Glyph prune color-difference threshold")
	convertCmd.Flags().StringVar(&assetDir, "asset-dir", "assets", "Directory assets are stored under")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	name := outName
	if name == "" {
		base := filepath.Base(inPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	raw, err := loader.Load(inPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", inPath, err)
	}

	q := tlimg.High
	if strings.EqualFold(quality, "low") {
		q = tlimg.Low
	}

	start := time.Now()
	lastLogged := time.Now()
	asset := tlimg.Convert(context.Background(), raw, tlimg.Options{
		TargetWidth:    targetW,
		TargetHeight:   targetH,
		Quality:        q,
		PruneThreshold: pruneThreshold,
		OnProgress: func(completed, total float64, stage string) {
			if time.Since(lastLogged) < 200*time.Millisecond {
				return
			}
			lastLogged = time.Now()
			pct := 0.0
			if total > 0 {
				pct = 100 * completed / total
			}
			slog.Info("converting", "stage", stage, "percent", pct)
		},
	})
	slog.Info("converted", "name", name, "width", asset.Width, "height", asset.Height, "elapsed", time.Since(start))

	s, err := store.Open(assetDir)
	if err != nil {
		return err
	}
	if err := s.Save(name, asset); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	fmt.Printf("saved %s (%dx%d cells)\n", name, asset.Width, asset.Height)
	return nil
}
