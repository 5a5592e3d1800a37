package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zinbin/tlimg/asset"
	"github.com/zinbin/tlimg/store"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored terminal image asset to the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&assetDir, "asset-dir", "assets", "Directory assets are stored under")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := store.Open(assetDir)
	if err != nil {
		return err
	}
	a, err := s.Load(args[0])
	if err != nil {
		return fmt.Errorf("load %s: %w", args[0], err)
	}
	fmt.Print(renderANSI(a))
	return nil
}

// renderANSI renders an ImageAsset to a truecolor ANSI string, reusing a single
// lipgloss.Style and swapping its colors per cell rather than allocating one
// style per distinct (fg, bg) pair.
func renderANSI(a asset.ImageAsset) string {
	var sb strings.Builder
	style := lipgloss.NewStyle()
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			c := a.At(x, y)
			cell := style.
				Foreground(lipgloss.Color(hexColor(c.FG))).
				Background(lipgloss.Color(hexColor(c.BG))).
				Render(c.Char)
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func hexColor(c asset.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
