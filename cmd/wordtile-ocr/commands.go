package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/wordtile-ocr/internal/imaging"
	"github.com/ironsheep/wordtile-ocr/internal/integral"
	"github.com/ironsheep/wordtile-ocr/internal/layout"
	"github.com/ironsheep/wordtile-ocr/internal/ocr"
	"github.com/ironsheep/wordtile-ocr/internal/server"
)

func newRecognizeCmd(a *app) *cobra.Command {
	var stats, asJSON bool

	cmd := &cobra.Command{
		Use:   "recognize SCREENSHOT...",
		Short: "Print the tiles, rack and bonus squares of each screenshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.recognizer()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			failed := 0
			for _, path := range args {
				res, err := rec.RecognizeFile(path)
				if err != nil {
					log.WithError(err).WithField("path", path).Error("recognition failed")
					failed++
					continue
				}
				if asJSON {
					if err := writeJSON(out, path, res); err != nil {
						return err
					}
					continue
				}
				fmt.Fprint(out, res.Report(path))
				if stats {
					writeStats(out, res)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d screenshots failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "print per-cell match statistics")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func writeJSON(w io.Writer, path string, res *ocr.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Screenshot string      `json:"screenshot"`
		Result     *ocr.Result `json:"result"`
	}{path, res})
}

func writeStats(w io.Writer, res *ocr.Result) {
	sections := []struct {
		name  string
		stats []ocr.Stat
	}{
		{"Tile stats", res.TileStats},
		{"Rack stats", res.RackStats},
		{"Bonus stats", res.BonusStats},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "\n%s:\n", s.name)
		for _, st := range s.stats {
			fmt.Fprintln(w, st)
		}
	}
	fmt.Fprintln(w)
}

// segmentFile decodes a screenshot and segments it.
func segmentFile(path string) (*imaging.Screenshot, *layout.Layout, error) {
	shot, err := imaging.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	l, err := layout.Segment(integral.New(shot.Gray))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return shot, l, nil
}

func newLayoutCmd(a *app) *cobra.Command {
	var overlay string
	var labels bool

	cmd := &cobra.Command{
		Use:   "layout SCREENSHOT",
		Short: "Print the board and rack boxes and every row and column interval",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shot, l, err := segmentFile(args[0])
			if err != nil {
				return err
			}
			writeLayout(cmd.OutOrStdout(), l)

			if overlay == "" {
				return nil
			}
			img, err := imaging.Overlay(shot.Gray, l, imaging.OverlayOptions{Labels: labels})
			if err != nil {
				return err
			}
			if err := imgio.Save(overlay, img, imgio.PNGEncoder()); err != nil {
				return fmt.Errorf("write overlay: %w", err)
			}
			log.WithField("path", overlay).Info("overlay written")
			return nil
		},
	}

	cmd.Flags().StringVar(&overlay, "overlay", "", "write the screenshot with the intervals drawn to this PNG file")
	cmd.Flags().BoolVar(&labels, "labels", false, "number the rows and columns on the overlay")
	return cmd
}

func writeLayout(w io.Writer, l *layout.Layout) {
	cell := l.CellSize()
	fmt.Fprintf(w, "Screen: %v\nBoard:  %v\nRack:   %v\nCell:   %dx%d\n", l.Screen, l.Board, l.Rack, cell.X, cell.Y)
	groups := []struct {
		name string
		ivs  []layout.Interval
	}{
		{"Rows", l.Rows},
		{"Cols", l.Cols},
		{"Rack rows", l.RackRows},
		{"Rack cols", l.RackCols},
	}
	for _, g := range groups {
		fmt.Fprintf(w, "\n%s:\n", g.name)
		for i, iv := range g.ivs {
			fmt.Fprintf(w, "%3d %5d %5d %3d\n", i, iv.Start, iv.End, iv.Len())
		}
	}
}

func newCollageCmd(a *app) *cobra.Command {
	var output string
	var maxRows int

	cmd := &cobra.Command{
		Use:   "collage SCREENSHOT",
		Short: "Write a collage of the board tiles and the rack tiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.recognizer()
			if err != nil {
				return err
			}
			shot, err := imaging.LoadFile(args[0])
			if err != nil {
				return err
			}
			res, err := rec.Recognize(shot.Gray)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			cells := res.TileCells()
			if len(cells) == 0 {
				return fmt.Errorf("%s: no tiles found", args[0])
			}
			if err := imgio.Save(output, imaging.Collage(shot.Gray, cells, maxRows), imgio.PNGEncoder()); err != nil {
				return fmt.Errorf("write collage: %w", err)
			}
			log.WithFields(log.Fields{"path": output, "tiles": len(cells)}).Info("collage written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write")
	cmd.Flags().IntVar(&maxRows, "rows", 0, "maximum number of collage rows, 0 for no limit")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newSaveTemplatesCmd(a *app) *cobra.Command {
	var expect, outDir string

	cmd := &cobra.Command{
		Use:   "save-templates SCREENSHOT",
		Short: "Cut letter templates from a screenshot whose board is known",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(expect)
			if err != nil {
				return err
			}
			tiles, err := ocr.ParseTiles(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", expect, err)
			}

			shot, l, err := segmentFile(args[0])
			if err != nil {
				return err
			}
			templates, err := ocr.HarvestTemplates(shot.Gray, l, tiles)
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = a.cfg.LettersDir
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			written := 0
			for _, t := range templates {
				path := filepath.Join(outDir, t.Label+".png")
				if _, err := os.Stat(path); err == nil {
					log.WithField("path", path).Debug("template exists, skipped")
					continue
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				if err := imgio.Save(path, t.Image, imgio.PNGEncoder()); err != nil {
					return fmt.Errorf("write template: %w", err)
				}
				written++
			}
			log.WithFields(log.Fields{"dir": outDir, "written": written, "found": len(templates)}).Info("templates saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "file holding the known board, 15 lines of 15 symbols")
	cmd.Flags().StringVar(&outDir, "out", "", "template directory (default: the letters directory)")
	_ = cmd.MarkFlagRequired("expect")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.recognizer()
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"version": Version, "commit": GitCommit}).Debug("MCP server starting")
			return server.New(rec, Version).Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
