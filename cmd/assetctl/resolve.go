// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gogpu/asset"
	"github.com/gogpu/asset/internal/async"
	"github.com/gogpu/asset/loaders"
	"github.com/gogpu/asset/metrics"
)

type resolveFlags struct {
	manifest  string
	root      string
	size      string
	scale     float32
	fit       string
	filter    string
	frames    int
	interval  time.Duration
	budget    int
	out       string
	verbose   bool
	metrics   bool
	fetches   int
	maxBody   int64
	decodeBgd bool
}

func newResolveCmd() *cobra.Command {
	f := new(resolveFlags)
	cmd := &cobra.Command{
		Use:   "resolve [flags] URI...",
		Short: "Resolve URIs to textures through the frame loop.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), cmd.OutOrStdout(), f, args)
		},
		SilenceUsage: true,
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.manifest, "manifest", "m", "", "YAML manifest of bytes:// URIs to include")
	fs.StringVar(&f.root, "root", "", "serve file:// paths from this directory instead of the host root")
	fs.StringVar(&f.size, "size", "", "size hint: WxH, Wx (width) or xH (height)")
	fs.Float32Var(&f.scale, "scale", 0, "scale hint, exclusive with --size")
	fs.StringVar(&f.fit, "fit", "contain", "fit for WxH hints: contain, cover or exact")
	fs.StringVar(&f.filter, "filter", "linear", "texture filter: linear or nearest")
	fs.IntVar(&f.frames, "frames", 600, "maximum number of frames to poll")
	fs.DurationVar(&f.interval, "interval", 16*time.Millisecond, "time between frames")
	fs.IntVar(&f.budget, "budget", 0, "texture memory budget in bytes, 0 for unlimited")
	fs.StringVarP(&f.out, "out", "o", "", "write each texture as PNG into this directory")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log pipeline activity to stderr")
	fs.BoolVar(&f.metrics, "metrics", false, "print resolver metrics after resolving")
	fs.IntVar(&f.fetches, "fetches", 0, "concurrent fetches per bytes resolver, 0 for the default")
	fs.Int64Var(&f.maxBody, "max-body", 0, "largest HTTP body in bytes, 0 for the default")
	fs.BoolVar(&f.decodeBgd, "background-decode", false, "decode images off the frame loop")
	return cmd
}

// result is the final state of one URI.
type result struct {
	uri   string
	frame int
	tex   asset.SizedTexture
	err   error
}

func runResolve(ctx context.Context, w io.Writer, f *resolveFlags, uris []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if f.verbose {
		asset.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer asset.SetLogger(nil)
	}

	hint, err := parseSizeHint(f.size, f.fit)
	if err != nil {
		return err
	}
	if f.scale != 0 {
		if f.size != "" {
			return errors.New("--size and --scale are exclusive")
		}
		if hint, err = parseScale(f.scale); err != nil {
			return err
		}
	}
	opts, err := parseFilter(f.filter)
	if err != nil {
		return err
	}

	reg := asset.NewRegistry(asset.WithTextureBudget(f.budget))
	defer reg.Close()

	lopts := []loaders.Option{
		loaders.WithMaxConcurrentFetches(f.fetches),
		loaders.WithMaxBodySize(f.maxBody),
	}
	if f.root != "" {
		lopts = append(lopts, loaders.WithFilesystem(osfs.New(f.root)))
	}
	if f.decodeBgd {
		decodes := async.NewPool(0)
		defer decodes.Close()
		lopts = append(lopts, loaders.WithBackgroundDecode(decodes))
	}
	if err := loaders.Install(reg, lopts...); err != nil {
		return err
	}

	if f.manifest != "" {
		m, err := loadManifest(f.manifest)
		if err != nil {
			return err
		}
		if err := m.include(ctx, reg); err != nil {
			return err
		}
	}

	creator := &cpuCreator{}
	results := pollFrames(ctx, reg, asset.NewUploader(creator), uris, opts, hint, f.frames, f.interval)

	var failed int
	for _, r := range results {
		switch {
		case r.err != nil:
			failed++
			fmt.Fprintf(w, "%s\tfailed\t%v\n", r.uri, r.err)
		case r.tex.Texture == nil:
			failed++
			fmt.Fprintf(w, "%s\tpending\tgave up after %d frames\n", r.uri, f.frames)
		default:
			fmt.Fprintf(w, "%s\tready\t%s\tframe %d\n", r.uri, r.tex.Size, r.frame)
			if f.out != "" {
				if err := writeTexture(f.out, r); err != nil {
					return err
				}
			}
		}
	}

	mem := reg.MemoryUsed()
	fmt.Fprintf(w, "memory\tbytes=%d images=%d textures=%d total=%d\n", mem.Bytes, mem.Images, mem.Textures, mem.Total())
	fmt.Fprintf(w, "uploads\t%d\n", creator.created.Load())

	if f.metrics {
		if err := printMetrics(w, reg); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d URIs not resolved", failed, len(uris))
	}
	return nil
}

// pollFrames polls every unresolved URI once per frame until all are
// terminal, the frame limit is reached, or ctx is done.
func pollFrames(ctx context.Context, reg *asset.Registry, up asset.Uploader, uris []string,
	opts asset.RenderOptions, hint asset.SizeHint, frames int, interval time.Duration,
) []result {
	results := make([]result, len(uris))
	for i, uri := range uris {
		results[i].uri = uri
	}

	for frame := range max(1, frames) {
		pending := 0
		for i := range results {
			r := &results[i]
			if r.err != nil || r.tex.Texture != nil {
				continue
			}
			poll, err := reg.ResolveTexture(up, r.uri, opts, hint)
			switch {
			case err != nil:
				r.err, r.frame = err, frame
			case poll.IsReady():
				r.tex, r.frame = poll.Value, frame
			default:
				pending++
			}
		}
		reg.EndOfFrame()

		if pending == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return results
		case <-time.After(interval):
		}
	}
	return results
}

func writeTexture(dir string, r result) error {
	tex, ok := r.tex.Texture.(*cpuTexture)
	if !ok {
		return fmt.Errorf("unexpected texture type %T", r.tex.Texture)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := filepath.Join(dir, fileNameFor(r.uri)+".png")
	if err := tex.writePNG(name); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileNameFor turns a URI into a file name.
func fileNameFor(uri string) string {
	if _, rest, ok := strings.Cut(uri, "://"); ok {
		uri = rest
	}
	name := strings.Trim(unsafeName.ReplaceAllString(uri, "_"), "_.")
	if name == "" {
		return "texture"
	}
	return name
}

// parseSizeHint parses WxH, Wx, xH, or "" for none.
func parseSizeHint(s, fit string) (asset.SizeHint, error) {
	if s == "" {
		return asset.SizeHint{}, nil
	}

	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return asset.SizeHint{}, fmt.Errorf("invalid size %q", s)
	}
	switch {
	case w != "" && h != "":
		wi, err1 := strconv.Atoi(w)
		hi, err2 := strconv.Atoi(h)
		if err := errors.Join(err1, err2); err != nil || wi <= 0 || hi <= 0 {
			return asset.SizeHint{}, fmt.Errorf("invalid size %q", s)
		}
		f, err := parseFit(fit)
		if err != nil {
			return asset.SizeHint{}, err
		}
		return asset.BoxHint(wi, hi, f), nil
	case h != "":
		hi, err := strconv.Atoi(h)
		if err != nil || hi <= 0 {
			return asset.SizeHint{}, fmt.Errorf("invalid height in %q", s)
		}
		return asset.HeightHint(hi), nil
	case w != "":
		wi, err := strconv.Atoi(w)
		if err != nil || wi <= 0 {
			return asset.SizeHint{}, fmt.Errorf("invalid width in %q", s)
		}
		return asset.WidthHint(wi), nil
	default:
		return asset.SizeHint{}, fmt.Errorf("invalid size %q", s)
	}
}

// parseScale accepts finite positive factors.
func parseScale(s float32) (asset.SizeHint, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return asset.SizeHint{}, fmt.Errorf("invalid scale %g", s)
	}
	return asset.ScaleHint(s), nil
}

func parseFit(s string) (asset.Fit, error) {
	switch strings.ToLower(s) {
	case "", "contain":
		return asset.FitContain, nil
	case "cover":
		return asset.FitCover, nil
	case "exact":
		return asset.FitExact, nil
	default:
		return 0, fmt.Errorf("invalid fit %q", s)
	}
}

func parseFilter(s string) (asset.RenderOptions, error) {
	switch strings.ToLower(s) {
	case "", "linear":
		return asset.DefaultRenderOptions(), nil
	case "nearest":
		return asset.NearestRenderOptions(), nil
	default:
		return asset.RenderOptions{}, fmt.Errorf("invalid filter %q", s)
	}
}

func printMetrics(w io.Writer, reg *asset.Registry) error {
	pr := prometheus.NewRegistry()
	if err := pr.Register(metrics.NewCollector(reg)); err != nil {
		return err
	}
	families, err := pr.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			value := m.GetGauge().GetValue() + m.GetCounter().GetValue()
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
		}
	}
	return nil
}
