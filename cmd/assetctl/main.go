// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command assetctl resolves asset URIs to textures headlessly.
//
// It drives the same frame loop a GUI would: every frame it polls each URI,
// then ends the frame, until all URIs are resolved or the frame limit is
// reached. Textures are created in CPU memory and can be written as PNG.
//
// Usage:
//
//	assetctl resolve [flags] URI...
//	assetctl resolve --manifest assets.yaml --out ./out bytes://logo file://icons/star.svg
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assetctl",
		Short: "Inspect the gogpu asset pipeline.",
	}
	root.AddCommand(newResolveCmd())
	return root
}
