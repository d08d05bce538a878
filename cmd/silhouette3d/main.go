package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"silhouette3d/pkg/config"
	"silhouette3d/pkg/reconstruction"
	"silhouette3d/pkg/silhouette"
	"silhouette3d/pkg/visualization"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "silhouette3d.yaml", "YAML configuration file (defaults are used if it does not exist)")
	outputName := flag.String("output", "", "Output STL filename (default: <top image>_Model.stl)")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use for carving (default: from config)")
	extractSlices := flag.Bool("extract-slices", false, "Save cross sections of the voxel grid along all axes")
	slicesDir := flag.String("slices-dir", "voxel_slices", "Directory to save extracted slices")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <xy-image> <xz-image> <zy-image>\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "\nThe three silhouettes are the top (XY), front (XZ) and side (ZY) views.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *numCores > 0 {
		cfg.Processing.NumCores = *numCores
	}
	marker, err := cfg.Marker()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	topPath := flag.Arg(0)
	outputPath := *outputName
	if outputPath == "" {
		outputPath = silhouette.OutputPath(topPath, "_Model", ".stl")
	}

	params := &reconstruction.Params{
		TopPath:       topPath,
		FrontPath:     flag.Arg(1),
		SidePath:      flag.Arg(2),
		OutputFile:    outputPath,
		NumCores:      cfg.Processing.NumCores,
		Threshold:     uint8(cfg.Threshold.Level),
		Invert:        cfg.Threshold.Invert,
		Scale:         [3]float64{cfg.Mesh.Scale.X, cfg.Mesh.Scale.Y, cfg.Mesh.Scale.Z},
		SaveAnnotated: cfg.Output.SaveAnnotated,
		MarkerColor:   marker,
		Verbose:       cfg.Output.Verbose,
		ShowProgress:  cfg.Output.Verbose && term.IsTerminal(int(os.Stdout.Fd())),
	}

	reconstructor := reconstruction.NewReconstructor(params)

	fmt.Println("Reconstructing solid from silhouettes...")
	startTime := time.Now()
	if err := reconstructor.Process(); err != nil {
		log.Fatalf("Reconstruction failed: %v", err)
	}
	processingTime := time.Since(startTime)

	metrics := reconstructor.GetMetrics()
	fmt.Printf("\nReconstruction completed in %.2f seconds.\n", processingTime.Seconds())
	fmt.Printf("Output mesh saved to: %s\n\n", outputPath)

	fmt.Printf("Solid voxels:       %d\n", metrics.SolidVoxels)
	fmt.Printf("Quads:              %d\n", metrics.Quads)
	fmt.Printf("Vertices (welded):  %d (%d before welding)\n", metrics.WeldedVertices, metrics.SoupVertices)
	fmt.Printf("Triangles:          %d\n", metrics.Triangles)
	fmt.Printf("Explained pixels:   %.2f%%\n", metrics.ExplainedRatio*100)

	if *extractSlices {
		fmt.Println("\nExtracting voxel slices along all axes...")

		viewer := visualization.NewViewer(reconstructor.GetGrid())
		for _, axis := range []string{"x", "y", "z"} {
			axisDir := filepath.Join(*slicesDir, axis)
			fmt.Printf("Saving %s-axis slices to: %s\n", axis, axisDir)

			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				log.Printf("Warning: Failed to save %s-axis slices: %v", axis, err)
			}
		}
	}
}
