package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"viamgo"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/rimage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <input.jpg> [output.jpg]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  If output is not specified, it will be <input>_grid.jpg\n")
		os.Exit(1)
	}

	inputFile := os.Args[1]

	var outputFile string
	if len(os.Args) >= 3 {
		outputFile = os.Args[2]
	} else {
		ext := filepath.Ext(inputFile)
		outputFile = strings.TrimSuffix(inputFile, ext) + "_grid" + ext
	}

	logger := logging.NewLogger("gridfinder")

	input, err := rimage.ReadImageFromFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Image size: %dx%d\n", input.Bounds().Dx(), input.Bounds().Dy())

	cfg := viamgo.DefaultSessionConfig()
	lines, edges := viamgo.DetectLines(input, cfg.Detector)
	fmt.Printf("Detected %d lines\n", len(lines))

	grid, err := viamgo.ExtractGrid(lines, edges, cfg.Grid, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding board grid: %v\n", err)
		os.Exit(1)
	}

	last := grid.Rows() - 1
	fmt.Printf("Found %dx%d board\n", grid.Cols(), grid.Rows())
	fmt.Printf("  Top-left:     %v\n", grid[0][0])
	fmt.Printf("  Top-right:    %v\n", grid[0][grid.Cols()-1])
	fmt.Printf("  Bottom-right: %v\n", grid[last][grid.Cols()-1])
	fmt.Printf("  Bottom-left:  %v\n", grid[last][0])

	err = rimage.WriteImageToFile(outputFile, viamgo.OverlayImage(input, grid, nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved output image to %s\n", outputFile)
}
