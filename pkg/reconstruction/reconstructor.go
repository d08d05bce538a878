package reconstruction

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"gonum.org/v1/gonum/stat"

	"silhouette3d/internal/models"
	"silhouette3d/pkg/mesh"
	"silhouette3d/pkg/silhouette"
	"silhouette3d/pkg/stl"
)

// Metrics summarises a reconstruction run.
type Metrics struct {
	// SolidVoxels is the number of occupied voxels after carving
	SolidVoxels int

	// Quads is the number of exposed voxel faces
	Quads int

	// SoupVertices is the vertex count before welding (six per quad)
	SoupVertices int

	// WeldedVertices is the vertex count after welding
	WeldedVertices int

	// Triangles is the number of triangles written to the STL file
	Triangles int

	// OpenEdges counts edges used by an odd number of triangles. It is
	// zero for every voxel surface.
	OpenEdges int

	// Unexplained holds the number of unexplained pixels per view
	Unexplained [3]int

	// ExplainedRatio is the mean over the views of the fraction of solid
	// pixels backed by at least one voxel.
	ExplainedRatio float64
}

// Params holds the reconstruction parameters.
type Params struct {
	// TopPath, FrontPath and SidePath are the XY, XZ and ZY silhouettes.
	TopPath   string
	FrontPath string
	SidePath  string

	// OutputFile is the path where the resulting mesh is saved in STL format.
	OutputFile string

	// NumCores specifies how many goroutines carve the grid.
	NumCores int

	// Threshold and Invert control how images become masks.
	Threshold uint8
	Invert    bool

	// Scale is the voxel edge length along X, Y and Z.
	Scale [3]float64

	// SaveAnnotated writes a copy of every silhouette with unexplained
	// pixels painted in MarkerColor.
	SaveAnnotated bool
	MarkerColor   color.Color

	// Verbose prints a line per pipeline step.
	Verbose bool

	// ShowProgress redraws a progress line during carving. Only useful on
	// a terminal.
	ShowProgress bool
}

// Reconstructor runs the silhouette-to-mesh pipeline:
// 1. Loading and thresholding the three silhouettes
// 2. Carving the occupancy grid
// 3. Checking each silhouette against the grid
// 4. Extracting the exposed voxel faces
// 5. Welding vertices
// 6. Serializing the mesh as binary STL
// 7. Writing the annotated silhouettes and the STL file
type Reconstructor struct {
	params *Params

	masks   [3]*models.Mask
	grid    *models.Grid
	reports [3]*ViewReport
	mesh    *mesh.IndexedMesh
	stlData []byte

	metrics Metrics
}

// NewReconstructor creates a new reconstructor instance with the provided parameters.
func NewReconstructor(params *Params) *Reconstructor {
	return &Reconstructor{
		params: params,
	}
}

// Process runs the complete pipeline from image files to output files.
// Nothing is written unless every stage succeeds.
func (r *Reconstructor) Process() error {
	r.logf("Step 1: Loading silhouettes...")
	opts := silhouette.Options{Level: r.params.Threshold, Invert: r.params.Invert}
	for i, path := range r.inputPaths() {
		mask, err := silhouette.Load(path, opts)
		if err != nil {
			return err
		}
		r.logf("  %s: %dx%d, %d solid pixels", models.Views[i], mask.Width, mask.Height, mask.SolidCount())
		r.masks[i] = mask
	}

	if err := r.Run(r.masks[0], r.masks[1], r.masks[2]); err != nil {
		return err
	}

	r.logf("Step 7: Writing output files...")
	return r.writeOutputs()
}

// Run executes the in-memory stages on already thresholded masks.
func (r *Reconstructor) Run(top, front, side *models.Mask) error {
	r.masks = [3]*models.Mask{top, front, side}

	r.logf("Step 2: Carving voxels...")
	carveOpts := CarveOptions{Workers: r.params.NumCores}
	if r.params.ShowProgress {
		carveOpts.Progress = func(done, total int) {
			fmt.Printf("\rCarving: %.1f%% complete", float64(done)/float64(total)*100)
		}
	}
	grid, err := Carve(top, front, side, carveOpts)
	if err != nil {
		return fmt.Errorf("failed to carve voxels: %w", err)
	}
	if r.params.ShowProgress {
		fmt.Println()
	}
	r.grid = grid
	r.metrics.SolidVoxels = grid.SolidCount()
	r.logf("  Grid %dx%dx%d, %d solid voxels", grid.Nx, grid.Ny, grid.Nz, r.metrics.SolidVoxels)

	r.logf("Step 3: Checking silhouettes against the grid...")
	reports, err := CheckViews(grid, top, front, side)
	if err != nil {
		return fmt.Errorf("failed to check silhouettes: %w", err)
	}
	r.reports = reports
	ratios := make([]float64, len(reports))
	for i, report := range reports {
		r.metrics.Unexplained[i] = report.Count
		ratios[i] = report.ExplainedRatio()
		if report.FoundError {
			fmt.Printf("Warning: There were errors in the %s image (%d unexplained pixels).\n",
				report.View, report.Count)
		}
	}
	r.metrics.ExplainedRatio = stat.Mean(ratios, nil)

	r.logf("Step 4: Extracting surface...")
	soup := mesh.ExtractSurface(grid)
	r.metrics.Quads = soup.Quads()
	r.metrics.SoupVertices = len(soup.Vertices)
	if soup.Empty() {
		fmt.Println("Warning: No solid voxels, the mesh has no geometry.")
	}
	r.logf("  %d quads, %d vertices", r.metrics.Quads, r.metrics.SoupVertices)

	r.logf("Step 5: Welding vertices...")
	r.mesh = mesh.Weld(soup)
	r.metrics.WeldedVertices = len(r.mesh.Vertices)
	r.metrics.Triangles = len(r.mesh.Triangles)
	for _, n := range r.mesh.EdgeUses() {
		if n%2 != 0 {
			r.metrics.OpenEdges++
		}
	}
	if r.metrics.OpenEdges > 0 {
		fmt.Printf("Warning: The mesh has %d open edges.\n", r.metrics.OpenEdges)
	}
	r.logf("  %d vertices, %d triangles", r.metrics.WeldedVertices, r.metrics.Triangles)

	r.logf("Step 6: Serializing STL...")
	r.stlData = stl.Marshal(stl.FromMesh(r.mesh, r.params.Scale))

	return nil
}

// writeOutputs writes the annotated silhouettes and the STL file. If any
// write fails the files already written by this call are removed.
func (r *Reconstructor) writeOutputs() error {
	var written []string
	cleanup := func() {
		for _, path := range written {
			os.Remove(path)
		}
	}

	if r.params.SaveAnnotated {
		for i, img := range r.AnnotatedImages() {
			path := AnnotatedPath(r.inputPaths()[i], models.Views[i])
			if err := silhouette.Save(path, img); err != nil {
				cleanup()
				return fmt.Errorf("failed to save annotated %s image: %w", models.Views[i], err)
			}
			written = append(written, path)
			r.logf("  Saved %s", path)
		}
	}

	if err := stl.Save(r.params.OutputFile, r.stlData); err != nil {
		cleanup()
		return fmt.Errorf("failed to save STL file: %w", err)
	}
	r.logf("  Saved %s", r.params.OutputFile)

	return nil
}

// AnnotatedImages renders each silhouette with its unexplained pixels
// painted in the marker colour, in top, front, side order.
func (r *Reconstructor) AnnotatedImages() [3]*image.NRGBA {
	marker := r.params.MarkerColor
	if marker == nil {
		marker = color.NRGBA{R: 255, B: 255, A: 255}
	}
	palette := silhouette.NewPalette(r.params.Invert, marker)

	var images [3]*image.NRGBA
	for i, report := range r.reports {
		if report == nil || r.masks[i] == nil {
			continue
		}
		images[i] = silhouette.Annotate(r.masks[i], report.Unexplained, palette)
	}
	return images
}

// AnnotatedPath returns where the annotated copy of input is written.
func AnnotatedPath(input string, view models.View) string {
	return silhouette.OutputPath(input, "_Error_"+view.String(), ".png")
}

func (r *Reconstructor) inputPaths() [3]string {
	return [3]string{r.params.TopPath, r.params.FrontPath, r.params.SidePath}
}

func (r *Reconstructor) logf(format string, args ...interface{}) {
	if r.params.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// GetMetrics returns the statistics of the last run
func (r *Reconstructor) GetMetrics() Metrics {
	return r.metrics
}

// GetGrid returns the carved occupancy grid
func (r *Reconstructor) GetGrid() *models.Grid {
	return r.grid
}

// GetReports returns the per-view consistency reports
func (r *Reconstructor) GetReports() [3]*ViewReport {
	return r.reports
}

// GetMesh returns the welded mesh
func (r *Reconstructor) GetMesh() *mesh.IndexedMesh {
	return r.mesh
}

// GetSTL returns the serialized mesh
func (r *Reconstructor) GetSTL() []byte {
	return r.stlData
}
