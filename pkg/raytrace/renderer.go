package raytrace

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/prism/pkg/render"
)

// RenderStats describes one rendered frame.
type RenderStats struct {
	Pixels  int           // Pixels computed
	Hits    int           // Primary rays that struck an object
	Elapsed time.Duration // Wall time including write-back
}

// Renderer traces frames in parallel, one row per task.
type Renderer struct {
	Workers int // Concurrent rows; <= 0 means runtime.NumCPU()
}

// NewRenderer creates a renderer with the given worker limit.
func NewRenderer(workers int) *Renderer {
	return &Renderer{Workers: workers}
}

func (r *Renderer) workers() int {
	if r.Workers <= 0 {
		return runtime.NumCPU()
	}
	return r.Workers
}

// Render traces every pixel of fb from cam and writes the frame into fb.
func (r *Renderer) Render(world *World, cam render.Camera, fb *render.Framebuffer) error {
	_, err := r.RenderWithStats(world, cam, fb)
	return err
}

// RenderWithStats is Render that also reports frame statistics.
//
// Rows are traced concurrently into a flat color slice, each task owning its
// own row. The framebuffer is only touched afterwards, from the calling
// goroutine. A render always covers the full raster.
func (r *Renderer) RenderWithStats(world *World, cam render.Camera, fb *render.Framebuffer) (RenderStats, error) {
	start := time.Now()
	width, height := fb.Width, fb.Height

	colors := make([]render.Color, width*height)
	rowHits := make([]int, height)

	var g errgroup.Group
	g.SetLimit(r.workers())

	for y := range height {
		g.Go(func() error {
			row := colors[y*width : (y+1)*width]
			for x := range row {
				origin, dir := PrimaryRay(x, y, width, height, cam)
				c, hit := trace(origin, dir, world, 0)
				row[x] = c
				if hit {
					rowHits[y]++
				}
			}
			return nil
		})
	}
	// Row tasks never fail; the group only bounds concurrency.
	_ = g.Wait()

	if err := fb.WritePixels(colors); err != nil {
		return RenderStats{}, fmt.Errorf("write frame: %w", err)
	}

	stats := RenderStats{Pixels: len(colors)}
	for _, n := range rowHits {
		stats.Hits += n
	}
	stats.Elapsed = time.Since(start)
	return stats, nil
}
