// Command navmesh triangulates random points step by step and prints a
// straightened path across the resulting mesh.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexworld/internal/entropy"
	"github.com/talgya/hexworld/internal/navmesh"
)

func main() {
	n := flag.Int("points", 200, "number of random points")
	size := flag.Float64("size", 10, "points fall within [-size, size] on both axes")
	seed := flag.Int64("seed", -1, "random seed (random when negative)")
	from := flag.String("from", "-8,-8", "path start as x,y")
	to := flag.String("to", "8,8", "path goal as x,y")
	wall := flag.String("wall", "", "optional wall segment x1,y1,x2,y2 cut from the mesh")
	every := flag.Int("every", 50, "report progress every n inserted points")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	start, err := parsePoints(*from, 1)
	if err != nil {
		fatal(err)
	}
	goal, err := parsePoints(*to, 1)
	if err != nil {
		fatal(err)
	}
	if *seed < 0 {
		*seed = entropy.NewSeed()
	}

	rng := rand.New(rand.NewSource(*seed))
	points := navmesh.RandomPoints(rng, *n, -*size, *size)
	pool := navmesh.NewPool(2**n + 2)

	tr, err := navmesh.NewTriangulator(pool, points, -*size, *size)
	if err != nil {
		fatal(err)
	}
	for {
		done, err := tr.Step()
		if err != nil {
			fatal(err)
		}
		inserted, total := tr.Progress()
		if done || (*every > 0 && inserted%*every == 0) {
			fmt.Printf("inserted %d/%d points: %d triangles, %d completed\n",
				inserted, total, len(tr.Triangles()), tr.CompletedCount())
		}
		if done {
			break
		}
	}
	freeTris, freeEdges := pool.Free()
	fmt.Printf("pool: %s allocated, %s triangles and %s edges free\n",
		humanize.Comma(int64(pool.Allocated())), humanize.Comma(int64(freeTris)), humanize.Comma(int64(freeEdges)))

	mesh := tr.Mesh()
	if *wall != "" {
		ends, err := parsePoints(*wall, 2)
		if err != nil {
			fatal(err)
		}
		before := mesh.Len()
		mesh = mesh.Cut(ends[0], ends[1])
		fmt.Printf("wall removed %d of %d triangles\n", before-mesh.Len(), before)
	}

	path, ok := navmesh.FindPath(mesh, start[0], goal[0])
	if !ok {
		fmt.Printf("no path from %s to %s (seed %d)\n", start[0], goal[0], *seed)
		os.Exit(1)
	}
	fmt.Printf("path from %s to %s, seed %d, length %.3f (straight line %.3f):\n",
		start[0], goal[0], *seed, navmesh.PathLength(path), start[0].Dist(goal[0]))
	for _, p := range path {
		fmt.Printf("  %s\n", p)
	}
}

// parsePoints reads n comma-separated x,y pairs.
func parsePoints(s string, n int) ([]navmesh.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2*n {
		return nil, fmt.Errorf("%q: want %d comma-separated numbers", s, 2*n)
	}
	pts := make([]navmesh.Point, n)
	for i := range pts {
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[2*i]), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[2*i+1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		pts[i] = navmesh.Point{X: x, Y: y}
	}
	return pts, nil
}

func fatal(err error) {
	slog.Error("navmesh demo failed", "error", err)
	os.Exit(1)
}
