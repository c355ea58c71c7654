// Command iocod loads CoD1 IBSP v59 levels: "info" prints what a level
// contains, "view" walks through it in an OpenGL window.
package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/riicchhaarrd/iocod/bspfile"
	"github.com/riicchhaarrd/iocod/render"
	"github.com/riicchhaarrd/iocod/world"
)

const (
	windowWidth  = 800
	windowHeight = 600
)

func init() {
	// GLFW event handling must run on the main thread
	runtime.LockOSThread()
}

type rootCmd struct {
	Info infoCmd `command:"info" description:"Print level statistics"`
	View viewCmd `command:"view" description:"Open the level in a viewer window"`
}

func main() {
	var root rootCmd
	parser := flags.NewParser(&root, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

// readLevel loads the raw level bytes from a .bsp on disk or from inside
// a .pk3 archive.
func readLevel(mapPath string) ([]byte, string, error) {
	name := filepath.Base(mapPath)
	if strings.EqualFold(filepath.Ext(mapPath), ".pk3") {
		names, err := bspfile.ListBSPNames(mapPath)
		if err != nil {
			return nil, "", err
		}
		if len(names) == 0 {
			return nil, "", fmt.Errorf("no .bsp entries in %v", mapPath)
		}
		data, err := bspfile.ExtractBSP(mapPath, names[0])
		return data, names[0], err
	}
	data, err := os.ReadFile(mapPath)
	return data, name, err
}

type infoCmd struct {
	Permissive bool `long:"permissive" description:"Ignore the leaf-surface lump, mark everything visible"`
	Args       struct {
		Map string `positional-arg-name:"map" description:"Path to a .bsp or .pk3"`
	} `positional-args:"yes" required:"yes"`
}

func (c *infoCmd) Execute(_ []string) error {
	data, name, err := readLevel(c.Args.Map)
	if err != nil {
		return err
	}

	cfg := world.Config{}
	if c.Permissive {
		cfg.LeafSurfaces = world.LeafSurfacesAllVisible
	}
	w, err := world.LoadWorld(name, data, cfg)
	if err != nil {
		return err
	}

	fmt.Println("Map:", w.Name)
	fmt.Println("Materials:", len(w.Materials))
	fmt.Println("Planes:", len(w.Planes))
	fmt.Println("Surfaces:", len(w.Surfaces))
	fmt.Printf("Nodes: %d (%d decision + %d leaf)\n",
		len(w.Nodes), w.NumDecisionNodes, len(w.Nodes)-w.NumDecisionNodes)
	fmt.Println("Leaf surfaces:", len(w.LeafSurfaces))
	fmt.Println("Submodels:", len(w.Submodels))
	fmt.Println("Clusters:", w.Vis.NumClusters)
	fmt.Println("Lightmaps:", w.NumLightmaps)
	fmt.Println("Entities:", len(w.Entities))
	fmt.Println("Data size:", w.DataSize, "bytes")

	if leaf := w.PointInLeaf([3]float32{0, 0, 0}); leaf >= 0 {
		fmt.Printf("Leaf at origin: %d (cluster %d, area %d)\n",
			leaf, w.Nodes[leaf].Cluster, w.Nodes[leaf].Area)
	} else {
		fmt.Println("Leaf at origin: none (level has no tree)")
	}
	return nil
}

type viewCmd struct {
	Args struct {
		Map string `positional-arg-name:"map" description:"Path to a .bsp or .pk3"`
	} `positional-args:"yes" required:"yes"`
}

// playerSpawn picks where to drop the camera: the first player start
// entity, or the center of the world submodel when the level has none.
func playerSpawn(w *world.World) ([3]float32, float32) {
	for _, classname := range []string{"info_player_start", "info_player_deathmatch"} {
		for _, e := range w.Entities {
			if e.Classname() != classname {
				continue
			}
			origin, ok := parseOrigin(e)
			if !ok {
				continue
			}
			var yaw float32
			if v, ok := e.Property("angle"); ok {
				fmt.Sscanf(v, "%f", &yaw)
			}
			return origin, yaw
		}
	}

	sub := w.Submodels[0]
	var center [3]float32
	for i := 0; i < 3; i++ {
		center[i] = (sub.Mins[i] + sub.Maxs[i]) / 2
	}
	return center, 0
}

func parseOrigin(e *world.Entity) ([3]float32, bool) {
	v, ok := e.Property("origin")
	if !ok {
		return [3]float32{}, false
	}
	var origin [3]float32
	if n, err := fmt.Sscanf(v, "%f %f %f", &origin[0], &origin[1], &origin[2]); n != 3 || err != nil {
		return [3]float32{}, false
	}
	return origin, true
}

// viewDistance sizes the far plane to the world submodel's diagonal so
// the whole level stays in view.
func viewDistance(w *world.World) float32 {
	sub := w.Submodels[0]
	var sum float32
	for i := 0; i < 3; i++ {
		d := sub.Maxs[i] - sub.Mins[i]
		sum += d * d
	}
	dist := float32(math.Sqrt(float64(sum)))
	if dist < 1024 {
		dist = 1024
	}
	return dist
}

func (c *viewCmd) Execute(_ []string) error {
	data, name, err := readLevel(c.Args.Map)
	if err != nil {
		return err
	}

	windowHandler := NewWindowHandler(windowWidth, windowHeight, "iocod viewer - "+name)
	renderer := render.NewRenderer()
	renderer.Init()

	// One flat white texture stands in for every material
	white := render.WhiteTexture()

	w, err := world.LoadWorld(name, data, world.Config{
		LeafSurfaces:  world.LeafSurfacesAllVisible,
		Emitter:       world.NewVertexBufferEmitter(),
		DefaultShader: white,
		ResolveShader: func(string) uint32 { return white },
		CreateImage:   render.CreateImage,
	})
	if err != nil {
		return err
	}
	renderer.FarPlane = viewDistance(w)

	renderMap, err := render.BuildRenderMap(w)
	if err != nil {
		return err
	}

	origin, yaw := playerSpawn(w)
	camera := NewCamera(windowHandler, origin, yaw)

	lastLeaf := -2
	for !windowHandler.shouldClose() {
		windowHandler.startFrame()
		renderer.PrepareFrame(camera.GetViewMatrix(), windowHandler.aspectRatio())
		render.DrawMap(renderer, renderMap)
		camera.UpdateViewMatrix()

		// Title tracks which leaf and cluster the camera is in
		if leaf := w.PointInLeaf(camera.WorldPosition()); leaf != lastLeaf {
			lastLeaf = leaf
			if leaf >= 0 {
				windowHandler.setTitle(fmt.Sprintf("iocod viewer - %v [leaf %d cluster %d]",
					name, leaf, w.Nodes[leaf].Cluster))
			}
		}
	}
	return nil
}
