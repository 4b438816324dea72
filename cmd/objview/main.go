// objview - Terminal Wavefront OBJ viewer
// Renders a parsed OBJ model as a wireframe in the terminal.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Space       - Apply random impulse
//	R           - Reset view
//	+/-         - Adjust zoom
//	Esc/Q       - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/taigrr/wavefront/pkg/render"
	"github.com/taigrr/wavefront/pkg/wavefront"
)

var (
	targetFPS = flag.Int("fps", 60, "Target FPS")
	bgColor   = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	fgColor   = flag.String("color", "0,255,128", "Wireframe color (R,G,B)")
	pngPath   = flag.String("png", "", "Render a single frame to this PNG file and exit")
	pngSize   = flag.String("size", "800x600", "PNG frame size (WxH, with -png)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "objview - Terminal Wavefront OBJ viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: objview [options] <model.obj>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Esc/Q       - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// RotationAxis tracks position and velocity for one rotation axis with spring decay.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis with a harmonica spring for smooth velocity decay.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using the spring.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState holds rotation with harmonica spring physics.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// meshGeometry is one triangulated mesh ready for drawing.
type meshGeometry struct {
	name      string
	positions []mgl32.Vec3
	indices   []uint32
}

// loadModel parses and triangulates every mesh, returning the geometry and a
// model matrix that centers the model and scales it to fit a 2-unit cube.
func loadModel(path string) ([]meshGeometry, mgl32.Mat4, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mgl32.Mat4{}, fmt.Errorf("read model: %w", err)
	}
	obj, err := wavefront.ParseOBJ(data)
	if err != nil {
		return nil, mgl32.Mat4{}, fmt.Errorf("parse model: %w", err)
	}

	var geoms []meshGeometry
	var all []wavefront.Vertex
	for i := range obj.Meshes {
		mesh := &obj.Meshes[i]
		indices, vertices, err := mesh.Triangulate()
		if err != nil {
			return nil, mgl32.Mat4{}, fmt.Errorf("triangulate mesh %q: %w", mesh.Name, err)
		}
		if len(indices) == 0 {
			continue
		}
		positions := make([]mgl32.Vec3, len(vertices))
		for j, v := range vertices {
			positions[j] = v.Position
		}
		geoms = append(geoms, meshGeometry{name: mesh.Name, positions: positions, indices: indices})
		all = append(all, vertices...)
	}

	base := mgl32.Ident4()
	if len(all) > 0 {
		min, max := wavefront.Bounds(all)
		center := min.Add(max).Mul(0.5)
		size := max.Sub(min)
		maxDim := size.X()
		if size.Y() > maxDim {
			maxDim = size.Y()
		}
		if size.Z() > maxDim {
			maxDim = size.Z()
		}
		if maxDim > 0 {
			s := 2.0 / maxDim
			base = mgl32.Scale3D(s, s, s).Mul4(
				mgl32.Translate3D(-center.X(), -center.Y(), -center.Z()))
		}
	}
	return geoms, base, nil
}

func parseRGB(s string, r, g, b *uint8) {
	fmt.Sscanf(s, "%d,%d,%d", r, g, b)
}

func run(modelPath string) error {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	parseRGB(*bgColor, &bgR, &bgG, &bgB)
	var fgR, fgG, fgB uint8 = 0, 255, 128
	parseRGB(*fgColor, &fgR, &fgG, &fgB)
	bg := render.RGB(bgR, bgG, bgB)
	fg := render.RGB(fgR, fgG, fgB)

	geoms, base, err := loadModel(modelPath)
	if err != nil {
		return err
	}

	triangles := 0
	for _, g := range geoms {
		triangles += len(g.indices) / 3
	}

	if *pngPath != "" {
		return renderPNG(geoms, base, bg, fg)
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	// Each terminal row is two framebuffer rows (half-block cells)
	fb := render.NewFramebuffer(width, height*2)

	camera := render.NewCamera()
	camera.Aspect = float32(fb.Width) / float32(fb.Height)
	camera.Position = mgl32.Vec3{0, 0, 5}

	wf := render.NewWireframe(camera, fb)

	fmt.Printf("Loaded: %s (%d meshes, %d triangles)\n", filepath.Base(modelPath), len(geoms), triangles)

	rotation := NewRotationState(*targetFPS)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Input state
	inputTorque := struct{ pitch, yaw float64 }{}
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int
	cameraZ := 5.0

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = render.NewFramebuffer(width, height*2)
				camera.Aspect = float32(fb.Width) / float32(fb.Height)
				wf = render.NewWireframe(camera, fb)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("q"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("r"):
					rotation.Reset()
					cameraZ = 5.0
					camera.Position = mgl32.Vec3{0, 0, float32(cameraZ)}
				case ev.MatchString("w", "up"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("space"):
					rotation.ApplyImpulse(
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
					)
				case ev.MatchString("+", "="):
					cameraZ = math.Max(1, cameraZ-0.5)
					camera.Position = mgl32.Vec3{0, 0, float32(cameraZ)}
				case ev.MatchString("-", "_"):
					cameraZ = math.Min(20, cameraZ+0.5)
					camera.Position = mgl32.Vec3{0, 0, float32(cameraZ)}
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputTorque.yaw = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					cameraZ = math.Max(1, cameraZ-0.5)
				case uv.MouseWheelDown:
					cameraZ = math.Min(20, cameraZ+0.5)
				}
				camera.Position = mgl32.Vec3{0, 0, float32(cameraZ)}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		// Apply input torque and decay it (key release events unreliable)
		rotation.ApplyImpulse(inputTorque.pitch*dt, inputTorque.yaw*dt, 0)
		inputTorque.pitch *= 0.9
		inputTorque.yaw *= 0.9

		rotation.Update()

		model := modelMatrix(rotation, base)

		fb.Clear(bg)
		for _, g := range geoms {
			wf.DrawTriangles(model, g.positions, g.indices, fg)
		}
		fb.Draw(term, uv.Rect(0, 0, width, height))
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func modelMatrix(rotation *RotationState, base mgl32.Mat4) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(float32(rotation.Pitch.Position)).
		Mul4(mgl32.HomogRotate3DY(float32(rotation.Yaw.Position))).
		Mul4(mgl32.HomogRotate3DZ(float32(rotation.Roll.Position))).
		Mul4(base)
}

// renderPNG draws a single fixed frame offscreen and writes it to -png.
func renderPNG(geoms []meshGeometry, base mgl32.Mat4, bg, fg render.Color) error {
	var w, h int
	if _, err := fmt.Sscanf(*pngSize, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return fmt.Errorf("invalid -size %q (want WxH)", *pngSize)
	}

	fb := render.NewFramebuffer(w, h)
	camera := render.NewCamera()
	camera.Aspect = float32(w) / float32(h)
	camera.Position = mgl32.Vec3{0, 0, 5}
	wf := render.NewWireframe(camera, fb)

	// A slight tilt so all three axes are visible.
	model := mgl32.HomogRotate3DX(0.4).Mul4(mgl32.HomogRotate3DY(0.6)).Mul4(base)

	fb.Clear(bg)
	for _, g := range geoms {
		wf.DrawTriangles(model, g.positions, g.indices, fg)
	}
	if err := fb.SavePNG(*pngPath); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", *pngPath, w, h)
	return nil
}
