package carousel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Carousel is the complete wave carousel: an Animator driven by polled input,
// slide images loaded in the background, and a perspective renderer. It
// implements ebiten.Game, so it can be handed straight to ebiten.RunGame or
// to Run.
type Carousel struct {
	// ClearColor fills the screen before the slides are drawn.
	ClearColor Color
	// ScreenshotDir receives PNGs queued with Screenshot.
	ScreenshotDir string
	// ShowHUD draws the FPS and state overlay.
	ShowHUD bool

	cfg      Config
	anim     *Animator
	input    *InputPoller
	camera   *Camera
	loader   *TextureLoader
	renderer renderer
	hud      *hud
	script   *ScriptRunner

	screenshotQueue []string

	debugFrame int
	stats      debugStats
}

// New validates cfg, builds the slides and starts loading their images from
// assets. Loads run until they finish, fail, or ctx is cancelled; Close
// cancels whatever is still in flight.
func New(ctx context.Context, cfg Config, assets fs.FS) (*Carousel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new carousel: %w", err)
	}
	c := &Carousel{
		ClearColor:    Color{R: 0.04, G: 0.04, B: 0.05, A: 1},
		ScreenshotDir: DefaultScreenshotDir,
		cfg:           cfg,
		anim:          NewAnimator(cfg),
		input:         NewInputPoller(cfg),
		camera:        NewCamera(cfg.FOV, cfg.CameraZ, 0, 0),
	}
	if assets != nil {
		c.loader = NewTextureLoader(ctx, assets, cfg.MaxConcurrentLoads)
		for _, s := range c.anim.Slides() {
			c.loader.Load(s.Index, path.Clean(cfg.ImagePaths[s.ImageIndex]))
		}
	}
	return c, nil
}

// Animator returns the underlying animator.
func (c *Carousel) Animator() *Animator { return c.anim }

// Input returns the input poller, for queueing synthetic events.
func (c *Carousel) Input() *InputPoller { return c.input }

// Camera returns the projection camera.
func (c *Carousel) Camera() *Camera { return c.camera }

// SetScript attaches an input script. Its steps run one per frame from the
// next Update.
func (c *Carousel) SetScript(r *ScriptRunner) {
	c.script = r
}

// ScriptDone reports whether an attached script has finished. It is false
// when no script is attached.
func (c *Carousel) ScriptDone() bool {
	return c.script != nil && c.script.Done()
}

// Update applies finished image loads, feeds input to the animator and
// advances it by one tick.
func (c *Carousel) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	c.applyTextures()
	if c.script != nil {
		c.script.step(c)
	}
	c.input.Poll(c.anim)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		c.Screenshot("manual")
	}

	var t0 time.Time
	if c.cfg.Debug {
		t0 = time.Now()
	}
	c.anim.Tick(dt)
	if c.cfg.Debug {
		c.stats.tickTime = time.Since(t0)
	}

	if c.ShowHUD {
		if c.hud == nil {
			c.hud = newHUD()
		}
		c.hud.update(dt, c.anim.Snapshot())
	}
	return nil
}

// applyTextures swaps finished images into their slides and returns how many
// results arrived. Failed loads keep the placeholder.
func (c *Carousel) applyTextures() int {
	if c.loader == nil {
		return 0
	}
	return c.loader.Poll(func(res TextureResult) {
		if res.Err != nil {
			warnf("slide %d: load image %s: %v", res.Slide, res.Path, res.Err)
			return
		}
		c.anim.SetSlideImage(res.Slide, ebiten.NewImageFromImage(res.Image))
	})
}

// Draw renders the slides, the HUD and any queued screenshots.
func (c *Carousel) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if c.cfg.Debug {
		t0 = time.Now()
	}

	screen.Fill(c.ClearColor.toRGBA())
	c.renderer.draw(screen, c.camera, c.anim.Slides())
	c.flushScreenshots(screen)

	if c.cfg.Debug {
		c.stats.drawTime = time.Since(t0)
		c.stats.triangles = c.renderer.triangles
		c.stats.drawCalls = c.renderer.drawCalls
		c.stats.visible = countVisible(c.anim.Slides())
		if c.loader != nil {
			c.stats.loads = c.loader.Pending()
		}
		c.debugLog(c.stats)
	}

	// Drawn after screenshots so captures show only the carousel.
	if c.ShowHUD && c.hud != nil {
		c.hud.draw(screen)
	}
}

// Layout keeps the logical screen equal to the window and resizes the
// camera to match.
func (c *Carousel) Layout(outsideWidth, outsideHeight int) (int, int) {
	c.camera.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close cancels in-flight image loads and waits for them to stop.
func (c *Carousel) Close() {
	if c.loader != nil {
		c.loader.Close()
	}
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	ShowHUD    bool
	Fullscreen bool
	// ExitOnScriptDone ends the game once an attached script finishes.
	ExitOnScriptDone bool
}

// errScriptDone ends RunGame cleanly after a script.
var errScriptDone = errors.New("carousel: script done")

type runGame struct {
	*Carousel
	exitOnScriptDone bool
}

func (g runGame) Update() error {
	if err := g.Carousel.Update(); err != nil {
		return err
	}
	if g.exitOnScriptDone && g.ScriptDone() && len(g.screenshotQueue) == 0 {
		return errScriptDone
	}
	return nil
}

// Run opens a resizable window and runs c until the window closes. Image
// loads still in flight are cancelled before Run returns.
func Run(c *Carousel, cfg RunConfig) error {
	defer c.Close()

	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	c.ShowHUD = c.ShowHUD || cfg.ShowHUD

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)

	err := ebiten.RunGame(runGame{Carousel: c, exitOnScriptDone: cfg.ExitOnScriptDone})
	if errors.Is(err, errScriptDone) {
		return nil
	}
	return err
}
