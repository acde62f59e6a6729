package carousel

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// hudRefresh is the number of seconds between HUD text refreshes.
const hudRefresh = 0.5

// hud is a small overlay showing FPS/TPS and the animator state. The text is
// redrawn into a cached image every hudRefresh seconds.
type hud struct {
	img     *ebiten.Image
	elapsed float64
}

func newHUD() *hud {
	// 200x64 fits five lines of debug font.
	return &hud{img: ebiten.NewImage(200, 64), elapsed: hudRefresh}
}

func hudText(snap Snapshot, fps, tps float64) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\n%s slide %d\npos %.2f  dist %.2f",
		fps, tps, snap.State, snap.ActiveIndex, snap.Position, snap.Distortion)
}

func (h *hud) update(dt float64, snap Snapshot) {
	h.elapsed += dt
	if h.elapsed < hudRefresh {
		return
	}
	h.elapsed = 0

	h.img.Clear()
	// Semi-transparent background for readability
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, hudText(snap, ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (h *hud) draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(8, 8)
	screen.DrawImage(h.img, &op)
}
