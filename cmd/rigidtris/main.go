// Command rigidtris plays the game in an Ebiten window.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/plus3/rigidtris/config"
	"github.com/plus3/rigidtris/game"
	debugui_ebiten "github.com/plus3/rigidtris/game/debugui/ebiten"
	"github.com/plus3/rigidtris/physics/chipmunk"
	"github.com/plus3/rigidtris/sound"
)

var (
	floorColor     = color.RGBA{90, 90, 90, 255}
	healthColor    = color.RGBA{220, 40, 40, 255}
	healthBgColor  = color.RGBA{40, 40, 40, 255}
	backdropColor  = color.RGBA{20, 20, 28, 255}
	gameOverColor  = color.RGBA{0, 0, 0, 160}
	healthBarWidth = float32(200)
)

type App struct {
	cfg   *config.Config
	log   *zap.Logger
	game  *game.Game
	cues  *sound.Cues
	imgui *debugui_ebiten.ImguiBackend
	debug bool

	block        *ebiten.Image
	screenWidth  int
	screenHeight int
}

func (a *App) controls() game.Controls {
	if a.debug && a.imgui.WantsKeyboard() {
		return game.Controls{}
	}
	return game.Controls{
		Left:        ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:       ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		RotateLeft:  ebiten.IsKeyPressed(ebiten.KeyA),
		RotateRight: ebiten.IsKeyPressed(ebiten.KeyD),
	}
}

func (a *App) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.debug = !a.debug
	}
	if a.game.Over() && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.game.Restart()
	}

	a.game.Tick(a.cfg.Physics.Timestep, a.controls())
	a.cues.Play(a.game.Events())

	if a.debug {
		a.imgui.Update(a.cfg.Physics.Timestep)
	}
	return nil
}

// toScreen maps board units to pixels with the camera centred on the origin
func (a *App) toScreen(x, y float64) (float64, float64) {
	px := float64(a.cfg.Display.BlockPx)
	return float64(a.screenWidth)/2 + x*px, float64(a.screenHeight)/2 - y*px
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backdropColor)
	px := float32(a.cfg.Display.BlockPx)

	b := a.game.Board()
	fx, fy := b.FloorCenter()
	hx, hy := b.FloorHalfExtents()
	left, top := a.toScreen(fx-hx, fy+hy)
	vector.DrawFilledRect(screen, float32(left), float32(top), float32(2*hx)*px, float32(2*hy)*px, floorColor, false)

	for _, block := range a.game.Blocks() {
		sx, sy := a.toScreen(block.Transform.Position.X, block.Transform.Position.Y)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-0.5, -0.5)
		op.GeoM.Scale(float64(px)*0.95, float64(px)*0.95)
		// screen y points down so the angle flips
		op.GeoM.Rotate(-block.Transform.Angle)
		op.GeoM.Translate(sx, sy)
		op.ColorScale.ScaleWithColor(block.Kind.Color())
		screen.DrawImage(a.block, op)
	}

	vector.DrawFilledRect(screen, 20, 20, healthBarWidth, 16, healthBgColor, false)
	if bar := a.game.HealthBar(); bar > 0 {
		vector.DrawFilledRect(screen, 20, 20, healthBarWidth*float32(min(bar, 1)), 16, healthColor, false)
	}

	stats := a.game.Stats()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("cleared %d  lost %d  health %.2f",
		stats.ClearedBlocks, stats.LostBlocks, stats.Health()), 20, 40)

	if a.game.Over() {
		vector.DrawFilledRect(screen, 0, 0, float32(a.screenWidth), float32(a.screenHeight), gameOverColor, false)
		ebitenutil.DebugPrintAt(screen, "GAME OVER - press R to restart", a.screenWidth/2-90, a.screenHeight/2)
	}

	if a.debug {
		a.imgui.Draw(screen)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.screenWidth || outsideHeight != a.screenHeight {
		a.screenWidth, a.screenHeight = outsideWidth, outsideHeight
		a.game.SetViewportBottom(game.ViewportBottomFor(float64(outsideHeight), float64(a.cfg.Display.BlockPx)))
	}
	a.imgui.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func run(configPath string) error {
	cfg, err := config.FromEnv(configPath)
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	world := chipmunk.New(cfg.ChipmunkOptions())
	g := game.New(world, cfg.GameOptions(logger))

	cues := sound.NewCues(cfg.Sound.Enabled, cfg.Sound.Volume, logger)
	if err := cues.Initialize(); err != nil {
		logger.Warn("sound disabled", zap.Error(err))
	}
	defer cues.Close()

	block := ebiten.NewImage(1, 1)
	block.Fill(color.White)

	app := &App{
		cfg:          cfg,
		log:          logger,
		game:         g,
		cues:         cues,
		imgui:        debugui_ebiten.New("rigidtris", cfg.Display.Width, cfg.Display.Height, g),
		debug:        cfg.Display.Debug,
		block:        block,
		screenWidth:  cfg.Display.Width,
		screenHeight: cfg.Display.Height,
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(int(1 / cfg.Physics.Timestep))

	g.Start()
	logger.Info("starting",
		zap.Int("lanes", cfg.Board.Lanes),
		zap.Int("rows", cfg.Board.Rows),
		zap.Float64("timestep", cfg.Physics.Timestep))

	if err := ebiten.RunGame(app); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	logger.Info("finished", zap.Any("stats", g.Stats()))
	return nil
}

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file (default $"+config.EnvPath+")")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "rigidtris:", err)
		os.Exit(1)
	}
}
