package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/lixenwraith/kart-pilot/audio"
	"github.com/lixenwraith/kart-pilot/config"
	"github.com/lixenwraith/kart-pilot/controller"
	"github.com/lixenwraith/kart-pilot/parameter"
	"github.com/lixenwraith/kart-pilot/race"
	"github.com/lixenwraith/kart-pilot/track"
)

// keyHold is how long a key counts as held after its last press or repeat
// Terminals report presses only, so releases are synthesized
const keyHold = 180 * time.Millisecond

type Game struct {
	screen        tcell.Screen
	width, height int

	cfg    *config.Config
	track  *track.QuadGraph
	race   *race.Race
	player *race.Kart
	view   *view

	held  map[controller.Action]time.Time
	sound *audio.Manager
}

func NewGame(cfg *config.Config, withAudio bool) (*Game, error) {
	g, err := cfg.BuildTrack()
	if err != nil {
		return nil, err
	}
	props, err := cfg.Difficulty(cfg.Race.Difficulty)
	if err != nil {
		return nil, err
	}

	r := race.New(g, cfg.RaceOptions())
	player, err := r.AddPlayer("you")
	if err != nil {
		return nil, err
	}
	for i := 1; i < cfg.Race.Karts; i++ {
		if _, err := r.AddAI(fmt.Sprintf("ai-%d", i), props); err != nil {
			return nil, err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	game := &Game{
		screen: screen,
		cfg:    cfg,
		track:  g,
		race:   r,
		player: player,
		held:   make(map[controller.Action]time.Time),
	}
	game.handleResize()

	if withAudio {
		game.sound = audio.NewManager(audio.DefaultConfig())
		if err := game.sound.Initialize(); err != nil {
			// Non-fatal, the race runs silently
			log.Printf("[AUDIO] initialization failed: %v", err)
			game.sound = nil
		}
	}

	r.Start()
	return game, nil
}

func (g *Game) handleResize() {
	g.width, g.height = g.screen.Size()
	g.view = newView(g.track, g.width, g.height-hudRows)
	g.screen.Clear()
}

// press marks a held action, releasing its opposite steer or pedal
func (g *Game) press(a controller.Action) {
	switch a {
	case controller.ActionSteerLeft:
		g.release(controller.ActionSteerRight)
	case controller.ActionSteerRight:
		g.release(controller.ActionSteerLeft)
	case controller.ActionAccel:
		g.release(controller.ActionBrake)
	case controller.ActionBrake:
		g.release(controller.ActionAccel)
	}
	if _, ok := g.held[a]; !ok {
		_ = g.race.Action(g.player.ID, a, 1)
	}
	g.held[a] = time.Now()
}

func (g *Game) release(a controller.Action) {
	if _, ok := g.held[a]; !ok {
		return
	}
	delete(g.held, a)
	_ = g.race.Action(g.player.ID, a, 0)
}

func (g *Game) expireKeys(now time.Time) {
	for a, t := range g.held {
		if now.Sub(t) > keyHold {
			g.release(a)
		}
	}
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			g.press(controller.ActionSteerLeft)
		case tcell.KeyRight:
			g.press(controller.ActionSteerRight)
		case tcell.KeyUp:
			g.press(controller.ActionAccel)
		case tcell.KeyDown:
			g.press(controller.ActionBrake)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				g.press(controller.ActionSkid)
			case 'n':
				g.press(controller.ActionNitro)
			case 'r':
				_ = g.race.Action(g.player.ID, controller.ActionRescue, 1)
			case 'o':
				g.obstructRivals()
			case 's':
				if g.race.Finished() {
					g.race.Start()
				}
			}
		}

	case *tcell.EventResize:
		g.handleResize()
		g.screen.Sync()
	}
	return true
}

// obstructRivals blinds every AI kart for RaceObstructionTime
func (g *Game) obstructRivals() {
	for _, k := range g.race.Karts() {
		if k.ID == g.player.ID {
			continue
		}
		_ = g.race.Obstruct(k.ID, parameter.RaceObstructionTime)
	}
}

func (g *Game) step(dt float64) {
	g.expireKeys(time.Now())
	g.race.Step(dt)

	for _, e := range g.race.DrainEvents() {
		if c, ok := cueFor(e, g.player.ID); ok && g.sound != nil {
			g.sound.Play(c)
		}
	}
	if g.sound != nil {
		if g.race.Phase() == race.PhaseRacing {
			g.sound.SetEngine(g.player.Speed() / g.player.MaxSpeed().BaseMaxSpeed())
		} else {
			g.sound.StopEngine()
		}
	}
}

// cueFor maps a race event to a sound cue, only the player's own events are audible
func cueFor(e race.Event, player uuid.UUID) (audio.Cue, bool) {
	if e.Kind == race.EventStart {
		return audio.CueStart, true
	}
	if e.Kart != player {
		return 0, false
	}
	switch e.Kind {
	case race.EventLap:
		return audio.CueLap, true
	case race.EventFinish:
		return audio.CueFinish, true
	case race.EventCrash:
		return audio.CueCrash, true
	case race.EventRescue:
		return audio.CueRescue, true
	case race.EventZipper:
		return audio.CueZipper, true
	case race.EventSkidBonus:
		return audio.CueSkidBonus, true
	}
	return 0, false
}

func (g *Game) draw() {
	g.screen.Clear()
	g.view.drawTrack(g.screen)
	for i, k := range g.race.Karts() {
		g.view.drawKart(g.screen, k, i, k.ID == g.player.ID)
	}
	drawHUD(g.screen, g.race, g.player, g.height-hudRows, g.width)
	g.screen.Show()
}

func (g *Game) run() {
	interval := time.Second / time.Duration(g.cfg.Race.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	dt := g.cfg.TickDuration()
	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}

		case <-ticker.C:
			g.step(dt)
			g.draw()
		}
	}
}

func (g *Game) cleanup() {
	if g.sound != nil {
		g.sound.Cleanup()
		g.sound = nil
	}
	g.screen.Fini()
}
