package term

import (
	"context"
	"fmt"
	"time"

	"sandfall/internal/core"
	"sandfall/internal/input"
	"sandfall/internal/sims/sand"

	"github.com/gdamore/tcell/v2"
)

// Sim is the engine surface a terminal session drives.
type Sim interface {
	Size() core.Size
	Step() error
	Reset(seed int64) error
	Spawn(sand.SpawnRequest) error
	Config() sand.Config
	CopyCells(dst []uint8) []uint8
	SetIntParameter(key string, value int) bool
	Iteration() uint64
	Count() int
}

// Session couples a screen, an engine and a brush.
type Session struct {
	screen tcell.Screen
	sim    Sim
	brush  *input.Brush
	view   *View
	sched  *core.Scheduler

	cells   []uint8
	mouseX  float64
	mouseY  float64
	paused  bool
	stepOne bool
	seed    int64
}

// NewSession prepares a session; the screen must already be initialised.
func NewSession(screen tcell.Screen, sim Sim, brush *input.Brush, view *View) *Session {
	cfg := sim.Config()
	return &Session{
		screen: screen,
		sim:    sim,
		brush:  brush,
		view:   view,
		sched:  core.NewScheduler(time.Duration(cfg.Params.IterationDelay*float64(time.Second)), cfg.Params.IterationsPerTick),
		seed:   cfg.Seed,
	}
}

// area is the grid rectangle in text cells; the pointer is sampled at the
// centre of the text cell it is on.
func (s *Session) area() input.Rect {
	size := s.sim.Size()
	return input.Rect{MaxX: float64(size.W), MaxY: float64(Rows(size.H))}
}

// HandleEvent applies one terminal event. It reports whether the session
// should end.
func (s *Session) HandleEvent(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true, nil
		case tcell.KeyTab:
			s.brush.Cycle(1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true, nil
			case ' ':
				s.paused = !s.paused
			case 'n':
				s.stepOne = true
			case 'r':
				s.brush.Release()
				return false, s.sim.Reset(s.seed)
			case '+', '=':
				s.sim.SetIntParameter("spawn_radius", s.brush.Radius()+2)
			case '-':
				s.sim.SetIntParameter("spawn_radius", s.brush.Radius()-2)
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		s.mouseX, s.mouseY = float64(x)+0.5, float64(y)+0.5
		if ev.Buttons()&tcell.Button1 != 0 {
			if s.area().Contains(s.mouseX, s.mouseY) {
				s.brush.Press()
			}
		} else {
			s.brush.Release()
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return false, nil
}

// Tick advances the session by one frame of length frame and redraws.
func (s *Session) Tick(frame time.Duration) error {
	params := s.sim.Config().Params
	s.brush.SetRadius(params.SpawnRadius)
	s.sched.SetDelay(time.Duration(params.IterationDelay * float64(time.Second)))
	s.sched.SetIterations(params.IterationsPerTick)

	if req, ok := s.brush.Update(frame, s.mouseX, s.mouseY, s.area()); ok {
		if err := s.sim.Spawn(req); err != nil {
			return err
		}
	}

	switch {
	case !s.paused:
		if err := s.sched.Run(frame, s.sim.Step); err != nil {
			return err
		}
	case s.stepOne:
		s.stepOne = false
		if err := s.sim.Step(); err != nil {
			return err
		}
	}

	size := s.sim.Size()
	s.cells = s.sim.CopyCells(s.cells)
	state := "running"
	if s.paused {
		state = "paused"
	}
	status := fmt.Sprintf("%s | tick %d | cells %d | %s r=%d | tab material, +/- radius, space pause, q quit",
		state, s.sim.Iteration(), s.sim.Count(), s.brush.Material().Name, s.brush.Radius())
	s.view.Draw(s.cells, size.W, size.H, status)
	return nil
}

// Run polls events and ticks every frame until the user quits, ctx is done
// or a step fails.
func (s *Session) Run(ctx context.Context, frame time.Duration) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			quit, err := s.HandleEvent(ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		case <-ticker.C:
			if err := s.Tick(frame); err != nil {
				return err
			}
		}
	}
}
