// Package slideshow runs the picture frame: it scans the card for images,
// shows them one at a time, reacts to the buttons and puts the system to
// sleep once nobody has touched it for a while.
package slideshow

import (
	"errors"
	"time"

	"github.com/inkframe/inkframe/bmp"
	"github.com/inkframe/inkframe/epd"
	"github.com/inkframe/inkframe/input"
	"github.com/inkframe/inkframe/render"
)

type State uint8

const (
	StateInit State = iota
	StateScanning
	StateDisplaying
	StateError
	StateSleeping
)

var (
	ErrStorageUnavailable = errors.New("slideshow: storage unavailable")
	ErrNoImages           = errors.New("slideshow: no images found")
	ErrImageTooBig        = errors.New("slideshow: image exceeds size limit")
)

// Storage is the image source, satisfied by the card-backed store.
type Storage interface {
	Enumerate(dir string) ([]string, error)
	ReadAll(path string) ([]byte, error)
	FileSize(path string) (int64, error)
}

// Sleeper hands the system over to its low-power state. DeepSleep blocks
// until a wake condition occurs.
type Sleeper interface {
	ConfigureWakeup()
	DeepSleep()
}

type Config struct {
	// ImageDir is scanned for bitmap files at startup.
	ImageDir string
	// AdvanceEvery paces automatic slide changes.
	AdvanceEvery time.Duration
	// InactivityTimeout is how long without a button press before the
	// frame goes to sleep.
	InactivityTimeout time.Duration
	// PollInterval bounds how long the loop waits between timer checks.
	PollInterval time.Duration
	// StatusHold is how long the AUTO/MANUAL banner stays up.
	StatusHold time.Duration
	// MaxImageBytes skips files too large to decode in memory.
	MaxImageBytes int64
}

func DefaultConfig() Config {
	return Config{
		ImageDir:          "/images",
		AdvanceEvery:      10 * time.Second,
		InactivityTimeout: 5 * time.Minute,
		PollInterval:      100 * time.Millisecond,
		StatusHold:        time.Second,
		MaxImageBytes:     512 * 1024,
	}
}

// Controller owns the frame's runtime state. It is single-threaded: all
// display and storage access happens from Run.
type Controller struct {
	cfg     Config
	display epd.Display
	store   Storage
	events  <-chan input.Event
	sleeper Sleeper

	state        State
	images       []string
	index        int
	auto         bool
	lastAdvance  time.Time
	lastActivity time.Time
	now          func() time.Time
}

func New(display epd.Display, store Storage, events <-chan input.Event, sleeper Sleeper, cfg Config) *Controller {
	def := DefaultConfig()
	if cfg.ImageDir == "" {
		cfg.ImageDir = def.ImageDir
	}
	if cfg.AdvanceEvery == 0 {
		cfg.AdvanceEvery = def.AdvanceEvery
	}
	if cfg.InactivityTimeout == 0 {
		cfg.InactivityTimeout = def.InactivityTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.StatusHold == 0 {
		cfg.StatusHold = def.StatusHold
	}
	if cfg.MaxImageBytes == 0 {
		cfg.MaxImageBytes = def.MaxImageBytes
	}
	return &Controller{
		cfg:     cfg,
		display: display,
		store:   store,
		events:  events,
		sleeper: sleeper,
		now:     time.Now,
	}
}

// Run drives the frame until it goes to sleep (nil) or hits a fatal
// error. After an error the display shows a diagnostic screen and the
// caller should halt; only a reboot recovers.
func (c *Controller) Run() error {
	if err := c.boot(); err != nil {
		return err
	}

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case e := <-c.events:
			c.handleButton(e)
		case <-ticker.C:
		}

		if c.auto && c.now().Sub(c.lastAdvance) >= c.cfg.AdvanceEvery {
			c.advance(1)
		}
		if c.now().Sub(c.lastActivity) >= c.cfg.InactivityTimeout {
			c.sleep()
			return nil
		}
	}
}

func (c *Controller) boot() error {
	c.state = StateInit
	c.display.ClearBuffer()
	c.display.DrawText(10, 30, 1, epd.Black, "Initializing...")
	c.commit()

	c.state = StateScanning
	c.display.DrawText(10, 60, 1, epd.Black, "Scanning images...")
	c.commit()

	images, err := c.store.Enumerate(c.cfg.ImageDir)
	if err != nil {
		println("image scan failed:", err.Error())
		c.fail("SD card error")
		return ErrStorageUnavailable
	}
	if len(images) == 0 {
		c.fail("No images found")
		return ErrNoImages
	}

	c.images = images
	c.index = 0
	now := c.now()
	c.lastAdvance = now
	c.lastActivity = now
	c.state = StateDisplaying
	c.showCurrent()
	return nil
}

// handleButton dispatches one event. Only presses count as activity;
// anything else flowing through the channel leaves the sleep clock alone.
func (c *Controller) handleButton(e input.Event) {
	if !e.Pressed {
		return
	}
	c.lastActivity = c.now()
	if c.state != StateDisplaying {
		return
	}
	switch e.Button {
	case input.Up:
		c.advance(-1)
	case input.Down:
		c.advance(1)
	case input.Select:
		c.auto = !c.auto
		c.lastAdvance = c.now()
		c.flashMode()
	}
}

// advance moves the index by step with wraparound and shows the result.
func (c *Controller) advance(step int) {
	n := len(c.images)
	c.index = ((c.index+step)%n + n) % n
	c.lastAdvance = c.now()
	c.showCurrent()
}

// showCurrent renders the current image, skipping forward over unreadable
// or undecodable files. When every file in the list fails, the previous
// frame stays on the glass and the index returns to where it started.
func (c *Controller) showCurrent() {
	start := c.index
	for {
		err := c.render(c.images[c.index])
		if err == nil {
			return
		}
		println("skipping image:", c.images[c.index], err.Error())

		c.index = (c.index + 1) % len(c.images)
		if c.index == start {
			println("no displayable images, keeping previous frame")
			return
		}
	}
}

func (c *Controller) render(path string) error {
	if c.cfg.MaxImageBytes > 0 {
		size, err := c.store.FileSize(path)
		if err != nil {
			return err
		}
		if size > c.cfg.MaxImageBytes {
			return ErrImageTooBig
		}
	}

	data, err := c.store.ReadAll(path)
	if err != nil {
		return err
	}
	img, err := bmp.Decode(data)
	if err != nil {
		return err
	}

	c.display.ClearBuffer()
	if err := render.Draw(c.display, img); err != nil {
		return err
	}
	c.commit()
	return nil
}

// flashMode shows the AUTO/MANUAL banner across the top, holds it, then
// restores the current image.
func (c *Controller) flashMode() {
	w, _ := c.display.Size()
	for y := int16(0); y < 30; y++ {
		for x := int16(0); x < w; x++ {
			c.display.SetInk(x, y, epd.White)
		}
	}
	label := "MANUAL"
	if c.auto {
		label = "AUTO"
	}
	c.display.DrawText(10, 22, 2, epd.Black, label)
	c.commit()

	time.Sleep(c.cfg.StatusHold)
	c.showCurrent()
}

func (c *Controller) fail(msg string) {
	c.state = StateError
	c.display.ClearBuffer()
	c.display.DrawText(10, 100, 2, epd.Red, "ERROR")
	c.display.DrawText(10, 140, 1, epd.Black, msg)
	c.commit()
}

func (c *Controller) sleep() {
	c.state = StateSleeping
	c.display.ClearBuffer()
	c.display.DrawText(10, 30, 1, epd.Black, "Sleeping...")
	c.commit()

	if c.sleeper != nil {
		c.sleeper.ConfigureWakeup()
		c.sleeper.DeepSleep()
	}
}

// A refresh failure leaves stale content on the glass but the show can
// still go on, so it is logged rather than propagated.
func (c *Controller) commit() {
	if err := c.display.Display(); err != nil {
		println("display refresh failed:", err.Error())
	}
}

func (c *Controller) State() State      { return c.state }
func (c *Controller) Index() int        { return c.index }
func (c *Controller) Count() int        { return len(c.images) }
func (c *Controller) AutoAdvance() bool { return c.auto }
