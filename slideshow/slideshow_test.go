package slideshow

import (
	"encoding/binary"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkframe/inkframe/epd"
	"github.com/inkframe/inkframe/input"
)

// validBMP returns a minimal decodable 2x2 white bitmap.
func validBMP() []byte {
	const stride = 8 // 2 px * 3 bytes, padded
	buf := make([]byte, 54+stride*2)
	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[10:], 54)
	binary.LittleEndian.PutUint32(buf[14:], 40)
	binary.LittleEndian.PutUint32(buf[18:], 2)
	binary.LittleEndian.PutUint32(buf[22:], 2)
	binary.LittleEndian.PutUint16(buf[26:], 1)
	binary.LittleEndian.PutUint16(buf[28:], 24)
	for i := 54; i < len(buf); i++ {
		buf[i] = 0xff
	}
	return buf
}

type fakeStore struct {
	order   []string
	files   map[string][]byte
	enumErr error
	reads   []string
}

func (f *fakeStore) Enumerate(dir string) ([]string, error) {
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	return append([]string(nil), f.order...), nil
}

func (f *fakeStore) ReadAll(path string) ([]byte, error) {
	f.reads = append(f.reads, path)
	data, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (f *fakeStore) FileSize(path string) (int64, error) {
	data, ok := f.files[path]
	if !ok {
		return 0, os.ErrNotExist
	}
	return int64(len(data)), nil
}

// storeWith builds a fake store holding one valid bitmap per name.
func storeWith(names ...string) *fakeStore {
	f := &fakeStore{files: map[string][]byte{}}
	for _, n := range names {
		path := "/images/" + n
		f.order = append(f.order, path)
		f.files[path] = validBMP()
	}
	return f
}

type fakeSleeper struct {
	configured bool
	slept      bool
}

func (f *fakeSleeper) ConfigureWakeup() { f.configured = true }
func (f *fakeSleeper) DeepSleep()       { f.slept = true }

// recorder keeps every string ever drawn, across buffer clears.
type recorder struct {
	*epd.Buffer
	texts []string
}

func (r *recorder) DrawText(x, y int16, size uint8, ink epd.Ink, s string) {
	r.texts = append(r.texts, s)
	r.Buffer.DrawText(x, y, size, ink, s)
}

func testConfig() Config {
	return Config{
		ImageDir:          "/images",
		AdvanceEvery:      time.Hour,
		InactivityTimeout: 60 * time.Millisecond,
		PollInterval:      2 * time.Millisecond,
		StatusHold:        time.Millisecond,
		MaxImageBytes:     1 << 20,
	}
}

func newController(store Storage, cfg Config) (*Controller, *recorder, *input.Source, *fakeSleeper) {
	rec := &recorder{Buffer: epd.NewBuffer(128, 296)}
	src := input.NewSource()
	slp := &fakeSleeper{}
	return New(rec, store, src.Events(), slp, cfg), rec, src, slp
}

func TestBootShowsFirstImage(t *testing.T) {
	store := storeWith("a.bmp", "b.bmp", "c.bmp")
	c, rec, _, slp := newController(store, testConfig())

	require.NoError(t, c.Run())

	assert.Equal(t, []string{"/images/a.bmp"}, store.reads[:1])
	assert.Equal(t, 3, c.Count())
	assert.Contains(t, rec.texts, "Initializing...")
	assert.Contains(t, rec.texts, "Scanning images...")
	assert.Equal(t, StateSleeping, c.State())
	assert.True(t, slp.configured)
	assert.True(t, slp.slept)
}

func TestButtonsNavigateWithWraparound(t *testing.T) {
	store := storeWith("a.bmp", "b.bmp", "c.bmp")
	c, _, src, _ := newController(store, testConfig())

	for _, b := range []input.Button{input.Down, input.Down, input.Up} {
		require.True(t, src.Push(input.Event{Button: b, Pressed: true}))
	}

	require.NoError(t, c.Run())
	assert.Equal(t, 1, c.Index())
}

func TestUpFromFirstWrapsToLast(t *testing.T) {
	store := storeWith("a.bmp", "b.bmp", "c.bmp")
	c, _, src, _ := newController(store, testConfig())
	require.True(t, src.Push(input.Event{Button: input.Up, Pressed: true}))

	require.NoError(t, c.Run())
	assert.Equal(t, 2, c.Index())
}

func TestAutoAdvancePaces(t *testing.T) {
	store := storeWith("a.bmp", "b.bmp", "c.bmp", "d.bmp", "e.bmp")
	cfg := testConfig()
	cfg.AdvanceEvery = 40 * time.Millisecond
	cfg.InactivityTimeout = 100 * time.Millisecond
	c, _, _, _ := newController(store, cfg)
	c.auto = true

	require.NoError(t, c.Run())

	// Two advance periods fit before the inactivity timeout fires.
	assert.Equal(t, 2, c.Index())
	assert.Len(t, store.reads, 3)
}

func TestSelectTogglesAutoAndFlashesBanner(t *testing.T) {
	store := storeWith("a.bmp", "b.bmp")
	c, rec, src, _ := newController(store, testConfig())
	require.True(t, src.Push(input.Event{Button: input.Select, Pressed: true}))

	require.NoError(t, c.Run())

	assert.True(t, c.AutoAdvance())
	assert.Contains(t, rec.texts, "AUTO")
	assert.NotContains(t, rec.texts, "MANUAL")
	// The banner is replaced by the current image, not left on screen.
	assert.Equal(t, 0, c.Index())
}

func TestSelectTwiceReturnsToManual(t *testing.T) {
	store := storeWith("a.bmp")
	c, rec, src, _ := newController(store, testConfig())
	require.True(t, src.Push(input.Event{Button: input.Select, Pressed: true}))
	require.True(t, src.Push(input.Event{Button: input.Select, Pressed: true}))

	require.NoError(t, c.Run())

	assert.False(t, c.AutoAdvance())
	assert.Contains(t, rec.texts, "AUTO")
	assert.Contains(t, rec.texts, "MANUAL")
}

func TestEmptyDirectoryFails(t *testing.T) {
	c, rec, _, slp := newController(&fakeStore{}, testConfig())

	err := c.Run()
	assert.ErrorIs(t, err, ErrNoImages)
	assert.Equal(t, StateError, c.State())
	assert.Contains(t, rec.texts, "ERROR")
	assert.Contains(t, rec.texts, "No images found")
	assert.False(t, slp.slept, "error state must not enter sleep")
}

func TestStorageErrorFails(t *testing.T) {
	store := &fakeStore{enumErr: errors.New("no card")}
	c, rec, _, _ := newController(store, testConfig())

	err := c.Run()
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, StateError, c.State())
	assert.Contains(t, rec.texts, "SD card error")
}

func TestSkipsUndecodableImages(t *testing.T) {
	store := storeWith("bad.bmp", "good.bmp")
	store.files["/images/bad.bmp"] = []byte("not a bitmap, long enough to pass size checks though")
	c, _, _, _ := newController(store, testConfig())

	require.NoError(t, c.Run())
	assert.Equal(t, 1, c.Index())
}

func TestAllImagesBadKeepsPreviousFrame(t *testing.T) {
	store := storeWith("x.bmp", "y.bmp")
	store.files["/images/x.bmp"] = []byte("junk")
	store.files["/images/y.bmp"] = []byte("junk")
	c, rec, _, _ := newController(store, testConfig())

	// Not fatal: the controller keeps running and eventually sleeps.
	require.NoError(t, c.Run())
	assert.Equal(t, StateSleeping, c.State())
	assert.Equal(t, 0, c.Index(), "index must return to where the skip run began")
	assert.Contains(t, store.reads, "/images/x.bmp")
	assert.Contains(t, store.reads, "/images/y.bmp")
	assert.NotContains(t, rec.texts, "ERROR")
}

func TestOversizeImageSkipped(t *testing.T) {
	store := storeWith("huge.bmp", "ok.bmp")
	cfg := testConfig()
	cfg.MaxImageBytes = int64(len(store.files["/images/ok.bmp"]))
	store.files["/images/huge.bmp"] = make([]byte, cfg.MaxImageBytes+1)
	c, _, _, _ := newController(store, cfg)

	require.NoError(t, c.Run())
	assert.Equal(t, 1, c.Index())
	// The oversize file is never read, only sized.
	assert.NotContains(t, store.reads, "/images/huge.bmp")
}

func TestEventsServedInOrder(t *testing.T) {
	store := storeWith("a.bmp", "b.bmp", "c.bmp")
	c, _, src, _ := newController(store, testConfig())
	require.True(t, src.Push(input.Event{Button: input.Down, Pressed: true}))
	require.True(t, src.Push(input.Event{Button: input.Down, Pressed: true}))

	require.NoError(t, c.Run())

	assert.Equal(t, []string{"/images/a.bmp", "/images/b.bmp", "/images/c.bmp"}, store.reads)
}

func TestInactivityBound(t *testing.T) {
	store := storeWith("a.bmp")
	cfg := testConfig()
	c, rec, _, slp := newController(store, cfg)

	begin := time.Now()
	require.NoError(t, c.Run())
	elapsed := time.Since(begin)

	assert.GreaterOrEqual(t, elapsed, cfg.InactivityTimeout)
	assert.Less(t, elapsed, cfg.InactivityTimeout+20*cfg.PollInterval)
	assert.Equal(t, StateSleeping, c.State())
	assert.True(t, slp.configured)
	assert.True(t, slp.slept)
	assert.Contains(t, rec.texts, "Sleeping...")
}

func TestReleasedEventsIgnored(t *testing.T) {
	store := storeWith("a.bmp", "b.bmp")
	c, _, src, _ := newController(store, testConfig())
	require.True(t, src.Push(input.Event{Button: input.Down, Pressed: false}))

	require.NoError(t, c.Run())
	assert.Equal(t, 0, c.Index())
}

func TestReleasedEventsDoNotPostponeSleep(t *testing.T) {
	store := storeWith("a.bmp")
	cfg := testConfig()
	cfg.InactivityTimeout = 80 * time.Millisecond
	c, _, src, _ := newController(store, cfg)

	// A release arriving mid-session must not reset the sleep clock.
	go func() {
		time.Sleep(40 * time.Millisecond)
		src.Push(input.Event{Button: input.Down, Pressed: false})
	}()

	begin := time.Now()
	require.NoError(t, c.Run())

	assert.Less(t, time.Since(begin), 110*time.Millisecond,
		"release event postponed the inactivity timeout")
	assert.Equal(t, StateSleeping, c.State())
}
