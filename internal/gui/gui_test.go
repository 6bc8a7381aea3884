package gui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"docdate/internal/camera"
	"docdate/internal/dates"
	"docdate/internal/logger"
	"docdate/internal/models"
	"docdate/internal/nav"
	"docdate/internal/ocr"
	"docdate/internal/pipeline"
	"docdate/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// fakeDevice writes a frame of the current width on each capture.
type fakeDevice struct {
	mu     sync.Mutex
	frames bool
	width  int
	closed int
}

func (d *fakeDevice) ReadFrame() (image.Image, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.frames {
		return nil, false
	}
	return solid(d.width, 2), true
}

func (d *fakeDevice) WriteFrame(path string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.frames {
		return false, nil
	}
	return true, pipeline.SaveImage(path, solid(d.width, 2))
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed++
	return nil
}

func (d *fakeDevice) setWidth(w int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width = w
}

func (d *fakeDevice) closeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

type fakeScanner struct {
	mu    sync.Mutex
	texts []string
	err   error
	block chan struct{}
	paths []string
}

func (f *fakeScanner) Scan(ctx context.Context, path string) (*ocr.ScanResult, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &ocr.ScanResult{Path: path, Dates: dates.FromFragments(f.texts)}, nil
}

type harness struct {
	deps    *Deps
	screens *Screens
	device  *fakeDevice
	scanner *fakeScanner
	dir     string
	ui      chan func()
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	a := test.NewTempApp(t)
	w := a.NewWindow("docdate")
	w.Resize(fyne.NewSize(800, 600))
	t.Cleanup(w.Close)

	h := &harness{
		device:  &fakeDevice{frames: true, width: 3},
		scanner: &fakeScanner{},
		dir:     t.TempDir(),
		ui:      make(chan func(), 64),
	}

	h.deps = &Deps{
		Context:   context.Background(),
		Window:    w,
		Nav:       nav.New(w.SetContent, logger.Nop()),
		Selection: models.NewSelection(filepath.Join(h.dir, "photo.png")),
		Loader:    pipeline.NewLoader(logger.Nop()),
		Logger:    logger.Nop(),
		Post: func(fn func()) {
			select {
			case h.ui <- fn:
			default:
			}
		},
	}

	h.screens = Register(h.deps, Options{
		OpenCamera:    func() camera.Device { return h.device },
		FrameInterval: time.Hour,
		Scanner:       h.scanner,
		StartDir:      h.dir,
	})
	require.NoError(t, h.deps.Nav.Show(nav.Main))
	t.Cleanup(h.deps.Nav.Shutdown)
	return h
}

// runUI runs the next callback posted back to the UI goroutine.
func (h *harness) runUI(t *testing.T) {
	t.Helper()
	select {
	case fn := <-h.ui:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("no UI update posted")
	}
}

func (h *harness) current(t *testing.T) nav.State {
	t.Helper()
	state, ok := h.deps.Nav.Current()
	require.True(t, ok)
	return state
}

func TestBackToMainTwiceStaysOnMain(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.deps.Nav.Show(nav.Display))

	test.Tap(h.screens.Display.BackButton)
	test.Tap(h.screens.Display.BackButton)

	assert.Equal(t, nav.Main, h.current(t))
}

func TestGalleryEmptySelectionStaysOnPicker(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "notes.txt"), []byte("x"), 0o644))

	h.screens.Main.ChooseFromGallery("Others")
	chooser := h.screens.Main.Chooser()
	require.True(t, chooser.Visible())

	test.Tap(chooser.SelectButton)

	assert.True(t, chooser.Visible())
	assert.False(t, h.deps.Selection.IsSet())
	assert.Equal(t, nav.Main, h.current(t))
}

func TestGallerySelectionGoesToReview(t *testing.T) {
	h := newHarness(t)
	doc := filepath.Join(h.dir, "license.png")
	require.NoError(t, pipeline.SaveImage(doc, solid(7, 5)))

	h.screens.Main.ChooseFromGallery("Driver License")
	chooser := h.screens.Main.Chooser()
	require.True(t, chooser.Highlight("license.png"))
	assert.Equal(t, []string{doc}, chooser.Selection())

	test.Tap(chooser.SelectButton)

	assert.False(t, chooser.Visible())
	assert.Equal(t, nav.Review, h.current(t))
	assert.Equal(t, doc, h.deps.Selection.Current())
	assert.Equal(t, "Driver License", h.deps.Selection.Category())
	require.NotNil(t, h.screens.Review.View().Image())
	assert.Equal(t, 7, h.screens.Review.View().Image().Bounds().Dx())
}

func TestGalleryCancelHasNoSideEffects(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, pipeline.SaveImage(filepath.Join(h.dir, "a.png"), solid(2, 2)))

	h.screens.Main.ChooseFromGallery("Others")
	chooser := h.screens.Main.Chooser()
	chooser.Highlight("a.png")
	test.Tap(chooser.CancelButton)

	assert.False(t, chooser.Visible())
	assert.False(t, h.deps.Selection.IsSet())
	assert.Equal(t, nav.Main, h.current(t))
}

func TestChooserBrowsesDirectories(t *testing.T) {
	h := newHarness(t)
	sub := filepath.Join(h.dir, "scans")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "page.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, ".hidden"), []byte("x"), 0o644))

	c := NewFileChooser(h.dir, nil, logger.Nop())
	assert.False(t, c.Highlight(".hidden"))

	require.True(t, c.Highlight("scans"))
	assert.Equal(t, sub, c.Dir())
	assert.Empty(t, c.Selection())

	require.True(t, c.Highlight("page.jpg"))
	assert.Equal(t, []string{filepath.Join(sub, "page.jpg")}, c.Selection())

	require.True(t, c.Highlight(".."))
	assert.Equal(t, h.dir, c.Dir())
	assert.Empty(t, c.Selection())
}

func TestCaptureGoesToReviewWithFreshImage(t *testing.T) {
	h := newHarness(t)

	h.screens.Main.TakePhoto("Insurance Papers")
	assert.Equal(t, nav.Camera, h.current(t))
	assert.True(t, h.screens.Camera.Session().Running())

	test.Tap(h.screens.Camera.CaptureButton)
	h.runUI(t)

	assert.Equal(t, nav.Review, h.current(t))
	assert.Equal(t, models.SourceCamera, h.deps.Selection.Source())
	assert.Equal(t, 1, h.device.closeCount())
	assert.Equal(t, 3, h.screens.Review.View().Image().Bounds().Dx())

	test.Tap(h.screens.Review.NoButton)
	assert.Equal(t, nav.Camera, h.current(t))

	h.device.setWidth(9)
	test.Tap(h.screens.Camera.CaptureButton)
	h.runUI(t)

	assert.Equal(t, nav.Review, h.current(t))
	assert.Equal(t, 9, h.screens.Review.View().Image().Bounds().Dx())

	test.Tap(h.screens.Review.YesButton)
	assert.Equal(t, nav.Display, h.current(t))
	assert.Equal(t, 9, h.screens.Display.View().Image().Bounds().Dx())
}

func TestCaptureReplacesGallerySelection(t *testing.T) {
	h := newHarness(t)
	h.deps.Selection.SetChosen(filepath.Join(h.dir, "old.png"))

	require.NoError(t, h.deps.Nav.Show(nav.Camera))
	test.Tap(h.screens.Camera.CaptureButton)
	h.runUI(t)

	assert.Equal(t, h.deps.Selection.CapturePath(), h.deps.Selection.Current())
}

func TestCaptureWithoutFrameStaysOnCamera(t *testing.T) {
	h := newHarness(t)
	h.device.frames = false

	require.NoError(t, h.deps.Nav.Show(nav.Camera))
	test.Tap(h.screens.Camera.CaptureButton)
	h.runUI(t)

	assert.Equal(t, nav.Camera, h.current(t))
	assert.False(t, h.deps.Selection.IsSet())
	assert.False(t, h.screens.Camera.CaptureButton.Disabled())
}

func TestLeavingCameraReleasesDevice(t *testing.T) {
	h := newHarness(t)
	h.device.frames = false

	require.NoError(t, h.deps.Nav.Show(nav.Camera))
	require.NoError(t, h.deps.Nav.Show(nav.Main))

	assert.Equal(t, 1, h.device.closeCount())
	assert.False(t, h.screens.Camera.Session().Running())
}

func TestScanShowsDates(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, pipeline.SaveImage(h.deps.Selection.CapturePath(), solid(4, 4)))
	h.scanner.texts = []string{"Policy valid 05/10/2023 to 05-10-2024"}

	require.NoError(t, h.deps.Nav.Show(nav.Display))
	test.Tap(h.screens.Display.ScanButton)

	assert.Equal(t, "Scanning...", h.screens.Display.DatesLabel.Text)
	assert.True(t, h.screens.Display.ScanButton.Disabled())

	h.runUI(t)
	assert.Equal(t, "Found dates:\n05/10/2023\n05-10-2024", h.screens.Display.DatesLabel.Text)
	assert.False(t, h.screens.Display.ScanButton.Disabled())
	assert.Equal(t, []string{h.deps.Selection.CapturePath()}, h.scanner.paths)
}

func TestScanWithoutDates(t *testing.T) {
	h := newHarness(t)
	h.scanner.texts = []string{"nothing here"}

	require.NoError(t, h.deps.Nav.Show(nav.Display))
	test.Tap(h.screens.Display.ScanButton)
	h.runUI(t)

	assert.Equal(t, "No dates found.", h.screens.Display.DatesLabel.Text)
}

func TestScanErrorKeepsScreenUsable(t *testing.T) {
	h := newHarness(t)
	h.scanner.err = errors.New("unreadable file")

	require.NoError(t, h.deps.Nav.Show(nav.Display))
	test.Tap(h.screens.Display.ScanButton)
	h.runUI(t)

	assert.Empty(t, h.screens.Display.DatesLabel.Text)
	assert.False(t, h.screens.Display.ScanButton.Disabled())
	assert.Equal(t, nav.Display, h.current(t))
}

func TestLeavingDisplayDropsScanInFlight(t *testing.T) {
	h := newHarness(t)
	h.scanner.texts = []string{"01/01/2020"}
	h.scanner.block = make(chan struct{})

	require.NoError(t, h.deps.Nav.Show(nav.Display))
	test.Tap(h.screens.Display.ScanButton)
	test.Tap(h.screens.Display.BackButton)
	close(h.scanner.block)
	h.runUI(t)

	assert.Equal(t, nav.Main, h.current(t))
	assert.NotContains(t, h.screens.Display.DatesLabel.Text, "01/01/2020")
	assert.False(t, h.screens.Display.ScanButton.Disabled())
}

func TestManualEntryDoesNothing(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.deps.Nav.Show(nav.Display))

	test.Tap(h.screens.Display.ManualButton)

	assert.Equal(t, nav.Display, h.current(t))
	assert.Empty(t, h.screens.Display.DatesLabel.Text)
}

func TestMissingImageShowsPlaceholder(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.deps.Nav.Show(nav.Review))

	assert.Nil(t, h.screens.Review.View().Image())
	assert.Equal(t, "Could not load image", h.screens.Review.View().Placeholder())
}

// recordingWatcher keeps every callback handed to it so a test can fire
// one late.
type recordingWatcher struct {
	mu        sync.Mutex
	callbacks []func()
	stops     int
}

func (w *recordingWatcher) Watch(path string, onChange func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, onChange)
	return nil
}

func (w *recordingWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stops++
}

func (h *harness) showCapture(t *testing.T, width int, state nav.State) string {
	t.Helper()
	path := h.deps.Selection.CapturePath()
	require.NoError(t, pipeline.SaveImage(path, solid(width, 2)))
	h.deps.Selection.SetCaptured()
	require.NoError(t, h.deps.Nav.Show(state))
	return path
}

func TestReviewReloadsWhenImageChangesOnDisk(t *testing.T) {
	h := newHarness(t)
	w, err := watch.New(20*time.Millisecond, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	h.deps.Watcher = w

	path := h.showCapture(t, 3, nav.Review)
	require.Equal(t, 3, h.screens.Review.View().Image().Bounds().Dx())

	require.NoError(t, pipeline.SaveImage(path, solid(11, 2)))
	h.runUI(t)

	assert.Equal(t, 11, h.screens.Review.View().Image().Bounds().Dx())
}

func TestDisplayReloadsWhenImageChangesOnDisk(t *testing.T) {
	h := newHarness(t)
	w, err := watch.New(20*time.Millisecond, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	h.deps.Watcher = w

	path := h.showCapture(t, 3, nav.Display)
	require.NoError(t, pipeline.SaveImage(path, solid(8, 2)))
	h.runUI(t)

	assert.Equal(t, 8, h.screens.Display.View().Image().Bounds().Dx())
}

func TestLeavingReviewBeforeDebounceSkipsReload(t *testing.T) {
	h := newHarness(t)
	w, err := watch.New(200*time.Millisecond, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	h.deps.Watcher = w

	path := h.showCapture(t, 3, nav.Review)
	require.NoError(t, pipeline.SaveImage(path, solid(11, 2)))
	require.NoError(t, h.deps.Nav.Show(nav.Main))

	select {
	case fn := <-h.ui:
		fn()
		t.Fatal("reload posted after leaving Review")
	case <-time.After(500 * time.Millisecond):
	}
	assert.Equal(t, 3, h.screens.Review.View().Image().Bounds().Dx())
}

func TestLateChangeCallbackIgnoredAfterLeave(t *testing.T) {
	h := newHarness(t)
	rw := &recordingWatcher{}
	h.deps.Watcher = rw

	path := h.showCapture(t, 3, nav.Review)
	require.Len(t, rw.callbacks, 1)

	require.NoError(t, pipeline.SaveImage(path, solid(11, 2)))
	require.NoError(t, h.deps.Nav.Show(nav.Main))
	assert.Equal(t, 1, rw.stops)

	rw.callbacks[0]()
	h.runUI(t)

	assert.Equal(t, 3, h.screens.Review.View().Image().Bounds().Dx())
}

func TestScanUsesGallerySelection(t *testing.T) {
	h := newHarness(t)
	doc := filepath.Join(h.dir, "passport.png")
	require.NoError(t, pipeline.SaveImage(doc, solid(4, 4)))
	h.deps.Selection.SetChosen(doc)
	h.scanner.texts = []string{"valid until 31/12/2030"}

	require.NoError(t, h.deps.Nav.Show(nav.Display))
	test.Tap(h.screens.Display.ScanButton)
	h.runUI(t)

	assert.Equal(t, []string{doc}, h.scanner.paths)
	assert.Equal(t, "Found dates:\n31/12/2030", h.screens.Display.DatesLabel.Text)
}
