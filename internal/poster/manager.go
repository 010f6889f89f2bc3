package poster

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/nftposter/internal/audio"
	"github.com/handiism/nftposter/internal/config"
	ioutils "github.com/handiism/nftposter/internal/io"
	"github.com/handiism/nftposter/internal/model"
	"github.com/handiism/nftposter/internal/openai"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidEvent is returned for events without an artist or match name.
var ErrInvalidEvent = errors.New("event needs an artist or a match")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a poster progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Generator produces artwork for an event.
type Generator interface {
	QueryArtist(ctx context.Context, artist string) (openai.ArtistProfile, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Downloader fetches a generated image to a local file.
type Downloader interface {
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error
}

// Overlayer draws the event text onto an image and returns the output path.
type Overlayer interface {
	Overlay(ctx context.Context, req model.OverlayRequest) (string, error)
}

// Deps are the collaborators of a Manager. Tagger may be nil to disable
// MP3 tagging.
type Deps struct {
	Generator  Generator
	Downloader Downloader
	Overlayer  Overlayer
	Tagger     *audio.Tagger
	Logger     *zap.Logger
}

// Result is the outcome of one event.
type Result struct {
	Event      model.Event
	ImagePath  string // generated or supplied background
	PosterPath string // absolute path of the "_t.jpg" poster
	Err        error
}

// Manager coordinates poster generation for a batch of events.
//
// For every event the Manager runs:
//  1. artist lookup (concerts only)
//  2. image generation from the prompt
//  3. download to "<output_dir>/<title>_<date>.jpg"
//  4. JPEG normalisation and optional downscale
//  5. text overlay
//  6. optional MP3 cover embedding
//
// Events that already carry an ImagePath skip steps 1 to 4. Network steps
// are retried with exponential backoff. Events writing the same image path
// are serialised.
type Manager struct {
	settings     *config.Settings
	generator    Generator
	downloader   Downloader
	overlayer    Overlayer
	tagger       *audio.Tagger
	imageService *ioutils.ImageService
	logger       *zap.Logger

	events      []model.Event
	totalEvents int32
	doneEvents  int32
	failed      int32

	locks sync.Map // image path -> *sync.Mutex

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new poster Manager. onProgress may be called from
// several goroutines at once.
func NewManager(settings *config.Settings, deps Deps, onProgress func(ProgressEvent)) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		settings:     settings,
		generator:    deps.Generator,
		downloader:   deps.Downloader,
		overlayer:    deps.Overlayer,
		tagger:       deps.Tagger,
		imageService: ioutils.NewImageService(settings.JPEGQuality),
		logger:       logger,
		onProgress:   onProgress,
	}
}

// Initialize validates events and queues them for Run. Invalid events are
// reported and skipped; an error is returned only if none is left.
func (m *Manager) Initialize(events []model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range events {
		if e.Title() == "" {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping event %d: %v", i+1, ErrInvalidEvent), Level: LevelError})
			continue
		}
		m.events = append(m.events, e)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Queued: %s (%s)", e.Title(), e.Type()), Level: LevelVerbose})
	}
	atomic.StoreInt32(&m.totalEvents, int32(len(m.events)))

	if len(m.events) == 0 {
		return ErrInvalidEvent
	}
	return nil
}

// Run processes every queued event and returns one Result per event, in
// queue order. The returned error is non-nil only when ctx is done.
func (m *Manager) Run(ctx context.Context) ([]Result, error) {
	m.mu.RLock()
	events := m.events
	m.mu.RUnlock()

	results := make([]Result, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, m.settings.MaxConcurrentEvents))

	for i, event := range events {
		g.Go(func() error {
			results[i] = m.Generate(gctx, event)
			return nil // Continue with other events
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Generate runs the whole pipeline for one event. It is safe to call
// concurrently; the server calls it directly without Initialize.
func (m *Manager) Generate(ctx context.Context, event model.Event) Result {
	res := Result{Event: event}
	log := m.logger.With(zap.String("title", event.Title()), zap.String("date", event.Date))

	res.PosterPath, res.ImagePath, res.Err = m.generate(ctx, event, log)

	if res.Err != nil {
		atomic.AddInt32(&m.failed, 1)
		log.Error("poster failed", zap.Error(res.Err))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Failed %s: %v", event.Title(), res.Err), Level: LevelError})
	} else {
		log.Info("poster ready", zap.String("poster", res.PosterPath))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Poster ready: %s", res.PosterPath), Level: LevelSuccess})
	}
	atomic.AddInt32(&m.doneEvents, 1)
	return res
}

func (m *Manager) generate(ctx context.Context, event model.Event, log *zap.Logger) (posterPath, imagePath string, err error) {
	if event.Title() == "" {
		return "", "", ErrInvalidEvent
	}

	imagePath = event.ImagePath
	if imagePath == "" {
		imagePath = event.ImageFilePath(m.settings.OutputDir)
	}

	unlock := m.lock(imagePath)
	defer unlock()

	if event.ImagePath == "" {
		if err := m.fetchImage(ctx, event, imagePath, log); err != nil {
			return "", imagePath, err
		}
	}

	posterPath, err = m.overlayer.Overlay(ctx, event.OverlayRequest(imagePath))
	if err != nil {
		return "", imagePath, fmt.Errorf("overlay: %w", err)
	}

	if event.MP3Path != "" && m.tagger != nil && m.settings.EmbedPosterInMP3 {
		m.embed(event, posterPath)
	}

	return posterPath, imagePath, nil
}

// fetchImage generates artwork for event and stores it at dest as JPEG.
func (m *Manager) fetchImage(ctx context.Context, event model.Event, dest string, log *zap.Logger) error {
	var profile openai.ArtistProfile
	if event.Type() == model.EventConcert {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Looking up artist: %s", event.Artist), Level: LevelVerbose})
		err := m.retry(ctx, "artist lookup", func() error {
			var err error
			profile, err = m.generator.QueryArtist(ctx, event.Artist)
			return err
		})
		if err != nil {
			return err
		}
	}

	prompt := openai.Prompt(profile, event)
	log.Debug("prompt", zap.String("prompt", prompt))

	m.progress(ProgressEvent{Message: fmt.Sprintf("Generating image for %s", event.Title()), Level: LevelInfo})
	var url string
	err := m.retry(ctx, "image generation", func() error {
		var err error
		url, err = m.generator.GenerateImage(ctx, prompt)
		return err
	})
	if err != nil {
		return err
	}

	if err := ioutils.EnsureDir(filepath.Dir(dest)); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	err = m.retry(ctx, "image download", func() error {
		return m.downloader.DownloadFile(ctx, url, dest, m.downloadProgress(filepath.Base(dest)))
	})
	if err != nil {
		return err
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(dest)), Level: LevelVerbose})

	return m.normalize(ctx, dest)
}

// normalize re-encodes the downloaded file as JPEG when it is not one
// already or when it exceeds the configured maximum size.
func (m *Manager) normalize(ctx context.Context, path string) error {
	if err := ioutils.CheckImageFile(path); err != nil {
		return err
	}
	ctype, err := ioutils.DetectContentType(path)
	if err != nil {
		return err
	}
	if ctype == "image/jpeg" && m.settings.MaxImageSize <= 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := m.imageService.Normalize(ctx, data, m.settings.MaxImageSize)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", path, err)
	}
	return ioutils.WriteFile(path, out)
}

// downloadProgress returns a DownloadFile callback that reports every
// 25% step. Downloads of unknown length are not reported.
func (m *Manager) downloadProgress(name string) func(written, total int64) {
	next := int64(25)
	return func(written, total int64) {
		if total <= 0 {
			return
		}
		pct := written * 100 / total
		if pct < next {
			return
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %s: %d%%", name, pct), Level: LevelVerbose})
		next = pct/25*25 + 25
	}
}

func (m *Manager) embed(event model.Event, posterPath string) {
	data, err := os.ReadFile(posterPath)
	if err == nil {
		err = m.tagger.EmbedPoster(event.MP3Path, event, data)
	}
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", event.MP3Path, err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Embedded poster in %s", filepath.Base(event.MP3Path)), Level: LevelVerbose})
}

// GetProgress returns current batch progress.
func (m *Manager) GetProgress() (done, failed, total int32) {
	return atomic.LoadInt32(&m.doneEvents), atomic.LoadInt32(&m.failed), atomic.LoadInt32(&m.totalEvents)
}

// GetEventNames returns a display name for every queued event.
func (m *Manager) GetEventNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.events))
	for i, e := range m.events {
		names[i] = fmt.Sprintf("%s - %s (%s)", e.Title(), e.Date, e.Location)
	}
	return names
}

// Plan returns the image path every queued event would write to.
func (m *Manager) Plan() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, len(m.events))
	for i, e := range m.events {
		if e.ImagePath != "" {
			paths[i] = e.ImagePath
			continue
		}
		paths[i] = e.ImageFilePath(m.settings.OutputDir)
	}
	return paths
}

func (m *Manager) lock(path string) func() {
	key := filepath.Clean(path)
	v, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (m *Manager) retry(ctx context.Context, what string, fn func() error) error {
	var err error
	attempts := max(1, m.settings.DownloadMaxRetries)
	for tries := 0; tries < attempts; tries++ {
		if err = fn(); err == nil {
			return nil
		}
		if permanent(err) || ctx.Err() != nil || tries == attempts-1 {
			break
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s: %v", tries+1, attempts-1, what, err), Level: LevelWarning})
		m.waitForRetry(ctx, tries)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// permanent reports errors that a retry cannot fix.
func permanent(err error) bool {
	if errors.Is(err, openai.ErrMissingAPIKey) || errors.Is(err, openai.ErrMalformedProfile) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != 429
	}
	return false
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
