package clip

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/cliphunter/cliphunter/errors"
	"github.com/cliphunter/cliphunter/models"
	"github.com/cliphunter/cliphunter/repository"
	"github.com/cliphunter/cliphunter/shortcode"
	"github.com/cliphunter/cliphunter/storage"
	"github.com/cliphunter/cliphunter/validation"
)

type fakeResolver struct {
	info        models.VideoInfo
	infoErr     error
	downloadErr error

	infoCalls     int
	downloadCalls int
}

func (f *fakeResolver) FetchInfo(ctx context.Context, url string) (models.VideoInfo, error) {
	f.infoCalls++
	return f.info, f.infoErr
}

func (f *fakeResolver) Download(ctx context.Context, url, destPath string) error {
	f.downloadCalls++
	if f.downloadErr != nil {
		return f.downloadErr
	}
	return os.WriteFile(destPath, []byte("source media"), 0o644)
}

type fakeTrimmer struct {
	err   error
	calls int
}

func (f *fakeTrimmer) Trim(ctx context.Context, inputPath, outputPath string, start, end float64) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte("trimmed media"), 0o644)
}

type fakeStore struct {
	err     error
	lastKey string
}

func (f *fakeStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastKey = key
	return "https://cdn.example.com/" + key, nil
}

type memRepo struct {
	clips map[string]*models.ClipRecord
}

func newMemRepo() *memRepo {
	return &memRepo{clips: make(map[string]*models.ClipRecord)}
}

func (m *memRepo) Save(ctx context.Context, clip *models.ClipRecord) error {
	copied := *clip
	if existing, ok := m.clips[clip.ShortCode]; ok {
		copied.Views = existing.Views
	}
	m.clips[clip.ShortCode] = &copied
	return nil
}

func (m *memRepo) Find(ctx context.Context, shortCode string) (*models.ClipRecord, error) {
	clip, ok := m.clips[shortCode]
	if !ok {
		return nil, errors.NotFound("memRepo.Find", nil, "Clip not found")
	}
	return clip, nil
}

func (m *memRepo) IncrementViews(ctx context.Context, shortCode string) (*models.ClipRecord, error) {
	clip, ok := m.clips[shortCode]
	if !ok {
		return nil, errors.NotFound("memRepo.IncrementViews", nil, "Clip not found")
	}
	clip.Views++
	return clip, nil
}

type deps struct {
	repo     repository.ClipRepository
	resolver *fakeResolver
	trimmer  *fakeTrimmer
	store    *fakeStore
	config   Config
}

func newTestService(t *testing.T, d deps) Service {
	t.Helper()

	if d.repo == nil {
		d.repo = newMemRepo()
	}
	if d.resolver == nil {
		d.resolver = &fakeResolver{info: models.VideoInfo{Title: "A video", Thumbnail: "https://t.example/x.jpg", Duration: 120, ViewCount: 1000}}
	}
	if d.trimmer == nil {
		d.trimmer = &fakeTrimmer{}
	}
	if d.store == nil {
		d.store = &fakeStore{}
	}
	if d.config.TempDir == "" {
		d.config.TempDir = t.TempDir()
	}
	if d.config.PublicBaseURL == "" {
		d.config.PublicBaseURL = "https://cliphunter.app"
	}

	return NewService(
		d.repo, d.resolver, d.trimmer, d.store,
		shortcode.NewGenerator(true),
		validation.NewValidator(),
		d.config, nil,
	)
}

func TestInfo(t *testing.T) {
	svc := newTestService(t, deps{})

	resp, err := svc.Info(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}

	if resp.Title != "A video" {
		t.Errorf("expected title 'A video', got %q", resp.Title)
	}
	if resp.OriginalURL != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("unexpected original_url %q", resp.OriginalURL)
	}
	if resp.Views != 1000 {
		t.Errorf("expected views 1000, got %d", resp.Views)
	}
}

func TestInfoThumbnailFallback(t *testing.T) {
	resolver := &fakeResolver{info: models.VideoInfo{Title: "A video"}}
	svc := newTestService(t, deps{resolver: resolver})

	resp, err := svc.Info(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if !strings.Contains(resp.Thumbnail, "i.ytimg.com/vi/dQw4w9WgXcQ") {
		t.Errorf("expected CDN fallback thumbnail, got %q", resp.Thumbnail)
	}
}

func TestInfoInvalidURL(t *testing.T) {
	svc := newTestService(t, deps{})

	_, err := svc.Info(context.Background(), "https://example.com/nothing")
	if !errors.IsInvalidInput(err) {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestInfoResolverFailure(t *testing.T) {
	resolver := &fakeResolver{infoErr: errors.NotFound("op", nil, "Video unavailable")}
	svc := newTestService(t, deps{resolver: resolver})

	_, err := svc.Info(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCreateClip(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, deps{repo: repo})

	end := 90
	resp, err := svc.CreateClip(context.Background(), &models.ClipRequest{
		URL:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Start: 30,
		End:   &end,
	})
	if err != nil {
		t.Fatalf("CreateClip() error = %v", err)
	}

	if len(resp.ShortCode) != 8 {
		t.Errorf("expected 8-char short code, got %q", resp.ShortCode)
	}
	if strings.Count(resp.EmbedURL, "start=30") != 1 || strings.Count(resp.EmbedURL, "end=90") != 1 {
		t.Errorf("unexpected embed URL %q", resp.EmbedURL)
	}
	if resp.Views != 0 {
		t.Errorf("expected views 0, got %d", resp.Views)
	}
	if !strings.HasSuffix(resp.ShortURL, "/"+resp.ShortCode) {
		t.Errorf("unexpected short URL %q", resp.ShortURL)
	}

	saved, err := repo.Find(context.Background(), resp.ShortCode)
	if err != nil {
		t.Fatalf("expected record persisted: %v", err)
	}
	if saved.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("unexpected persisted video_id %q", saved.VideoID)
	}
}

func TestCreateClipDeterministicCode(t *testing.T) {
	svc := newTestService(t, deps{})
	req := &models.ClipRequest{URL: "https://youtu.be/dQw4w9WgXcQ", Start: 30}

	first, err := svc.CreateClip(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateClip() error = %v", err)
	}
	second, err := svc.CreateClip(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateClip() error = %v", err)
	}

	if first.ShortCode != second.ShortCode {
		t.Errorf("expected identical codes for identical input, got %q and %q",
			first.ShortCode, second.ShortCode)
	}
}

func TestCreateClipPersistenceFailureSwallowed(t *testing.T) {
	svc := newTestService(t, deps{repo: repository.Null{}})

	resp, err := svc.CreateClip(context.Background(), &models.ClipRequest{
		URL:   "https://youtu.be/dQw4w9WgXcQ",
		Start: 30,
	})
	if err != nil {
		t.Fatalf("CreateClip() must succeed without a record store, got %v", err)
	}
	if resp.EmbedURL == "" {
		t.Error("expected embed URL despite persistence failure")
	}
}

func TestCreateClipResolverFallback(t *testing.T) {
	resolver := &fakeResolver{infoErr: errors.Internal("op", nil, "upstream broke")}
	svc := newTestService(t, deps{resolver: resolver})

	resp, err := svc.CreateClip(context.Background(), &models.ClipRequest{
		URL:   "https://youtu.be/dQw4w9WgXcQ",
		Start: 30,
	})
	if err != nil {
		t.Fatalf("CreateClip() error = %v", err)
	}
	if resp.Title != placeholderTitle {
		t.Errorf("expected placeholder title, got %q", resp.Title)
	}
	if !strings.Contains(resp.Thumbnail, "i.ytimg.com") {
		t.Errorf("expected fallback thumbnail, got %q", resp.Thumbnail)
	}
}

func TestCreateClipStrictResolve(t *testing.T) {
	resolver := &fakeResolver{infoErr: errors.Internal("op", nil, "upstream broke")}
	svc := newTestService(t, deps{
		resolver: resolver,
		config:   Config{StrictResolve: true},
	})

	_, err := svc.CreateClip(context.Background(), &models.ClipRequest{
		URL:   "https://youtu.be/dQw4w9WgXcQ",
		Start: 30,
	})
	if err == nil {
		t.Error("expected resolver error in strict mode")
	}
}

func TestCreateClipTitleTruncation(t *testing.T) {
	resolver := &fakeResolver{info: models.VideoInfo{Title: strings.Repeat("a", 150)}}
	svc := newTestService(t, deps{resolver: resolver})

	resp, err := svc.CreateClip(context.Background(), &models.ClipRequest{
		URL:   "https://youtu.be/dQw4w9WgXcQ",
		Start: 0,
	})
	if err != nil {
		t.Fatalf("CreateClip() error = %v", err)
	}
	if len(resp.Title) != maxTitleLen {
		t.Errorf("expected title truncated to %d chars, got %d", maxTitleLen, len(resp.Title))
	}
}

func TestGetClipIncrementsViews(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, deps{repo: repo})

	resp, err := svc.CreateClip(context.Background(), &models.ClipRequest{
		URL:   "https://youtu.be/dQw4w9WgXcQ",
		Start: 30,
	})
	if err != nil {
		t.Fatalf("CreateClip() error = %v", err)
	}

	first, err := svc.GetClip(context.Background(), resp.ShortCode)
	if err != nil {
		t.Fatalf("GetClip() error = %v", err)
	}
	second, err := svc.GetClip(context.Background(), resp.ShortCode)
	if err != nil {
		t.Fatalf("GetClip() error = %v", err)
	}

	if second.Views != first.Views+1 {
		t.Errorf("expected views to differ by exactly 1, got %d then %d",
			first.Views, second.Views)
	}
}

func TestGetClipWithoutStore(t *testing.T) {
	svc := newTestService(t, deps{repo: repository.Null{}})

	_, err := svc.GetClip(context.Background(), "abc12345")
	if !errors.IsUnavailable(err) {
		t.Errorf("expected unavailable error, got %v", err)
	}
}

func TestGetClipNotFound(t *testing.T) {
	svc := newTestService(t, deps{})

	_, err := svc.GetClip(context.Background(), "missing1")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCutSuccess(t *testing.T) {
	tempDir := t.TempDir()
	store := &fakeStore{}
	svc := newTestService(t, deps{store: store, config: Config{TempDir: tempDir, PublicBaseURL: "https://cliphunter.app"}})

	resp, err := svc.Cut(context.Background(), &models.CutRequest{
		VideoURL:  "https://youtu.be/dQw4w9WgXcQ",
		StartTime: 30,
		EndTime:   90,
	})
	if err != nil {
		t.Fatalf("Cut() error = %v", err)
	}

	if resp.Status != "success" {
		t.Errorf("expected status success, got %q", resp.Status)
	}
	if !strings.HasPrefix(resp.PublicURL, "https://cdn.example.com/clips/") {
		t.Errorf("unexpected public URL %q", resp.PublicURL)
	}

	assertDirEmpty(t, tempDir)
}

func TestCutRejectsBadRangeBeforeDownload(t *testing.T) {
	resolver := &fakeResolver{}
	svc := newTestService(t, deps{resolver: resolver})

	_, err := svc.Cut(context.Background(), &models.CutRequest{
		VideoURL:  "https://youtu.be/dQw4w9WgXcQ",
		StartTime: 90,
		EndTime:   30,
	})
	if !errors.IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if resolver.downloadCalls != 0 {
		t.Errorf("expected no download attempt, got %d", resolver.downloadCalls)
	}
}

func TestCutCleansUpOnTrimFailure(t *testing.T) {
	tempDir := t.TempDir()
	trimmer := &fakeTrimmer{err: errors.Internal("op", nil, "Transcode failed: boom")}
	svc := newTestService(t, deps{trimmer: trimmer, config: Config{TempDir: tempDir, PublicBaseURL: "https://cliphunter.app"}})

	_, err := svc.Cut(context.Background(), &models.CutRequest{
		VideoURL:  "https://youtu.be/dQw4w9WgXcQ",
		StartTime: 30,
		EndTime:   90,
	})
	if err == nil {
		t.Fatal("expected trim error")
	}

	assertDirEmpty(t, tempDir)
}

func TestCutCleansUpOnUploadFailure(t *testing.T) {
	tempDir := t.TempDir()
	store := &fakeStore{err: errors.Internal("op", nil, "Failed to upload clip")}
	svc := newTestService(t, deps{store: store, config: Config{TempDir: tempDir, PublicBaseURL: "https://cliphunter.app"}})

	_, err := svc.Cut(context.Background(), &models.CutRequest{
		VideoURL:  "https://youtu.be/dQw4w9WgXcQ",
		StartTime: 30,
		EndTime:   90,
	})
	if err == nil {
		t.Fatal("expected upload error")
	}

	assertDirEmpty(t, tempDir)
}

func TestCutWithoutStorage(t *testing.T) {
	svc := NewService(
		newMemRepo(), &fakeResolver{}, &fakeTrimmer{}, storage.Null{},
		shortcode.NewGenerator(true), validation.NewValidator(),
		Config{TempDir: t.TempDir(), PublicBaseURL: "https://cliphunter.app"}, nil,
	)

	_, err := svc.Cut(context.Background(), &models.CutRequest{
		VideoURL:  "https://youtu.be/dQw4w9WgXcQ",
		StartTime: 30,
		EndTime:   90,
	})
	if !errors.IsUnavailable(err) {
		t.Errorf("expected unavailable error, got %v", err)
	}
}

func TestCutObjectKeyPrefix(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, deps{store: store})

	_, err := svc.Cut(context.Background(), &models.CutRequest{
		VideoURL:       "https://youtu.be/dQw4w9WgXcQ",
		StartTime:      30,
		EndTime:        90,
		FileNamePrefix: "highlight",
	})
	if err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	if !strings.HasPrefix(store.lastKey, "clips/highlight-") {
		t.Errorf("expected prefixed object key, got %q", store.lastKey)
	}
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected no transient files left, found %v", names)
	}
}
