package reading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"shelf-widgets/core/domain"
)

// mockFetcher is a mock implementation of the Fetcher interface
type mockFetcher struct {
	mu        sync.Mutex
	calls     []string
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	m.mu.Unlock()

	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return nil, errors.New("not implemented")
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockFetcher) calledWith(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// mockStore is a mock implementation of SnapshotStore
type mockStore struct {
	mu       sync.Mutex
	snap     *domain.Snapshot
	reads    int
	writes   int
	writeErr error
	now      time.Time
}

func (m *mockStore) Read(ctx context.Context) (domain.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.snap == nil {
		return domain.Snapshot{}, false
	}
	return m.snap.Clone(), true
}

func (m *mockStore) Write(ctx context.Context, snap domain.Snapshot) (domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return domain.Snapshot{}, m.writeErr
	}
	committed := snap.Clone()
	committed.CapturedAt = m.now
	m.snap = &committed
	return committed, nil
}

func (m *mockStore) stored() (domain.Snapshot, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return domain.Snapshot{}, m.writes
	}
	return m.snap.Clone(), m.writes
}

// mockStatic is a mock implementation of StaticLoader
type mockStatic struct {
	snap  domain.Snapshot
	err   error
	loads int
}

func (m *mockStatic) Load(ctx context.Context) (domain.Snapshot, error) {
	m.loads++
	if m.err != nil {
		return domain.Snapshot{}, m.err
	}
	return m.snap.Clone(), nil
}

// recordingPresenter captures what reached the presentation layer
type recordingPresenter struct {
	mu        sync.Mutex
	shown     []domain.Snapshot
	fallbacks int
}

func (p *recordingPresenter) DisplayReading(snap domain.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, snap)
}

func (p *recordingPresenter) DisplayFallback() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fallbacks++
}

// rss builds a minimal Goodreads shelf document with one item per title
func rss(titles ...string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>shelf</title>`)
	for i, title := range titles {
		fmt.Fprintf(&b, `<item><title>%s</title><link>https://www.goodreads.com/review/show/%d</link><author_name>Author %d</author_name></item>`, title, i, i)
	}
	b.WriteString(`</channel></rss>`)
	return []byte(b.String())
}

// memoryCache is a minimal Cache backing a real snapshot.Store
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// recordingLogger keeps the state field of every entry, by level
type recordingLogger struct {
	mu     sync.Mutex
	states map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{states: map[string][]string{}}
}

func (l *recordingLogger) record(level string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if state, ok := fields["state"].(string); ok {
		l.states[level] = append(l.states[level], state)
	}
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  { l.record("info", fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", fields) }
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) { l.record("error", fields) }

func (l *recordingLogger) at(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.states[level]...)
}
