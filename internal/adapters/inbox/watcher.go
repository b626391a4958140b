package inbox

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/pkg/logging"
)

// DefaultDebounce is how long a file must stay quiet before it is emitted
const DefaultDebounce = 500 * time.Millisecond

// Watcher emits images dropped into a directory
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	files    chan domain.UploadFile
	done     chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// NewWatcher starts watching dir
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		debounce: debounce,
		watcher:  fw,
		files:    make(chan domain.UploadFile, 16),
		done:     make(chan struct{}),
		pending:  make(map[string]*time.Timer),
	}
	go w.loop()
	return w, nil
}

// Dir returns the watched directory
func (w *Watcher) Dir() string {
	return w.dir
}

// Files streams accepted images once their writes have settled
func (w *Watcher) Files() <-chan domain.UploadFile {
	return w.files
}

// Close stops watching and closes the Files channel
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.pending {
		t.Stop()
	}
	w.pending = nil
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.done
	close(w.files)
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			// Skip hidden and editor temp files
			base := filepath.Base(event.Name)
			if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
				continue
			}
			if !domain.IsAcceptedImage(base) {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("inbox watcher: %v", err)
		}
	}
}

// schedule (re)starts the quiet-period timer of a path
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.emit(path)
	})
}

func (w *Watcher) emit(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	delete(w.pending, path)

	select {
	case w.files <- domain.NewUploadFile(path):
		logging.Debug("inbox: %s", path)
	default:
		logging.Error("inbox: dropping %s, consumer is not keeping up", path)
	}
}
