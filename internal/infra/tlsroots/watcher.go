package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/kiwi/internal/telemetry/logger"
)

const (
	defaultDebounce = 250 * time.Millisecond

	// expiryWarning is how close to NotAfter a loaded certificate starts
	// producing warnings.
	expiryWarning = 7 * 24 * time.Hour
)

// CertWatcher holds a certificate/key pair and reloads it when either file
// changes. A failed reload keeps serving the previous pair.
type CertWatcher struct {
	certFile string
	keyFile  string
	debounce time.Duration
	logger   logger.Logger

	mu   sync.RWMutex
	cert *tls.Certificate
	leaf *x509.Certificate

	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// CertWatcherOption configures a CertWatcher.
type CertWatcherOption func(*CertWatcher)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) CertWatcherOption {
	return func(w *CertWatcher) {
		w.logger = l
	}
}

// WithDebounce sets how long the files must be quiet before a reload.
func WithDebounce(d time.Duration) CertWatcherOption {
	return func(w *CertWatcher) {
		w.debounce = d
	}
}

// NewCertWatcher loads the pair and starts watching the directories that
// contain it. Call Start or StartAsync to act on changes.
func NewCertWatcher(certFile, keyFile string, opts ...CertWatcherOption) (*CertWatcher, error) {
	w := &CertWatcher{
		certFile: certFile,
		keyFile:  keyFile,
		debounce: defaultDebounce,
		logger:   logger.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	// Directories, not files: rename-based replacement would drop a file watch.
	for _, dir := range uniqueDirs(certFile, keyFile) {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("tlsroots: watch %s: %w", dir, err)
		}
	}
	w.watcher = fw

	return w, nil
}

// Start handles file events until Stop is called.
func (w *CertWatcher) Start() {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("certificate file changed", "file", event.Name, "op", event.Op.String())

			// Cert and key are usually replaced one after the other; wait
			// for both before loading.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.reload(); err != nil {
				w.logger.Error("certificate reload failed, keeping previous certificate",
					"cert_file", w.certFile,
					"error", err,
				)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("certificate watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// StartAsync runs Start in a goroutine.
func (w *CertWatcher) StartAsync() {
	go w.Start()
}

// Stop stops watching. It is safe to call more than once.
func (w *CertWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

// GetCertificate returns the current certificate. It has the signature of
// tls.Config.GetCertificate.
func (w *CertWatcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert, nil
}

// NotAfter returns the expiry time of the current certificate.
func (w *CertWatcher) NotAfter() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.leaf.NotAfter
}

// ServerConfig returns a server TLS config backed by the watcher.
func (w *CertWatcher) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: w.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

func (w *CertWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == filepath.Clean(w.certFile) || name == filepath.Clean(w.keyFile)
}

func (w *CertWatcher) reload() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return err
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("parse certificate: %w", err)
	}
	cert.Leaf = leaf

	w.mu.Lock()
	w.cert = &cert
	w.leaf = leaf
	w.mu.Unlock()

	l := w.logger.With("cert_file", w.certFile, "subject", leaf.Subject.String(), "not_after", leaf.NotAfter)
	if left := time.Until(leaf.NotAfter); left < expiryWarning {
		l.Warn("certificate expires soon", "remaining", left.Round(time.Second).String())
	} else {
		l.Info("certificate loaded")
	}
	return nil
}

func uniqueDirs(paths ...string) []string {
	seen := make(map[string]struct{}, len(paths))
	var dirs []string
	for _, p := range paths {
		d := filepath.Dir(p)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}
	return dirs
}
