package pagerduty

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	consulapi "github.com/hashicorp/consul/api"
	"github.com/hashicorp/consul/api/watch"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Reloader builds a fresh callback for every configuration change and
// publishes it only if the new configuration is valid.
type Reloader struct {
	callbacks   *Holder
	newCallback func() *Callback

	log *logrus.Entry
}

func NewReloader(callbacks *Holder, newCallback func() *Callback) *Reloader {
	return &Reloader{
		callbacks:   callbacks,
		newCallback: newCallback,
		log:         logrus.WithField("system", "reloader"),
	}
}

// Apply installs raw. On error the previous callback stays in service.
func (r *Reloader) Apply(raw RawConfiguration) error {
	cb := r.newCallback()
	if err := cb.Initialize(raw); err != nil {
		r.log.WithFields(logrus.Fields{
			"err":        err,
			"attributes": Redact(raw),
		}).Error("rejected configuration")
		return err
	}

	r.callbacks.Store(cb)
	r.log.WithField("attributes", cb.Attributes()).Info("configuration applied")
	return nil
}

// FileWatcher reapplies a YAML configuration file whenever it changes.
type FileWatcher struct {
	path     string
	reloader *Reloader

	log *logrus.Entry
}

func NewFileWatcher(path string, reloader *Reloader) *FileWatcher {
	return &FileWatcher{
		path:     filepath.Clean(path),
		reloader: reloader,
		log:      logrus.WithFields(logrus.Fields{"system": "file-watcher", "path": path}),
	}
}

// Run blocks until ctx is done. The parent directory is watched, so
// editors that replace the file by rename are picked up too.
func (w *FileWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return errors.Wrapf(err, "watch %q", filepath.Dir(w.path))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.WithField("err", err).Warn("file watcher error")
		}
	}
}

func (w *FileWatcher) reload() {
	raw, err := LoadFile(w.path)
	if err != nil {
		w.log.WithField("err", err).Error("failed to load configuration")
		return
	}
	_ = w.reloader.Apply(raw)
}

// ConsulWatcher reapplies the configuration stored under a KV prefix on
// every change.
type ConsulWatcher struct {
	addr string
	wp   *watch.Plan
}

func NewConsulWatcher(addr, prefix string, reloader *Reloader) (*ConsulWatcher, error) {
	prefix = normalizePrefix(prefix)
	wp, err := watch.Parse(map[string]interface{}{
		"type":   "keyprefix",
		"prefix": prefix,
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse watch plan")
	}

	log := logrus.WithFields(logrus.Fields{"system": "consul-watcher", "prefix": prefix})
	wp.Handler = func(idx uint64, data interface{}) {
		pairs, ok := data.(consulapi.KVPairs)
		if !ok {
			log.WithField("type", fmt.Sprintf("%T", data)).Error("received unknown watch payload")
			return
		}
		log.WithField("index", idx).Debug("configuration changed")
		_ = reloader.Apply(pairsToRaw(prefix, pairs))
	}

	return &ConsulWatcher{
		addr: addr,
		wp:   wp,
	}, nil
}

// Run blocks until Stop is called or the plan fails.
func (w *ConsulWatcher) Run() error {
	return w.wp.Run(w.addr)
}

func (w *ConsulWatcher) Stop() {
	w.wp.Stop()
}
