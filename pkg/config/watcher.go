package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 同一文件的连续写入在该时间内合并为一次重新加载
const DefaultDebounce = 150 * time.Millisecond

// Reload 一次重新加载的结果
// Err 非 nil 时 Config 为 nil，调用方应继续使用旧配置
type Reload struct {
	Config *SkyConfig
	Err    error
}

// Watcher 监视外部配置文件，变化后重新解析并通过 Changes 发出
//
// 监视的是文件所在的目录而不是文件本身：很多编辑器保存时先写临时文件再重命名，
// 直接监视文件会在第一次保存后丢失。
type Watcher struct {
	Path     string
	Debounce time.Duration
	Changes  <-chan Reload // 只读的外部通道

	changes chan Reload
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher 为配置文件创建监视器
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ch := make(chan Reload, 4)
	return &Watcher{
		Path:     abs,
		Debounce: DefaultDebounce,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start 开始监视
// 失败时释放 fsnotify 资源，之后调用 Stop 会立即返回
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		w.watcher.Close()
		close(w.done)
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.Path), err)
	}
	log.Printf("[ConfigWatcher] Watching %s", w.Path)
	go w.loop()
	return nil
}

// Stop 关闭监视器并等待后台循环退出，之后 Changes 被关闭
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var (
		pending  bool
		lastSeen time.Time
	)
	ticker := time.NewTicker(w.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
				lastSeen = time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(lastSeen) >= w.Debounce {
				pending = false
				w.emit()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// 监视错误不致命
			log.Printf("[ConfigWatcher] Watch error: %v", err)
		}
	}
}

func (w *Watcher) emit() {
	cfg, err := LoadSkyConfig(w.Path)
	if err != nil {
		log.Printf("[ConfigWatcher] Reload failed: %v (keeping previous config)", err)
	} else {
		log.Printf("[ConfigWatcher] Reloaded %s", w.Path)
	}

	// 消费方跟不上时丢弃最旧的一次结果，保证最新配置一定能送达
	r := Reload{Config: cfg, Err: err}
	select {
	case w.changes <- r:
	default:
		select {
		case <-w.changes:
		default:
		}
		select {
		case w.changes <- r:
		default:
		}
	}
}
