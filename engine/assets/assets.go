package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/lumen/engine/assets/loaders"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/engine/renderer/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

/**
 * @brief Loads images and scene descriptions from disk and, once Watch is
 * called, reports changes to watched files on the event bus.
 */
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	bus      *core.EventBus
	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	watched  map[string]struct{}
	isClosed bool
}

func NewAssetManager(bus *core.EventBus) *AssetManager {
	am := &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		watched: make(map[string]struct{}),
		bus:     bus,
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypeImage, &loaders.ImageLoader{})
	am.registerLoader(metadata.ResourceTypeScene, &loaders.SceneLoader{})
	return am
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(path string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if resourceType == metadata.ResourceTypeNone {
		resourceType = determineAssetType(path)
	}
	loader, exists := am.loaders[resourceType]
	if !exists {
		return nil, fmt.Errorf("no loader registered for %s (%s): %w", path, resourceType, core.ErrUnknownType)
	}

	resource, err := loader.Load(path, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       resourceType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()
	return resource, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	if asset == nil {
		return nil
	}
	loader, exists := am.loaders[asset.Type]
	if !exists {
		return fmt.Errorf("no loader registered for asset type: %s: %w", asset.Type, core.ErrUnknownType)
	}
	return loader.Unload(asset)
}

// Info returns what is known about a loaded asset.
func (am *AssetManager) Info(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[path]
	return info, ok
}

/**
 * @brief Starts watching the file at path. Writes and re-creations of the file
 * fire EVENT_CODE_SCENE_CHANGED. The parent directory is what gets watched, so
 * editors that replace the file on save are handled too.
 */
func (am *AssetManager) Watch(path string) error {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}

	if am.fsnotify == nil {
		fsWatch, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.fsnotify = fsWatch
		am.done = make(chan struct{})
		am.stopped = make(chan struct{})
		go am.start(fsWatch, am.done, am.stopped)
	}
	if err := am.fsnotify.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	am.watched[abs] = struct{}{}
	core.LogDebug("watching %s", abs)
	return nil
}

func (am *AssetManager) start(watcher *fsnotify.Watcher, done, stopped chan struct{}) {
	defer close(stopped)
	for {
		select {
		case e, ok := <-watcher.Events:
			if !ok {
				return
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
			}

		case e, ok := <-watcher.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-done:
			return
		}
	}
}

// Handle the creation or modification of a watched file
func (am *AssetManager) handleFileEvent(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	am.mutex.RLock()
	_, watched := am.watched[abs]
	am.mutex.RUnlock()
	if !watched || am.bus == nil {
		return
	}
	core.LogInfo("%s changed", abs)
	am.bus.Fire(core.EVENT_CODE_SCENE_CHANGED, am, core.EventContext{Path: abs})
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

// Close stops the watcher, if any. Loading keeps working afterwards.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	watcher, done, stopped := am.fsnotify, am.done, am.stopped
	am.mutex.Unlock()

	if watcher == nil {
		return nil
	}
	close(done)
	<-stopped
	return watcher.Close()
}

func determineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case ".png", ".bmp", ".tif", ".tiff":
		return metadata.ResourceTypeImage
	case ".toml":
		return metadata.ResourceTypeScene
	default:
		return metadata.ResourceTypeNone
	}
}
