package memimg

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
)

// 贴图文件名
const (
	SpriteHead = "head.png"
	SpriteBody = "body.png"
	SpriteFood = "food.png"
	SpriteWall = "wall.png"
)

var (
	sprites      = make(map[string]image.Image)
	spritesMutex sync.RWMutex
)

// LoadSprites loads every image in directory, scaled to blockSize.
// Files that fail to decode are skipped and logged.
func LoadSprites(directory string, blockSize int) error {
	loaded := make(map[string]image.Image)
	err := filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isImage(path) {
			return nil
		}
		img, err := LoadImage(path, blockSize)
		if err != nil {
			log.Printf("skip sprite %s: %v", path, err)
			return nil
		}
		loaded[filepath.Base(path)] = img
		return nil
	})
	if err != nil {
		return err
	}

	spritesMutex.Lock()
	sprites = loaded
	spritesMutex.Unlock()
	return nil
}

// LoadImage decodes an image file and resizes it to a blockSize square.
func LoadImage(path string, blockSize int) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	if blockSize > 0 {
		img = imaging.Resize(img, blockSize, blockSize, imaging.Lanczos)
	}
	return img, nil
}

// WatchSprites reloads sprites written into directory until ctx is done.
func WatchSprites(ctx context.Context, directory string, blockSize int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isImage(event.Name) {
				continue
			}
			name := filepath.Base(event.Name)
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				img, err := LoadImage(event.Name, blockSize)
				if err != nil {
					// 文件可能还没写完，等下一次写事件
					continue
				}
				SetSprite(name, img)
				log.Printf("sprite %s reloaded", name)
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				spritesMutex.Lock()
				delete(sprites, name)
				spritesMutex.Unlock()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("sprite watcher error: %v", err)
		}
	}
}

// GetSprite returns a cached sprite by file name.
func GetSprite(name string) (image.Image, bool) {
	spritesMutex.RLock()
	img, exists := sprites[name]
	spritesMutex.RUnlock()
	return img, exists
}

// SetSprite stores img under name.
func SetSprite(name string, img image.Image) {
	spritesMutex.Lock()
	sprites[name] = img
	spritesMutex.Unlock()
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
