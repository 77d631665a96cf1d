package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	SelfPath    string `json:"selfpath"`
	Port        string `json:"port"`
	Blocksize   int    `json:"blocksize"`    // 每格像素
	Columns     int    `json:"columns"`      // 按可用区域换算网格时固定的列数
	TickMs      int    `json:"tick_ms"`      // 每次tick的间隔，毫秒
	AutoTick    bool   `json:"auto_tick"`    // 服务端自动驱动tick
	DBPath      string `json:"db_path"`      // sqlite 文件
	SpriteDir   string `json:"sprite_dir"`   // 贴图目录
	Seed        uint64 `json:"seed"`         // 0 表示按时间
	SnapshotTTL int    `json:"snapshot_ttl"` // 快照保留小时数，0 表示不清理
}

var (
	instance *AppConfig
	once     sync.Once
)

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		SelfPath:    "127.0.0.1:38870", // Default value
		Port:        "38870",           // Default value
		Blocksize:   20,
		Columns:     20,
		TickMs:      150,
		AutoTick:    true,
		DBPath:      "game.db",
		SpriteDir:   "sprites",
		SnapshotTTL: 24 * 7,
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		defaults := Defaults()
		instance = &defaults
		// Load the config file if it exists, otherwise create one
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			saveConfig(filePath)
		} else {
			loadConfig(filePath)
		}
	})
	return instance
}

// loadConfig loads the settings from the file
func loadConfig(filePath string) {
	file, err := os.Open(filePath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(instance); err != nil {
		panic(err)
	}
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string) {
	file, err := os.Create(filePath)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(instance); err != nil {
		panic(err)
	}
}

// Get returns a copy of the loaded configuration, or the defaults before
// LoadConfig ran.
func Get() AppConfig {
	if instance == nil {
		return Defaults()
	}
	return *instance
}

// TickInterval is the configured tick period.
func (c AppConfig) TickInterval() time.Duration {
	if c.TickMs <= 0 {
		return 150 * time.Millisecond
	}
	return time.Duration(c.TickMs) * time.Millisecond
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	c := Get()
	switch key {
	case "selfpath":
		return c.SelfPath
	case "port":
		return c.Port
	case "blocksize":
		return c.Blocksize
	case "columns":
		return c.Columns
	case "tick_ms":
		return c.TickMs
	case "auto_tick":
		return c.AutoTick
	case "db_path":
		return c.DBPath
	case "sprite_dir":
		return c.SpriteDir
	default:
		return ""
	}
}
