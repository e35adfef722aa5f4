package config

import (
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	ServerAddr    string `json:"server_addr" mapstructure:"SERVER_ADDR"`
	MemoSize      int    `json:"memo_size" mapstructure:"MEMO_SIZE"`
	MemoBuckets   int    `json:"memo_buckets" mapstructure:"MEMO_BUCKETS"`
	MaxDepth      int    `json:"max_depth" mapstructure:"MAX_DEPTH"`
	LogSolveStats bool   `json:"log_solve_stats" mapstructure:"LOG_SOLVE_STATS"`
	WsSendBuffer  int    `json:"ws_send_buffer" mapstructure:"WS_SEND_BUFFER"`
}

type Store struct {
	mu     sync.RWMutex
	config Config
}

func Default() Config {
	return Config{
		ServerAddr: ":8080",

		// Table sizing: power of two, 4-way buckets for hit rate
		// under repeated solves of related boards.
		MemoSize:    1 << 18,
		MemoBuckets: 4,

		// Requests above this depth are rejected before search.
		MaxDepth: 40,

		LogSolveStats: true,
		WsSendBuffer:  16,
	}
}

// Load returns the defaults overridden by the optional config file at
// path. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return Config{}, err
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewStore(cfg Config) *Store {
	return &Store{config: cfg}
}

func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

func (s *Store) Update(cfg Config) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}
