/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Seednode/teamswap/storage"
	"github.com/Seednode/teamswap/swap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrUnknownTool = errors.New("unknown tool")

func builtinTools(allowEmptySwap bool) []swap.Config {
	return []swap.Config{
		{
			Name:           "lol",
			Title:          "LoL 팀 섞기",
			LockGuide:      "포지션을 클릭하면 고정됩니다.",
			StorageKey:     "shuffle.lol.state.v2",
			LegacyKeys:     []string{"shuffle.lol.state", "soopi-utils.lol.state"},
			Rows:           []string{"탑", "정글", "미드", "원딜", "서폿"},
			AllowEmptySwap: allowEmptySwap,
			LeftFallback:   "블루팀",
			RightFallback:  "레드팀",
		},
		{
			Name:           "pubg",
			Title:          "PUBG 팀 섞기",
			LockGuide:      "티어를 클릭하면 고정됩니다.",
			StorageKey:     "shuffle.pubg.state.v2",
			LegacyKeys:     []string{"shuffle.pubg.state", "soopi-utils.pubg.state"},
			Rows:           []string{"1티어", "2티어", "3티어", "4티어"},
			AllowEmptySwap: allowEmptySwap,
			LeftFallback:   "왼쪽팀",
			RightFallback:  "오른쪽팀",
		},
	}
}

type toolsFile struct {
	Tools []swap.Config `yaml:"tools"`
}

// toolConfigs returns the built-in tools, overridden or extended by the
// entries in cfg.toolsFile.
func toolConfigs(cfg *Config) ([]swap.Config, error) {
	configs := builtinTools(cfg.allowEmptySwap)

	if cfg.toolsFile != "" {
		data, err := os.ReadFile(cfg.toolsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read tools file: %w", err)
		}

		var file toolsFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse tools file: %w", err)
		}

		configs = mergeTools(configs, file.Tools)
	}

	if err := validateTools(configs); err != nil {
		return nil, err
	}

	return configs, nil
}

func mergeTools(base, extra []swap.Config) []swap.Config {
	merged := append([]swap.Config(nil), base...)

	for _, tool := range extra {
		replaced := false
		for i := range merged {
			if merged[i].Name == tool.Name {
				merged[i] = tool
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, tool)
		}
	}

	return merged
}

// validateTools checks every config and makes sure no two tools share a
// storage key, current or legacy.
func validateTools(configs []swap.Config) error {
	owners := make(map[string]string)
	names := make(map[string]bool)

	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return err
		}
		if names[c.Name] {
			return fmt.Errorf("duplicate tool name %q", c.Name)
		}
		names[c.Name] = true

		for _, key := range c.Keys() {
			if owner, ok := owners[key]; ok && owner != c.Name {
				return fmt.Errorf("storage key %q is used by both %q and %q", key, owner, c.Name)
			}
			owners[key] = c.Name
		}
	}

	return nil
}

// Registry owns the storage medium and every tool instance built on it.
type Registry struct {
	store *storage.Store
	theme *Theme
	order []string
	tools map[string]*swap.Tool
}

func openRegistry(cfg *Config, random swap.Random) (*Registry, error) {
	configs, err := toolConfigs(cfg)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	backend, err := storage.OpenSQLite(cfg.statePath)
	if err != nil {
		return nil, err
	}

	store := storage.NewStore(backend, logger.Named("storage"))

	r := &Registry{
		store: store,
		theme: loadTheme(store),
		tools: make(map[string]*swap.Tool, len(configs)),
	}

	for _, c := range configs {
		tool, err := swap.NewTool(c, swap.Options{
			Store:  store,
			Logger: logger,
			Random: random,
		})
		if err != nil {
			_ = r.Close()
			return nil, err
		}

		r.order = append(r.order, c.Name)
		r.tools[c.Name] = tool
	}

	return r, nil
}

func (r *Registry) Get(name string) (*swap.Tool, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return tool, nil
}

// Tools returns every tool in configuration order.
func (r *Registry) Tools() []*swap.Tool {
	tools := make([]*swap.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Close tears down every tool, flushing its state, then closes storage.
func (r *Registry) Close() error {
	for _, tool := range r.tools {
		tool.Close()
	}

	return r.store.Close()
}
