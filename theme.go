/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"sync"

	"github.com/Seednode/teamswap/storage"
)

const themeKey = "soopi-utils.theme"

const (
	themeLight = "light"
	themeDark  = "dark"
)

// Theme is the process-wide colour scheme preference shared by every page.
type Theme struct {
	store *storage.Store

	mu    sync.Mutex
	value string
}

func loadTheme(store *storage.Store) *Theme {
	t := &Theme{store: store, value: themeLight}

	if stored, ok := store.Get(themeKey); ok && (stored == themeLight || stored == themeDark) {
		t.value = stored
	}

	return t
}

func (t *Theme) Get() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.value
}

// Toggle flips between light and dark and persists the choice.
func (t *Theme) Toggle() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.value == themeDark {
		t.value = themeLight
	} else {
		t.value = themeDark
	}
	t.store.Set(themeKey, t.value)

	return t.value
}
