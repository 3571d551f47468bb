// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	esc        key.Binding
	tab        key.Binding
	backtab    key.Binding
	quit       key.Binding
	forceQuit  key.Binding
	newItem    key.Binding
	sync       key.Binding
	retry      key.Binding
	cancelSync key.Binding
	edit       key.Binding
	delete     key.Binding
	status     key.Binding
	resolve    key.Binding
	signIn     key.Binding
	signOut    key.Binding
	info       key.Binding
	keepLocal  key.Binding
	keepRemote key.Binding
	keepCustom key.Binding
	yes        key.Binding
	no         key.Binding
}

var keys = keyMap{
	up:         key.NewBinding(key.WithKeys("up", "k")),
	down:       key.NewBinding(key.WithKeys("down", "j")),
	enter:      key.NewBinding(key.WithKeys("enter")),
	esc:        key.NewBinding(key.WithKeys("esc")),
	tab:        key.NewBinding(key.WithKeys("tab")),
	backtab:    key.NewBinding(key.WithKeys("shift+tab")),
	quit:       key.NewBinding(key.WithKeys("q")),
	forceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	newItem:    key.NewBinding(key.WithKeys("n")),
	sync:       key.NewBinding(key.WithKeys("s")),
	retry:      key.NewBinding(key.WithKeys("r")),
	cancelSync: key.NewBinding(key.WithKeys("x")),
	edit:       key.NewBinding(key.WithKeys("e")),
	delete:     key.NewBinding(key.WithKeys("d", "ctrl+d")),
	status:     key.NewBinding(key.WithKeys("i")),
	resolve:    key.NewBinding(key.WithKeys("c")),
	signIn:     key.NewBinding(key.WithKeys("a")),
	signOut:    key.NewBinding(key.WithKeys("o")),
	info:       key.NewBinding(key.WithKeys("v")),
	keepLocal:  key.NewBinding(key.WithKeys("l")),
	keepRemote: key.NewBinding(key.WithKeys("r")),
	keepCustom: key.NewBinding(key.WithKeys("m")),
	yes:        key.NewBinding(key.WithKeys("y")),
	no:         key.NewBinding(key.WithKeys("n", "esc")),
}
