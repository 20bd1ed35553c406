package main

import (
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/inrick/chip8-go/chip8"
)

// Keypad    =>  Keyboard
// |1|2|3|C|     |1|2|3|4|
// |4|5|6|D|     |Q|W|E|R|
// |7|8|9|E|     |A|S|D|F|
// |A|0|B|F|     |Z|X|C|V|
var keyMap = map[glfw.Key]uint8{
	glfw.Key1: 0x1, glfw.Key2: 0x2, glfw.Key3: 0x3, glfw.Key4: 0xc,
	glfw.KeyQ: 0x4, glfw.KeyW: 0x5, glfw.KeyE: 0x6, glfw.KeyR: 0xd,
	glfw.KeyA: 0x7, glfw.KeyS: 0x8, glfw.KeyD: 0x9, glfw.KeyF: 0xe,
	glfw.KeyZ: 0xa, glfw.KeyX: 0x0, glfw.KeyC: 0xb, glfw.KeyV: 0xf,
}

// keypad collects key events between two polls.
type keypad struct {
	keys  [chip8.NumKeys]bool
	reset bool
}

func (k *keypad) callback(
	window *glfw.Window, key glfw.Key, scancode int,
	action glfw.Action, mods glfw.ModifierKey) {
	switch key {
	case glfw.KeyEscape:
		window.SetShouldClose(true)
		return
	case glfw.KeyBackspace:
		if action == glfw.Press {
			k.reset = true
		}
		return
	}

	i, ok := keyMap[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		k.keys[i] = true
	case glfw.Release:
		k.keys[i] = false
	}
}

func (k *keypad) takeReset() bool {
	reset := k.reset
	k.reset = false
	return reset
}
