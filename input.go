package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Action int

const (
	PLAYER_FORWARD Action = iota
	PLAYER_BACKWARD
	PLAYER_LEFT
	PLAYER_RIGHT
	PROGRAM_QUIT
)

type InputHandler struct {
	actionToKeyMap map[Action]glfw.Key
	keysPressed    [glfw.KeyLast]bool

	firstCursorAction bool
	cursor            [2]float64
	cursorChange      [2]float64
	cursorLast        [2]float64
}

func NewInputHandler() *InputHandler {
	actionToKeyMap := map[Action]glfw.Key{
		PLAYER_FORWARD:  glfw.KeyW,
		PLAYER_BACKWARD: glfw.KeyS,
		PLAYER_LEFT:     glfw.KeyA,
		PLAYER_RIGHT:    glfw.KeyD,
		PROGRAM_QUIT:    glfw.KeyEscape,
	}

	return &InputHandler{
		actionToKeyMap:    actionToKeyMap,
		firstCursorAction: true,
	}
}

func (handler *InputHandler) isActive(a Action) bool {
	return handler.keysPressed[handler.actionToKeyMap[a]]
}

func (handler *InputHandler) keyCallback(window *glfw.Window, key glfw.Key, scancode int,
	action glfw.Action, mods glfw.ModifierKey) {

	switch action {
	case glfw.Press:
		handler.keysPressed[key] = true
	case glfw.Release:
		handler.keysPressed[key] = false
	}
}

func (handler *InputHandler) mouseCallback(window *glfw.Window, xpos float64, ypos float64) {
	if handler.firstCursorAction {
		handler.cursorLast[0] = xpos
		handler.cursorLast[1] = ypos
		handler.firstCursorAction = false
	}
	handler.cursor[0] = xpos
	handler.cursor[1] = ypos
}

// updateCursor accumulates the cursor delta since the previous frame.
func (handler *InputHandler) updateCursor() {
	handler.cursorChange[0] = handler.cursor[0] - handler.cursorLast[0]
	handler.cursorChange[1] = handler.cursor[1] - handler.cursorLast[1]
	handler.cursorLast[0] = handler.cursor[0]
	handler.cursorLast[1] = handler.cursor[1]
}

func (handler *InputHandler) getCursorChange() [2]float64 {
	return handler.cursorChange
}
