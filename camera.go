package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	mouseSensitivity = 0.7
	moveUnitsPerSec  = 320
)

// Camera walks the level in world units. The position stays in world
// space so the frame loop can feed it straight into the spatial queries;
// the view matrix negates it.
type Camera struct {
	xAngle        float32
	zAngle        float32
	position      mgl32.Vec3
	windowHandler *WindowHandler
}

// NewCamera places the camera on a spawn point with the given yaw in
// degrees.
func NewCamera(windowHandler *WindowHandler, origin [3]float32, yaw float32) *Camera {
	return &Camera{
		zAngle:        mgl32.DegToRad(yaw),
		position:      mgl32.Vec3{origin[0], origin[1], origin[2]},
		windowHandler: windowHandler,
	}
}

func (c *Camera) rotation() mgl32.Mat4 {
	m := mgl32.Ident4()
	m = m.Mul4(mgl32.HomogRotate3DX(c.xAngle - mgl32.DegToRad(90)))
	m = m.Mul4(mgl32.HomogRotate3DZ(c.zAngle))
	return m
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return c.rotation().Mul4(mgl32.Translate3D(-c.position.X(), -c.position.Y(), -c.position.Z()))
}

// WorldPosition feeds the leaf/cluster readout in the frame loop.
func (c *Camera) WorldPosition() [3]float32 {
	return [3]float32{c.position.X(), c.position.Y(), c.position.Z()}
}

// UpdateViewMatrix applies one frame of WASD movement and mouse look.
// Both axes can be active at once, so strafing while moving is possible.
func (c *Camera) UpdateViewMatrix() {
	speed := float32(moveUnitsPerSec * c.windowHandler.getTimeSinceLastFrame())
	input := c.windowHandler.inputHandler

	var dir mgl32.Vec4
	if input.isActive(PLAYER_FORWARD) {
		dir[2] -= speed
	}
	if input.isActive(PLAYER_BACKWARD) {
		dir[2] += speed
	}
	if input.isActive(PLAYER_LEFT) {
		dir[0] -= speed
	}
	if input.isActive(PLAYER_RIGHT) {
		dir[0] += speed
	}

	// Camera-space movement back into world space
	delta := c.rotation().Inv().Mul4x1(dir)
	c.position = c.position.Add(mgl32.Vec3{delta.X(), delta.Y(), delta.Z()})

	offset := input.getCursorChange()
	c.zAngle += float32(offset[0]*mouseSensitivity) * 0.025
	for c.zAngle < 0 {
		c.zAngle += math.Pi * 2
	}
	for c.zAngle >= math.Pi*2 {
		c.zAngle -= math.Pi * 2
	}

	c.xAngle += float32(offset[1]*mouseSensitivity) * 0.025
	if c.xAngle < -math.Pi*0.5 {
		c.xAngle = -math.Pi * 0.5
	}
	if c.xAngle > math.Pi*0.5 {
		c.xAngle = math.Pi * 0.5
	}
}
