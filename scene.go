package brickbreaker

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/gekko3d/brickbreaker/assets"
	"github.com/gekko3d/brickbreaker/game"
	"github.com/gekko3d/brickbreaker/gfx"
	"github.com/gekko3d/brickbreaker/guid"
	"github.com/gekko3d/brickbreaker/scene"
)

// AssetPaths names the resource files of the built-in scene, relative to
// the resource root.
type AssetPaths struct {
	VertexShader   string
	FragmentShader string

	SphereMesh string
	PaddleMesh string
	PlaneMesh  string

	BallTexture       string
	PaddleTexture     string
	BrickTexture      string
	BackgroundTexture string
	WinTexture        string
	LossTexture       string
}

func DefaultAssetPaths() AssetPaths {
	return AssetPaths{
		VertexShader:      "shaders/vertex_shader.wgsl",
		FragmentShader:    "shaders/frag_blinn_phong_textured.wgsl",
		SphereMesh:        "meshes/circle.obj",
		PaddleMesh:        "meshes/paddle.obj",
		PlaneMesh:         "meshes/background.obj",
		BallTexture:       "textures/ball.png",
		PaddleTexture:     "textures/paddle.png",
		BrickTexture:      "textures/brick.png",
		BackgroundTexture: "textures/background.png",
		WinTexture:        "textures/win.png",
		LossTexture:       "textures/loss.png",
	}
}

type meshRef int

const (
	meshSphere meshRef = iota
	meshPaddle
	meshPlane
)

type materialRef int

const (
	materialBall materialRef = iota
	materialPaddle
	materialBrick
	materialBackground
	materialWin
	materialLoss
)

// ObjectDef places one render object of the built-in scene.
type ObjectDef struct {
	Name     string
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
	mesh     meshRef
	material materialRef
}

type LightDef struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

type CameraDef struct {
	Position      mgl32.Vec3
	Target        mgl32.Vec3
	VerticalScale float32
}

// SceneDef is the layout of the built-in scene.
type SceneDef struct {
	Objects []ObjectDef
	Lights  []LightDef
	Camera  CameraDef
}

// brickLayout holds the five brick positions of the play field.
var brickLayout = []mgl32.Vec3{
	{-4.3, -4.5, 0},
	{-4.3, -0.52, 0},
	{0, -2.5, 0},
	{4.3, -4.5, 0},
	{4.3, -0.52, 0},
}

// DefaultSceneDef lays out the play field with the role names in r.
func DefaultSceneDef(r game.Roles) (SceneDef, error) {
	if len(r.Bricks) != len(brickLayout) {
		return SceneDef{}, fmt.Errorf("built-in layout has %d bricks, roles name %d", len(brickLayout), len(r.Bricks))
	}
	one := mgl32.Vec3{1, 1, 1}
	screen := mgl32.Vec3{-90, 0, 0}
	hidden := mgl32.Vec3{0, 0, -50}

	objects := []ObjectDef{
		{Name: r.Ball, Scale: mgl32.Vec3{0.3, 0.3, 0.3}, mesh: meshSphere, material: materialBall},
		{
			Name:     r.Paddle,
			Position: mgl32.Vec3{0, 5.8, 0},
			Rotation: mgl32.Vec3{180, -90, 0},
			Scale:    mgl32.Vec3{1, 0.484, 0.23},
			mesh:     meshPaddle,
			material: materialPaddle,
		},
	}
	for i, name := range r.Bricks {
		objects = append(objects, ObjectDef{
			Name:     name,
			Position: brickLayout[i],
			Scale:    mgl32.Vec3{0.7, 0.7, 0.7},
			mesh:     meshSphere,
			material: materialBrick,
		})
	}
	objects = append(objects,
		ObjectDef{Name: "back", Position: mgl32.Vec3{0, 0, -10}, Rotation: screen, Scale: one, mesh: meshPlane, material: materialBackground},
		ObjectDef{Name: r.WinOverlay, Position: hidden, Rotation: screen, Scale: one, mesh: meshPlane, material: materialWin},
		ObjectDef{Name: r.LossOverlay, Position: hidden, Rotation: screen, Scale: one, mesh: meshPlane, material: materialLoss},
	)

	return SceneDef{
		Objects: objects,
		Lights:  []LightDef{{Position: mgl32.Vec3{0, 0, -33}, Color: mgl32.Vec3{20, 20, 20}}},
		Camera:  CameraDef{Position: mgl32.Vec3{0, 0, 9}, VerticalScale: 15},
	}, nil
}

// SpawnScene creates the assets named by paths in reg and builds the scene
// described by def on top of them.
func SpawnScene(def SceneDef, reg *assets.Registry, paths AssetPaths) (*scene.Scene, error) {
	shader, err := reg.CreateShader(
		assets.ShaderPart{Stage: gfx.StageVertex, Path: paths.VertexShader},
		assets.ShaderPart{Stage: gfx.StageFragment, Path: paths.FragmentShader},
	)
	if err != nil {
		return nil, errors.WithMessage(err, "default shader")
	}

	meshes := make(map[meshRef]guid.Guid)
	for ref, path := range map[meshRef]string{
		meshSphere: paths.SphereMesh,
		meshPaddle: paths.PaddleMesh,
		meshPlane:  paths.PlaneMesh,
	} {
		id, err := reg.CreateMesh(path)
		if err != nil {
			return nil, err
		}
		meshes[ref] = id
	}

	s := scene.New()
	s.DefaultShader = shader

	materials := make(map[materialRef]guid.Guid)
	for _, m := range []struct {
		ref  materialRef
		name string
		path string
	}{
		{materialBall, "ball", paths.BallTexture},
		{materialPaddle, "paddle", paths.PaddleTexture},
		{materialBrick, "brick", paths.BrickTexture},
		{materialBackground, "background", paths.BackgroundTexture},
		{materialWin, "win", paths.WinTexture},
		{materialLoss, "loss", paths.LossTexture},
	} {
		tex, err := reg.CreateTexture(m.path)
		if err != nil {
			return nil, err
		}
		materials[m.ref] = s.AddMaterial(scene.NewMaterial(m.name, shader, tex, 1)).Guid
	}

	for _, l := range def.Lights {
		s.Lights = append(s.Lights, scene.NewLight(l.Position, l.Color))
	}

	s.Camera.SetPosition(def.Camera.Position)
	s.Camera.LookAt(def.Camera.Target)
	s.Camera.SetOrtho(true, def.Camera.VerticalScale)

	for _, d := range def.Objects {
		o := scene.NewRenderObject(d.Name)
		o.Position = d.Position
		o.Rotation = d.Rotation
		o.Scale = d.Scale
		o.Mesh = meshes[d.mesh]
		o.Material = materials[d.material]
		o.RecalcTransform()
		s.AddObject(o)
	}
	return s, nil
}
