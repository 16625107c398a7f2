package game

import "github.com/go-gl/mathgl/mgl32"

// Zone is one slice of the paddle. SpeedX and SpeedY replace the ball's
// speeds when it bounces off that slice.
type Zone struct {
	DirX   float32 `yaml:"dir_x" split_words:"true"`
	SpeedX float32 `yaml:"speed_x" split_words:"true"`
	SpeedY float32 `yaml:"speed_y" split_words:"true"`
}

type PaddleZones struct {
	FarLeft  Zone `yaml:"far_left" split_words:"true"`
	Left     Zone `yaml:"left"`
	Center   Zone `yaml:"center"`
	Right    Zone `yaml:"right"`
	FarRight Zone `yaml:"far_right" split_words:"true"`
}

func (z PaddleZones) At(id ZoneID) Zone {
	switch id {
	case ZoneFarLeft:
		return z.FarLeft
	case ZoneLeft:
		return z.Left
	case ZoneRight:
		return z.Right
	case ZoneFarRight:
		return z.FarRight
	default:
		return z.Center
	}
}

// Config holds the playfield constants. The defaults are tuned to the
// fixed camera framing of the default scene.
type Config struct {
	BallRadius  float32 `yaml:"ball_radius" split_words:"true"`
	BrickRadius float32 `yaml:"brick_radius" split_words:"true"`

	WallX   float32 `yaml:"wall_x" split_words:"true"`
	WallTop float32 `yaml:"wall_top" split_words:"true"`

	PaddleBandY     float32     `yaml:"paddle_band_y" split_words:"true"`
	PaddleHalfWidth float32     `yaml:"paddle_half_width" split_words:"true"`
	PaddleInner     float32     `yaml:"paddle_inner" split_words:"true"`
	PaddleOuter     float32     `yaml:"paddle_outer" split_words:"true"`
	PaddleStep      float32     `yaml:"paddle_step" split_words:"true"`
	PaddleLimit     float32     `yaml:"paddle_limit" split_words:"true"`
	Zones           PaddleZones `yaml:"zones"`

	LossY float32 `yaml:"loss_y" split_words:"true"`

	InitialDirX   float32 `yaml:"initial_dir_x" split_words:"true"`
	InitialDirY   float32 `yaml:"initial_dir_y" split_words:"true"`
	InitialSpeedX float32 `yaml:"initial_speed_x" split_words:"true"`
	InitialSpeedY float32 `yaml:"initial_speed_y" split_words:"true"`

	Sentinel      mgl32.Vec3 `yaml:"-" ignored:"true"`
	OverlayShown  mgl32.Vec3 `yaml:"-" ignored:"true"`
	OverlayHidden mgl32.Vec3 `yaml:"-" ignored:"true"`
}

func DefaultConfig() Config {
	return Config{
		BallRadius:  0.3,
		BrickRadius: 0.63,

		WallX:   7.21,
		WallTop: -7.17,

		PaddleBandY:     5.36,
		PaddleHalfWidth: 1.44,
		PaddleInner:     0.288,
		PaddleOuter:     0.864,
		PaddleStep:      0.05,
		PaddleLimit:     6.12,
		Zones: PaddleZones{
			FarLeft:  Zone{DirX: -1, SpeedX: 0.030, SpeedY: 0.030},
			Left:     Zone{DirX: -1, SpeedX: 0.0122, SpeedY: 0.0296},
			Center:   Zone{DirX: 0, SpeedX: 0, SpeedY: 0.022},
			Right:    Zone{DirX: 1, SpeedX: 0.0122, SpeedY: 0.0296},
			FarRight: Zone{DirX: 1, SpeedX: 0.030, SpeedY: 0.030},
		},

		LossY: 6,

		InitialDirX:   0,
		InitialDirY:   1,
		InitialSpeedX: 0,
		InitialSpeedY: 0.013,

		Sentinel:      mgl32.Vec3{-10, 0, 0},
		OverlayShown:  mgl32.Vec3{0, 0, 4},
		OverlayHidden: mgl32.Vec3{0, 0, -50},
	}
}

// HitDistance is the center distance at or below which ball and brick touch.
func (c Config) HitDistance() float32 {
	return c.BallRadius + c.BrickRadius
}
