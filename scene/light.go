package scene

import "github.com/go-gl/mathgl/mgl32"

const (
	DefaultLightRange = 4
	AmbientColor      = 0.1
	MaxLights         = 8
)

type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Range    float32
	// Attenuation is always 1/(1+Range); use SetRange.
	Attenuation float32
}

func NewLight(position, color mgl32.Vec3) Light {
	l := Light{Position: position, Color: color}
	l.SetRange(DefaultLightRange)
	return l
}

func (l *Light) SetRange(r float32) {
	l.Range = r
	l.Attenuation = AttenuationFor(r)
}

func AttenuationFor(r float32) float32 {
	return 1 / (1 + r)
}
