package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// bloomFS blurs the particle layer with a small gaussian and scales it by
// strength. It is drawn additively over the sharp layer.
const bloomFS = `#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
uniform sampler2D texture0;
uniform vec2 resolution;
uniform float strength;
out vec4 finalColor;

void main() {
    vec2 px = 2.0 / resolution;
    vec3 sum = vec3(0.0);
    float total = 0.0;
    for (int x = -3; x <= 3; x++) {
        for (int y = -3; y <= 3; y++) {
            float w = exp(-float(x*x + y*y) / 8.0);
            sum += texture(texture0, fragTexCoord + vec2(x, y) * px).rgb * w;
            total += w;
        }
    }
    finalColor = vec4(sum / total * strength, 1.0);
}
`

// Bloom renders the particles into an offscreen layer and composites it
// with a glow.
type Bloom struct {
	Strength float32

	shader        rl.Shader
	strengthLoc   int32
	resolutionLoc int32
	target        rl.RenderTexture2D

	screenW, screenH int32
	initialized      bool
}

// NewBloom creates a bloom pass for a screen size.
func NewBloom(screenW, screenH int32, strength float32) *Bloom {
	return &Bloom{Strength: strength, screenW: screenW, screenH: screenH}
}

// Init loads the shader and layer (must be called after raylib window is created).
func (b *Bloom) Init() {
	if b.initialized {
		return
	}
	b.shader = rl.LoadShaderFromMemory("", bloomFS)
	b.strengthLoc = rl.GetShaderLocation(b.shader, "strength")
	b.resolutionLoc = rl.GetShaderLocation(b.shader, "resolution")
	b.target = rl.LoadRenderTexture(b.screenW, b.screenH)
	rl.SetTextureFilter(b.target.Texture, rl.FilterBilinear)
	b.initialized = true
}

// Begin redirects drawing into the particle layer.
func (b *Bloom) Begin() {
	if !b.initialized {
		b.Init()
	}
	rl.BeginTextureMode(b.target)
	rl.ClearBackground(rl.Black)
}

// End draws the layer to the screen, then its glow on top.
func (b *Bloom) End() {
	rl.EndTextureMode()

	// Render textures are stored upside down.
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(b.screenW), Height: -float32(b.screenH)}
	rl.DrawTextureRec(b.target.Texture, src, rl.Vector2{}, rl.White)
	if b.Strength <= 0 {
		return
	}

	rl.SetShaderValue(b.shader, b.strengthLoc, []float32{b.Strength}, rl.ShaderUniformFloat)
	rl.SetShaderValue(b.shader, b.resolutionLoc, []float32{float32(b.screenW), float32(b.screenH)}, rl.ShaderUniformVec2)
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.BeginShaderMode(b.shader)
	rl.DrawTextureRec(b.target.Texture, src, rl.Vector2{}, rl.White)
	rl.EndShaderMode()
	rl.EndBlendMode()
}

// Resize recreates the layer at a new screen size.
func (b *Bloom) Resize(screenW, screenH int32) {
	if screenW == b.screenW && screenH == b.screenH {
		return
	}
	b.screenW, b.screenH = screenW, screenH
	if b.initialized {
		rl.UnloadRenderTexture(b.target)
		b.target = rl.LoadRenderTexture(screenW, screenH)
		rl.SetTextureFilter(b.target.Texture, rl.FilterBilinear)
	}
}

// Unload frees resources.
func (b *Bloom) Unload() {
	if b.initialized {
		rl.UnloadShader(b.shader)
		rl.UnloadRenderTexture(b.target)
		b.initialized = false
	}
}
