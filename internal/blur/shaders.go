package blur

const vertexShader = `
attribute vec4 aPosition;
attribute vec2 aTexCoord;
varying vec2 vTexCoord;
void main() {
    gl_Position = aPosition;
    vTexCoord = aTexCoord;
}
`

// blendShader mixes the captured frame with the previous history frame.
const blendShader = `
precision mediump float;
varying vec2 vTexCoord;
uniform sampler2D uCurrentFrame;
uniform sampler2D uHistoryFrame;
uniform float uBlendFactor;
void main() {
    vec4 current = texture2D(uCurrentFrame, vTexCoord);
    vec4 history = texture2D(uHistoryFrame, vTexCoord);
    vec4 result = mix(current, history, uBlendFactor);
    gl_FragColor = vec4(result.rgb, 1.0);
}
`

// drawShader copies a texture with alpha forced opaque.
const drawShader = `
precision mediump float;
varying vec2 vTexCoord;
uniform sampler2D uTexture;
void main() {
    vec4 color = texture2D(uTexture, vTexCoord);
    gl_FragColor = vec4(color.rgb, 1.0);
}
`

// quadVertices is a full-screen quad, interleaved x, y, u, v.
var quadVertices = []float32{
	-1, 1, 0, 1,
	-1, -1, 0, 0,
	1, -1, 1, 0,
	1, 1, 1, 1,
}

var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

const (
	vertexStride   = 4 * 4
	texCoordOffset = 2 * 4
)
