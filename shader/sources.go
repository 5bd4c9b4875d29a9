package shader

// DefaultVertex is the stock vertex program used by the batch renderer. It
// forwards the packed color, UV and texture unit index to the fragment
// stage. Custom batch configurations may reuse it as-is.
var DefaultVertex = []byte(`#version 130
attribute vec2 aPos;
attribute vec2 aUV;
attribute vec4 aColor;
attribute float aTexID;

varying vec4 vColor;
varying vec2 vUV;
varying float vTexID;

uniform mat4 uProjection;

void main()
{
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vColor = aColor;
	vUV = aUV;
	vTexID = aTexID;
}
`)

// DefaultFragmentTemplate is the stock fragment template. Expand replaces
// the two placeholder tokens with the device's texture unit count and the
// per-unit sampling chain.
var DefaultFragmentTemplate = []byte(`#version 130
precision mediump float;

varying vec4 vColor;
varying vec2 vUV;
varying float vTexID;

uniform sampler2D uSamplers[%count%];

void main()
{
	vec4 color;
%forloop%
	gl_FragColor = color * vColor;
}
`)
