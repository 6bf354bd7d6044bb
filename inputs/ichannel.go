package inputs

// Uniforms is the per-draw context the host rebuilds every frame and
// passes to the effect and its channels. The effect contract only reads
// ScreenTex; Time is part of the interface regardless and the output must
// not depend on it.
type Uniforms struct {
	Time       float32 // seconds since render start
	TimeDelta  float32
	Frame      int32
	FrameRate  float32
	Resolution [3]float32
	ScreenTex  *Texture
}

// Channel defines the contract for a screen-texture source.
type Channel interface {
	// CType reports the channel kind ("image", "video", "testcard").
	CType() string

	// Update is called once per frame, advancing the channel to the
	// frame described by the uniforms.
	Update(uniforms *Uniforms) error

	// Texture returns the current screen texture.
	Texture() *Texture

	// ChannelRes returns the resolution of the input channel as a vec3.
	ChannelRes() [3]float32

	// Close releases any resources held by the channel.
	Close() error
}
