package gpu

import "github.com/cogentcore/webgpu/wgpu"

// DepthFormat is the single depth format used by every pass in the
// pipeline; the depth sampler's bind group layouts assume it.
const DepthFormat = wgpu.TextureFormatDepth32Float

// DepthTexture bundles a depth attachment with the view the sampling
// passes bind.
type DepthTexture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
}

// NewDepthTexture creates a depth texture that can be both rendered to
// and sampled by a later pass.
func NewDepthTexture(device *wgpu.Device, width, height uint32, label string) (*DepthTexture, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &DepthTexture{Texture: tex, View: view}, nil
}

func (d *DepthTexture) Release() {
	if d == nil {
		return
	}
	if d.View != nil {
		d.View.Release()
	}
	if d.Texture != nil {
		d.Texture.Release()
	}
}
