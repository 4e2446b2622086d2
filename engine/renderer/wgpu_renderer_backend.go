package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/maki-go/common"
	"github.com/Carmen-Shannon/maki-go/engine/camera"
	"github.com/Carmen-Shannon/maki-go/engine/mesh"
	"github.com/Carmen-Shannon/maki-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

type wgpuRendererBackendImpl struct {
	window window.Window

	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	// Frame state for the single render pass of a frame
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	released bool
}

var _ rendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend opens the window, then creates the surface, adapter and device for it.
// Window events are routed to r.
func newWGPURendererBackend(r *renderer) (*wgpuRendererBackendImpl, error) {
	win, err := window.NewWindow(
		window.WithTitle(r.title),
		window.WithSize(r.width, r.height),
	)
	if err != nil {
		return nil, err
	}

	b := &wgpuRendererBackendImpl{
		window:      win,
		instance:    wgpu.CreateInstance(nil),
		sampleCount: r.msaa,
		presentMode: wgpu.PresentModeFifo,
	}
	if r.presentMode == PresentModeUncapped {
		b.presentMode = wgpu.PresentModeImmediate
	}
	b.surface = b.instance.CreateSurface(win.SurfaceDescriptor())

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		b.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.ConfigureSurface(win.Width(), win.Height()); err != nil {
		b.Release()
		return nil, err
	}
	r.onResize(win.Width(), win.Height())

	win.SetResizeCallback(func(width, height int) {
		if err := b.ConfigureSurface(width, height); err != nil {
			common.Logger().Error("surface reconfigure failed", "width", width, "height", height, "error", err)
			return
		}
		r.onResize(width, height)
	})
	win.SetKeyDownCallback(r.onKeyDown)
	win.SetKeyUpCallback(r.onKeyUp)
	win.SetFocusCallback(r.onFocus)
	win.SetCloseCallback(r.Terminate)

	return b, nil
}

// ConfigureSurface (re)configures the swapchain and the MSAA and depth targets for a framebuffer size.
// A zero-sized framebuffer (minimised window) is ignored.
func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return errors.New("surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if msaaEnabled {
		// The render pass draws into the MSAA texture; the resolved result is
		// written to the swapchain view as the ResolveTarget.
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("create msaa texture: %w", err)
		}
		b.msaaTexture = tex
		if b.msaaTextureView, err = tex.CreateView(nil); err != nil {
			return fmt.Errorf("create msaa view: %w", err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	b.depthTexture = depth
	if b.depthTextureView, err = depth.CreateView(nil); err != nil {
		return fmt.Errorf("create depth view: %w", err)
	}

	// When MSAA is enabled, View is the MSAA texture and ResolveTarget is
	// set per-frame to the swapchain view. When disabled, View is set
	// per-frame to the swapchain view and ResolveTarget remains nil.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

func (b *wgpuRendererBackendImpl) SetClearColor(c [4]float64) {
	b.clearColor = wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	if b.released {
		return ErrReleased
	}
	if b.renderPassDescriptor == nil {
		return errors.New("surface not configured")
	}
	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(b.renderPassDescriptor)
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(m Mesh, s Shader) error {
	wm, ok := m.(*wgpuMesh)
	if !ok {
		return fmt.Errorf("mesh %q was not created by the wgpu backend", m.Label())
	}
	ws, ok := s.(*wgpuShader)
	if !ok {
		return fmt.Errorf("shader %q was not created by the wgpu backend", s.Label())
	}
	if wm.vertexBuffer == nil || ws.pipeline == nil {
		return ErrReleased
	}

	b.framePass.SetPipeline(ws.pipeline)
	b.framePass.SetBindGroup(0, ws.bindGroup, nil)
	b.framePass.SetVertexBuffer(0, wm.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(wm.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(wm.indexCount), 1, 0, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err == nil {
		b.queue.Submit(commandBuffer)
		commandBuffer.Release()
		b.surface.Present()
	} else {
		common.Logger().Error("command encoding failed", "error", err)
	}

	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.frameView.Release()
	b.frameView = nil
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) PollEvents() bool {
	if b.released {
		return false
	}
	return b.window.PollEvents()
}

func (b *wgpuRendererBackendImpl) CreateShader(label, vertexSource, fragmentSource string) (Shader, error) {
	if b.released {
		return nil, ErrReleased
	}
	s := &wgpuShader{label: label, queue: b.queue}

	var err error
	if s.vertexModule, err = b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + " Vertex",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: vertexSource},
	}); err != nil {
		return nil, err
	}
	if s.fragmentModule, err = b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label + " Fragment",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: fragmentSource},
	}); err != nil {
		s.Release()
		return nil, err
	}

	var uniform camera.GPUCameraUniform
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = uint64(uniform.Size())

	if s.bindGroupLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + " Camera Layout",
		Entries: []wgpu.BindGroupLayoutEntry{entry},
	}); err != nil {
		s.Release()
		return nil, fmt.Errorf("failed to create bind group layout: %w", err)
	}

	if s.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{s.bindGroupLayout},
	}); err != nil {
		s.Release()
		return nil, err
	}

	var vertex mesh.GPUVertex
	if s.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: s.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     s.vertexModule,
			EntryPoint: vertexEntryPoint,
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(vertex.Size()),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     s.fragmentModule,
			EntryPoint: fragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    b.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	}); err != nil {
		s.Release()
		return nil, err
	}

	if s.uniformBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Camera Uniform",
		Size:  uint64(uniform.Size()),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	}); err != nil {
		s.Release()
		return nil, err
	}

	if s.bindGroup, err = b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Camera Bind Group",
		Layout: s.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  s.uniformBuffer,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}},
	}); err != nil {
		s.Release()
		return nil, err
	}

	return s, nil
}

func (b *wgpuRendererBackendImpl) CreateMesh(label string, g mesh.Geometry) (Mesh, error) {
	if b.released {
		return nil, ErrReleased
	}
	vertexData := mesh.MarshalVertices(g.Vertices)
	indexData := mesh.MarshalIndices(g.Indices)

	m := &wgpuMesh{label: label, indexCount: len(g.Indices)}

	var err error
	if m.vertexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	}); err != nil {
		return nil, err
	}
	b.queue.WriteBuffer(m.vertexBuffer, 0, vertexData)

	if m.indexBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	}); err != nil {
		m.Release()
		return nil, err
	}
	b.queue.WriteBuffer(m.indexBuffer, 0, indexData)

	return m, nil
}

// Release frees GPU objects in reverse creation order, then closes the window.
func (b *wgpuRendererBackendImpl) Release() {
	if b.released {
		return
	}
	b.released = true

	b.releaseTargets()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	if err := b.window.Close(); err != nil {
		common.Logger().Warn("window close failed", "error", err)
	}
}

func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

// wgpuShader is a render pipeline plus its camera uniform buffer and bind group.
type wgpuShader struct {
	label string
	queue *wgpu.Queue

	vertexModule    *wgpu.ShaderModule
	fragmentModule  *wgpu.ShaderModule
	bindGroupLayout *wgpu.BindGroupLayout
	pipelineLayout  *wgpu.PipelineLayout
	pipeline        *wgpu.RenderPipeline
	uniformBuffer   *wgpu.Buffer
	bindGroup       *wgpu.BindGroup
}

var _ Shader = &wgpuShader{}

func (s *wgpuShader) Label() string {
	return s.label
}

func (s *wgpuShader) SetCameraUniform(u camera.GPUCameraUniform) {
	if s.uniformBuffer == nil {
		return
	}
	s.queue.WriteBuffer(s.uniformBuffer, 0, u.Marshal())
}

func (s *wgpuShader) Release() {
	if s.bindGroup != nil {
		s.bindGroup.Release()
		s.bindGroup = nil
	}
	if s.uniformBuffer != nil {
		s.uniformBuffer.Release()
		s.uniformBuffer = nil
	}
	if s.pipeline != nil {
		s.pipeline.Release()
		s.pipeline = nil
	}
	if s.pipelineLayout != nil {
		s.pipelineLayout.Release()
		s.pipelineLayout = nil
	}
	if s.bindGroupLayout != nil {
		s.bindGroupLayout.Release()
		s.bindGroupLayout = nil
	}
	if s.fragmentModule != nil {
		s.fragmentModule.Release()
		s.fragmentModule = nil
	}
	if s.vertexModule != nil {
		s.vertexModule.Release()
		s.vertexModule = nil
	}
}

// wgpuMesh holds the vertex and index buffers of one geometry.
type wgpuMesh struct {
	label        string
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

var _ Mesh = &wgpuMesh{}

func (m *wgpuMesh) Label() string {
	return m.label
}

func (m *wgpuMesh) IndexCount() int {
	return m.indexCount
}

func (m *wgpuMesh) Release() {
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
}
