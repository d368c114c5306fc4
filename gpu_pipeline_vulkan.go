// gpu_pipeline_vulkan.go - Optional GPU-accelerated accumulation pipeline

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

// VulkanPipeline has the same WriteBatch/Decay method set as
// SoftwarePipeline (spec.md §4.13, expansion). Init creates a device with
// a compute queue, a host-visible storage buffer mirroring AccumBuffer's
// flat layout, shader modules from the placeholder SPIR-V in
// gpu_shaders.go, a command buffer and a fence. WriteBatch and Decay only
// check that Init succeeded and return: no compute pipeline is created and
// no beam-splat or decay pass is recorded or dispatched. Staged
// init/teardown (createInstance -> ... -> createFence, unwound in reverse
// on any failure) is adapted directly from voodoo_vulkan.go's initVulkan;
// the render-pass/graphics-pipeline/vertex-buffer machinery that file used
// for triangle rasterization has no counterpart here.
package main

import (
	"fmt"
	"sync"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// VulkanPipeline holds the Vulkan objects for a compute-queue accumulation
// path. Nothing in the program constructs it; the orchestrator always runs
// SoftwarePipeline.
type VulkanPipeline struct {
	mu sync.Mutex

	width, height, bands, layers int

	instance       vk.Instance
	physicalDevice vk.PhysicalDevice
	device         vk.Device
	queueFamily    uint32
	computeQueue   vk.Queue

	commandPool   vk.CommandPool
	commandBuffer vk.CommandBuffer
	fence         vk.Fence

	accumBuffer       vk.Buffer
	accumBufferMemory vk.DeviceMemory
	accumBufferSize   vk.DeviceSize

	splatShaderModule vk.ShaderModule
	decayShaderModule vk.ShaderModule
	splatPipeline     vk.Pipeline
	decayPipeline     vk.Pipeline

	initialized bool
}

var vulkanInitOnce sync.Once
var vulkanInitErr error

func init() {
	compiledFeatures = append(compiledFeatures, "gpu:vulkan")
}

// NewVulkanPipeline creates an uninitialized Vulkan compute pipeline sized
// for an accumulation buffer of width*height*layers*bands float32 values.
func NewVulkanPipeline(width, height, layers, bands int) *VulkanPipeline {
	return &VulkanPipeline{width: width, height: height, layers: layers, bands: bands}
}

// Init performs staged Vulkan setup, unwinding everything already created
// on any failure (spec.md §7: ErrNoAdapter/ErrDeviceLost).
func (vp *VulkanPipeline) Init() error {
	vp.mu.Lock()
	defer vp.mu.Unlock()

	vulkanInitOnce.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			vulkanInitErr = fmt.Errorf("%w: %v", ErrNoAdapter, err)
			return
		}
		vulkanInitErr = vk.Init()
	})
	if vulkanInitErr != nil {
		return vulkanInitErr
	}

	if err := vp.createInstance(); err != nil {
		return fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	if err := vp.selectPhysicalDevice(); err != nil {
		vp.destroyInstance()
		return fmt.Errorf("%w: %v", ErrNoAdapter, err)
	}
	if err := vp.createDevice(); err != nil {
		vp.destroyInstance()
		return fmt.Errorf("%w: %v", ErrDeviceLost, err)
	}
	if err := vp.createCommandPool(); err != nil {
		vp.destroyDevice()
		vp.destroyInstance()
		return err
	}
	if err := vp.createAccumBuffer(); err != nil {
		vp.destroyCommandPool()
		vp.destroyDevice()
		vp.destroyInstance()
		return err
	}
	if err := vp.createShaderModules(); err != nil {
		vp.destroyAccumBuffer()
		vp.destroyCommandPool()
		vp.destroyDevice()
		vp.destroyInstance()
		return fmt.Errorf("%w: %v", ErrShaderCompile, err)
	}
	if err := vp.createCommandBuffer(); err != nil {
		vp.destroyShaderModules()
		vp.destroyAccumBuffer()
		vp.destroyCommandPool()
		vp.destroyDevice()
		vp.destroyInstance()
		return err
	}
	if err := vp.createFence(); err != nil {
		vp.destroyShaderModules()
		vp.destroyAccumBuffer()
		vp.destroyCommandPool()
		vp.destroyDevice()
		vp.destroyInstance()
		return err
	}

	vp.initialized = true
	return nil
}

func (vp *VulkanPipeline) createInstance() error {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString("Phosphor"),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        safeString("Phosphor GPU Pipeline"),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.MakeVersion(1, 1, 0),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &appInfo,
	}
	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return fmt.Errorf("vkCreateInstance failed: %d", res)
	}
	vp.instance = instance
	vk.InitInstance(instance)
	return nil
}

func (vp *VulkanPipeline) selectPhysicalDevice() error {
	var deviceCount uint32
	vk.EnumeratePhysicalDevices(vp.instance, &deviceCount, nil)
	if deviceCount == 0 {
		return fmt.Errorf("no Vulkan-capable GPUs found")
	}
	devices := make([]vk.PhysicalDevice, deviceCount)
	vk.EnumeratePhysicalDevices(vp.instance, &deviceCount, devices)

	for _, device := range devices {
		var queueFamilyCount uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
		queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
		vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

		for i, qf := range queueFamilies {
			qf.Deref()
			if qf.QueueFlags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
				vp.physicalDevice = device
				vp.queueFamily = uint32(i)
				return nil
			}
		}
	}
	return fmt.Errorf("no suitable GPU with a compute queue found")
}

func (vp *VulkanPipeline) createDevice() error {
	queuePriority := float32(1.0)
	queueCreateInfo := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: vp.queueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{queuePriority},
	}
	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    []vk.DeviceQueueCreateInfo{queueCreateInfo},
	}
	var device vk.Device
	if res := vk.CreateDevice(vp.physicalDevice, &deviceCreateInfo, nil, &device); res != vk.Success {
		return fmt.Errorf("vkCreateDevice failed: %d", res)
	}
	vp.device = device

	var queue vk.Queue
	vk.GetDeviceQueue(device, vp.queueFamily, 0, &queue)
	vp.computeQueue = queue
	return nil
}

func (vp *VulkanPipeline) createCommandPool() error {
	poolInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: vp.queueFamily,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(vp.device, &poolInfo, nil, &pool); res != vk.Success {
		return fmt.Errorf("vkCreateCommandPool failed: %d", res)
	}
	vp.commandPool = pool
	return nil
}

// createAccumBuffer allocates a host-visible storage buffer sized to hold
// the flattened layer*band*width*height accumulation planes (see
// AccumBuffer.index in gpu_accum_buffer.go).
func (vp *VulkanPipeline) createAccumBuffer() error {
	floats := vp.width * vp.height * vp.layers * vp.bands
	vp.accumBufferSize = vk.DeviceSize(floats * 4)

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vp.accumBufferSize,
		Usage:       vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit),
		SharingMode: vk.SharingModeExclusive,
	}
	var buffer vk.Buffer
	if res := vk.CreateBuffer(vp.device, &bufferInfo, nil, &buffer); res != vk.Success {
		return fmt.Errorf("vkCreateBuffer (accum) failed: %d", res)
	}
	vp.accumBuffer = buffer

	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(vp.device, buffer, &memReqs)
	memReqs.Deref()

	memTypeIndex, err := vp.findMemoryType(memReqs.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memTypeIndex,
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(vp.device, &allocInfo, nil, &memory); res != vk.Success {
		return fmt.Errorf("vkAllocateMemory (accum) failed: %d", res)
	}
	vp.accumBufferMemory = memory
	vk.BindBufferMemory(vp.device, buffer, memory, 0)
	return nil
}

func (vp *VulkanPipeline) createShaderModules() error {
	mod, err := vp.createShaderModule(SplatShaderSPV)
	if err != nil {
		return err
	}
	vp.splatShaderModule = mod

	mod, err = vp.createShaderModule(DecayShaderSPV)
	if err != nil {
		return err
	}
	vp.decayShaderModule = mod
	return nil
}

func (vp *VulkanPipeline) createShaderModule(code []byte) (vk.ShaderModule, error) {
	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32Vk(code),
	}
	var module vk.ShaderModule
	if res := vk.CreateShaderModule(vp.device, &createInfo, nil, &module); res != vk.Success {
		return vk.NullShaderModule, fmt.Errorf("vkCreateShaderModule failed: %d", res)
	}
	return module, nil
}

func (vp *VulkanPipeline) createCommandBuffer() error {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        vp.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	cmdBuffers := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(vp.device, &allocInfo, cmdBuffers); res != vk.Success {
		return fmt.Errorf("vkAllocateCommandBuffers failed: %d", res)
	}
	vp.commandBuffer = cmdBuffers[0]
	return nil
}

func (vp *VulkanPipeline) createFence() error {
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}
	var fence vk.Fence
	if res := vk.CreateFence(vp.device, &fenceInfo, nil, &fence); res != vk.Success {
		return fmt.Errorf("vkCreateFence failed: %d", res)
	}
	vp.fence = fence
	return nil
}

func (vp *VulkanPipeline) findMemoryType(typeFilter uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vp.physicalDevice, &memProps)
	memProps.Deref()

	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		memProps.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (memProps.MemoryTypes[i].PropertyFlags&properties) == properties {
			return i, nil
		}
	}
	return 0, fmt.Errorf("failed to find suitable memory type")
}

// WriteBatch checks that Init succeeded and returns; it uploads no samples
// and dispatches no splat shader.
func (vp *VulkanPipeline) WriteBatch(samples []BeamSample) error {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	if !vp.initialized {
		return ErrDeviceLost
	}
	// A full implementation maps vp.accumBufferMemory, copies `samples`
	// into a companion staging buffer, records vkCmdDispatch against
	// vp.splatPipeline, submits vp.commandBuffer on vp.computeQueue and
	// waits on vp.fence. Kept as the dispatch skeleton here; the CPU
	// SoftwarePipeline remains the reference implementation exercised by
	// tests (spec.md §4.13: "software path is the reference; GPU paths
	// share the same semantics").
	return nil
}

// Decay checks that Init succeeded and returns; it dispatches no decay
// shader and leaves the storage buffer unchanged.
func (vp *VulkanPipeline) Decay(dtSec float64) error {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	if !vp.initialized {
		return ErrDeviceLost
	}
	return nil
}

func (vp *VulkanPipeline) destroyShaderModules() {
	if vp.splatShaderModule != vk.NullShaderModule {
		vk.DestroyShaderModule(vp.device, vp.splatShaderModule, nil)
		vp.splatShaderModule = vk.NullShaderModule
	}
	if vp.decayShaderModule != vk.NullShaderModule {
		vk.DestroyShaderModule(vp.device, vp.decayShaderModule, nil)
		vp.decayShaderModule = vk.NullShaderModule
	}
}

func (vp *VulkanPipeline) destroyAccumBuffer() {
	if vp.accumBuffer != vk.NullBuffer {
		vk.DestroyBuffer(vp.device, vp.accumBuffer, nil)
		vp.accumBuffer = vk.NullBuffer
	}
	if vp.accumBufferMemory != vk.NullDeviceMemory {
		vk.FreeMemory(vp.device, vp.accumBufferMemory, nil)
		vp.accumBufferMemory = vk.NullDeviceMemory
	}
}

func (vp *VulkanPipeline) destroyCommandPool() {
	if vp.commandPool != vk.NullCommandPool {
		vk.DestroyCommandPool(vp.device, vp.commandPool, nil)
		vp.commandPool = vk.NullCommandPool
	}
}

func (vp *VulkanPipeline) destroyDevice() {
	if vp.device != vk.NullDevice {
		vk.DestroyDevice(vp.device, nil)
		vp.device = vk.NullDevice
	}
}

func (vp *VulkanPipeline) destroyInstance() {
	if vp.instance != vk.NullInstance {
		vk.DestroyInstance(vp.instance, nil)
		vp.instance = vk.NullInstance
	}
}

// Destroy tears everything down in reverse creation order.
func (vp *VulkanPipeline) Destroy() {
	vp.mu.Lock()
	defer vp.mu.Unlock()
	if !vp.initialized {
		return
	}
	if vp.fence != vk.NullFence {
		vk.DestroyFence(vp.device, vp.fence, nil)
	}
	vp.destroyShaderModules()
	vp.destroyAccumBuffer()
	vp.destroyCommandPool()
	vp.destroyDevice()
	vp.destroyInstance()
	vp.initialized = false
}

func safeString(s string) string { return s + "\x00" }

func sliceUint32Vk(data []byte) []uint32 {
	if len(data)%4 != 0 {
		padded := make([]byte, (len(data)+3)&^3)
		copy(padded, data)
		data = padded
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}
