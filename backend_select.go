package triangle

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle/window"
)

// SelectBackend maps the platform hosting the window to the GPU backend
// used to create the instance: Win32 uses DX12, Cocoa uses Metal and every
// other platform uses Vulkan.
func SelectBackend(p window.Platform) gputypes.Backend {
	switch p {
	case window.PlatformWin32:
		return gputypes.BackendDX12
	case window.PlatformCocoa:
		return gputypes.BackendMetal
	default:
		return gputypes.BackendVulkan
	}
}
