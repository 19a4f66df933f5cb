//go:build windows

package window

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"

	"shotbar/geom"
)

var (
	user32          = syscall.NewLazyDLL("user32.dll")
	procEnumWindows = user32.NewProc("EnumWindows")

	dwmapi                    = syscall.NewLazyDLL("dwmapi.dll")
	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
)

const dwmwaCloaked = 14

// Callback slots are a process-wide finite resource, so the EnumWindows
// callback is created once and the per-enumeration state lives behind a
// mutex.
var (
	enumMu      sync.Mutex
	enumOut     []Candidate
	enumMaxY    int
	enumVirtual geom.Rect
	enumCb      = syscall.NewCallback(func(hwnd win.HWND, _ uintptr) uintptr {
		if c, ok := inspectWindow(hwnd, enumMaxY, enumVirtual); ok {
			enumOut = append(enumOut, c)
		}
		return 1 // continue enumeration
	})
)

type winEnumerator struct{}

func newPlatformEnumerator() Enumerator { return winEnumerator{} }

func (winEnumerator) List() ([]Candidate, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	// Bottom of the virtual screen, for the pixel-to-point y-flip. In the
	// flipped space the virtual screen's bottom edge sits at y = 0.
	vx := int(win.GetSystemMetrics(win.SM_XVIRTUALSCREEN))
	vy := int(win.GetSystemMetrics(win.SM_YVIRTUALSCREEN))
	vw := int(win.GetSystemMetrics(win.SM_CXVIRTUALSCREEN))
	vh := int(win.GetSystemMetrics(win.SM_CYVIRTUALSCREEN))
	enumMaxY = vy + vh
	enumVirtual = geom.Rect{X: float64(vx), Y: 0, W: float64(vw), H: float64(vh)}
	enumOut = nil

	ret, _, _ := procEnumWindows.Call(enumCb, 0)
	if ret == 0 {
		log.Printf("window: EnumWindows reported failure, returning %d partial candidates", len(enumOut))
	}
	out := enumOut
	enumOut = nil
	return out, nil
}

func inspectWindow(hwnd win.HWND, unionMaxY int, virtual geom.Rect) (Candidate, bool) {
	if !win.IsWindowVisible(hwnd) || win.IsIconic(hwnd) {
		return Candidate{}, false
	}
	if isCloaked(hwnd) {
		// Cloaked windows are alive but drawn nowhere: suspended UWP apps and
		// windows parked on another virtual desktop.
		return Candidate{}, false
	}
	exStyle := uint32(win.GetWindowLong(hwnd, win.GWL_EXSTYLE))
	if exStyle&win.WS_EX_TOOLWINDOW != 0 {
		return Candidate{}, false
	}

	var titleBuf [256]uint16
	n := win.GetWindowText(hwnd, &titleBuf[0], int32(len(titleBuf)))
	if n == 0 {
		return Candidate{}, false
	}
	title := syscall.UTF16ToString(titleBuf[:n])

	var classBuf [256]uint16
	win.GetClassName(hwnd, &classBuf[0], len(classBuf))
	class := syscall.UTF16ToString(classBuf[:])

	var rect win.RECT
	if !win.GetWindowRect(hwnd, &rect) {
		return Candidate{}, false
	}

	var pid uint32
	win.GetWindowThreadProcessId(hwnd, &pid)

	frame := geom.Rect{
		X: float64(rect.Left),
		Y: float64(unionMaxY - int(rect.Bottom)),
		W: float64(rect.Right - rect.Left),
		H: float64(rect.Bottom - rect.Top),
	}
	return Candidate{
		Handle:   Handle(hwnd),
		App:      appForPID(pid),
		Title:    title,
		Class:    class,
		Frame:    frame,
		OnScreen: OnVirtualScreen(frame, virtual),
	}, true
}

func isCloaked(hwnd win.HWND) bool {
	var cloaked uint32
	ret, _, _ := procDwmGetWindowAttribute.Call(uintptr(hwnd), dwmwaCloaked,
		uintptr(unsafe.Pointer(&cloaked)), unsafe.Sizeof(cloaked))
	return ret == 0 && cloaked != 0
}

func (winEnumerator) FrontmostApp() (AppID, error) {
	hwnd := win.GetForegroundWindow()
	if hwnd == 0 {
		return "", nil
	}
	var pid uint32
	win.GetWindowThreadProcessId(hwnd, &pid)
	return appForPID(pid), nil
}

// appForPID maps a process id to a lower-cased executable base name.
func appForPID(pid uint32) AppID {
	if pid == 0 {
		return ""
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	exe := windows.UTF16ToString(buf[:size])
	return AppID(strings.ToLower(filepath.Base(exe)))
}
