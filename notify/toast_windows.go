//go:build windows

package notify

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"syscall"
	"unsafe"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	procCreateWindowEx   = user32.NewProc("CreateWindowExW")
	procDefWindowProc    = user32.NewProc("DefWindowProcW")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procShowWindow       = user32.NewProc("ShowWindow")
	procGetSystemMetrics = user32.NewProc("GetSystemMetrics")
	procSetTimer         = user32.NewProc("SetTimer")
	procKillTimer        = user32.NewProc("KillTimer")
	procRegisterClassEx  = user32.NewProc("RegisterClassExW")
	procGetMessage       = user32.NewProc("GetMessageW")
	procDispatchMessage  = user32.NewProc("DispatchMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procBeginPaint       = user32.NewProc("BeginPaint")
	procEndPaint         = user32.NewProc("EndPaint")
	procDrawText         = user32.NewProc("DrawTextW")
	procLoadCursor       = user32.NewProc("LoadCursorW")
)

const (
	wsPopup        = 0x80000000
	wsBorder       = 0x00800000
	wsExNoActivate = 0x08000000
	wsExToolWindow = 0x00000080
	wsExTopmost    = 0x00000008
	wmDestroy      = 0x0002
	wmPaint        = 0x000F
	wmTimer        = 0x0113
	swShowNA       = 8
	smCxScreen     = 0
	smCyScreen     = 1
	dtWordBreak    = 0x00000010
	idcArrow       = 32512
	timerClose     = 1

	toastW         = 400
	toastH         = 90
	toastMargin    = 20
	toastLifetimeMs = 3000
)

type wndClassEx struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     syscall.Handle
	HIcon         syscall.Handle
	HCursor       syscall.Handle
	HbrBackground syscall.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       syscall.Handle
}

type point struct{ X, Y int32 }

type msgStruct struct {
	Hwnd    syscall.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type rect struct{ Left, Top, Right, Bottom int32 }

type paintStruct struct {
	Hdc         syscall.Handle
	FErase      int32
	RcPaint     rect
	FRestore    int32
	FIncUpdate  int32
	RgbReserved [32]byte
}

var (
	toastOnce  sync.Once
	toastQueue chan string
	toastText  string
	toastMu    sync.Mutex
)

// showToast queues the status text onto the single toast thread. The queue
// drops when full rather than block a capture flow on UI.
func showToast(text string) error {
	toastOnce.Do(startToastThread)
	select {
	case toastQueue <- text:
	default:
		log.Printf("notify: toast queue full, dropping %q", text)
	}
	return nil
}

// startToastThread runs one locked OS thread that shows queued toasts
// sequentially: a borderless topmost tool window in the bottom-right corner
// that closes itself after a few seconds.
func startToastThread() {
	toastQueue = make(chan string, 10)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		className, _ := syscall.UTF16PtrFromString("ShotbarToast")
		cursor, _, _ := procLoadCursor.Call(0, idcArrow)
		wc := wndClassEx{
			CbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
			LpfnWndProc:   syscall.NewCallback(toastWndProc),
			HCursor:       syscall.Handle(cursor),
			HbrBackground: syscall.Handle(6), // COLOR_WINDOW+1
			LpszClassName: className,
		}
		if atom, _, _ := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
			log.Printf("notify: failed to register toast window class")
			return
		}

		for text := range toastQueue {
			toastMu.Lock()
			toastText = text
			toastMu.Unlock()
			if err := runToast(className); err != nil {
				log.Printf("notify: toast error: %v", err)
			}
		}
	}()
}

func runToast(className *uint16) error {
	sw, _, _ := procGetSystemMetrics.Call(smCxScreen)
	sh, _, _ := procGetSystemMetrics.Call(smCyScreen)
	x := int32(sw) - toastW - toastMargin
	y := int32(sh) - toastH - 3*toastMargin

	title, _ := syscall.UTF16PtrFromString("shotbar")
	hwnd, _, _ := procCreateWindowEx.Call(
		wsExTopmost|wsExToolWindow|wsExNoActivate,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		wsPopup|wsBorder,
		uintptr(x), uintptr(y), toastW, toastH,
		0, 0, 0, 0,
	)
	if hwnd == 0 {
		return fmt.Errorf("create toast window")
	}
	procShowWindow.Call(hwnd, swShowNA)
	procSetTimer.Call(hwnd, timerClose, toastLifetimeMs, 0)

	// Pump messages until the close timer destroys the window.
	var m msgStruct
	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), hwnd, 0, 0)
		if ret == 0 || int(ret) == -1 {
			return nil
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func toastWndProc(hwnd syscall.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case wmPaint:
		var ps paintStruct
		hdc, _, _ := procBeginPaint.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&ps)))
		toastMu.Lock()
		text := toastText
		toastMu.Unlock()
		r := rect{Left: 10, Top: 10, Right: toastW - 10, Bottom: toastH - 10}
		textPtr, _ := syscall.UTF16PtrFromString(text)
		procDrawText.Call(hdc, uintptr(unsafe.Pointer(textPtr)), uintptr(^uint32(0)),
			uintptr(unsafe.Pointer(&r)), dtWordBreak)
		procEndPaint.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&ps)))
		return 0

	case wmTimer:
		if wParam == timerClose {
			procKillTimer.Call(uintptr(hwnd), timerClose)
			procDestroyWindow.Call(uintptr(hwnd))
		}
		return 0

	case wmDestroy:
		return 0
	}
	ret, _, _ := procDefWindowProc.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
	return ret
}
