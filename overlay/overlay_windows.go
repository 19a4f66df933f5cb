//go:build windows

package overlay

import (
	"context"
	"fmt"
	"image"
	"log"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"

	"shotbar/display"
	"shotbar/mapper"
)

const (
	keyPollTimerID    = 1
	keyPollIntervalMs = 25
	overlayAlpha      = 96 // out of 255, dims everything under the surface
)

var (
	user32DLL                    = syscall.NewLazyDLL("user32.dll")
	procAllowSetForegroundWindow = user32DLL.NewProc("AllowSetForegroundWindow")
	procGetAsyncKeyState         = user32DLL.NewProc("GetAsyncKeyState")
	procSetLayeredWindowAttrs    = user32DLL.NewProc("SetLayeredWindowAttributes")
)

// windowsSelector shows one borderless topmost layered window per attached
// screen and funnels its mouse/keyboard traffic into the shared Interaction
// machine. The machine owns all selection geometry; this file is Win32
// plumbing only.
type windowsSelector struct {
	provider    display.Provider
	interaction *Interaction

	screens []display.ScreenDescriptor
	hwnds   []win.HWND
	done    chan outcome
}

type outcome struct {
	sel       mapper.SelectionRegion
	completed bool
}

// activeSelector is the instance whose message loop is running. The
// Interaction CAS rejects concurrent Select calls before this is ever
// written twice.
var activeSelector *windowsSelector

func newPlatformSelector(provider display.Provider) Selector {
	return &windowsSelector{
		provider:    provider,
		interaction: NewInteraction(),
	}
}

func (s *windowsSelector) Select(ctx context.Context) (mapper.SelectionRegion, bool, error) {
	screens, err := s.provider.Screens()
	if err != nil {
		return mapper.SelectionRegion{}, false, fmt.Errorf("enumerate displays: %w", err)
	}
	if err := s.interaction.Arm(screens); err != nil {
		return mapper.SelectionRegion{}, false, err
	}

	s.screens = screens
	s.done = make(chan outcome, 1)
	activeSelector = s
	defer func() { activeSelector = nil }()

	className := syscall.StringToUTF16Ptr(fmt.Sprintf("ShotbarOverlay_%d", time.Now().UnixNano()))
	crossCursor := win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_CROSS))
	wndClass := win.WNDCLASSEX{
		CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
		Style:         win.CS_HREDRAW | win.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(overlayWndProc),
		HInstance:     win.GetModuleHandle(nil),
		HCursor:       crossCursor,
		HbrBackground: win.HBRUSH(win.GetStockObject(win.BLACK_BRUSH)),
		LpszClassName: className,
	}
	if win.RegisterClassEx(&wndClass) == 0 {
		s.interaction.Cancel()
		return mapper.SelectionRegion{}, false, fmt.Errorf("failed to register overlay window class")
	}
	defer win.UnregisterClass(className)

	// One surface per screen, sized to that screen's full pixel bounds.
	for _, scr := range screens {
		b := scr.PixelBounds
		hwnd := win.CreateWindowEx(
			win.WS_EX_TOPMOST|win.WS_EX_LAYERED|win.WS_EX_TOOLWINDOW,
			className,
			syscall.StringToUTF16Ptr("Drag to select, ESC cancels"),
			win.WS_POPUP,
			int32(b.Min.X), int32(b.Min.Y), int32(b.Dx()), int32(b.Dy()),
			0, 0, win.GetModuleHandle(nil), nil,
		)
		if hwnd == 0 {
			s.teardownSurfaces()
			s.interaction.Cancel()
			return mapper.SelectionRegion{}, false, fmt.Errorf("failed to create overlay surface")
		}
		procSetLayeredWindowAttrs.Call(uintptr(hwnd), 0, overlayAlpha, 0x02 /*LWA_ALPHA*/)
		s.hwnds = append(s.hwnds, hwnd)
	}
	for _, hwnd := range s.hwnds {
		win.ShowWindow(hwnd, win.SW_SHOW)
		win.UpdateWindow(hwnd)
	}
	procAllowSetForegroundWindow.Call(uintptr(win.GetCurrentThreadId()))
	win.SetForegroundWindow(s.hwnds[0])
	win.SetFocus(s.hwnds[0])
	win.SetTimer(s.hwnds[0], keyPollTimerID, keyPollIntervalMs, 0)

	var msg win.MSG
	for {
		select {
		case <-ctx.Done():
			s.teardownSurfaces()
			s.interaction.Cancel()
			return mapper.SelectionRegion{}, false, ctx.Err()
		case out := <-s.done:
			// Surfaces are destroyed before the outcome is posted, so the
			// caller never observes a live overlay after this return.
			if !out.completed {
				return mapper.SelectionRegion{}, true, nil
			}
			return out.sel, false, nil
		default:
		}
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 || ret == -1 {
			s.teardownSurfaces()
			s.interaction.Cancel()
			return mapper.SelectionRegion{}, true, nil
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

// finish tears every surface down, then posts the outcome.
func (s *windowsSelector) finish(sel mapper.SelectionRegion, completed bool) {
	s.teardownSurfaces()
	select {
	case s.done <- outcome{sel: sel, completed: completed}:
	default:
	}
}

func (s *windowsSelector) teardownSurfaces() {
	if len(s.hwnds) > 0 {
		win.KillTimer(s.hwnds[0], keyPollTimerID)
	}
	for _, hwnd := range s.hwnds {
		win.DestroyWindow(hwnd)
	}
	s.hwnds = nil
}

// pointAt converts a client-area mouse position on hwnd to capture-space
// pixels.
func (s *windowsSelector) pointAt(hwnd win.HWND, lParam uintptr) (image.Point, bool) {
	for i, h := range s.hwnds {
		if h == hwnd {
			b := s.screens[i].PixelBounds
			x := int(int16(win.LOWORD(uint32(lParam)))) + b.Min.X
			y := int(int16(win.HIWORD(uint32(lParam)))) + b.Min.Y
			return image.Pt(x, y), true
		}
	}
	return image.Point{}, false
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	s := activeSelector
	if s == nil {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	switch msg {
	case win.WM_LBUTTONDOWN:
		if px, ok := s.pointAt(hwnd, lParam); ok {
			if p, ok := display.PointFromCapturePixel(s.screens, px); ok {
				win.SetCapture(hwnd)
				s.interaction.PointerDown(p)
			}
		}
		return 0

	case win.WM_MOUSEMOVE:
		if px, ok := s.pointAt(hwnd, lParam); ok {
			if p, ok := display.PointFromCapturePixel(s.screens, px); ok {
				s.interaction.PointerMove(p)
				win.InvalidateRect(hwnd, nil, false)
				win.UpdateWindow(hwnd)
			}
		}
		return 0

	case win.WM_LBUTTONUP:
		if s.interaction.State() == StateDragging {
			win.ReleaseCapture()
			px, _ := s.pointAt(hwnd, lParam)
			p, _ := display.PointFromCapturePixel(s.screens, px)
			sel, completed := s.interaction.PointerUp(p)
			if !completed {
				log.Printf("overlay: selection below minimum, treating as cancel")
			}
			s.finish(sel, completed)
		}
		return 0

	case win.WM_TIMER:
		if wParam == keyPollTimerID && escapeDown() {
			s.interaction.Cancel()
			s.finish(mapper.SelectionRegion{}, false)
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		s.paintSelection(hwnd, hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_DESTROY:
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

// paintSelection draws the dashed selection border on the origin surface.
func (s *windowsSelector) paintSelection(hwnd win.HWND, hdc win.HDC) {
	frame, ok := s.interaction.Frame()
	if !ok {
		return
	}
	idx := -1
	for i, h := range s.hwnds {
		if h == hwnd {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	scr := s.screens[idx]
	scaleX := float64(scr.PixelW) / scr.Frame.W
	scaleY := float64(scr.PixelH) / scr.Frame.H

	// Point-space frame (bottom-left origin) to surface-local pixels
	// (top-left origin).
	left := int32((frame.X - scr.Frame.X) * scaleX)
	top := int32((scr.Frame.MaxY() - frame.MaxY()) * scaleY)
	right := left + int32(frame.W*scaleX)
	bottom := top + int32(frame.H*scaleY)

	pen := win.CreatePen(win.PS_DASH, 1, 0x00FFFFFF)
	oldPen := win.SelectObject(hdc, win.HGDIOBJ(pen))
	oldBrush := win.SelectObject(hdc, win.GetStockObject(win.NULL_BRUSH))
	win.Rectangle_(hdc, left, top, right, bottom)
	win.SelectObject(hdc, oldBrush)
	win.SelectObject(hdc, oldPen)
	win.DeleteObject(win.HGDIOBJ(pen))
}

func escapeDown() bool {
	const vkEscape = 0x1B
	ret, _, _ := procGetAsyncKeyState.Call(uintptr(vkEscape))
	return ret&0x8000 != 0
}
