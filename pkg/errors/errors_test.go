package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type testHandler struct {
	onError func(*ClockError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *ClockError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func useHandler(t *testing.T, h ErrorHandler) {
	t.Helper()
	old := DefaultHandler
	SetHandler(h)
	t.Cleanup(func() { SetHandler(old) })
}

func TestClockErrorString(t *testing.T) {
	err := &ClockError{
		Op:   "engine.render",
		Kind: KindRender,
		Err:  stderrors.New("screen gone"),
	}
	want := "engine.render [render]: screen gone"
	if got := err.Error(); got != want {
		t.Errorf("ClockError.Error() = %q, want %q", got, want)
	}
}

func TestClockErrorUnwrap(t *testing.T) {
	cause := stderrors.New("no such file")
	err := &ClockError{Op: "config.Load", Kind: KindConfig, Err: cause}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should see the wrapped cause")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfig, "config"},
		{KindInit, "init"},
		{KindDisplay, "display"},
		{KindRender, "render"},
		{KindPanic, "panic"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "engine.dispatch"
	if got, want := err.Error(), "panic in engine.dispatch: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReportSetsTimestamp(t *testing.T) {
	var captured *ClockError
	useHandler(t, &testHandler{onError: func(err *ClockError) { captured = err }})

	Report(&ClockError{Op: "display.Close", Kind: KindDisplay, Err: stderrors.New("x")})
	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "display.Close" {
		t.Errorf("Op = %q, want %q", captured.Op, "display.Close")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}

	captured = nil
	Report(nil)
	if captured != nil {
		t.Error("nil report should be ignored")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	useHandler(t, &testHandler{onPanic: func(err *PanicError) { captured = err }})

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if captured.StackTrace == "" {
		t.Error("expected a stack trace")
	}
}

func TestRecoverWithCallback(t *testing.T) {
	useHandler(t, &testHandler{})

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(42)
	}()
	if got != 42 {
		t.Errorf("callback received %v, want 42", got)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	useHandler(t, nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandlerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	prevOut := log.Logger.Out
	prevFormatter := log.Logger.Formatter
	log.Logger.SetOutput(&buf)
	log.Logger.SetFormatter(&logrus.JSONFormatter{})
	t.Cleanup(func() {
		log.Logger.SetOutput(prevOut)
		log.Logger.SetFormatter(prevFormatter)
	})

	h := &LogHandler{Verbose: true}
	h.HandleError(&ClockError{
		Op:         "engine.render",
		Kind:       KindRender,
		Err:        stderrors.New("screen gone"),
		StackTrace: "main.main",
	})
	out := buf.String()
	for _, want := range []string{`"op":"engine.render"`, `"kind":"render"`, `"stack":"main.main"`, "screen gone"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
