package screen

// This file follows the teacher's fixed-capability-set pattern (see
// _examples/danielgatis-go-headless-term/providers.go): every external collaborator the
// screen engine talks to is a small interface with a Noop default, so a
// caller that doesn't care about bells or clipboards need not implement
// anything.

// BellProvider handles BEL (0x07).
type BellProvider interface {
	Bell()
}

type NoopBell struct{}

func (NoopBell) Bell() {}

var _ BellProvider = (*NoopBell)(nil)

// TitleProvider handles OSC 0/1/2 window/icon title changes.
type TitleProvider interface {
	SetTitle(kind TitleKind, title string)
}

type TitleKind uint8

const (
	TitleIcon TitleKind = iota
	TitleWindow
	TitleBoth
)

type NoopTitle struct{}

func (NoopTitle) SetTitle(TitleKind, string) {}

var _ TitleProvider = (*NoopTitle)(nil)

// ClipboardProvider handles OSC 52 clipboard read/write requests.
type ClipboardProvider interface {
	WriteClipboard(selection string, data []byte)
	ReadClipboard(selection string) []byte
}

type NoopClipboard struct{}

func (NoopClipboard) WriteClipboard(string, []byte) {}
func (NoopClipboard) ReadClipboard(string) []byte    { return nil }

var _ ClipboardProvider = (*NoopClipboard)(nil)

// NotifyProvider handles OSC 9/777 desktop notification requests.
type NotifyProvider interface {
	Notify(title, body string)
}

type NoopNotify struct{}

func (NoopNotify) Notify(string, string) {}

var _ NotifyProvider = (*NoopNotify)(nil)

// PermissionProvider is consulted before honoring a capability-gated
// request per spec's permission-prompt requirement. The screen asks for
// "clipboard-read" and "clipboard-write" (OSC 52) only.
type PermissionProvider interface {
	RequestPermission(capability string) bool
}

type AllowAllPermissions struct{}

func (AllowAllPermissions) RequestPermission(string) bool { return true }

var _ PermissionProvider = (*AllowAllPermissions)(nil)

// SemanticPromptHandler handles OSC 133 shell-integration marks.
type SemanticPromptHandler interface {
	OnMark(mark PromptMarkType, exitCode int)
}

type NoopSemanticPromptHandler struct{}

func (NoopSemanticPromptHandler) OnMark(PromptMarkType, int) {}

var _ SemanticPromptHandler = (*NoopSemanticPromptHandler)(nil)
