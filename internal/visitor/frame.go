package visitor

// Frame types sent to the live client.
const (
	FrameRender  = "render"
	FrameScroll  = "scroll"
	FrameToast   = "toast"
	FramePersist = "persist"
	FrameError   = "error"
)

// Frame is one server-to-client message on the live connection.
type Frame struct {
	Type string `json:"type"`

	// render
	HTML string `json:"html,omitempty"`
	Lang string `json:"lang,omitempty"`

	// scroll
	Target string `json:"target,omitempty"`

	// toast
	Toast map[string]any `json:"toast,omitempty"`

	// persist
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`

	// error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Conn receives frames for one live connection.
type Conn interface {
	Send(Frame) error
}

// ConnFunc adapts a function to Conn.
type ConnFunc func(Frame) error

// Send calls f.
func (f ConnFunc) Send(fr Frame) error {
	return f(fr)
}
