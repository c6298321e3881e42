package publish

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// X11 sets the root window's WM_NAME, which dwm draws in its bar.
type X11 struct {
	conn *xgb.Conn
	root xproto.Window
}

// NewX11 connects to the display named by $DISPLAY.
func NewX11() (*X11, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	return &X11{conn: conn, root: root}, nil
}

// Publish replaces WM_NAME and waits for the server to acknowledge it.
func (x *X11) Publish(line string) error {
	data := []byte(line)
	err := xproto.ChangePropertyChecked(x.conn, xproto.PropModeReplace, x.root,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(data)), data).Check()
	if err != nil {
		return fmt.Errorf("failed to set root window name: %w", err)
	}
	return nil
}

// Close closes the X connection.
func (x *X11) Close() error {
	x.conn.Close()
	return nil
}
