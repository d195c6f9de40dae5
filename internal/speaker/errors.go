package speaker

import "errors"

var errClipboardUnsupported = errors.New("clipboard not supported on this system")
