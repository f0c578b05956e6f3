package handler

import (
	"fmt"
	"os"
	"strconv"

	"github.com/uber/hotswap-lsp/src/hotswap/internal/serverinfofile"
)

const _pidKey = "pid"

// outputProcessInfo records the daemon's process id next to the address written by the JSON-RPC module,
// so that clients can tell a stale info file from a live daemon.
func outputProcessInfo(infofile serverinfofile.ServerInfoFile) error {
	if err := infofile.UpdateField(_pidKey, strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("outputting %q to info file: %w", _pidKey, err)
	}
	return nil
}
