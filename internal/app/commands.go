package app

import (
	"github.com/vk/cmdbind/commands/echo"
	"github.com/vk/cmdbind/commands/envinfo"
	"github.com/vk/cmdbind/commands/httpcheck"
	"github.com/vk/cmdbind/commands/socketio"
	"github.com/vk/cmdbind/internal/registry"
)

// coreNamespaces are the namespaces dispatch scans by default.
var coreNamespaces = []string{"core", "net"}

// coreModules are the command packages registered when the caller does not
// supply its own set.
var coreModules = []registry.Module{
	&echo.Module{},
	&envinfo.Module{},
	&httpcheck.Module{},
	&socketio.Module{},
}
