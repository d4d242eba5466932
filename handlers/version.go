package handlers

import (
	"net/http"
	"runtime/debug"
	"sync"
)

// Version is overridden at build time with -ldflags "-X hotlist/handlers.Version=...".
var Version string

var resolveVersion = sync.OnceValue(func() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "unknown"
})

type VersionHandler struct{}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": resolveVersion()})
}
