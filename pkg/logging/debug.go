package logging

// DebugEnable is set by the linker to build in verbose tracing of external
// commands and API calls, including their output bodies.
var DebugEnable string

// Debuggable reports whether this build traces command and request bodies.
var Debuggable = DebugEnable != ""
