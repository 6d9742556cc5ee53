package inject

// WellKnownNames defines the binding keys the bootstrap layer itself uses.
// Applications add their own keys alongside these.
type WellKnownNames struct {
	Application string
	Dispatcher  string
	Server      string
	Logger      string
}

// Names contains the well-known binding keys.
var Names = WellKnownNames{
	Application: "application",
	Dispatcher:  "dispatcher",
	Server:      "http_server",
	Logger:      "logger",
}
