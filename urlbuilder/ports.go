package urlbuilder

import "strings"

const (
	DefaultScheme = "http"
	DefaultHost   = "localhost"
	// NoPort is the port of a URL that does not name one explicitly and whose
	// scheme has no well-known default.
	NoPort = -1
)

var defaultPorts = map[string]int{
	"ftp":   21,
	"http":  80,
	"https": 443,
}

// DefaultPort returns the well-known port of scheme, if it has one.
func DefaultPort(scheme string) (port int, ok bool) {
	port, ok = defaultPorts[strings.ToLower(scheme)]
	return port, ok
}
