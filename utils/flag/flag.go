/*
flag Package sets up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	ServiceName = flag.String("service", APIServer, "name of the service reported in logs and traces")
	ByPassAuth  = flag.Bool("no_auth", false, "skip the viewer middleware, every request is anonymous. local runs only")
)

// ParseFlags must be called once from main before any flag is read.
func ParseFlags() {
	flag.Parse()
}
