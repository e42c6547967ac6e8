package main

import (
	"os"

	"github.com/binary-install/ubi/cmd"
	"github.com/binary-install/ubi/pkg/httpclient"
)

// version is set during build via -ldflags and reported in the User-Agent
// header of every HTTP request.
var version = "dev"

func main() {
	httpclient.Version = version
	os.Exit(cmd.Execute())
}
