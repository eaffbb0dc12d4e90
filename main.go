package main

import (
	"github.com/go-authgate/oauthprovider/cmd"
	"github.com/go-authgate/oauthprovider/internal/version"
)

func main() {
	cmd.SetVersion(version.String())
	cmd.Execute()
}
