// Command starter runs one of the go-starters sample servers
package main

import (
	"github.com/go-while/go-starters/internal/config"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	Execute()
}
