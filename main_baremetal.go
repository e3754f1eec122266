//go:build baremetal && 386

package main

import (
	"kcons/app"
	"kcons/hal"
)

func main() {
	app.Run(hal.New())
}
