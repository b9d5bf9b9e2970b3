package main

import (
	"github.com/lottopro/backend/cmd/app"
)

// @title          LottoPro API
// @version        1.0.0
// @description    Lottery combination predictions biased by historical draw statistics.
// @BasePath       /api
func main() {
	app.Run()
}
