package main

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

//go:embed icon.svg
var iconSvg []byte

var resourceIconSvg = fyne.NewStaticResource("icon.svg", iconSvg)
