// Package main provides the entry point for the Mockup Studio application.
package main

import (
	"log"

	fyneapp "fyne.io/fyne/v2/app"

	"mockup-studio/internal/app"
	"mockup-studio/internal/viewport"
	"mockup-studio/ui/mainwindow"
)

const (
	appTitle   = "Mockup Studio"
	appVersion = "0.1.0"

	// Default design canvas size in pixels. Matches the print template of
	// the wrap-around product mockup.
	canvasWidth  = 614
	canvasHeight = 230
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	a := fyneapp.New()

	// The 3D scene is an external collaborator; the software registry
	// stands in for it and receives the baked textures.
	registry := viewport.NewSoftwareRegistry(16)

	session := app.NewSession(canvasWidth, canvasHeight, registry, nil)

	win := mainwindow.New(a, session)
	win.Window().ShowAndRun()
}
